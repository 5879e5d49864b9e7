package block

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	require.NoError(t, reg.Register(newGreetBlock()))

	err := reg.Register(newGreetBlock())
	assert.Error(t, err, "duplicate ids must be rejected")

	b, ok := reg.Get("greet")
	require.True(t, ok)
	assert.Equal(t, "greet", b.ID())

	_, ok = reg.Get("missing")
	assert.False(t, ok)
}

func TestRegistry_ListIsSorted(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	for _, id := range []string{"zeta", "alpha", "mid"} {
		def := greetDefinition()
		def.ID = id
		require.NoError(t, reg.Register(New[greetInput, greetOutput](def, greet)))
	}

	var ids []string
	for _, b := range reg.List() {
		ids = append(ids, b.ID())
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, ids)
}

func TestRegistry_Run(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	require.NoError(t, reg.Register(newGreetBlock()))

	results, err := reg.Run(context.Background(), "greet", map[string]any{"name": "Ada", "times": 2})
	require.NoError(t, err)
	assert.Len(t, results, 2)

	_, err = reg.Run(context.Background(), "nope", nil)
	assert.ErrorContains(t, err, "unknown block")

	_, err = reg.Run(context.Background(), "greet", map[string]any{})
	assert.Error(t, err)
}

func TestRegistry_VerifyAll(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	require.NoError(t, reg.Register(newGreetBlock()))
	require.NoError(t, reg.VerifyAll(context.Background()))

	def := greetDefinition()
	def.ID = "broken"
	def.Fixture.Output = ExpectFirst("text", "Howdy Ada")
	require.NoError(t, reg.Register(New[greetInput, greetOutput](def, greet)))

	err := reg.VerifyAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "block broken")
	assert.NotContains(t, err.Error(), "block greet")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short"))

	long := strings.Repeat("a", maxLoggedValue+10)
	assert.Equal(t, long[:maxLoggedValue]+"... (truncated)", truncate(long))

	// "é" is two bytes; the cut lands inside the last one.
	accented := strings.Repeat("a", maxLoggedValue-1) + strings.Repeat("é", 5)
	got := truncate(accented)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", maxLoggedValue-1)+"... (truncated)", got)
}
