package blocks

import (
	"context"
	"errors"
	"testing"

	"github.com/aschepis/backscratcher/blocks/block"
	"github.com/aschepis/backscratcher/blocks/llm"
	"github.com/aschepis/backscratcher/blocks/llm/llmtest"
	"github.com/aschepis/backscratcher/blocks/retry"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, deps Deps) *block.Registry {
	t.Helper()
	reg := block.NewRegistry(zerolog.Nop())
	require.NoError(t, RegisterAll(reg, deps))
	return reg
}

func TestRegisterAll_FixturesPass(t *testing.T) {
	reg := newTestRegistry(t, FixtureDeps(zerolog.Nop()))

	ids := make([]string, 0, 4)
	for _, b := range reg.List() {
		ids = append(ids, b.ID())
	}
	assert.ElementsMatch(t, []string{
		EchoBlockID,
		ModelCreationBlockID,
		LLMCallBlockID,
		ClassificationLLMCallBlockID,
	}, ids)

	assert.NoError(t, reg.VerifyAll(context.Background()))
}

func TestRegisterAll_RequiresEndpoint(t *testing.T) {
	reg := block.NewRegistry(zerolog.Nop())
	err := RegisterAll(reg, Deps{Generator: llmtest.Respond("x")})
	assert.Error(t, err)
	assert.Empty(t, reg.List())
}

func TestRegisterAll_Twice(t *testing.T) {
	reg := newTestRegistry(t, FixtureDeps(zerolog.Nop()))
	assert.Error(t, RegisterAll(reg, FixtureDeps(zerolog.Nop())))
}

func TestFixturesDeclareTheirChannels(t *testing.T) {
	reg := newTestRegistry(t, FixtureDeps(zerolog.Nop()))
	for _, b := range reg.List() {
		t.Run(b.ID(), func(t *testing.T) {
			assert.NotEmpty(t, b.Description())
			assert.NotEmpty(t, b.Categories())
			for _, ch := range b.Fixture().Output.Channels() {
				assert.True(t, b.OutputSchema().Has(ch), "channel %q", ch)
			}
			for _, name := range b.InputSchema().Required() {
				_, ok := b.InputSchema().Default(name)
				assert.False(t, ok, "required field %q has a default", name)
			}
		})
	}
}

func TestFailureMessage(t *testing.T) {
	exhausted := llm.NewRetryExhaustedError(retry.ExhaustedMessage, errors.New("connection reset"))
	assert.Equal(t, retry.ExhaustedMessage, failureMessage(exhausted))

	creation := llm.NewModelCreationError(errors.New("bad modelfile"))
	assert.Equal(t, "Failed to create the model: bad modelfile", failureMessage(creation))
}

func TestComposePrompt(t *testing.T) {
	assert.Equal(t, "Be terse.\nSummarize.", ComposePrompt("Be terse.", "Summarize."))
	assert.Equal(t, "Summarize.", ComposePrompt("", "Summarize."))
}
