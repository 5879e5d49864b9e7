package blocks

import (
	"context"
	"errors"
	"testing"

	"github.com/aschepis/backscratcher/blocks/block"
	"github.com/aschepis/backscratcher/blocks/llm"
	"github.com/aschepis/backscratcher/blocks/llm/llmtest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModelCreationBlock(creator *llmtest.ModelCreator) *ModelCreationBlock {
	return NewModelCreationBlock(Deps{
		Generator:    llmtest.Respond(""),
		ModelCreator: creator,
		Logger:       zerolog.Nop(),
	})
}

func TestModelCreationBlock_Success(t *testing.T) {
	creator := llmtest.NewModelCreator(llmtest.Reply{Text: "success"})
	b := newModelCreationBlock(creator)

	seq, err := b.Execute(context.Background(), map[string]any{
		"model_name": "filipee",
		"modelfile":  "FROM llama3.1\nSYSTEM You are a volleyball player.",
	})
	require.NoError(t, err)
	assert.Equal(t, []block.Result{{Name: "status", Value: "success"}}, block.Collect(seq))
	assert.Equal(t, []llmtest.CreateCall{{
		Name:      "filipee",
		Modelfile: "FROM llama3.1\nSYSTEM You are a volleyball player.",
	}}, creator.Calls())
}

func TestModelCreationBlock_Defaults(t *testing.T) {
	creator := llmtest.NewModelCreator(llmtest.Reply{Text: "success"})
	b := newModelCreationBlock(creator)

	seq, err := b.Execute(context.Background(), nil)
	require.NoError(t, err)
	block.Collect(seq)

	require.Len(t, creator.Calls(), 1)
	assert.Equal(t, defaultModelName, creator.Calls()[0].Name)
	assert.Equal(t, defaultModelfile, creator.Calls()[0].Modelfile)

	def, ok := b.InputSchema().Default("model_name")
	require.True(t, ok)
	assert.Equal(t, defaultModelName, def)
}

func TestModelCreationBlock_FailsOnce(t *testing.T) {
	cause := llm.NewModelCreationError(llm.NewTransportError("unexpected status", 400, "bad", errors.New("400 Bad Request")))
	creator := llmtest.NewModelCreator(llmtest.Reply{Err: cause}, llmtest.Reply{Text: "success"})
	b := newModelCreationBlock(creator)

	seq, err := b.Execute(context.Background(), map[string]any{"model_name": "mario"})
	require.NoError(t, err)
	results := block.Collect(seq)

	require.Len(t, results, 1)
	assert.Equal(t, block.ErrorChannel, results[0].Name)
	assert.Contains(t, results[0].Value, "Failed to create the model")
	assert.Len(t, creator.Calls(), 1)
}
