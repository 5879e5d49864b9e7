package blocks

import (
	"context"
	"iter"

	"github.com/aschepis/backscratcher/blocks/block"
	"github.com/aschepis/backscratcher/blocks/llm"
	"github.com/rs/zerolog"
)

const ModelCreationBlockID = "4d7b3eeb-5b89-4f8e-a0c6-8a735dd40f3a"

const (
	defaultModelName = "filipee"
	defaultModelfile = "FROM llama3.1\nSYSTEM You are a volleyball player."
)

type ModelCreationInput struct {
	ModelName string `json:"model_name,omitempty" jsonschema:"description=Name of the model to create"`
	Modelfile string `json:"modelfile,omitempty" jsonschema:"description=Modelfile the model is built from"`
}

type ModelCreationOutput struct {
	Status string `json:"status" jsonschema:"description=Status reported by the endpoint"`
	Error  string `json:"error" jsonschema:"description=Why the model could not be created"`
}

// ModelCreationBlock creates a custom model on the endpoint. It makes a single
// attempt; any failure is reported immediately.
type ModelCreationBlock struct {
	*block.Typed[ModelCreationInput]
	creator llm.ModelCreator
	logger  zerolog.Logger
}

// NewModelCreationBlock creates a new ModelCreationBlock.
func NewModelCreationBlock(deps Deps) *ModelCreationBlock {
	b := &ModelCreationBlock{
		creator: deps.ModelCreator,
		logger:  deps.Logger.With().Str("component", "block").Str("block", ModelCreationBlockID).Logger(),
	}
	b.Typed = block.New[ModelCreationInput, ModelCreationOutput](block.Definition[ModelCreationInput]{
		ID:          ModelCreationBlockID,
		Description: "Create a custom model on Ollama using the provided model name and modelfile.",
		Categories:  []block.Category{block.CategoryAI},
		Defaults: func() ModelCreationInput {
			return ModelCreationInput{ModelName: defaultModelName, Modelfile: defaultModelfile}
		},
		Fixture: block.Fixture{
			Input:  map[string]any{"model_name": defaultModelName, "modelfile": defaultModelfile},
			Output: block.ExpectAll(map[string]any{"status": "success"}),
		},
	}, b.run)
	return b
}

func (b *ModelCreationBlock) run(ctx context.Context, in ModelCreationInput) iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		b.logger.Debug().Str("model_name", in.ModelName).Msg("Creating model")
		status, err := b.creator.CreateModel(ctx, in.ModelName, in.Modelfile)
		if err != nil {
			yield(block.ErrorChannel, failureMessage(err))
			return
		}
		yield("status", status)
	}
}
