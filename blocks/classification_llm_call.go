package blocks

import (
	"context"
	"iter"

	"github.com/aschepis/backscratcher/blocks/block"
	"github.com/aschepis/backscratcher/blocks/classify"
	"github.com/aschepis/backscratcher/blocks/llm"
	"github.com/aschepis/backscratcher/blocks/retry"
)

const ClassificationLLMCallBlockID = "a892b8d9-343e-4e9c-9c1e-75f8efcf1bfa"

type ClassificationLLMCallOutput struct {
	PositiveResponse string `json:"positive_response" jsonschema:"description=Response classified as positive"`
	NegativeResponse string `json:"negative_response" jsonschema:"description=Response classified as negative"`
	Error            string `json:"error" jsonschema:"description=Why no response could be generated"`
}

// ClassificationLLMCallBlock calls a model and routes the response to the
// positive or negative channel. Any successful attempt ends the run, whichever
// way it is classified.
type ClassificationLLMCallBlock struct {
	*block.Typed[LLMCallInput]
	gen generator
}

// NewClassificationLLMCallBlock creates a new ClassificationLLMCallBlock.
func NewClassificationLLMCallBlock(deps Deps) *ClassificationLLMCallBlock {
	b := &ClassificationLLMCallBlock{gen: newGenerator(ClassificationLLMCallBlockID, deps)}
	b.Typed = block.New[LLMCallInput, ClassificationLLMCallOutput](block.Definition[LLMCallInput]{
		ID:          ClassificationLLMCallBlockID,
		Description: "Call a custom LLM to classify the response as positive or negative and route accordingly.",
		Categories:  []block.Category{block.CategoryAI},
		Defaults: func() LLMCallInput {
			return LLMCallInput{Model: llm.ModelLlama31, Retry: retry.DefaultAttempts}
		},
		Enums: map[string][]any{"model": modelEnum(llm.ClassificationModels())},
		Fixture: block.Fixture{
			Input:  map[string]any{"prompt": "User prompt"},
			Output: block.ExpectAll(map[string]any{"negative_response": FixtureResponse}),
		},
	}, b.run)
	return b
}

func (b *ClassificationLLMCallBlock) run(ctx context.Context, in LLMCallInput) iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		text, err := b.gen.generate(ctx, in)
		if err != nil {
			yield(block.ErrorChannel, failureMessage(err))
			return
		}
		if classify.IsPositive(text) {
			yield("positive_response", text)
			return
		}
		yield("negative_response", text)
	}
}
