package blocks

import (
	"context"
	"iter"

	"github.com/aschepis/backscratcher/blocks/block"
	"github.com/aschepis/backscratcher/blocks/llm"
	"github.com/aschepis/backscratcher/blocks/retry"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

const LLMCallBlockID = "3f7b2dcb-4a78-4e3f-b0f1-88132e1b8df9"

// LLMCallInput is the input of both LLM call blocks.
type LLMCallInput struct {
	Prompt    string    `json:"prompt" jsonschema:"description=Prompt sent to the model"`
	Model     llm.Model `json:"model,omitempty" jsonschema:"description=Model to answer the prompt"`
	SysPrompt string    `json:"sys_prompt,omitempty" jsonschema:"description=System prompt placed before the prompt"`
	Retry     int       `json:"retry,omitempty" jsonschema:"description=Maximum number of attempts,minimum=0"`
}

type LLMCallOutput struct {
	Response string `json:"response" jsonschema:"description=Text generated by the model"`
	Error    string `json:"error" jsonschema:"description=Why no response could be generated"`
}

func modelEnum(models []llm.Model) []any {
	return lo.Map(models, func(m llm.Model, _ int) any { return string(m) })
}

// generator runs one retried generation for an LLM call input.
type generator struct {
	client llm.Generator
	policy retry.Policy
	logger zerolog.Logger
}

func newGenerator(id string, deps Deps) generator {
	return generator{
		client: deps.Generator,
		policy: deps.retryPolicy(id),
		logger: deps.Logger.With().Str("component", "block").Str("block", id).Logger(),
	}
}

func (g generator) generate(ctx context.Context, in LLMCallInput) (string, error) {
	prompt := ComposePrompt(in.SysPrompt, in.Prompt)
	tag := in.Model.Tag()
	g.logger.Debug().Str("model", tag).Int("attempts", in.Retry).Msg("Calling LLM")
	return retry.Do(ctx, g.policy.WithAttempts(in.Retry), func(ctx context.Context) (string, error) {
		return g.client.Generate(ctx, prompt, tag)
	})
}

// LLMCallBlock sends a prompt to a custom model, retrying failed calls.
type LLMCallBlock struct {
	*block.Typed[LLMCallInput]
	gen generator
}

// NewLLMCallBlock creates a new LLMCallBlock.
func NewLLMCallBlock(deps Deps) *LLMCallBlock {
	b := &LLMCallBlock{gen: newGenerator(LLMCallBlockID, deps)}
	b.Typed = block.New[LLMCallInput, LLMCallOutput](block.Definition[LLMCallInput]{
		ID:          LLMCallBlockID,
		Description: "Call a custom Large Language Model (LLM) hosted on a specific URL to generate a response based on the given prompt.",
		Categories:  []block.Category{block.CategoryAI},
		Defaults: func() LLMCallInput {
			return LLMCallInput{Model: llm.ModelCustomOllama, Retry: retry.DefaultAttempts}
		},
		Enums: map[string][]any{"model": modelEnum(llm.CustomModels())},
		Fixture: block.Fixture{
			Input:  map[string]any{"prompt": "User prompt"},
			Output: block.ExpectAll(map[string]any{"response": FixtureResponse}),
		},
	}, b.run)
	return b
}

func (b *LLMCallBlock) run(ctx context.Context, in LLMCallInput) iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		text, err := b.gen.generate(ctx, in)
		if err != nil {
			yield(block.ErrorChannel, failureMessage(err))
			return
		}
		yield("response", text)
	}
}
