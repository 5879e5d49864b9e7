package llm

import (
	"context"
)

// Generator submits a single prompt to the inference endpoint.
// Implementations make exactly one attempt; retrying is up to the caller.
type Generator interface {
	// Generate returns the full, non-streamed response text for prompt.
	Generate(ctx context.Context, prompt, model string) (string, error)
}

// ModelCreator creates custom models on the inference endpoint.
type ModelCreator interface {
	// CreateModel builds model name from modelfile and returns the reported status.
	CreateModel(ctx context.Context, name, modelfile string) (string, error)
}

// Client is an endpoint that can both generate and create models.
type Client interface {
	Generator
	ModelCreator
}
