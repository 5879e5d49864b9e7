package blocks

import (
	"context"
	"iter"

	"github.com/aschepis/backscratcher/blocks/block"
)

const EchoBlockID = "f7a8b9c0-1d2e-3f4g-5h6i-7j8k9l0m1n2o"

type EchoInput struct {
	Value string `json:"value" jsonschema:"description=The input value"`
}

type EchoOutput struct {
	Message string `json:"message" jsonschema:"description=The output message"`
}

// NewEchoBlock returns a block that echoes its input as a message.
func NewEchoBlock() *block.Typed[EchoInput] {
	return block.New[EchoInput, EchoOutput](block.Definition[EchoInput]{
		ID:          EchoBlockID,
		Description: "Echo the input value back as a message.",
		Categories:  []block.Category{block.CategoryBasic},
		Fixture: block.Fixture{
			Input:  map[string]any{"value": "Hello, AutoGPT!"},
			Output: block.ExpectFirst("message", "Hello, AutoGPT!"),
		},
	}, func(_ context.Context, in EchoInput) iter.Seq2[string, any] {
		return func(yield func(string, any) bool) {
			yield("message", in.Value)
		}
	})
}
