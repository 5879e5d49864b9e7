// Package block defines the contract every block obeys.
//
// A block declares a typed input and output, a unique id, a description,
// category tags and a self-test fixture. Running a block produces a lazy,
// finite sequence of named results, one (channel, value) pair at a time. Work
// failures never escape a run: they are reported on the "error" channel, which
// the output must declare for a block that can fail.
package block

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"

	"github.com/samber/lo"
)

// ErrorChannel is the output channel failures are reported on.
const ErrorChannel = "error"

// Category tags a block for discovery.
type Category string

const (
	CategoryAI    Category = "AI"
	CategoryBasic Category = "BASIC"
	CategoryText  Category = "TEXT"
)

// Result is one named output of a block run.
type Result struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Block is the runner-facing view of a block.
type Block interface {
	ID() string
	Description() string
	Categories() []Category
	InputSchema() *Schema
	OutputSchema() *Schema
	Fixture() Fixture

	// Execute validates input, fills missing fields with their defaults and
	// starts a run. The error reports invalid input only; once the sequence is
	// returned every failure is delivered on ErrorChannel.
	Execute(ctx context.Context, input map[string]any) (iter.Seq2[string, any], error)
}

// RunFunc performs a block's work on a fully populated input.
type RunFunc[In any] func(ctx context.Context, in In) iter.Seq2[string, any]

// Definition describes a block at registration time.
type Definition[In any] struct {
	ID          string
	Description string
	Categories  []Category

	// Defaults returns an input holding every declared default. Nil means the zero value.
	Defaults func() In

	// Enums restricts input fields to a closed set of values.
	Enums map[string][]any

	Fixture Fixture
}

// Typed is a Block whose input is the Go struct In.
type Typed[In any] struct {
	def    Definition[In]
	input  *Schema
	output *Schema
	run    RunFunc[In]
}

var _ Block = (*Typed[struct{}])(nil)

// New builds a block from its definition. Out is the output struct; only its
// fields matter. New panics when the definition is not self-consistent, since
// that is a wiring defect found at registration time.
func New[In, Out any](def Definition[In], run RunFunc[In]) *Typed[In] {
	if def.ID == "" {
		panic("block: definition without id")
	}
	if run == nil {
		panic(fmt.Sprintf("block %s: nil run function", def.ID))
	}
	def.Categories = lo.Uniq(def.Categories)

	b := &Typed[In]{def: def, run: run}

	var err error
	var defaults any
	if def.Defaults != nil {
		defaults = def.Defaults()
	}
	b.input, err = reflectSchema(new(In), def.Enums, defaults)
	if err != nil {
		panic(fmt.Sprintf("block %s: input schema: %v", def.ID, err))
	}
	b.output, err = reflectSchema(new(Out), nil, nil)
	if err != nil {
		panic(fmt.Sprintf("block %s: output schema: %v", def.ID, err))
	}

	for _, ch := range def.Fixture.Output.Channels() {
		if !b.output.Has(ch) {
			panic(fmt.Sprintf("block %s: fixture expects undeclared channel %q", def.ID, ch))
		}
	}
	return b
}

// ID returns the block's stable unique identifier.
func (b *Typed[In]) ID() string { return b.def.ID }

// Description returns the human-readable description.
func (b *Typed[In]) Description() string { return b.def.Description }

// Categories returns the block's category tags.
func (b *Typed[In]) Categories() []Category {
	return append([]Category(nil), b.def.Categories...)
}

// InputSchema returns the declared input fields.
func (b *Typed[In]) InputSchema() *Schema { return b.input }

// OutputSchema returns the declared output channels.
func (b *Typed[In]) OutputSchema() *Schema { return b.output }

// Fixture returns the self-test fixture.
func (b *Typed[In]) Fixture() Fixture { return b.def.Fixture }

// Defaults returns a fresh input holding the declared defaults.
func (b *Typed[In]) Defaults() In {
	if b.def.Defaults == nil {
		var zero In
		return zero
	}
	return b.def.Defaults()
}

// Decode validates a raw input and decodes it over the defaults.
func (b *Typed[In]) Decode(input map[string]any) (In, error) {
	in := b.Defaults()
	if err := b.input.Validate(input); err != nil {
		return in, err
	}
	data, err := json.Marshal(input)
	if err != nil {
		return in, fmt.Errorf("failed to marshal input: %w", err)
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return in, fmt.Errorf("failed to decode input: %w", err)
	}
	return in, nil
}

// Execute implements Block.
func (b *Typed[In]) Execute(ctx context.Context, input map[string]any) (iter.Seq2[string, any], error) {
	in, err := b.Decode(input)
	if err != nil {
		return nil, fmt.Errorf("block %s: %w", b.def.ID, err)
	}
	return b.Run(ctx, in), nil
}

// Run starts a run on an already populated input. Results on channels the
// output does not declare are a wiring defect and panic.
func (b *Typed[In]) Run(ctx context.Context, in In) iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for name, value := range b.run(ctx, in) {
			if !b.output.Has(name) {
				panic(fmt.Sprintf("block %s: result on undeclared channel %q", b.def.ID, name))
			}
			if !yield(name, value) {
				return
			}
		}
	}
}

// Collect drains a run.
func Collect(seq iter.Seq2[string, any]) []Result {
	var results []Result
	for name, value := range seq {
		results = append(results, Result{Name: name, Value: value})
	}
	return results
}
