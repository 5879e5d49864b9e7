package block

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// maxLoggedValue bounds how much of a result value is written to the log.
const maxLoggedValue = 500

// Registry maps block ids to blocks.
type Registry struct {
	blocks map[string]Block
	logger zerolog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger zerolog.Logger) *Registry {
	logger = logger.With().Str("component", "block_registry").Logger()
	logger.Debug().Msg("Creating new block Registry")
	return &Registry{
		blocks: make(map[string]Block),
		logger: logger,
	}
}

// Register adds a block. Ids must be unique.
func (r *Registry) Register(b Block) error {
	if b == nil || b.ID() == "" {
		return fmt.Errorf("block must have an id")
	}
	if _, exists := r.blocks[b.ID()]; exists {
		return fmt.Errorf("block %s already registered", b.ID())
	}
	r.logger.Debug().Str("id", b.ID()).Strs("outputs", b.OutputSchema().Fields()).Msg("Registering block")
	r.blocks[b.ID()] = b
	return nil
}

// Get returns the block registered under id.
func (r *Registry) Get(id string) (Block, bool) {
	b, ok := r.blocks[id]
	return b, ok
}

// List returns all registered blocks ordered by id.
func (r *Registry) List() []Block {
	blocks := lo.Values(r.blocks)
	slices.SortFunc(blocks, func(a, b Block) int {
		return strings.Compare(a.ID(), b.ID())
	})
	return blocks
}

// Run executes a block and collects every result it produces.
// The error is set only when the block is unknown or the input is invalid.
func (r *Registry) Run(ctx context.Context, id string, input map[string]any) ([]Result, error) {
	b, ok := r.blocks[id]
	if !ok {
		r.logger.Error().Str("id", id).Msg("Unknown block requested")
		return nil, fmt.Errorf("unknown block: %s", id)
	}

	keys := lo.Keys(input)
	slices.Sort(keys)
	r.logger.Info().Str("id", id).Strs("inputs", keys).Msg("Executing block")

	seq, err := b.Execute(ctx, input)
	if err != nil {
		r.logger.Warn().Str("id", id).Err(err).Msg("Block input rejected")
		return nil, err
	}

	var results []Result
	for name, value := range seq {
		results = append(results, Result{Name: name, Value: value})
		event := r.logger.Info()
		if name == ErrorChannel {
			event = r.logger.Warn()
		}
		event.Str("id", id).Str("channel", name).Str("value", truncate(fmt.Sprint(value))).Msg("Block produced result")
	}
	return results, nil
}

// VerifyAll runs every block's fixture and reports all mismatches.
func (r *Registry) VerifyAll(ctx context.Context) error {
	var errs []error
	for _, b := range r.List() {
		if err := Verify(ctx, b); err != nil {
			r.logger.Error().Str("id", b.ID()).Err(err).Msg("Block fixture failed")
			errs = append(errs, err)
			continue
		}
		r.logger.Info().Str("id", b.ID()).Msg("Block fixture passed")
	}
	return errors.Join(errs...)
}

// truncate cuts s to at most maxLoggedValue bytes on a rune boundary.
func truncate(s string) string {
	if len(s) <= maxLoggedValue {
		return s
	}
	n := maxLoggedValue
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "... (truncated)"
}
