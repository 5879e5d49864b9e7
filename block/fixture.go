package block

import (
	"context"
	"fmt"
	"reflect"
	"slices"

	"github.com/samber/lo"
)

// Fixture is a canonical input and the results it must produce.
type Fixture struct {
	Input  map[string]any
	Output Expectation
}

// Expectation describes the results a fixture run must produce.
type Expectation struct {
	values    map[string]any
	firstOnly bool
}

// ExpectAll expects a run to produce exactly these channels with these values.
func ExpectAll(values map[string]any) Expectation {
	return Expectation{values: values}
}

// ExpectFirst expects the first result of a run to be (name, value).
func ExpectFirst(name string, value any) Expectation {
	return Expectation{values: map[string]any{name: value}, firstOnly: true}
}

// Channels returns the channels named by the expectation, sorted.
func (e Expectation) Channels() []string {
	channels := lo.Keys(e.values)
	slices.Sort(channels)
	return channels
}

// Check compares the results of a run against the expectation.
func (e Expectation) Check(got []Result) error {
	if e.firstOnly {
		if len(got) == 0 {
			return fmt.Errorf("expected a first result, got none")
		}
		want, ok := e.values[got[0].Name]
		if !ok {
			return fmt.Errorf("expected first result on %v, got %q", e.Channels(), got[0].Name)
		}
		if !reflect.DeepEqual(want, got[0].Value) {
			return fmt.Errorf("channel %q: expected %#v, got %#v", got[0].Name, want, got[0].Value)
		}
		return nil
	}

	if len(got) != len(e.values) {
		return fmt.Errorf("expected %d results %v, got %d: %v", len(e.values), e.Channels(), len(got), got)
	}
	seen := make(map[string]struct{}, len(got))
	for _, r := range got {
		if _, dup := seen[r.Name]; dup {
			return fmt.Errorf("channel %q produced more than once", r.Name)
		}
		seen[r.Name] = struct{}{}

		want, ok := e.values[r.Name]
		if !ok {
			return fmt.Errorf("unexpected result on channel %q: %#v", r.Name, r.Value)
		}
		if !reflect.DeepEqual(want, r.Value) {
			return fmt.Errorf("channel %q: expected %#v, got %#v", r.Name, want, r.Value)
		}
	}
	return nil
}

// Verify runs a block's fixture input and checks the fixture expectation.
func Verify(ctx context.Context, b Block) error {
	fixture := b.Fixture()
	seq, err := b.Execute(ctx, fixture.Input)
	if err != nil {
		return fmt.Errorf("block %s: fixture input rejected: %w", b.ID(), err)
	}
	if err := fixture.Output.Check(Collect(seq)); err != nil {
		return fmt.Errorf("block %s: %w", b.ID(), err)
	}
	return nil
}
