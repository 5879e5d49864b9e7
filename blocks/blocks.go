// Package blocks contains the concrete blocks served by the runner.
package blocks

import (
	"errors"
	"fmt"
	"time"

	"github.com/aschepis/backscratcher/blocks/block"
	"github.com/aschepis/backscratcher/blocks/llm"
	"github.com/aschepis/backscratcher/blocks/llm/llmtest"
	"github.com/aschepis/backscratcher/blocks/retry"
	"github.com/rs/zerolog"
)

// FixtureResponse is what the stubbed endpoint answers during self-tests.
const FixtureResponse = "Response text"

// Deps are the collaborators shared by the networked blocks.
type Deps struct {
	Generator    llm.Generator
	ModelCreator llm.ModelCreator
	Logger       zerolog.Logger
	RetryDelay   time.Duration
}

func (d Deps) retryPolicy(id string) retry.Policy {
	return retry.Policy{
		Attempts: retry.DefaultAttempts,
		Delay:    d.RetryDelay,
		Logger:   d.Logger.With().Str("component", "retry").Str("block", id).Logger(),
	}
}

// FixtureDeps returns deps whose endpoint is stubbed to answer every fixture.
func FixtureDeps(logger zerolog.Logger) Deps {
	return Deps{
		Generator:    llmtest.Respond(FixtureResponse),
		ModelCreator: llmtest.NewModelCreator(llmtest.Reply{Text: "success"}),
		Logger:       logger,
	}
}

// RegisterAll registers every block with reg.
func RegisterAll(reg *block.Registry, deps Deps) error {
	if deps.Generator == nil || deps.ModelCreator == nil {
		return fmt.Errorf("blocks need both a generator and a model creator")
	}
	all := []block.Block{
		NewEchoBlock(),
		NewModelCreationBlock(deps),
		NewLLMCallBlock(deps),
		NewClassificationLLMCallBlock(deps),
	}
	for _, b := range all {
		if err := reg.Register(b); err != nil {
			return fmt.Errorf("failed to register block: %w", err)
		}
	}
	return nil
}

// failureMessage is the text reported on the error channel for err.
func failureMessage(err error) string {
	var llmErr *llm.Error
	if errors.As(err, &llmErr) && llmErr.Type == llm.ErrorTypeRetryExhausted {
		return llmErr.Message
	}
	return err.Error()
}
