// Package llmtest provides scripted stand-ins for the inference endpoint.
package llmtest

import (
	"context"
	"sync"

	"github.com/aschepis/backscratcher/blocks/llm"
)

// Reply is one scripted answer: Text on success, Err on failure.
type Reply struct {
	Text string
	Err  error
}

// Call records the arguments of one Generate call.
type Call struct {
	Prompt string
	Model  string
}

// CreateCall records the arguments of one CreateModel call.
type CreateCall struct {
	Name      string
	Modelfile string
}

// script hands out replies in order and repeats the last one forever.
type script[C any] struct {
	mu      sync.Mutex
	replies []Reply
	calls   []C
}

func (s *script[C]) next(c C) Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, c)
	if len(s.replies) == 0 {
		return Reply{}
	}
	i := min(len(s.calls)-1, len(s.replies)-1)
	return s.replies[i]
}

func (s *script[C]) recorded() []C {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]C(nil), s.calls...)
}

// Generator is a scripted llm.Generator.
type Generator struct {
	script[Call]
}

var _ llm.Generator = (*Generator)(nil)

// NewGenerator returns a Generator answering with replies in order.
func NewGenerator(replies ...Reply) *Generator {
	return &Generator{script[Call]{replies: replies}}
}

// Respond returns a Generator that always answers text.
func Respond(text string) *Generator {
	return NewGenerator(Reply{Text: text})
}

// Fail returns a Generator that always fails with err.
func Fail(err error) *Generator {
	return NewGenerator(Reply{Err: err})
}

// Generate implements llm.Generator.
func (g *Generator) Generate(_ context.Context, prompt, model string) (string, error) {
	r := g.next(Call{Prompt: prompt, Model: model})
	return r.Text, r.Err
}

// Calls returns every recorded call.
func (g *Generator) Calls() []Call {
	return g.recorded()
}

// Prompts returns the prompt of every recorded call.
func (g *Generator) Prompts() []string {
	calls := g.recorded()
	prompts := make([]string, len(calls))
	for i, c := range calls {
		prompts[i] = c.Prompt
	}
	return prompts
}

// ModelCreator is a scripted llm.ModelCreator. Reply.Text is the status.
type ModelCreator struct {
	script[CreateCall]
}

var _ llm.ModelCreator = (*ModelCreator)(nil)

// NewModelCreator returns a ModelCreator answering with replies in order.
func NewModelCreator(replies ...Reply) *ModelCreator {
	return &ModelCreator{script[CreateCall]{replies: replies}}
}

// CreateModel implements llm.ModelCreator.
func (m *ModelCreator) CreateModel(_ context.Context, name, modelfile string) (string, error) {
	r := m.next(CreateCall{Name: name, Modelfile: modelfile})
	return r.Text, r.Err
}

// Calls returns every recorded call.
func (m *ModelCreator) Calls() []CreateCall {
	return m.recorded()
}
