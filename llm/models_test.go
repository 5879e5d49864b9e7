package llm

import (
	"testing"
)

func TestModelMetadata(t *testing.T) {
	for _, m := range Models() {
		md, ok := m.Metadata()
		if !ok {
			t.Fatalf("Expected metadata for %q", m)
		}
		if md.Provider != ProviderOllama {
			t.Errorf("Expected provider 'ollama' for %q, got %q", m, md.Provider)
		}
		if md.ContextWindow != 8192 {
			t.Errorf("Expected context window 8192 for %q, got %d", m, md.ContextWindow)
		}
	}
}

func TestModelTag(t *testing.T) {
	tests := []struct {
		model Model
		want  string
	}{
		{ModelCustomOllama, "llama3"},
		{ModelLlama31, "llama3.1:latest"},
		{ModelGamer, "gamer:latest"},
		{Model("mistral:7b"), "mistral:7b"},
	}
	for _, tt := range tests {
		if got := tt.model.Tag(); got != tt.want {
			t.Errorf("Tag(%q) = %q, want %q", tt.model, got, tt.want)
		}
	}
}

func TestModelValid(t *testing.T) {
	if !ModelMario.Valid() {
		t.Error("mario should be a valid model")
	}
	if Model("gpt-4").Valid() {
		t.Error("gpt-4 should not be a valid model")
	}
}

func TestModelEnumerations(t *testing.T) {
	if len(Models()) != len(CustomModels())+len(ClassificationModels()) {
		t.Errorf("Expected the two enumerations to cover all %d models", len(Models()))
	}
	for _, m := range ClassificationModels() {
		if !m.Valid() {
			t.Errorf("classification model %q has no metadata", m)
		}
	}
}
