package llm

import (
	"slices"
)

const (
	ProviderOllama = "ollama"
)

// Model identifies a model that blocks may ask the endpoint for.
type Model string

const (
	ModelCustomOllama Model = "Llama 3"
	ModelFilipee      Model = "filipee:latest"
	ModelMario        Model = "mario:latest"
	ModelLuigi        Model = "luigi:latest"
	ModelLlama31      Model = "llama3.1:latest"
	ModelGamer        Model = "gamer:latest"
)

// ModelMetadata describes where a model is served and how much context it takes.
type ModelMetadata struct {
	Provider      string
	ContextWindow int
	Tag           string // Name sent to the endpoint
}

var modelMetadata = map[Model]ModelMetadata{
	ModelCustomOllama: {Provider: ProviderOllama, ContextWindow: 8192, Tag: "llama3"},
	ModelFilipee:      {Provider: ProviderOllama, ContextWindow: 8192, Tag: string(ModelFilipee)},
	ModelMario:        {Provider: ProviderOllama, ContextWindow: 8192, Tag: string(ModelMario)},
	ModelLuigi:        {Provider: ProviderOllama, ContextWindow: 8192, Tag: string(ModelLuigi)},
	ModelLlama31:      {Provider: ProviderOllama, ContextWindow: 8192, Tag: string(ModelLlama31)},
	ModelGamer:        {Provider: ProviderOllama, ContextWindow: 8192, Tag: string(ModelGamer)},
}

// Metadata returns the static metadata for m.
func (m Model) Metadata() (ModelMetadata, bool) {
	md, ok := modelMetadata[m]
	return md, ok
}

// Valid reports whether m is a known model.
func (m Model) Valid() bool {
	_, ok := modelMetadata[m]
	return ok
}

// Tag returns the name the endpoint knows m by. Unknown models are sent as-is.
func (m Model) Tag() string {
	if md, ok := modelMetadata[m]; ok {
		return md.Tag
	}
	return string(m)
}

// CustomModels lists the models offered by the plain LLM call block.
func CustomModels() []Model {
	return []Model{ModelCustomOllama}
}

// ClassificationModels lists the models offered by the classifying LLM call block.
func ClassificationModels() []Model {
	return []Model{ModelFilipee, ModelMario, ModelLuigi, ModelLlama31, ModelGamer}
}

// Models returns every known model, sorted.
func Models() []Model {
	models := make([]Model, 0, len(modelMetadata))
	for m := range modelMetadata {
		models = append(models, m)
	}
	slices.Sort(models)
	return models
}
