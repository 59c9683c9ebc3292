package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderGemini is the Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGemini, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// APIKey is the provider API key.
	APIKey string

	// Dimensions is the vector size the collection is configured for.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	return e.Provider.IsValid() && e.APIKey != ""
}

// LLMSettings holds generation provider configuration.
type LLMSettings struct {
	// Provider is the generation service provider.
	Provider AIProvider

	// Model is the model name.
	Model string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// APIKey is the provider API key.
	APIKey string
}

// IsConfigured returns true if the generation provider is set up.
func (l LLMSettings) IsConfigured() bool {
	return l.Provider.IsValid() && l.APIKey != ""
}

// IngestSettings holds pipeline tuning knobs.
type IngestSettings struct {
	// MinWords is the extraction sufficiency threshold: an extraction
	// tier's output counts as real prose when it contains more than this
	// many words. A heuristic constant, not derived from content.
	MinWords int

	// ChunkSize is the number of characters per chunk.
	ChunkSize int

	// ChunkOverlap is the number of overlapping characters between chunks.
	ChunkOverlap int

	// OnEmbedError selects the embedding failure policy:
	// "abort" fails the whole ingestion, "skip" drops the affected chunk
	// and reports it in the result.
	OnEmbedError string
}

// Embedding failure policies.
const (
	EmbedErrorAbort = "abort"
	EmbedErrorSkip  = "skip"
)

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds generation provider settings.
	LLM LLMSettings

	// Ingest holds pipeline tuning settings.
	Ingest IngestSettings

	// QdrantURL is the vector index endpoint.
	QdrantURL string

	// QdrantAPIKey authenticates against the vector index, if set.
	QdrantAPIKey string

	// QdrantCollection is the collection name holding all tenants' records.
	QdrantCollection string

	// UploadsDir is the root of the tenant-scoped upload area.
	UploadsDir string
}

// DefaultAppSettings returns settings with sensible defaults.
// Provider API keys are left unconfigured and must come from config.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:   AIProviderGemini,
			Model:      "text-embedding-004",
			Dimensions: 768,
		},
		LLM: LLMSettings{
			Provider: AIProviderGemini,
			Model:    "gemini-flash-latest",
		},
		Ingest: IngestSettings{
			MinWords:     50,
			ChunkSize:    800,
			ChunkOverlap: 150,
			OnEmbedError: EmbedErrorAbort,
		},
		QdrantURL:        "http://localhost:6333",
		QdrantCollection: "docs",
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini: "text-embedding-004",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each generation provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini: "gemini-flash-latest",
		AIProviderOpenAI: "gpt-4o-mini",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Gemini models
		"text-embedding-004": 768,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
