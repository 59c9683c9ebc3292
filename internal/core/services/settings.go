package services

import (
	"fmt"

	"github.com/custodia-labs/docquery/internal/core/domain"
	"github.com/custodia-labs/docquery/internal/core/ports/driven"
	"github.com/custodia-labs/docquery/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider = "embedding.provider"
	keyEmbedModel    = "embedding.model"
	keyEmbedBaseURL  = "embedding.base_url"
	keyEmbedAPIKey   = "embedding.api_key"
	keyEmbedDims     = "embedding.dimensions"
	keyLLMProvider   = "llm.provider"
	keyLLMModel      = "llm.model"
	keyLLMBaseURL    = "llm.base_url"
	keyLLMAPIKey     = "llm.api_key"
	keyQdrantURL     = "qdrant.url"
	keyQdrantAPIKey  = "qdrant.api_key"
	keyQdrantColl    = "qdrant.collection"
	keyMinWords      = "extract.min_words"
	keyChunkSize     = "chunk.size"
	keyChunkOverlap  = "chunk.overlap"
	keyOnEmbedError  = "ingest.on_embed_error"
	keyUploadsDir    = "uploads.dir"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings, falling back to defaults
// for unset keys.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	embedding := domain.EmbeddingSettings{
		Provider:   s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
		Model:      s.getString(keyEmbedModel, ""),
		BaseURL:    s.configStore.GetString(keyEmbedBaseURL), // No default - empty selects the provider endpoint
		APIKey:     s.configStore.GetString(keyEmbedAPIKey),
		Dimensions: s.getInt(keyEmbedDims, 0),
	}
	if embedding.Model == "" {
		embedding.Model = domain.DefaultEmbeddingModels()[embedding.Provider]
	}
	if embedding.Dimensions == 0 {
		embedding.Dimensions = domain.EmbeddingDimensions()[embedding.Model]
	}

	llm := domain.LLMSettings{
		Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
		Model:    s.getString(keyLLMModel, ""),
		BaseURL:  s.configStore.GetString(keyLLMBaseURL),
		APIKey:   s.configStore.GetString(keyLLMAPIKey),
	}
	if llm.Model == "" {
		llm.Model = domain.DefaultLLMModels()[llm.Provider]
	}

	onEmbedError := s.getString(keyOnEmbedError, defaults.Ingest.OnEmbedError)
	if onEmbedError != domain.EmbedErrorAbort && onEmbedError != domain.EmbedErrorSkip {
		return nil, fmt.Errorf("settings: %s must be %q or %q, got %q: %w",
			keyOnEmbedError, domain.EmbedErrorAbort, domain.EmbedErrorSkip, onEmbedError, domain.ErrInvalidInput)
	}

	return &domain.AppSettings{
		Embedding: embedding,
		LLM:       llm,
		Ingest: domain.IngestSettings{
			MinWords:     s.getInt(keyMinWords, defaults.Ingest.MinWords),
			ChunkSize:    s.getInt(keyChunkSize, defaults.Ingest.ChunkSize),
			ChunkOverlap: s.getInt(keyChunkOverlap, defaults.Ingest.ChunkOverlap),
			OnEmbedError: onEmbedError,
		},
		QdrantURL:        s.getString(keyQdrantURL, defaults.QdrantURL),
		QdrantAPIKey:     s.configStore.GetString(keyQdrantAPIKey),
		QdrantCollection: s.getString(keyQdrantColl, defaults.QdrantCollection),
		UploadsDir:       s.configStore.GetString(keyUploadsDir),
	}, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if err := s.configStore.Set(keyEmbedDims, settings.Embedding.Dimensions); err != nil {
		return fmt.Errorf("save embedding dimensions: %w", err)
	}

	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	if err := s.configStore.Set(keyQdrantURL, settings.QdrantURL); err != nil {
		return fmt.Errorf("save qdrant url: %w", err)
	}
	if settings.QdrantAPIKey != "" {
		if err := s.configStore.Set(keyQdrantAPIKey, settings.QdrantAPIKey); err != nil {
			return fmt.Errorf("save qdrant api_key: %w", err)
		}
	}
	if err := s.configStore.Set(keyQdrantColl, settings.QdrantCollection); err != nil {
		return fmt.Errorf("save qdrant collection: %w", err)
	}

	if err := s.configStore.Set(keyMinWords, settings.Ingest.MinWords); err != nil {
		return fmt.Errorf("save extract min_words: %w", err)
	}
	if err := s.configStore.Set(keyChunkSize, settings.Ingest.ChunkSize); err != nil {
		return fmt.Errorf("save chunk size: %w", err)
	}
	if err := s.configStore.Set(keyChunkOverlap, settings.Ingest.ChunkOverlap); err != nil {
		return fmt.Errorf("save chunk overlap: %w", err)
	}
	if err := s.configStore.Set(keyOnEmbedError, settings.Ingest.OnEmbedError); err != nil {
		return fmt.Errorf("save embed error policy: %w", err)
	}
	if settings.UploadsDir != "" {
		if err := s.configStore.Set(keyUploadsDir, settings.UploadsDir); err != nil {
			return fmt.Errorf("save uploads dir: %w", err)
		}
	}

	return nil
}

// getString reads a string key with a default.
func (s *SettingsService) getString(key, fallback string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return fallback
}

// getInt reads an int key with a default.
func (s *SettingsService) getInt(key string, fallback int) int {
	if val := s.configStore.GetInt(key); val != 0 {
		return val
	}
	return fallback
}

// getProvider reads a provider key, falling back when unset or invalid.
func (s *SettingsService) getProvider(key string, fallback domain.AIProvider) domain.AIProvider {
	val := domain.AIProvider(s.configStore.GetString(key))
	if val.IsValid() {
		return val
	}
	return fallback
}
