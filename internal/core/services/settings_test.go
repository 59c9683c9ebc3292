package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

// mockConfigStore is an in-memory ConfigStore.
type mockConfigStore struct {
	values map[string]any
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{values: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	if v, ok := m.values[key].(string); ok {
		return v
	}
	return ""
}

func (m *mockConfigStore) GetInt(key string) int {
	if v, ok := m.values[key].(int); ok {
		return v
	}
	return 0
}

func (m *mockConfigStore) GetBool(key string) bool {
	if v, ok := m.values[key].(bool); ok {
		return v
	}
	return false
}

func (m *mockConfigStore) Set(key string, value any) error {
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Save() error { return nil }
func (m *mockConfigStore) Load() error { return nil }
func (m *mockConfigStore) Path() string { return "/tmp/config.toml" }

func TestSettingsService_Get_Defaults(t *testing.T) {
	svc := NewSettingsService(newMockConfigStore())

	settings, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, domain.AIProviderGemini, settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-004", settings.Embedding.Model)
	assert.Equal(t, 768, settings.Embedding.Dimensions)
	assert.Equal(t, domain.AIProviderGemini, settings.LLM.Provider)
	assert.Equal(t, "gemini-flash-latest", settings.LLM.Model)
	assert.Equal(t, 50, settings.Ingest.MinWords)
	assert.Equal(t, 800, settings.Ingest.ChunkSize)
	assert.Equal(t, 150, settings.Ingest.ChunkOverlap)
	assert.Equal(t, domain.EmbedErrorAbort, settings.Ingest.OnEmbedError)
	assert.Equal(t, "http://localhost:6333", settings.QdrantURL)
	assert.Equal(t, "docs", settings.QdrantCollection)
}

func TestSettingsService_Get_ConfiguredValues(t *testing.T) {
	store := newMockConfigStore()
	store.values["embedding.provider"] = "openai"
	store.values["embedding.api_key"] = "sk-test"
	store.values["llm.provider"] = "openai"
	store.values["llm.model"] = "gpt-4o"
	store.values["chunk.size"] = 400
	store.values["qdrant.url"] = "http://qdrant.internal:6333"

	settings, err := NewSettingsService(store).Get()
	require.NoError(t, err)

	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "sk-test", settings.Embedding.APIKey)
	// Provider switch selects that provider's default model and dimensions.
	assert.Equal(t, "text-embedding-3-small", settings.Embedding.Model)
	assert.Equal(t, 1536, settings.Embedding.Dimensions)
	assert.Equal(t, "gpt-4o", settings.LLM.Model)
	assert.Equal(t, 400, settings.Ingest.ChunkSize)
	assert.Equal(t, "http://qdrant.internal:6333", settings.QdrantURL)
}

func TestSettingsService_Get_InvalidProviderFallsBack(t *testing.T) {
	store := newMockConfigStore()
	store.values["embedding.provider"] = "ollama"

	settings, err := NewSettingsService(store).Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderGemini, settings.Embedding.Provider)
}

func TestSettingsService_Get_InvalidEmbedErrorPolicy(t *testing.T) {
	store := newMockConfigStore()
	store.values["ingest.on_embed_error"] = "retry"

	_, err := NewSettingsService(store).Get()
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	store := newMockConfigStore()
	svc := NewSettingsService(store)

	in := domain.DefaultAppSettings()
	in.Embedding.Provider = domain.AIProviderOpenAI
	in.Embedding.Model = "text-embedding-3-large"
	in.Embedding.Dimensions = 3072
	in.Embedding.APIKey = "sk-abc"
	in.LLM.Provider = domain.AIProviderOpenAI
	in.LLM.Model = "gpt-4o-mini"
	in.LLM.APIKey = "sk-def"
	in.Ingest.OnEmbedError = domain.EmbedErrorSkip
	in.QdrantCollection = "docs"

	require.NoError(t, svc.Save(&in))

	out, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, in.Embedding.Provider, out.Embedding.Provider)
	assert.Equal(t, in.Embedding.Model, out.Embedding.Model)
	assert.Equal(t, in.Embedding.Dimensions, out.Embedding.Dimensions)
	assert.Equal(t, in.Embedding.APIKey, out.Embedding.APIKey)
	assert.Equal(t, in.LLM.Model, out.LLM.Model)
	assert.Equal(t, domain.EmbedErrorSkip, out.Ingest.OnEmbedError)
}

func TestSettingsService_SaveSkipsEmptyAPIKeys(t *testing.T) {
	store := newMockConfigStore()
	store.values["embedding.api_key"] = "sk-existing"
	svc := NewSettingsService(store)

	in := domain.DefaultAppSettings()
	require.NoError(t, svc.Save(&in))

	// An empty key in the incoming settings must not clobber a stored one.
	assert.Equal(t, "sk-existing", store.values["embedding.api_key"])
}
