package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/docquery/internal/core/domain"
	"github.com/custodia-labs/docquery/internal/core/ports/driven"
	"github.com/custodia-labs/docquery/internal/core/ports/driving"
	"github.com/custodia-labs/docquery/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 5

// NoResultsAnswer is returned verbatim when the tenant has no matching
// records. The generation service is not consulted in that case.
const NoResultsAnswer = "No relevant information found."

// maxContextChars bounds the assembled context block. Retrieval already
// caps the chunk count at k; this guards against oversized chunks
// blowing the generation window.
const maxContextChars = 16000

// answerPromptFormat constrains generation to the supplied context. The
// refusal sentence is fixed so callers can detect an ungrounded answer.
const answerPromptFormat = `You are a helpful assistant.
Answer the user's question ONLY using the context below.

Context:
%s

Question: %s

If the answer is not found in the context, say:
"I could not find the answer in your documents."`

// AnswerService answers questions from a tenant's ingested documents.
type AnswerService struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
	llm      driven.LLMService
}

// NewAnswerService creates a new answer service.
func NewAnswerService(
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	llm driven.LLMService,
) *AnswerService {
	return &AnswerService{
		embedder: embedder,
		store:    store,
		llm:      llm,
	}
}

// Answer embeds the question, retrieves the tenant's k nearest chunks,
// and composes a grounded answer. k <= 0 selects the default.
func (s *AnswerService) Answer(ctx context.Context, question, tenantID string, k int) (*domain.Answer, error) {
	if !domain.ValidTenantID(tenantID) {
		return nil, fmt.Errorf("answer: missing tenant: %w", domain.ErrInvalidInput)
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("answer: empty question: %w", domain.ErrInvalidInput)
	}
	if k <= 0 {
		k = DefaultTopK
	}

	logger.Section("Question Answering")
	logger.Debug("answer: question %q for tenant %s, k=%d", question, tenantID, k)

	embedding, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("answer: embedding question for tenant %s: %w: %w",
			tenantID, domain.ErrEmbeddingUnavailable, err)
	}

	results, err := s.store.Search(ctx, embedding, tenantID, k)
	if err != nil {
		return nil, fmt.Errorf("answer: searching for tenant %s: %w", tenantID, err)
	}
	logger.Debug("answer: %d results", len(results))

	// Zero matches short-circuits: the fixed answer goes back without
	// consulting the generation service.
	if len(results) == 0 {
		return &domain.Answer{
			Text:     NoResultsAnswer,
			Sources:  []string{},
			TenantID: tenantID,
		}, nil
	}

	contextBlock, sources := buildContext(results)

	prompt := fmt.Sprintf(answerPromptFormat, contextBlock, question)
	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{})
	if err != nil {
		return nil, fmt.Errorf("answer: generating for tenant %s: %w: %w",
			tenantID, domain.ErrLLMUnavailable, err)
	}

	return &domain.Answer{
		Text:     strings.TrimSpace(text),
		Sources:  sources,
		TenantID: tenantID,
	}, nil
}

// buildContext concatenates result texts into tagged blocks and collects
// the deduplicated source set. Results past the context bound still
// count as sources; only their text is dropped.
func buildContext(results []domain.SearchResult) (string, []string) {
	var sb strings.Builder
	seen := make(map[string]bool)

	for _, r := range results {
		if sb.Len() < maxContextChars {
			sb.WriteString("[" + r.Source + "]\n")
			sb.WriteString(r.Text)
			sb.WriteString("\n\n")
		}
		seen[r.Source] = true
	}

	sources := make([]string, 0, len(seen))
	for src := range seen {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	return sb.String(), sources
}
