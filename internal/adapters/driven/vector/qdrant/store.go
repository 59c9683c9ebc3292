// Package qdrant provides a vector store adapter backed by the Qdrant
// REST API. One collection holds every tenant's records; isolation is
// enforced by a mandatory server-side payload filter on every search.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docquery/internal/core/domain"
	"github.com/custodia-labs/docquery/internal/core/ports/driven"
	"github.com/custodia-labs/docquery/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultURL        = "http://localhost:6333"
	DefaultCollection = "docs"
	DefaultTimeout    = 15 * time.Second
)

// tenantField is the payload key the isolation filter matches on.
const tenantField = "tenant_id"

// Config holds configuration for the Qdrant store.
type Config struct {
	// URL is the Qdrant endpoint (default: http://localhost:6333).
	URL string

	// APIKey authenticates requests, if set.
	APIKey string

	// Collection is the collection name (default: docs).
	Collection string

	// Dimensions is the vector size the collection is created with
	// (required). Must match the embedding service's output.
	Dimensions int

	// Timeout is the request timeout (default: 15s).
	Timeout time.Duration
}

// Store is a REST client to Qdrant using cosine distance.
type Store struct {
	client     *http.Client
	url        string
	apiKey     string
	collection string
	dims       int
}

// NewStore creates a new Qdrant store.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("qdrant: dimensions must be positive, got %d", cfg.Dimensions)
	}
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Store{
		client:     &http.Client{Timeout: cfg.Timeout},
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		dims:       cfg.Dimensions,
	}, nil
}

// EnsureCollection creates the collection with cosine distance if and only
// if it does not already exist. Idempotent; safe on every process start.
func (s *Store) EnsureCollection(ctx context.Context) error {
	status, err := s.do(ctx, http.MethodGet, s.collectionURL(), nil, nil)
	if err != nil {
		return err
	}
	if status == http.StatusOK {
		return nil
	}
	if status != http.StatusNotFound {
		return fmt.Errorf("qdrant: checking collection %s: status %d: %w", s.collection, status, domain.ErrStoreUnavailable)
	}

	logger.Info("qdrant: creating collection %s (%d dims, cosine)", s.collection, s.dims)
	body := map[string]any{
		"vectors": map[string]any{
			"size":     s.dims,
			"distance": "Cosine",
		},
	}
	status, err = s.do(ctx, http.MethodPut, s.collectionURL(), body, nil)
	if err != nil {
		return err
	}
	if status >= 300 {
		return fmt.Errorf("qdrant: creating collection %s: status %d: %w", s.collection, status, domain.ErrStoreUnavailable)
	}
	return nil
}

// Upsert writes a batch of records, assigning each a fresh unique ID.
// The batch is not atomic: Qdrant applies points individually, so callers
// treat a failure as retryable rather than rolled back.
func (s *Store) Upsert(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}

	points := make([]map[string]any, 0, len(records))
	for i := range records {
		r := &records[i]
		if len(r.Vector) != s.dims {
			return fmt.Errorf("qdrant: record %d has %d dimensions, collection expects %d: %w",
				i, len(r.Vector), s.dims, domain.ErrDimensionMismatch)
		}
		if !domain.ValidTenantID(r.TenantID) {
			return fmt.Errorf("qdrant: record %d has no tenant: %w", i, domain.ErrInvalidInput)
		}

		r.ID = uuid.New().String()
		points = append(points, map[string]any{
			"id":     r.ID,
			"vector": r.Vector,
			"payload": map[string]any{
				"text":      r.Text,
				"source":    r.Source,
				tenantField: r.TenantID,
			},
		})
	}

	body := map[string]any{"points": points}
	status, err := s.do(ctx, http.MethodPut, s.collectionURL()+"/points?wait=true", body, nil)
	if err != nil {
		return err
	}
	if status >= 300 {
		return fmt.Errorf("qdrant: upserting %d points: status %d: %w", len(points), status, domain.ErrStoreUnavailable)
	}

	logger.Debug("qdrant: upserted %d points", len(points))
	return nil
}

// searchResponse is the points/search response format.
type searchResponse struct {
	Result []struct {
		Score   float64        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"result"`
}

// Search returns up to k nearest records for one tenant.
//
// The tenant filter is part of the similarity query itself, applied
// server-side - never a client-side post-filter. A record belonging to
// another tenant must not appear at any score.
func (s *Store) Search(ctx context.Context, vector []float32, tenantID string, k int) ([]domain.SearchResult, error) {
	if !domain.ValidTenantID(tenantID) {
		return nil, fmt.Errorf("qdrant: search without tenant: %w", domain.ErrInvalidInput)
	}
	if len(vector) != s.dims {
		return nil, fmt.Errorf("qdrant: query vector has %d dimensions, collection expects %d: %w",
			len(vector), s.dims, domain.ErrDimensionMismatch)
	}
	if k <= 0 {
		k = 5
	}

	body := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
		"filter": map[string]any{
			"must": []map[string]any{
				{
					"key":   tenantField,
					"match": map[string]any{"value": tenantID},
				},
			},
		},
	}

	var resp searchResponse
	status, err := s.do(ctx, http.MethodPost, s.collectionURL()+"/points/search", body, &resp)
	if err != nil {
		return nil, err
	}
	if status >= 300 {
		return nil, fmt.Errorf("qdrant: searching: status %d: %w", status, domain.ErrStoreUnavailable)
	}

	results := make([]domain.SearchResult, 0, len(resp.Result))
	for _, r := range resp.Result {
		res := domain.SearchResult{Score: r.Score}
		if v, ok := r.Payload["text"].(string); ok {
			res.Text = v
		}
		if v, ok := r.Payload["source"].(string); ok {
			res.Source = v
		}
		results = append(results, res)
	}

	logger.Debug("qdrant: search for tenant returned %d results", len(results))
	return results, nil
}

// Close releases resources.
func (s *Store) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

// collectionURL returns the collection endpoint.
func (s *Store) collectionURL() string {
	return fmt.Sprintf("%s/collections/%s", s.url, s.collection)
}

// do sends one JSON request and decodes the response into out, if given.
// Transport failures are wrapped as ErrStoreUnavailable; HTTP status
// handling is left to the caller.
func (s *Store) do(ctx context.Context, method, url string, body, out any) (int, error) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("qdrant: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, fmt.Errorf("qdrant: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("qdrant: %s %s: %v: %w", method, url, err, domain.ErrStoreUnavailable)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("qdrant: decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
