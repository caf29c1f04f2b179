package blobstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/ArowuTest/callops-backend/internal/config"
)

// Store is the blob-store collaborator: an opaque object store the rest of
// the system uses for documents and audit artifacts. Implementations must be
// safe for concurrent use.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	GetSignedURL(ctx context.Context, key string, ttlSeconds int) (string, error)
	Delete(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, keys []string) error
}

// New selects the configured implementation: the HTTP gateway, or the
// in-memory mock when MockMode is on
func New(cfg *config.Config) Store {
	if cfg.Blobstore.MockMode {
		return NewMockStore()
	}
	return NewHTTPStore(cfg)
}

// HTTPStore talks to the storage service over its REST API
type HTTPStore struct {
	baseURL    string
	apiKey     string
	bucket     string
	httpClient *http.Client
}

// NewHTTPStore creates a new HTTPStore
func NewHTTPStore(cfg *config.Config) *HTTPStore {
	return &HTTPStore{
		baseURL: cfg.Blobstore.BaseURL,
		apiKey:  cfg.Blobstore.APIKey,
		bucket:  cfg.Blobstore.Bucket,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Put uploads an object and returns its URL
func (s *HTTPStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	objectURL := s.objectURL(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, objectURL, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("blobstore put failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("blobstore put returned %d: %s", resp.StatusCode, string(body))
	}
	return objectURL, nil
}

// GetSignedURL asks the storage service for a time-limited download URL
func (s *HTTPStore) GetSignedURL(ctx context.Context, key string, ttlSeconds int) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"bucket":     s.bucket,
		"key":        key,
		"ttlSeconds": ttlSeconds,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/sign", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("blobstore sign failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("blobstore sign returned %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.URL, nil
}

// Delete removes an object
func (s *HTTPStore) Delete(ctx context.Context, key string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.objectURL(key), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("blobstore delete failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("blobstore delete returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// DeleteMany removes a set of objects, stopping at the first failure
func (s *HTTPStore) DeleteMany(ctx context.Context, keys []string) error {
	for _, key := range keys {
		if err := s.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (s *HTTPStore) objectURL(key string) string {
	return fmt.Sprintf("%s/objects/%s/%s", s.baseURL, url.PathEscape(s.bucket), url.PathEscape(key))
}

// MockStore is an in-memory Store for development and tests
type MockStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewMockStore creates a new MockStore
func NewMockStore() *MockStore {
	return &MockStore{
		objects: make(map[string][]byte),
	}
}

// Put stores the object in memory
func (s *MockStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), data...)
	return "mock://" + key, nil
}

// GetSignedURL returns a fake signed URL for a stored object
func (s *MockStore) GetSignedURL(ctx context.Context, key string, ttlSeconds int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return "", fmt.Errorf("object %s not found", key)
	}
	return fmt.Sprintf("mock://%s?ttl=%d", key, ttlSeconds), nil
}

// Delete removes an object from memory
func (s *MockStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// DeleteMany removes a set of objects from memory
func (s *MockStore) DeleteMany(ctx context.Context, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.objects, key)
	}
	return nil
}

// Object returns a stored object's bytes, for tests
func (s *MockStore) Object(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, ok
}
