package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/docaudit/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docaudit/internal/core/domain"
)

// mockBlobStore keeps blobs in a map keyed by locator.
type mockBlobStore struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	readErr error
}

func newMockBlobStore() *mockBlobStore {
	return &mockBlobStore{blobs: make(map[string][]byte)}
}

func (m *mockBlobStore) Read(_ context.Context, locator string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	data, ok := m.blobs[locator]
	if !ok {
		return nil, fmt.Errorf("reading blob %s: %w", locator, domain.ErrNotFound)
	}
	return data, nil
}

func (m *mockBlobStore) Write(_ context.Context, key string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	locator := "mem://" + key
	m.blobs[locator] = data
	return locator, nil
}

func (m *mockBlobStore) Delete(_ context.Context, locator string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, locator)
	return nil
}

// mockCompletion returns a reply chosen per prompt, or a fixed reply.
type mockCompletion struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string

	// replyFor overrides reply and err when set.
	replyFor func(prompt string) (string, error)

	// block, when set, is received from before replying.
	block chan struct{}
}

func (m *mockCompletion) Complete(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	replyFor := m.replyFor
	m.mu.Unlock()

	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return "", &domain.GatewayError{Err: ctx.Err()}
		}
	}
	if replyFor != nil {
		return replyFor(prompt)
	}
	return m.reply, m.err
}

func (m *mockCompletion) ModelName() string { return "mock" }

func (m *mockCompletion) Close() error { return nil }

func (m *mockCompletion) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// recordingDocStore records every persisted status.
type recordingDocStore struct {
	*memory.DocumentStore

	mu       sync.Mutex
	statuses map[string][]domain.DocumentStatus
	saveErr  func(doc *domain.Document) error
}

func newRecordingDocStore() *recordingDocStore {
	return &recordingDocStore{
		DocumentStore: memory.NewDocumentStore(),
		statuses:      make(map[string][]domain.DocumentStatus),
	}
}

func (r *recordingDocStore) Save(ctx context.Context, doc *domain.Document) error {
	if r.saveErr != nil {
		if err := r.saveErr(doc); err != nil {
			return err
		}
	}
	r.mu.Lock()
	r.statuses[doc.ID] = append(r.statuses[doc.ID], doc.Status)
	r.mu.Unlock()
	return r.DocumentStore.Save(ctx, doc)
}

func (r *recordingDocStore) history(id string) []domain.DocumentStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.DocumentStatus(nil), r.statuses[id]...)
}

// failingIssueStore fails every SaveAll.
type failingIssueStore struct {
	*memory.IssueStore
	err error
}

func (f *failingIssueStore) SaveAll(_ context.Context, _ []domain.Issue) error {
	return f.err
}
