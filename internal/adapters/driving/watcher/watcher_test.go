package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docaudit/internal/core/domain"
)

func newTestWatcher(t *testing.T, audits *mockAuditService, analysis *mockAnalysisService) *Watcher {
	t.Helper()
	w, err := New(t.TempDir(), "audit-1", audits, analysis, mockExtractionService{})
	require.NoError(t, err)
	w.SettleDelay = 20 * time.Millisecond
	return w
}

func TestNew(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid", func(t *testing.T) {
		w, err := New(dir, "audit-1", &mockAuditService{}, &mockAnalysisService{}, mockExtractionService{})
		require.NoError(t, err)
		assert.Equal(t, dir, w.Dir())
	})

	t.Run("missing service", func(t *testing.T) {
		_, err := New(dir, "audit-1", nil, &mockAnalysisService{}, mockExtractionService{})
		assert.ErrorIs(t, err, ErrMissingService)
	})

	t.Run("missing audit", func(t *testing.T) {
		_, err := New(dir, "", &mockAuditService{}, &mockAnalysisService{}, mockExtractionService{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := New(filepath.Join(dir, "nope"), "audit-1", &mockAuditService{}, &mockAnalysisService{}, mockExtractionService{})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("file instead of directory", func(t *testing.T) {
		path := filepath.Join(dir, "file.txt")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
		_, err := New(path, "audit-1", &mockAuditService{}, &mockAnalysisService{}, mockExtractionService{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestHandleFsEvent(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		dir       bool
		create    bool
		operation fsnotify.Op
		expected  bool
	}{
		{name: "create supported file", file: "rapport.pdf", create: true, operation: fsnotify.Create, expected: true},
		{name: "write supported file", file: "notes.txt", create: true, operation: fsnotify.Write, expected: true},
		{name: "write and chmod", file: "notes.txt", create: true, operation: fsnotify.Write | fsnotify.Chmod, expected: true},
		{name: "chmod only", file: "notes.txt", create: true, operation: fsnotify.Chmod},
		{name: "remove", file: "notes.txt", operation: fsnotify.Remove},
		{name: "rename", file: "notes.txt", operation: fsnotify.Rename},
		{name: "unsupported extension", file: "archive.zip", create: true, operation: fsnotify.Create},
		{name: "hidden file", file: ".notes.txt", create: true, operation: fsnotify.Create},
		{name: "office lock file", file: "~$rapport.txt", create: true, operation: fsnotify.Create},
		{name: "directory", file: "sub.txt", dir: true, operation: fsnotify.Create},
		{name: "vanished before stat", file: "gone.txt", operation: fsnotify.Create},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWatcher(t, &mockAuditService{}, &mockAnalysisService{})
			path := filepath.Join(w.Dir(), tt.file)
			switch {
			case tt.dir:
				require.NoError(t, os.Mkdir(path, 0o755))
			case tt.create:
				require.NoError(t, os.WriteFile(path, []byte("content"), 0o600))
			}

			got, ok := w.handleFsEvent(fsnotify.Event{Name: path, Op: tt.operation})
			assert.Equal(t, tt.expected, ok)
			if tt.expected {
				assert.Equal(t, path, got)
			}
		})
	}
}

func TestProcess(t *testing.T) {
	ctx := context.Background()

	t.Run("uploads and analyses", func(t *testing.T) {
		audits := &mockAuditService{}
		w := newTestWatcher(t, audits, &mockAnalysisService{issues: 3})
		path := filepath.Join(w.Dir(), "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("content"), 0o600))

		result, ok := w.process(ctx, path)
		require.True(t, ok)
		require.NoError(t, result.Err)
		assert.Equal(t, "notes.txt", result.Document.Name)
		assert.Equal(t, int64(7), result.Document.SizeBytes)
		assert.Equal(t, 3, result.IssuesCount)

		_, ok = w.process(ctx, path)
		assert.False(t, ok, "unchanged file is processed once")
		assert.Equal(t, []string{"notes.txt"}, audits.uploaded())
	})

	t.Run("upload error", func(t *testing.T) {
		w := newTestWatcher(t, &mockAuditService{uploadErr: domain.ErrDocumentTooLarge}, &mockAnalysisService{})
		path := filepath.Join(w.Dir(), "big.txt")
		require.NoError(t, os.WriteFile(path, []byte("content"), 0o600))

		result, ok := w.process(ctx, path)
		require.True(t, ok)
		assert.ErrorIs(t, result.Err, domain.ErrDocumentTooLarge)
		assert.Nil(t, result.Document)
	})

	t.Run("analysis error keeps document", func(t *testing.T) {
		w := newTestWatcher(t, &mockAuditService{}, &mockAnalysisService{err: errors.New("gateway down")})
		path := filepath.Join(w.Dir(), "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("content"), 0o600))

		result, ok := w.process(ctx, path)
		require.True(t, ok)
		assert.ErrorContains(t, result.Err, "gateway down")
		require.NotNil(t, result.Document)
	})

	t.Run("vanished file", func(t *testing.T) {
		w := newTestWatcher(t, &mockAuditService{}, &mockAnalysisService{})
		_, ok := w.process(ctx, filepath.Join(w.Dir(), "gone.txt"))
		assert.False(t, ok)
	})
}

func TestWatch(t *testing.T) {
	audits := &mockAuditService{}
	w := newTestWatcher(t, audits, &mockAnalysisService{issues: 2})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results, err := w.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(w.Dir(), "ignored.zip"), []byte("zip"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(w.Dir(), "rapport.txt"), []byte("contenu"), 0o600))

	select {
	case result := <-results:
		require.NoError(t, result.Err)
		assert.Equal(t, "rapport.txt", result.Document.Name)
		assert.Equal(t, 2, result.IssuesCount)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for inbox result")
	}

	cancel()
	for range results {
	}
	assert.Equal(t, []string{"rapport.txt"}, audits.uploaded())
}
