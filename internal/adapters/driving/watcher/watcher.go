// Package watcher uploads files dropped into an inbox directory to an audit
// and analyses them.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docaudit/internal/core/domain"
	"github.com/custodia-labs/docaudit/internal/core/ports/driving"
	"github.com/custodia-labs/docaudit/internal/logger"
)

var log = logger.Named("watcher")

// DefaultSettleDelay is how long a file must stay quiet before it is processed.
const DefaultSettleDelay = 500 * time.Millisecond

// ErrMissingService is returned when a required service is not provided.
var ErrMissingService = errors.New("watcher: audit, analysis and extraction services are required")

// Result is the outcome of processing one inbox file.
type Result struct {
	// Path is the inbox file that was processed.
	Path string

	// Document is the uploaded document. Nil when the upload failed.
	Document *domain.Document

	// IssuesCount is the number of issues produced by the analysis.
	IssuesCount int

	// Err is the upload or analysis error, if any.
	Err error
}

// Watcher watches an inbox directory.
type Watcher struct {
	dir        string
	auditID    string
	audits     driving.AuditService
	analysis   driving.AnalysisService
	extraction driving.ExtractionService

	// SettleDelay overrides DefaultSettleDelay when positive.
	SettleDelay time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
	seen    map[string]fileStamp
}

type fileStamp struct {
	size    int64
	modTime time.Time
}

// New creates a watcher uploading files from dir to the audit auditID.
func New(
	dir, auditID string,
	audits driving.AuditService,
	analysis driving.AnalysisService,
	extraction driving.ExtractionService,
) (*Watcher, error) {
	if audits == nil || analysis == nil || extraction == nil {
		return nil, ErrMissingService
	}
	if auditID == "" {
		return nil, fmt.Errorf("audit ID is required: %w", domain.ErrInvalidInput)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("inbox %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("inbox %s is not a directory: %w", dir, domain.ErrInvalidInput)
	}

	return &Watcher{
		dir:        dir,
		auditID:    auditID,
		audits:     audits,
		analysis:   analysis,
		extraction: extraction,
		pending:    make(map[string]*time.Timer),
		seen:       make(map[string]fileStamp),
	}, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Watch starts watching and returns a channel of processing results.
// The channel is closed when ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context) (<-chan Result, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", w.dir, err)
	}

	results := make(chan Result, 16)
	ready := make(chan string, 16)

	go func() {
		defer close(results)
		defer fsw.Close()
		defer w.stopTimers()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				if path, ok := w.handleFsEvent(event); ok {
					w.schedule(ctx, path, ready)
				}
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				log.Warn("watcher error: %v", err)
			case path := <-ready:
				result, ok := w.process(ctx, path)
				if !ok {
					continue
				}
				select {
				case results <- result:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	log.Info("Watching %s for audit %s", w.dir, w.auditID)
	return results, nil
}

// handleFsEvent returns the path to process for an event, if any.
// Only creates and writes of visible, supported regular files qualify.
func (w *Watcher) handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if isIgnored(event.Name) {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	if !w.extraction.Supports(event.Name) {
		log.Debug("Skipping unsupported file %s", event.Name)
		return "", false
	}
	return event.Name, true
}

// schedule (re)arms the settle timer for path.
func (w *Watcher) schedule(ctx context.Context, path string, ready chan<- string) {
	delay := w.SettleDelay
	if delay <= 0 {
		delay = DefaultSettleDelay
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Reset(delay)
		return
	}
	w.pending[path] = time.AfterFunc(delay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		select {
		case ready <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}

// process uploads and analyses one file. It reports false when the file
// vanished or is unchanged since it was last processed.
func (w *Watcher) process(ctx context.Context, path string) (Result, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return Result{}, false
	}
	stamp := fileStamp{size: info.Size(), modTime: info.ModTime()}

	w.mu.Lock()
	prev, done := w.seen[path]
	w.seen[path] = stamp
	w.mu.Unlock()
	if done && prev == stamp {
		return Result{}, false
	}

	result := Result{Path: path}

	content, err := os.ReadFile(path)
	if err != nil {
		result.Err = fmt.Errorf("reading %s: %w", path, err)
		return result, true
	}

	doc, err := w.audits.Upload(ctx, w.auditID, filepath.Base(path), content)
	if err != nil {
		result.Err = fmt.Errorf("uploading %s: %w", path, err)
		log.Error("%v", result.Err)
		return result, true
	}
	result.Document = doc

	issues, err := w.analysis.AnalyzeDocumentByID(ctx, doc.ID)
	if err != nil {
		result.Err = fmt.Errorf("analysing %s: %w", doc.Name, err)
		log.Warn("%v", result.Err)
		return result, true
	}
	result.IssuesCount = len(issues)

	log.Info("Analysed %s: %d issue(s)", doc.Name, result.IssuesCount)
	return result, true
}

// isIgnored reports hidden files and office lock files.
func isIgnored(path string) bool {
	name := filepath.Base(path)
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$")
}
