// Command docaudit audits documents against rule templates with AI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/docaudit/internal/adapters/driven/ai"
	"github.com/custodia-labs/docaudit/internal/adapters/driven/blob"
	"github.com/custodia-labs/docaudit/internal/adapters/driven/blob/filesystem"
	"github.com/custodia-labs/docaudit/internal/adapters/driven/blob/gcs"
	"github.com/custodia-labs/docaudit/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docaudit/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docaudit/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docaudit/internal/adapters/driving/cli"
	"github.com/custodia-labs/docaudit/internal/core/domain"
	"github.com/custodia-labs/docaudit/internal/core/ports/driven"
	"github.com/custodia-labs/docaudit/internal/core/services"
	"github.com/custodia-labs/docaudit/internal/extractors"
	"github.com/custodia-labs/docaudit/internal/logger"
)

// version is set at build time through -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env is normal.
	_ = godotenv.Load()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		return err
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		// Keep the CLI usable so "settings set" can repair the file.
		logger.Error("Invalid configuration, using defaults: %v", err)
		defaults := domain.DefaultAppSettings()
		settings = &defaults
	}

	stores, err := openStores(settings.Storage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening storage: %v\n", err)
		return err
	}
	defer stores.Close()

	blobs, closeBlobs, err := openBlobs(ctx, settings.Storage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening blob storage: %v\n", err)
		return err
	}
	defer closeBlobs()

	gateway, err := ai.New(ctx, settings.AI)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: configuring AI provider: %v\n", err)
		return err
	}
	defer gateway.Close()

	registry := extractors.Default()

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Template: services.NewTemplateService(stores.templates),
		Audit: services.NewAuditService(stores.audits, stores.templates, stores.documents,
			blobs, settings.Storage.MaxDocumentSize),
		Analysis: services.NewAnalysisService(stores.documents, stores.issues, stores.audits,
			stores.templates, blobs, registry, gateway, settings.Analysis),
		Issue:      services.NewIssueService(stores.issues),
		Extraction: services.NewExtractionService(registry, settings.Analysis.PreviewChars),
		Settings:   settingsService,
	})

	return cli.Execute(ctx)
}

// storeSet holds the persistence ports of the selected backend.
type storeSet struct {
	audits    driven.AuditStore
	templates driven.TemplateStore
	documents driven.DocumentStore
	issues    driven.IssueStore
	closer    io.Closer
}

// Close releases the backend.
func (s *storeSet) Close() {
	if s.closer != nil {
		if err := s.closer.Close(); err != nil {
			logger.Warn("closing storage: %v", err)
		}
	}
}

func openStores(cfg domain.StorageSettings) (*storeSet, error) {
	if cfg.Backend == domain.StorageBackendMemory {
		logger.Info("Using in-memory storage, nothing will be kept")
		return &storeSet{
			audits:    memory.NewAuditStore(),
			templates: memory.NewTemplateStore(),
			documents: memory.NewDocumentStore(),
			issues:    memory.NewIssueStore(),
		}, nil
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	logger.Debug("Using database %s", store.Path())
	return &storeSet{
		audits:    store.AuditStore(),
		templates: store.TemplateStore(),
		documents: store.DocumentStore(),
		issues:    store.IssueStore(),
		closer:    store,
	}, nil
}

func openBlobs(ctx context.Context, cfg domain.StorageSettings) (driven.BlobStore, func(), error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, nil, err
		}
		dataDir = filepath.Join(dir, "data")
	}

	local, err := filesystem.New(filepath.Join(dataDir, "blobs"))
	if err != nil {
		return nil, nil, err
	}

	if cfg.GCSBucket == "" {
		return blob.NewRouter(local, nil), func() {}, nil
	}

	remote, err := gcs.New(ctx, cfg.GCSBucket)
	if err != nil {
		return nil, nil, err
	}
	closeRemote := func() {
		if err := remote.Close(); err != nil {
			logger.Warn("closing gcs client: %v", err)
		}
	}
	return blob.NewRouter(local, remote), closeRemote, nil
}
