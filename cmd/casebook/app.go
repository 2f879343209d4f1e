package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/phrazzld/casebook/internal/attribution"
	"github.com/phrazzld/casebook/internal/config"
	"github.com/phrazzld/casebook/internal/domain"
	"github.com/phrazzld/casebook/internal/events"
	"github.com/phrazzld/casebook/internal/platform/logger"
	"github.com/phrazzld/casebook/internal/platform/memory"
	"github.com/phrazzld/casebook/internal/platform/postgres"
	"github.com/phrazzld/casebook/internal/redact"
	"github.com/phrazzld/casebook/internal/registry"
	"github.com/phrazzld/casebook/internal/service"
	"github.com/phrazzld/casebook/internal/store"
)

var errNoDatabase = errors.New("database.url is not configured; pass --memory to use the in-memory store")

// backend is the set of stores the application runs on.
type backend struct {
	db           *sql.DB
	configStore  store.ConfigStore
	supportStore store.PracticalSupportStore
	historyStore store.HistoryStore
}

var (
	memoryMu      sync.Mutex
	memoryBackend *backend
)

// sharedMemoryBackend returns the process-wide in-memory backend, so
// commands executed in one process see each other's writes.
func sharedMemoryBackend() *backend {
	memoryMu.Lock()
	defer memoryMu.Unlock()
	if memoryBackend == nil {
		memoryBackend = &backend{
			configStore:  memory.NewConfigStore(),
			supportStore: memory.NewPracticalSupportStore(),
			historyStore: memory.NewHistoryStore(),
		}
	}
	return memoryBackend
}

func openPostgresBackend(ctx context.Context, cfg *config.Config, log *slog.Logger, migrate bool) (*backend, error) {
	if cfg.Database.URL == "" {
		return nil, errNoDatabase
	}

	db, err := postgres.Open(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	if migrate && cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db, postgres.MigrateUp, log); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	return &backend{
		db:           db,
		configStore:  postgres.NewPostgresConfigStore(db, log),
		supportStore: postgres.NewPostgresPracticalSupportStore(db, log),
		historyStore: postgres.NewPostgresHistoryStore(db, log),
	}, nil
}

// appOptions are the command-line choices that shape the application.
type appOptions struct {
	configPath string
	actor      string
	inMemory   bool
	// migrate applies pending migrations on startup when
	// database.auto_migrate is set.
	migrate bool
	// autosetup reconciles the field table on startup when
	// registry.autosetup is set.
	autosetup bool
}

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on exit.
type application struct {
	config    *config.Config
	logger    *slog.Logger
	logCloser io.Closer

	backend *backend

	// Event system
	eventEmitter *events.InMemoryEventEmitter
	publisher    *events.NATSPublisher

	registry       *registry.Registry
	supportService service.PracticalSupportService
}

// newApplication loads configuration and wires stores, the audit pipeline,
// the settings registry and the practical support service. The returned
// context carries the logger and the acting user.
func newApplication(ctx context.Context, opts appOptions) (*application, context.Context, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, ctx, err
	}

	log, logCloser, err := logger.Setup(cfg.Log)
	if err != nil {
		return nil, ctx, err
	}
	app := &application{
		config:    cfg,
		logger:    log,
		logCloser: logCloser,
	}

	ctx = logger.WithLogger(ctx, log)
	ctx = attribution.WithActor(ctx, opts.actor)

	if opts.inMemory {
		app.backend = sharedMemoryBackend()
	} else {
		app.backend, err = openPostgresBackend(ctx, cfg, log, opts.migrate)
		if err != nil {
			return nil, ctx, errors.Join(err, app.close())
		}
	}

	if err := app.setupEvents(); err != nil {
		return nil, ctx, errors.Join(err, app.close())
	}

	fields := registry.DefaultFields()
	if cfg.Registry.FieldsFile != "" {
		fields, err = registry.LoadFieldsFile(cfg.Registry.FieldsFile)
		if err != nil {
			return nil, ctx, errors.Join(err, app.close())
		}
	}

	var configStore store.ConfigStore = app.backend.configStore
	if cfg.Registry.CacheTTL > 0 {
		configStore = registry.NewCachedStore(configStore, cfg.Registry.CacheTTL)
		log.Debug("config lookup cache enabled", slog.Duration("ttl", cfg.Registry.CacheTTL))
	}

	app.registry, err = registry.New(configStore, fields, app.eventEmitter, log)
	if err != nil {
		return nil, ctx, errors.Join(fmt.Errorf("failed to create settings registry: %w", err), app.close())
	}

	app.supportService, err = service.NewPracticalSupportService(
		app.backend.supportStore,
		app.registry,
		app.eventEmitter,
		log,
	)
	if err != nil {
		return nil, ctx, errors.Join(fmt.Errorf("failed to create practical support service: %w", err), app.close())
	}

	if opts.autosetup && cfg.Registry.Autosetup {
		if _, err := app.registry.Autosetup(ctx); err != nil {
			return nil, ctx, errors.Join(fmt.Errorf("autosetup failed: %w", err), app.close())
		}
	}

	log.Debug("application initialized",
		slog.Bool("memory", opts.inMemory),
		slog.Int("fields", len(fields)))
	return app, ctx, nil
}

// setupEvents registers the audit handlers the configuration asks for.
func (app *application) setupEvents() error {
	app.eventEmitter = events.NewInMemoryEventEmitter(app.logger)

	if app.config.Audit.RecordHistory {
		app.eventEmitter.RegisterHandler(events.NewHistoryRecorder(app.backend.historyStore))
	}

	if url := app.config.Audit.NATSURL; url != "" {
		publisher, err := events.NewNATSPublisher(url)
		if err != nil {
			return err
		}
		app.publisher = publisher
		app.eventEmitter.RegisterHandler(publisher)
		app.logger.Info("publishing audit events to NATS", slog.String("url", redact.String(url)))
	}
	return nil
}

// close releases every resource the application holds, collecting all
// failures rather than stopping at the first.
func (app *application) close() error {
	var result *multierror.Error

	if app.publisher != nil {
		if err := app.publisher.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("closing NATS connection: %w", err))
		}
	}
	if app.backend != nil && app.backend.db != nil {
		if err := app.backend.db.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("closing database: %w", err))
		}
	}
	if app.logCloser != nil {
		if err := app.logCloser.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("closing log file: %w", err))
		}
	}
	return result.ErrorOrNil()
}

// history returns the audit trail of one entity. Config entries may be
// named by key instead of ID.
func (app *application) history(ctx context.Context, entity string, ref string) ([]*domain.AuditEvent, error) {
	if entity == domain.EntityConfig {
		if _, err := uuid.Parse(ref); err != nil {
			entry, err := app.backend.configStore.FindByKey(ctx, ref)
			if err != nil {
				return nil, fmt.Errorf("looking up config %q: %w", ref, err)
			}
			return app.backend.historyStore.ListForEntity(ctx, entity, entry.ID)
		}
	}

	id, err := parseID(ref)
	if err != nil {
		return nil, err
	}
	return app.backend.historyStore.ListForEntity(ctx, entity, id)
}
