package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/five82/memegen/internal/config"
	"github.com/five82/memegen/internal/imageapi"
	"github.com/five82/memegen/internal/share"
	"github.com/five82/memegen/internal/state"
	"github.com/five82/memegen/internal/storage"
	"github.com/five82/memegen/internal/studio"
	"github.com/five82/memegen/internal/ui"
)

// Options configure the memegen application.
type Options struct {
	ConfigPath string
	DBPath     string // overrides the config's db_path
	Ephemeral  bool   // keep state in memory only
	Logger     *log.Logger
	SyncEvery  time.Duration // zero uses default
}

// App holds the wired services shared by the CLI and the TUI.
type App struct {
	Config config.Config
	Store  *state.Store
	Studio *studio.Service
	Client *imageapi.Client

	backend storage.Backend
	logger  *log.Logger
}

// Open loads configuration, opens the state database and builds the studio
// service on top of it.
func Open(ctx context.Context, opts Options) (*App, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	backend, err := openBackend(cfg, opts.Ephemeral)
	if err != nil {
		return nil, err
	}

	store, err := state.Open(ctx, backend, state.WithLogger(logger))
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("load state: %w", err)
	}

	client, err := imageapi.NewClient(imageapi.Options{
		BaseURL:    cfg.APIBaseURL,
		ImageModel: cfg.ImageModel,
		IdeaModel:  cfg.IdeaModel,
		Timeout:    cfg.RequestTimeout,
	})
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("init api client: %w", err)
	}

	return &App{
		Config:  cfg,
		Store:   store,
		Studio:  studio.New(store, client, studio.WithLogger(logger)),
		Client:  client,
		backend: backend,
		logger:  logger,
	}, nil
}

// loadConfig reads the config file and applies the DBPath override.
func loadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if opts.DBPath != "" {
		path, err := config.ExpandPath(opts.DBPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("resolve db path: %w", err)
		}
		cfg.DBPath = path
	}
	return cfg, nil
}

func openBackend(cfg config.Config, ephemeral bool) (storage.Backend, error) {
	if ephemeral {
		return storage.NewMemoryBackend(), nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	backend, err := storage.NewSQLiteBackend(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return backend, nil
}

// Close releases the studio subscription and the database.
func (a *App) Close() error {
	a.Studio.Close()
	return a.backend.Close()
}

// Sharer returns the share target configured by share_command.
func (a *App) Sharer() share.Sharer {
	return share.CommandSharer{Command: a.Config.ShareCommand}
}

// Logger returns the application logger.
func (a *App) Logger() *log.Logger {
	return a.logger
}

// Run boots the memegen TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.Logger == nil {
		logger, closeLog, err := openLog(opts)
		if err != nil {
			return err
		}
		defer closeLog()
		opts.Logger = logger
	}

	a, err := Open(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.logger.Printf("close: %v", err)
		}
	}()

	if !opts.Ephemeral {
		// Another memegen process may write the same database. The sync
		// stops before the deferred Close releases the backend.
		stop := StartSync(ctx, a.Store, opts.SyncEvery, a.logger)
		defer stop()
	}

	return ui.Run(ui.Options{
		Context:     ctx,
		Studio:      a.Studio,
		Sharer:      a.Sharer(),
		DownloadDir: a.Config.DownloadDir,
		Logger:      a.logger,
	})
}

// LogPath returns the TUI log file for opts: memegen.log beside the database.
func LogPath(opts Options) (string, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return "", err
	}
	return cfg.LogPath(), nil
}

// openLog opens the TUI log file. The terminal belongs to Bubble Tea, so
// nothing is logged to stderr while it runs.
func openLog(opts Options) (*log.Logger, func(), error) {
	path, err := LogPath(opts)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	logger := log.New(f, "", log.LstdFlags)
	return logger, func() {
		if err := f.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			fmt.Fprintf(os.Stderr, "close log: %v\n", err)
		}
	}, nil
}
