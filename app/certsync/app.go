package certsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	coreconfig "github.com/dmitrymomot/certsync/core/config"
	"github.com/dmitrymomot/certsync/core/logger"
	"github.com/dmitrymomot/certsync/core/renewal"
	"github.com/dmitrymomot/certsync/core/runner"
	"github.com/dmitrymomot/certsync/integration/acme"
	"github.com/dmitrymomot/certsync/integration/datadog"
	"github.com/dmitrymomot/certsync/integration/openssl"
	"github.com/dmitrymomot/certsync/integration/rancher"
	"github.com/dmitrymomot/certsync/integration/s3backup"
)

// App assembles the daemon from its environment configuration: the store
// client, the crypto backend, the optional S3 backup, and the per-pass ACME
// signer factory.
type App struct {
	config    Config
	logger    *slog.Logger
	store     runner.Store
	toolkit   renewal.Toolkit
	backup    renewal.Backup
	monitor   runner.Monitor
	newSigner runner.SignerFactory
}

type AppOption func(*App) error

func NewApp(opts ...AppOption) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	app := &App{config: cfg}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.logger == nil {
		level := slog.LevelInfo
		if cfg.LogDebug {
			level = slog.LevelDebug
		}
		app.logger = logger.New(logger.WithLevel(level))
	}

	if app.store == nil {
		store, err := rancher.New(cfg.Rancher,
			rancher.WithLogger(app.logger.With(logger.Component("store"))))
		if err != nil {
			return nil, err
		}
		app.store = store
	}

	if app.toolkit == nil {
		switch cfg.CryptoBackend {
		case BackendNative, "":
			// renewal.StdToolkit is the orchestrator default.
		case BackendOpenSSL:
			app.toolkit = openssl.New(cfg.OpenSSL,
				openssl.WithLogger(app.logger.With(logger.Component("openssl"))))
		default:
			return nil, fmt.Errorf("%w: unknown CRYPTO_BACKEND %q", coreconfig.ErrInvalidConfig, cfg.CryptoBackend)
		}
	}

	if app.backup == nil && cfg.Backup.Enabled() {
		backup, err := s3backup.New(context.Background(), cfg.Backup,
			s3backup.WithLogger(app.logger.With(logger.Component("backup"))))
		if err != nil {
			return nil, err
		}
		app.backup = backup
	}

	if app.newSigner == nil {
		acmeLog := app.logger.With(logger.Component("acme"))
		app.newSigner = func(cfg *coreconfig.Config) (renewal.Signer, error) {
			return acme.New(cfg, acme.WithLogger(acmeLog))
		}
	}

	return app, nil
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Once runs a single reconciliation pass and returns how many certificates
// were created or renewed.
func (a *App) Once(ctx context.Context) (int, error) {
	run, err := a.newRunner(nil)
	if err != nil {
		return 0, err
	}
	return run.Once(ctx)
}

// Daemon runs passes on the daily schedule until ctx is canceled, reporting
// each outcome to DogStatsD.
func (a *App) Daemon(ctx context.Context) error {
	monitor := a.monitor
	if monitor == nil {
		m, err := datadog.New(a.config.Statsd,
			datadog.WithLogger(a.logger.With(logger.Component("monitor"))))
		if err != nil {
			return err
		}
		monitor = m
	}

	run, err := a.newRunner(monitor)
	if err != nil {
		return err
	}
	return run.Daemon(ctx)
}

func (a *App) newRunner(monitor runner.Monitor) (*runner.Runner, error) {
	opts := []runner.Option{runner.WithLogger(a.logger)}
	if a.toolkit != nil {
		opts = append(opts, runner.WithToolkit(a.toolkit))
	}
	if a.backup != nil {
		opts = append(opts, runner.WithBackup(a.backup))
	}
	if monitor != nil {
		opts = append(opts, runner.WithMonitor(monitor))
	}
	return runner.New(a.config.ConfigPath, a.store, a.newSigner, opts...)
}

func WithLogger(log *slog.Logger) AppOption {
	return func(app *App) error {
		if log == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = log
		return nil
	}
}

func WithStore(store runner.Store) AppOption {
	return func(app *App) error {
		if store == nil {
			return errors.New("store cannot be nil")
		}
		app.store = store
		return nil
	}
}

func WithToolkit(toolkit renewal.Toolkit) AppOption {
	return func(app *App) error {
		if toolkit == nil {
			return errors.New("toolkit cannot be nil")
		}
		app.toolkit = toolkit
		return nil
	}
}

func WithBackup(backup renewal.Backup) AppOption {
	return func(app *App) error {
		if backup == nil {
			return errors.New("backup cannot be nil")
		}
		app.backup = backup
		return nil
	}
}

func WithMonitor(monitor runner.Monitor) AppOption {
	return func(app *App) error {
		if monitor == nil {
			return errors.New("monitor cannot be nil")
		}
		app.monitor = monitor
		return nil
	}
}

func WithSignerFactory(newSigner runner.SignerFactory) AppOption {
	return func(app *App) error {
		if newSigner == nil {
			return errors.New("signer factory cannot be nil")
		}
		app.newSigner = newSigner
		return nil
	}
}
