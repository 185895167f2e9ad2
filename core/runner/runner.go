package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/certsync/core/config"
	"github.com/dmitrymomot/certsync/core/logger"
	"github.com/dmitrymomot/certsync/core/reconcile"
	"github.com/dmitrymomot/certsync/core/renewal"
)

// passInterval is the fixed sleep between daemon passes. The next pass
// starts this long after the previous one finished, regardless of how the
// previous one went.
const passInterval = 24 * time.Hour

// Store is the certificate store a pass reconciles against: it lists what
// is currently deployed and accepts new material for due certificates.
type Store interface {
	renewal.Store
	ListCertificates(ctx context.Context) ([]reconcile.Observed, error)
}

// Monitor receives the outcome of each daemon pass. Emission failures are
// logged and never affect the pass result.
type Monitor interface {
	ReportSuccess(ctx context.Context, renewed int) error
	ReportFailure(ctx context.Context, category, message string) error
}

// SignerFactory builds the certificate signer for one pass from the freshly
// loaded configuration.
type SignerFactory func(cfg *config.Config) (renewal.Signer, error)

// Runner executes reconciliation passes against a certificate store.
type Runner struct {
	configPath string
	store      Store
	newSigner  SignerFactory
	planner    *reconcile.Planner
	toolkit    renewal.Toolkit
	backup     renewal.Backup
	monitor    Monitor
	log        *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger shared by the runner and the components it
// builds for each pass.
func WithLogger(log *slog.Logger) Option {
	return func(r *Runner) {
		if log != nil {
			r.log = log
		}
	}
}

// WithMonitor wires pass outcome reporting, used by daemon mode.
func WithMonitor(monitor Monitor) Option {
	return func(r *Runner) {
		r.monitor = monitor
	}
}

// WithToolkit replaces the key and CSR generator used by renewal passes.
func WithToolkit(toolkit renewal.Toolkit) Option {
	return func(r *Runner) {
		r.toolkit = toolkit
	}
}

// WithBackup enables archiving of issued material after each renewal.
func WithBackup(backup renewal.Backup) Option {
	return func(r *Runner) {
		r.backup = backup
	}
}

// New creates a Runner reading its certificate configuration from
// configPath on every pass.
func New(configPath string, store Store, newSigner SignerFactory, opts ...Option) (*Runner, error) {
	if configPath == "" {
		return nil, errors.New("runner: config path is required")
	}
	if store == nil {
		return nil, errors.New("runner: store is required")
	}
	if newSigner == nil {
		return nil, errors.New("runner: signer factory is required")
	}

	r := &Runner{
		configPath: configPath,
		store:      store,
		newSigner:  newSigner,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.planner = reconcile.New(reconcile.WithLogger(r.log))

	return r, nil
}

// Once executes a single reconciliation pass and returns the number of
// certificates created or renewed. Any failure aborts the remainder of the
// pass.
func (r *Runner) Once(ctx context.Context) (int, error) {
	start := time.Now()
	r.log.InfoContext(ctx, "certificate pass started")

	cfg, err := config.Load(r.configPath)
	if err != nil {
		return 0, err
	}
	for _, warning := range cfg.Deprecations() {
		r.log.WarnContext(ctx, warning)
	}
	r.log.DebugContext(ctx, "issuance settings",
		slog.String("ca", cfg.CA),
		slog.String("ca_directory", cfg.CADirectory),
		slog.String("account_key", cfg.AccountKey))

	r.log.InfoContext(ctx, "listing certificates from store")
	observed, err := r.store.ListCertificates(ctx)
	if err != nil {
		return 0, err
	}
	r.logInventory(ctx, cfg, observed)

	items, err := r.planner.Plan(cfg.Certs, observed, time.Now())
	if err != nil {
		return 0, err
	}

	renewed := 0
	if len(items) > 0 {
		signer, err := r.newSigner(cfg)
		if err != nil {
			return 0, err
		}
		orch, err := renewal.New(cfg.KeyLength, r.store, signer, r.renewalOptions()...)
		if err != nil {
			return 0, err
		}
		renewed, err = orch.Process(ctx, items)
		if err != nil {
			return renewed, err
		}
	}

	r.log.InfoContext(ctx, "certificate pass finished",
		logger.Count("renewed", renewed),
		logger.Elapsed(start))

	return renewed, nil
}

// Daemon runs passes until ctx is canceled, sleeping passInterval between
// them. A failed or panicking pass is reported through the monitor and the
// loop keeps going; only cancellation stops the daemon.
func (r *Runner) Daemon(ctx context.Context) error {
	for {
		renewed, err := r.runPass(ctx)
		if ctx.Err() != nil {
			r.log.InfoContext(ctx, "daemon stopping")
			return ctx.Err()
		}

		if err == nil {
			if r.monitor != nil {
				if merr := r.monitor.ReportSuccess(ctx, renewed); merr != nil {
					r.log.ErrorContext(ctx, "monitoring emission failed", logger.Error(merr))
				}
			}
		} else {
			r.log.ErrorContext(ctx, "certificate pass failed",
				slog.String("category", category(err)),
				logger.Error(err))
			if r.monitor != nil {
				if merr := r.monitor.ReportFailure(ctx, category(err), err.Error()); merr != nil {
					r.log.ErrorContext(ctx, "monitoring emission failed", logger.Error(merr))
				}
			}
		}

		select {
		case <-ctx.Done():
			r.log.InfoContext(ctx, "daemon stopping")
			return ctx.Err()
		case <-time.After(passInterval):
		}
	}
}

// runPass shields the daemon loop from panicking passes.
func (r *Runner) runPass(ctx context.Context) (renewed int, retErr error) {
	defer func() {
		if rec := recover(); rec != nil {
			retErr = fmt.Errorf("panic in certificate pass: %v", rec)
			r.log.ErrorContext(ctx, "certificate pass panicked",
				slog.Any("panic", rec),
				logger.Stack())
		}
	}()

	return r.Once(ctx)
}

func (r *Runner) renewalOptions() []renewal.Option {
	opts := []renewal.Option{renewal.WithLogger(r.log)}
	if r.toolkit != nil {
		opts = append(opts, renewal.WithToolkit(r.toolkit))
	}
	if r.backup != nil {
		opts = append(opts, renewal.WithBackup(r.backup))
	}
	return opts
}

func (r *Runner) logInventory(ctx context.Context, cfg *config.Config, observed []reconcile.Observed) {
	for _, cert := range observed {
		r.log.DebugContext(ctx, "store certificate",
			slog.String("name", cert.Name),
			slog.String("sans", strings.Join(cert.SANs, ", ")))
	}
	for _, cert := range cfg.Certs {
		r.log.DebugContext(ctx, "configured certificate",
			slog.String("name", cert.Name),
			slog.String("domains", strings.Join(cert.Domains, ", ")))
	}
}

// category maps a pass failure onto the stable identifier used in monitor
// events.
func category(err error) string {
	switch {
	case errors.Is(err, config.ErrInvalidConfig):
		return "config"
	case errors.Is(err, reconcile.ErrUnparsableExpiry):
		return "reconcile"
	case errors.Is(err, ErrStoreUnavailable):
		return "store"
	case errors.Is(err, renewal.ErrSigningFailed):
		return "signing"
	case errors.Is(err, renewal.ErrCryptoTool):
		return "crypto"
	case errors.Is(err, renewal.ErrNoDomains):
		return "no_domains"
	default:
		return "internal"
	}
}
