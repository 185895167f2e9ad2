package renewal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/dmitrymomot/certsync/core/logger"
	"github.com/dmitrymomot/certsync/core/reconcile"
)

// Store persists an issued certificate. An empty updateLink creates a new
// store entry under name; a non-empty one updates the existing entry it
// points at.
type Store interface {
	SaveCertificate(ctx context.Context, name string, keyPEM, certPEM []byte, updateLink string) error
}

// Signer exchanges the CSR at csrPath for PEM-encoded certificate bytes.
type Signer interface {
	Sign(ctx context.Context, csrPath string) ([]byte, error)
}

// Backup archives issued certificate material after it has been saved to the
// store. Backup failures are logged and never fail the renewal.
type Backup interface {
	Store(ctx context.Context, name string, keyPEM, certPEM []byte) error
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger for renewal progress and warnings.
func WithLogger(log *slog.Logger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

// WithToolkit replaces the built-in key/CSR toolkit, e.g. with one that
// shells out to an external crypto tool.
func WithToolkit(toolkit Toolkit) Option {
	return func(o *Orchestrator) {
		o.toolkit = toolkit
	}
}

// WithBackup enables post-issuance archival of certificate material.
func WithBackup(backup Backup) Option {
	return func(o *Orchestrator) {
		o.backup = backup
	}
}

// Orchestrator drains a renewal queue sequentially, issuing one certificate
// at a time.
type Orchestrator struct {
	keyBits int
	store   Store
	signer  Signer
	toolkit Toolkit
	backup  Backup
	log     *slog.Logger
}

// New creates an Orchestrator issuing keys of keyBits bits. Without options
// it uses StdToolkit, logs nowhere, and keeps no backups.
func New(keyBits int, store Store, signer Signer, opts ...Option) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if signer == nil {
		return nil, errors.New("signer is required")
	}
	if keyBits <= 0 {
		return nil, fmt.Errorf("key size must be positive, got %d", keyBits)
	}

	o := &Orchestrator{
		keyBits: keyBits,
		store:   store,
		signer:  signer,
		toolkit: StdToolkit{},
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Process renews the queued certificates in order and returns how many were
// completed. The first failure aborts the remainder of the queue.
func (o *Orchestrator) Process(ctx context.Context, items []reconcile.Item) (int, error) {
	for i, item := range items {
		if err := o.renewOne(ctx, item); err != nil {
			return i, err
		}
	}
	return len(items), nil
}

func (o *Orchestrator) renewOne(ctx context.Context, item reconcile.Item) error {
	if len(item.Domains) == 0 {
		return fmt.Errorf("%w: %s", ErrNoDomains, item.Name)
	}

	o.log.Info("creating certificate",
		slog.String("name", item.Name),
		slog.Any("domains", item.Domains))

	// Every artifact of this attempt lives here; removal on return covers
	// all exit paths, including panics.
	dir, err := os.MkdirTemp("", "certsync-")
	if err != nil {
		return fmt.Errorf("create work directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			o.log.Warn("failed to remove work directory",
				slog.String("dir", dir),
				logger.Error(err))
		}
	}()

	keyPath := filepath.Join(dir, uuid.NewString())
	o.log.Debug("generating private key", slog.String("path", keyPath))
	if err := o.toolkit.GenerateKey(ctx, keyPath, o.keyBits); err != nil {
		return errors.Join(ErrCryptoTool, err)
	}

	keyPEM, err := os.ReadFile(keyPath)
	if err != nil {
		return fmt.Errorf("read generated key: %w", err)
	}

	params := CSRParams{}
	if len(item.Domains) == 1 {
		params.CommonName = item.Domains[0]
	} else {
		params.DNSNames = item.Domains
	}

	csrPath := filepath.Join(dir, uuid.NewString())
	o.log.Debug("generating certificate request", slog.String("path", csrPath))
	if err := o.toolkit.GenerateCSR(ctx, keyPath, csrPath, params); err != nil {
		return errors.Join(ErrCryptoTool, err)
	}

	o.log.Info("signing certificate request", slog.String("name", item.Name))
	certPEM, err := o.signer.Sign(ctx, csrPath)
	if err != nil {
		return errors.Join(ErrSigningFailed, err)
	}

	o.log.Info("saving certificate in store", slog.String("name", item.Name))
	if err := o.store.SaveCertificate(ctx, item.Name, keyPEM, certPEM, item.UpdateLink); err != nil {
		return err
	}

	if o.backup != nil {
		if err := o.backup.Store(ctx, item.Name, keyPEM, certPEM); err != nil {
			o.log.Warn("certificate backup failed",
				slog.String("name", item.Name),
				logger.Error(err))
		}
	}

	return nil
}
