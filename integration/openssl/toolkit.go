package openssl

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/dmitrymomot/certsync/core/renewal"
)

// Option configures a Toolkit.
type Option func(*Toolkit)

// WithLogger sets the logger for command diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(tk *Toolkit) {
		tk.log = logger
	}
}

// Toolkit implements renewal.Toolkit on top of the openssl binary.
type Toolkit struct {
	binary     string
	baseConfig string
	log        *slog.Logger
}

var _ renewal.Toolkit = (*Toolkit)(nil)

// New creates a Toolkit. Zero config fields fall back to the "openssl"
// binary on PATH and /etc/ssl/openssl.cnf.
func New(cfg Config, opts ...Option) *Toolkit {
	tk := &Toolkit{
		binary:     cfg.Binary,
		baseConfig: cfg.BaseConfig,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if tk.binary == "" {
		tk.binary = "openssl"
	}
	if tk.baseConfig == "" {
		tk.baseConfig = "/etc/ssl/openssl.cnf"
	}
	for _, opt := range opts {
		opt(tk)
	}
	return tk
}

// GenerateKey writes a new RSA private key of the given bit size to path.
func (tk *Toolkit) GenerateKey(ctx context.Context, path string, bits int) error {
	return tk.run(ctx, "genrsa", "-out", path, strconv.Itoa(bits))
}

// GenerateCSR writes a PEM-encoded certificate request for params to
// csrPath, signed with the key at keyPath. The multi-domain form derives a
// request config next to the CSR; the caller's temp-directory cleanup
// removes it with everything else.
func (tk *Toolkit) GenerateCSR(ctx context.Context, keyPath, csrPath string, params renewal.CSRParams) error {
	if params.CommonName != "" {
		return tk.run(ctx, "req", "-new", "-sha256", "-key", keyPath, "-out", csrPath, "-subj", "/CN="+params.CommonName)
	}

	configPath := csrPath + ".cnf"
	if err := tk.writeSANConfig(configPath, params.DNSNames); err != nil {
		return err
	}

	return tk.run(ctx, "req", "-new", "-sha256", "-key", keyPath, "-out", csrPath, "-subj", "/", "-reqexts", "SAN", "-config", configPath)
}

// writeSANConfig derives a request config by appending a [SAN] section with
// the domains, in order, to the base template.
func (tk *Toolkit) writeSANConfig(path string, domains []string) error {
	base, err := os.ReadFile(tk.baseConfig)
	if err != nil {
		return fmt.Errorf("read base config %s: %w", tk.baseConfig, err)
	}

	derived := append(base, []byte("\n[SAN]\nsubjectAltName=DNS:"+strings.Join(domains, ",DNS:")+"\n")...)
	if err := os.WriteFile(path, derived, 0o600); err != nil {
		return fmt.Errorf("write derived config: %w", err)
	}

	tk.log.Debug("derived request config",
		slog.String("path", path),
		slog.Any("domains", domains))
	return nil
}

func (tk *Toolkit) run(ctx context.Context, args ...string) error {
	tk.log.Debug("running openssl",
		slog.String("binary", tk.binary),
		slog.Any("args", args))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, tk.binary, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s failed: %v: %s", tk.binary, args[0], err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
