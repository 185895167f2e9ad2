package acme

import (
	"context"
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/go-acme/lego/v4/certcrypto"
	"github.com/go-acme/lego/v4/certificate"
	"github.com/go-acme/lego/v4/challenge"
	"github.com/go-acme/lego/v4/lego"
	"github.com/go-acme/lego/v4/providers/http/webroot"
	"github.com/go-acme/lego/v4/registration"

	"github.com/dmitrymomot/certsync/core/config"
	"github.com/dmitrymomot/certsync/core/renewal"
)

// Option configures a Signer.
type Option func(*Signer)

// WithLogger sets the logger for ACME progress diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Signer) {
		s.log = logger
	}
}

// Signer issues certificates for CSR files via an ACME CA.
type Signer struct {
	accountKeyPath string
	challengeDir   string
	directoryURL   string
	clientFactory  clientFactory
	log            *slog.Logger

	mu     sync.Mutex
	client acmeClient
}

var _ renewal.Signer = (*Signer)(nil)

// New creates a Signer from the desired-state declaration: cfg.AccountKey is
// the ACME account key PEM path, cfg.ACMEDir the webroot serving HTTP-01
// challenge files, and cfg.DirectoryURL() the CA to issue against (empty
// falls back to Let's Encrypt production).
func New(cfg *config.Config, opts ...Option) (*Signer, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if cfg.AccountKey == "" {
		return nil, errors.New("account key path is required")
	}
	if cfg.ACMEDir == "" {
		return nil, errors.New("challenge directory is required")
	}

	directoryURL := cfg.DirectoryURL()
	if directoryURL == "" {
		directoryURL = lego.LEDirectoryProduction
	}

	s := &Signer{
		accountKeyPath: cfg.AccountKey,
		challengeDir:   cfg.ACMEDir,
		directoryURL:   directoryURL,
		clientFactory:  defaultClientFactory,
		log:            slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Sign reads the PEM-encoded CSR at csrPath and returns the issued
// certificate with its chain bundled.
func (s *Signer) Sign(ctx context.Context, csrPath string) ([]byte, error) {
	client, err := s.ensureClient(ctx)
	if err != nil {
		return nil, err
	}

	csr, err := readCSR(csrPath)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.log.Debug("requesting certificate",
		slog.String("csr", csrPath),
		slog.String("directory", s.directoryURL))
	res, err := client.ObtainForCSR(certificate.ObtainForCSRRequest{
		CSR:    csr,
		Bundle: true,
	})
	if err != nil {
		return nil, fmt.Errorf("obtain certificate: %w", err)
	}
	if res == nil || len(res.Certificate) == 0 {
		return nil, errors.New("empty certificate payload received from ACME server")
	}

	return res.Certificate, nil
}

// ensureClient builds the lego client and registers the account on first
// use. Registering an existing account key returns the same account, so
// this is idempotent across process restarts.
func (s *Signer) ensureClient(ctx context.Context) (acmeClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.accountKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read account key: %w", err)
	}
	accountKey, err := certcrypto.ParsePEMPrivateKey(raw)
	if err != nil {
		return nil, fmt.Errorf("parse account key: %w", err)
	}

	user := &accountUser{key: accountKey}
	legoCfg := lego.NewConfig(user)
	legoCfg.CADirURL = s.directoryURL

	client, err := s.clientFactory(legoCfg)
	if err != nil {
		return nil, fmt.Errorf("create acme client: %w", err)
	}

	provider, err := webroot.NewHTTPProvider(s.challengeDir)
	if err != nil {
		return nil, fmt.Errorf("create webroot provider: %w", err)
	}
	if err := client.SetHTTP01Provider(provider); err != nil {
		return nil, fmt.Errorf("configure http-01 provider: %w", err)
	}

	s.log.Debug("registering acme account", slog.String("directory", s.directoryURL))
	reg, err := client.Register(registration.RegisterOptions{TermsOfServiceAgreed: true})
	if err != nil {
		return nil, fmt.Errorf("register account: %w", err)
	}
	user.registration = reg

	s.client = client
	return client, nil
}

func readCSR(path string) (*x509.CertificateRequest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read csr: %w", err)
	}

	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, errors.New("no PEM block in csr file")
	}

	csr, err := x509.ParseCertificateRequest(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse csr: %w", err)
	}

	return csr, nil
}

type clientFactory func(*lego.Config) (acmeClient, error)

type acmeClient interface {
	Register(options registration.RegisterOptions) (*registration.Resource, error)
	SetHTTP01Provider(provider challenge.Provider) error
	ObtainForCSR(request certificate.ObtainForCSRRequest) (*certificate.Resource, error)
}

func defaultClientFactory(cfg *lego.Config) (acmeClient, error) {
	client, err := lego.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &legoClientAdapter{client: client}, nil
}

type legoClientAdapter struct {
	client *lego.Client
}

func (l *legoClientAdapter) Register(options registration.RegisterOptions) (*registration.Resource, error) {
	return l.client.Registration.Register(options)
}

func (l *legoClientAdapter) SetHTTP01Provider(provider challenge.Provider) error {
	return l.client.Challenge.SetHTTP01Provider(provider)
}

func (l *legoClientAdapter) ObtainForCSR(request certificate.ObtainForCSRRequest) (*certificate.Resource, error) {
	return l.client.Certificate.ObtainForCSR(request)
}

type accountUser struct {
	registration *registration.Resource
	key          crypto.PrivateKey
}

func (u *accountUser) GetEmail() string {
	return ""
}

func (u *accountUser) GetRegistration() *registration.Resource {
	return u.registration
}

func (u *accountUser) GetPrivateKey() crypto.PrivateKey {
	return u.key
}
