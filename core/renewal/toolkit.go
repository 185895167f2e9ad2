package renewal

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

// CSRParams describes the identity a certificate request asks for. Exactly
// one form is used: CommonName for a single-domain certificate (subject
// CN=<domain>, no SAN extension), DNSNames for a multi-domain certificate
// (blank subject, SAN entries in the given order).
type CSRParams struct {
	CommonName string
	DNSNames   []string
}

// Toolkit generates the private key and certificate signing request for one
// renewal attempt. Both artifacts are written to caller-chosen paths inside
// the attempt's temporary directory.
type Toolkit interface {
	GenerateKey(ctx context.Context, path string, bits int) error
	GenerateCSR(ctx context.Context, keyPath, csrPath string, params CSRParams) error
}

// StdToolkit implements Toolkit with the standard crypto libraries: RSA keys
// in PKCS#1 PEM and SHA-256 signed CSRs, with SAN entries set in memory
// rather than through a derived tool configuration file.
type StdToolkit struct{}

var _ Toolkit = (*StdToolkit)(nil)

// GenerateKey writes a new RSA private key of the given bit size to path.
func (StdToolkit) GenerateKey(ctx context.Context, path string, bits int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if bits <= 0 {
		return fmt.Errorf("key size must be positive, got %d", bits)
	}

	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return fmt.Errorf("generate rsa key: %w", err)
	}

	block := &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
		return fmt.Errorf("write private key: %w", err)
	}

	return nil
}

// GenerateCSR reads the private key at keyPath and writes a PEM-encoded
// certificate request for params to csrPath.
func (StdToolkit) GenerateCSR(ctx context.Context, keyPath, csrPath string, params CSRParams) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key, err := readPrivateKey(keyPath)
	if err != nil {
		return err
	}

	tmpl := &x509.CertificateRequest{
		SignatureAlgorithm: x509.SHA256WithRSA,
	}
	if params.CommonName != "" {
		tmpl.Subject = pkix.Name{CommonName: params.CommonName}
	} else {
		tmpl.DNSNames = params.DNSNames
	}

	der, err := x509.CreateCertificateRequest(rand.Reader, tmpl, key)
	if err != nil {
		return fmt.Errorf("create certificate request: %w", err)
	}

	block := &pem.Block{
		Type:  "CERTIFICATE REQUEST",
		Bytes: der,
	}
	if err := os.WriteFile(csrPath, pem.EncodeToMemory(block), 0o600); err != nil {
		return fmt.Errorf("write certificate request: %w", err)
	}

	return nil
}

func readPrivateKey(path string) (*rsa.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}

	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, errors.New("no PEM block in private key file")
	}

	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	return key, nil
}
