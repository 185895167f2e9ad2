package renewal_test

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/dmitrymomot/certsync/core/renewal"
)

// mockToolkit is a test implementation of renewal.Toolkit. By default it
// writes placeholder artifacts so the orchestrator can read them back.
type mockToolkit struct {
	mu              sync.Mutex
	generateKeyFunc func(ctx context.Context, path string, bits int) error
	generateCSRFunc func(ctx context.Context, keyPath, csrPath string, params renewal.CSRParams) error
	keyPaths        []string
	csrPaths        []string
	csrParams       []renewal.CSRParams
	keyBits         []int
}

func (m *mockToolkit) GenerateKey(ctx context.Context, path string, bits int) error {
	m.mu.Lock()
	m.keyPaths = append(m.keyPaths, path)
	m.keyBits = append(m.keyBits, bits)
	m.mu.Unlock()

	if m.generateKeyFunc != nil {
		return m.generateKeyFunc(ctx, path, bits)
	}
	return os.WriteFile(path, []byte("test key pem"), 0o600)
}

func (m *mockToolkit) GenerateCSR(ctx context.Context, keyPath, csrPath string, params renewal.CSRParams) error {
	m.mu.Lock()
	m.csrPaths = append(m.csrPaths, csrPath)
	m.csrParams = append(m.csrParams, params)
	m.mu.Unlock()

	if m.generateCSRFunc != nil {
		return m.generateCSRFunc(ctx, keyPath, csrPath, params)
	}
	return os.WriteFile(csrPath, []byte("test csr pem"), 0o600)
}

// mockSigner is a test implementation of renewal.Signer.
type mockSigner struct {
	mu       sync.Mutex
	signFunc func(ctx context.Context, csrPath string) ([]byte, error)
	csrPaths []string
}

func (m *mockSigner) Sign(ctx context.Context, csrPath string) ([]byte, error) {
	m.mu.Lock()
	m.csrPaths = append(m.csrPaths, csrPath)
	m.mu.Unlock()

	if m.signFunc != nil {
		return m.signFunc(ctx, csrPath)
	}
	return []byte("test cert pem"), nil
}

func (m *mockSigner) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.csrPaths)
}

// savedCert records one Store.SaveCertificate call.
type savedCert struct {
	name       string
	keyPEM     string
	certPEM    string
	updateLink string
}

// mockStore is a test implementation of renewal.Store.
type mockStore struct {
	mu       sync.Mutex
	saveFunc func(ctx context.Context, name string, keyPEM, certPEM []byte, updateLink string) error
	saved    []savedCert
}

func (m *mockStore) SaveCertificate(ctx context.Context, name string, keyPEM, certPEM []byte, updateLink string) error {
	m.mu.Lock()
	m.saved = append(m.saved, savedCert{
		name:       name,
		keyPEM:     string(keyPEM),
		certPEM:    string(certPEM),
		updateLink: updateLink,
	})
	m.mu.Unlock()

	if m.saveFunc != nil {
		return m.saveFunc(ctx, name, keyPEM, certPEM, updateLink)
	}
	return nil
}

func (m *mockStore) Saved() []savedCert {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]savedCert(nil), m.saved...)
}

// mockBackup is a test implementation of renewal.Backup.
type mockBackup struct {
	mu        sync.Mutex
	storeFunc func(ctx context.Context, name string, keyPEM, certPEM []byte) error
	stored    []savedCert
}

func (m *mockBackup) Store(ctx context.Context, name string, keyPEM, certPEM []byte) error {
	m.mu.Lock()
	m.stored = append(m.stored, savedCert{
		name:    name,
		keyPEM:  string(keyPEM),
		certPEM: string(certPEM),
	})
	m.mu.Unlock()

	if m.storeFunc != nil {
		return m.storeFunc(ctx, name, keyPEM, certPEM)
	}
	return nil
}

func (m *mockBackup) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stored)
}

var errMockFailure = errors.New("mock failure")
