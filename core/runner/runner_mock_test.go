package runner_test

import (
	"context"
	"os"
	"sync"

	"github.com/dmitrymomot/certsync/core/reconcile"
	"github.com/dmitrymomot/certsync/core/renewal"
)

type savedCert struct {
	name       string
	keyPEM     []byte
	certPEM    []byte
	updateLink string
}

type mockStore struct {
	mu        sync.Mutex
	listFunc  func(ctx context.Context) ([]reconcile.Observed, error)
	saveFunc  func(ctx context.Context, name string, keyPEM, certPEM []byte, updateLink string) error
	listCalls int
	saved     []savedCert
}

func (s *mockStore) ListCertificates(ctx context.Context) ([]reconcile.Observed, error) {
	s.mu.Lock()
	s.listCalls++
	fn := s.listFunc
	s.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return nil, nil
}

func (s *mockStore) SaveCertificate(ctx context.Context, name string, keyPEM, certPEM []byte, updateLink string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveFunc != nil {
		return s.saveFunc(ctx, name, keyPEM, certPEM, updateLink)
	}
	s.saved = append(s.saved, savedCert{
		name:       name,
		keyPEM:     append([]byte(nil), keyPEM...),
		certPEM:    append([]byte(nil), certPEM...),
		updateLink: updateLink,
	})
	return nil
}

type mockSigner struct {
	mu       sync.Mutex
	signFunc func(ctx context.Context, csrPath string) ([]byte, error)
}

func (s *mockSigner) Sign(ctx context.Context, csrPath string) ([]byte, error) {
	s.mu.Lock()
	fn := s.signFunc
	s.mu.Unlock()

	if fn != nil {
		return fn(ctx, csrPath)
	}
	return []byte("test cert pem"), nil
}

type mockToolkit struct {
	mu     sync.Mutex
	keyErr error
	csrErr error
}

func (t *mockToolkit) GenerateKey(ctx context.Context, path string, bits int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.keyErr != nil {
		return t.keyErr
	}
	return os.WriteFile(path, []byte("test key pem"), 0o600)
}

func (t *mockToolkit) GenerateCSR(ctx context.Context, keyPath, csrPath string, params renewal.CSRParams) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.csrErr != nil {
		return t.csrErr
	}
	return os.WriteFile(csrPath, []byte("test csr pem"), 0o600)
}

type monitorReport struct {
	category string
	message  string
}

type mockMonitor struct {
	mu        sync.Mutex
	successes []int
	failures  []monitorReport
	reported  chan struct{}
}

func newMockMonitor() *mockMonitor {
	return &mockMonitor{reported: make(chan struct{}, 16)}
}

func (m *mockMonitor) ReportSuccess(ctx context.Context, renewed int) error {
	m.mu.Lock()
	m.successes = append(m.successes, renewed)
	m.mu.Unlock()

	m.reported <- struct{}{}
	return nil
}

func (m *mockMonitor) ReportFailure(ctx context.Context, category, message string) error {
	m.mu.Lock()
	m.failures = append(m.failures, monitorReport{category: category, message: message})
	m.mu.Unlock()

	m.reported <- struct{}{}
	return nil
}

func (m *mockMonitor) successCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.successes)
}

func (m *mockMonitor) failureAt(i int) monitorReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failures[i]
}
