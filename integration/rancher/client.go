package rancher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/certsync/core/config"
	"github.com/dmitrymomot/certsync/core/reconcile"
	"github.com/dmitrymomot/certsync/core/runner"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client, e.g. with timeouts or a proxy.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.log = logger
	}
}

// Client talks to the Rancher v1 certificate API with basic auth.
type Client struct {
	baseURL    string
	accessKey  string
	secretKey  string
	httpClient *http.Client
	log        *slog.Logger
}

var _ runner.Store = (*Client)(nil)

// New creates a store client. Without options it uses http.DefaultClient
// and logs nowhere.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: CATTLE_URL is required", config.ErrInvalidConfig)
	}
	if cfg.AccessKey == "" {
		return nil, fmt.Errorf("%w: CATTLE_ACCESS_KEY is required", config.ErrInvalidConfig)
	}
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("%w: CATTLE_SECRET_KEY is required", config.ErrInvalidConfig)
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		accessKey:  cfg.AccessKey,
		secretKey:  cfg.SecretKey,
		httpClient: http.DefaultClient,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type certificateResource struct {
	Name                    string   `json:"name"`
	SubjectAlternativeNames []string `json:"subjectAlternativeNames"`
	ExpiresAt               string   `json:"expiresAt"`
	Links                   struct {
		Self string `json:"self"`
	} `json:"links"`
}

type certificateCollection struct {
	Data []certificateResource `json:"data"`
}

// ListCertificates returns the store's certificate inventory. The expiry
// timestamp is passed through untouched; the reconciler parses it on demand.
func (c *Client) ListCertificates(ctx context.Context) ([]reconcile.Observed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/certificates", nil)
	if err != nil {
		return nil, errors.Join(runner.ErrStoreUnavailable, err)
	}
	req.SetBasicAuth(c.accessKey, c.secretKey)

	body, err := c.do(req, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var collection certificateCollection
	if err := json.Unmarshal(body, &collection); err != nil {
		return nil, fmt.Errorf("%w: decode certificate list: %v", runner.ErrStoreUnavailable, err)
	}

	observed := make([]reconcile.Observed, 0, len(collection.Data))
	for _, cert := range collection.Data {
		observed = append(observed, reconcile.Observed{
			Name:       cert.Name,
			SANs:       cert.SubjectAlternativeNames,
			ExpiresAt:  cert.ExpiresAt,
			UpdateLink: cert.Links.Self,
		})
	}

	c.log.Debug("listed store certificates", slog.Int("count", len(observed)))
	return observed, nil
}

// SaveCertificate stores an issued certificate. With an empty updateLink the
// certificate is created under name; otherwise the existing resource behind
// updateLink is replaced (the name is not sent on update).
func (c *Client) SaveCertificate(ctx context.Context, name string, keyPEM, certPEM []byte, updateLink string) error {
	payload := map[string]string{
		"key":  string(keyPEM),
		"cert": string(certPEM),
	}

	method := http.MethodPut
	url := updateLink
	if updateLink == "" {
		method = http.MethodPost
		url = c.baseURL + "/certificates"
		payload["name"] = name
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return errors.Join(runner.ErrStoreUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(raw))
	if err != nil {
		return errors.Join(runner.ErrStoreUnavailable, err)
	}
	req.SetBasicAuth(c.accessKey, c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	if _, err := c.do(req, http.StatusOK, http.StatusCreated); err != nil {
		return err
	}

	c.log.Debug("saved certificate in store",
		slog.String("name", name),
		slog.Bool("created", updateLink == ""))
	return nil
}

// do executes the request and returns the response body, mapping transport
// failures and unexpected statuses to runner.ErrStoreUnavailable.
func (c *Client) do(req *http.Request, acceptStatus ...int) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Join(runner.ErrStoreUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Join(runner.ErrStoreUnavailable, err)
	}

	for _, status := range acceptStatus {
		if resp.StatusCode == status {
			return body, nil
		}
	}

	return nil, fmt.Errorf("%w: store returned %d: %s", runner.ErrStoreUnavailable, resp.StatusCode, body)
}
