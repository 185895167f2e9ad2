package datadog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"

	"github.com/DataDog/datadog-go/v5/statsd"

	"github.com/dmitrymomot/certsync/core/runner"
)

// serviceCheckName is the binary health signal emitted once per pass.
const serviceCheckName = "certsync.status"

// StatsdClient is the subset of the DogStatsD client the Monitor uses.
type StatsdClient interface {
	Event(e *statsd.Event) error
	ServiceCheck(sc *statsd.ServiceCheck) error
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithLogger sets the logger for emission diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Monitor) {
		m.log = logger
	}
}

// WithClient sets a custom DogStatsD client. Primarily used for testing
// with fakes.
func WithClient(client StatsdClient) Option {
	return func(m *Monitor) {
		m.client = client
	}
}

// Monitor reports pass outcomes to a DogStatsD agent.
type Monitor struct {
	client StatsdClient
	log    *slog.Logger
}

var _ runner.Monitor = (*Monitor)(nil)

// New creates a Monitor connected to the agent at cfg.Host:cfg.Port.
func New(cfg Config, opts ...Option) (*Monitor, error) {
	m := &Monitor{
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.client == nil {
		client, err := statsd.New(net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)))
		if err != nil {
			return nil, fmt.Errorf("connect dogstatsd agent: %w", err)
		}
		m.client = client
	}

	return m, nil
}

// ReportSuccess emits the pass-completed event and an OK service check.
func (m *Monitor) ReportSuccess(_ context.Context, renewed int) error {
	m.log.Debug("reporting pass success", slog.Int("renewed", renewed))

	eventErr := m.client.Event(&statsd.Event{
		Title:     "Certsync executed successfully",
		Text:      fmt.Sprintf("%d certificate(s) created or renewed", renewed),
		AlertType: statsd.Success,
	})
	checkErr := m.client.ServiceCheck(&statsd.ServiceCheck{
		Name:   serviceCheckName,
		Status: statsd.Ok,
	})

	return errors.Join(eventErr, checkErr)
}

// ReportFailure emits the pass-failed event and a CRITICAL service check.
// The category names the failing stage; message carries the error detail.
func (m *Monitor) ReportFailure(_ context.Context, category, message string) error {
	m.log.Debug("reporting pass failure", slog.String("category", category))

	eventErr := m.client.Event(&statsd.Event{
		Title:     "Certsync encountered an error",
		Text:      fmt.Sprintf("Please check container logs.\n%s: %s", category, message),
		AlertType: statsd.Error,
	})
	checkErr := m.client.ServiceCheck(&statsd.ServiceCheck{
		Name:   serviceCheckName,
		Status: statsd.Critical,
	})

	return errors.Join(eventErr, checkErr)
}
