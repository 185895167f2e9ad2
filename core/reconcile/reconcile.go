package reconcile

import (
	"cmp"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/dmitrymomot/certsync/core/config"
)

// ExpiresAtLayout is the timestamp layout the store uses for certificate
// expiry, e.g. "Thu Jul 16 08:59:59 UTC 2020".
const ExpiresAtLayout = "Mon Jan 02 15:04:05 MST 2006"

// renewThresholdDays is the remaining lifetime below which a covering
// certificate is renewed.
const renewThresholdDays = 30

// Observed is a certificate as reported by the store. ExpiresAt keeps the
// store's raw timestamp string; it is parsed only when the certificate
// covers its desired domains and its remaining lifetime matters.
type Observed struct {
	Name       string
	SANs       []string
	ExpiresAt  string
	UpdateLink string
}

// Item is one queued renewal. Urgency is 0 for certificates that are absent
// or missing domains, otherwise the whole days remaining before expiry
// (negative when already expired). An empty UpdateLink means the certificate
// must be created rather than updated.
type Item struct {
	Urgency    int
	Name       string
	Domains    []string
	UpdateLink string
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger sets the logger used for per-certificate classification logs.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) {
		p.log = logger
	}
}

// Planner classifies desired certificates against the store's inventory.
type Planner struct {
	log *slog.Logger
}

// New creates a Planner. Without options it logs nowhere.
func New(opts ...Option) *Planner {
	p := &Planner{
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan builds the renewal queue for one pass. Desired certificates are
// classified in declaration order; the result is sorted ascending by urgency
// with ties keeping declaration order. Certificates whose observed SANs cover
// every desired domain and that still have 30 or more whole days of lifetime
// produce no item.
func (p *Planner) Plan(desired []config.Certificate, observed []Observed, now time.Time) ([]Item, error) {
	byName := make(map[string]Observed, len(observed))
	for _, cert := range observed {
		byName[strings.TrimSpace(cert.Name)] = cert
	}

	var items []Item
	for _, want := range desired {
		found, ok := byName[want.Name]
		if !ok {
			p.log.Info("certificate not in store", slog.String("name", want.Name))
			items = append(items, Item{Urgency: 0, Name: want.Name, Domains: want.Domains})
			continue
		}

		if !containsAll(found.SANs, want.Domains) {
			p.log.Info("certificate missing domains", slog.String("name", want.Name))
			items = append(items, Item{Urgency: 0, Name: want.Name, Domains: want.Domains, UpdateLink: found.UpdateLink})
			continue
		}

		expiresAt, err := time.Parse(ExpiresAtLayout, found.ExpiresAt)
		if err != nil {
			return nil, fmt.Errorf("%w: certificate %q: %v", ErrUnparsableExpiry, want.Name, err)
		}

		remaining := wholeDays(expiresAt.Sub(now))
		p.log.Info("certificate expires",
			slog.String("name", want.Name),
			slog.Int("remaining_days", remaining))
		if remaining < renewThresholdDays {
			items = append(items, Item{Urgency: remaining, Name: want.Name, Domains: want.Domains, UpdateLink: found.UpdateLink})
		}
	}

	slices.SortStableFunc(items, func(a, b Item) int {
		return cmp.Compare(a.Urgency, b.Urgency)
	})

	return items, nil
}

// containsAll reports whether every needle appears in haystack, regardless of
// order on either side.
func containsAll(haystack, needles []string) bool {
	for _, needle := range needles {
		if !slices.Contains(haystack, needle) {
			return false
		}
	}
	return true
}

// wholeDays floors a duration to whole days, so -1 hour is day -1 and
// 23 hours is day 0.
func wholeDays(d time.Duration) int {
	const day = 24 * time.Hour
	days := int(d / day)
	if d < 0 && d%day != 0 {
		days--
	}
	return days
}
