// Package reconcile compares the desired certificate set against the
// certificates observed in the store and produces an ordered work queue.
//
// A desired certificate needs work when it is absent from the store, when the
// stored certificate does not cover every desired domain, or when it expires
// in under 30 days. Absent and under-covering certificates get urgency 0;
// expiring ones get their remaining whole days (negative once already
// expired). The queue is sorted ascending by urgency with stable order for
// ties, so the soonest-expiring certificates are renewed first.
//
// Planning is read-only: expiry timestamps are parsed only for certificates
// that already cover their domains, and a timestamp that cannot be parsed
// fails the whole planning pass with ErrUnparsableExpiry.
package reconcile
