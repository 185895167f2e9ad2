package reconcile

import "errors"

var (
	// ErrUnparsableExpiry is returned when a stored certificate's expiry
	// timestamp does not match the store's timestamp layout.
	ErrUnparsableExpiry = errors.New("unparsable expiry timestamp")
)
