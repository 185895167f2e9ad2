package runner

import "errors"

// ErrStoreUnavailable reports that the certificate store could not be
// reached or rejected a request. Store implementations wrap it so that
// failed passes land in the store failure category.
var ErrStoreUnavailable = errors.New("certificate store unavailable")
