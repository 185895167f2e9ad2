package renewal

import "errors"

var (
	// ErrNoDomains is returned when a queued certificate carries no domains.
	// Configuration validation makes this unreachable in normal operation.
	ErrNoDomains = errors.New("no domains for certificate")

	// ErrCryptoTool is returned when key or CSR generation fails.
	ErrCryptoTool = errors.New("crypto tool failed")

	// ErrSigningFailed is returned when the signing collaborator cannot
	// issue a certificate for the CSR.
	ErrSigningFailed = errors.New("certificate signing failed")
)
