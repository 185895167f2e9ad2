// Package acme signs certificate requests through an ACME CA using
// go-acme/lego with HTTP-01 webroot challenges.
//
// The Signer is configured from the desired-state declaration: the account
// key PEM path, the challenge webroot directory, and the CA directory URL
// (including the deprecated direct-endpoint form, translated by the config
// package). The ACME account is registered on first use; registering an
// already-known account key returns the existing account, so repeated passes
// are safe.
//
// The underlying lego client is built lazily on the first Sign call: a pass
// with nothing to renew performs no ACME network traffic.
package acme
