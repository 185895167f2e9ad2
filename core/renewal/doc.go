// Package renewal executes a renewal queue: for each queued certificate it
// generates a fresh private key and CSR, has the signing collaborator issue
// a certificate, and saves the pair to the store.
//
// Collaborators are interfaces supplied by the caller: Store persists issued
// certificates, Signer exchanges a CSR for certificate PEM, Toolkit generates
// keys and CSRs, and the optional Backup archives issued material. The
// built-in StdToolkit covers key and CSR generation with the standard crypto
// libraries; an external tool can be swapped in via WithToolkit.
//
// Processing is strictly sequential in queue order and stops at the first
// failure: certificates behind a failing item wait for the next pass. Every
// on-disk artifact of an attempt lives in a private temporary directory that
// is removed when the attempt finishes, however it finishes.
package renewal
