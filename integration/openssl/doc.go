// Package openssl generates private keys and certificate requests by
// shelling out to the openssl command-line tool, for deployments that want
// issuance to go through the system crypto stack instead of the built-in
// toolkit.
//
// Key generation runs "openssl genrsa"; CSR generation runs "openssl req"
// with -subj /CN=<domain> for a single domain. For several domains a request
// config is derived from the system template (OPENSSL_BASE_CONFIG, default
// /etc/ssl/openssl.cnf) by appending a [SAN] section, written next to the
// CSR so it shares the renewal attempt's temporary directory and cleanup.
//
// A non-zero exit is returned as an error carrying the tool's captured
// stderr.
package openssl
