// Package config loads and validates the desired-state declaration that
// drives certificate reconciliation: which certificates should exist in the
// store, which domains each must cover, and how new certificates are issued
// (key length, ACME account key, challenge directory, CA endpoint).
//
// The declaration is a YAML document:
//
//	key_length: 4096
//	account_key: /secrets/account.key
//	acme_dir: /var/www/challenges
//	ca_directory: https://acme-v02.api.letsencrypt.org/directory
//	certs:
//	  - name: example-com
//	    domains:
//	      - example.com
//	      - www.example.com
//
// Basic usage:
//
//	import "github.com/dmitrymomot/certsync/core/config"
//
//	cfg, err := config.Load("config/config.yml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, msg := range cfg.Deprecations() {
//		slog.Warn(msg)
//	}
//
// Load validates the document and normalizes it (certificate names and
// domains are trimmed of surrounding whitespace), so downstream consumers
// never re-check these invariants. All validation failures wrap
// ErrInvalidConfig and occur before any network activity.
package config
