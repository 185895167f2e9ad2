// Package s3backup archives issued certificates and their private keys to
// an S3 bucket, one object pair per certificate:
//
//	<prefix>/<name>/cert.pem
//	<prefix>/<name>/key.pem
//
// The store remains the source of truth; the bucket is a recovery copy
// written after each successful issuance. Backups are optional: deployments
// enable them by setting S3_BACKUP_BUCKET, and a failed upload never fails
// the renewal that produced the material.
//
// Credentials follow the usual AWS chain (environment, shared config, IAM
// role) with optional static keys, and a custom endpoint supports
// S3-compatible services.
package s3backup
