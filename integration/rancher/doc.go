// Package rancher is the certificate-store client for the Rancher v1 API.
//
// The store exposes certificates as /certificates resources: listing returns
// each certificate's name, subject alternative names, expiry timestamp, and a
// self link; creation is a POST with name, key, and cert; renewal is a PUT to
// the certificate's self link carrying only key and cert.
//
// Endpoint and credentials come from the environment:
//
//	CATTLE_URL        base API URL, e.g. http://rancher.local:8080/v1
//	CATTLE_ACCESS_KEY API access key
//	CATTLE_SECRET_KEY API secret key
//
// Any transport failure, unexpected status code, or undecodable response
// wraps runner.ErrStoreUnavailable and carries the store's status and body.
package rancher
