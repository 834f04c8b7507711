// Package storage provides the decentralized-storage backends the upload
// pipeline stores payloads and metadata documents in, plus gateway-side
// retrieval with fallback.
package storage

import "regexp"

// DefaultGatewayURL is the gateway every stored reference is announced on.
const DefaultGatewayURL = "https://gateway.pinata.cloud/ipfs/"

// MetadataObjectName is the object name JSON documents are stored under.
const MetadataObjectName = "data.json"

var refPattern = regexp.MustCompile(`/ipfs/([A-Za-z0-9]+)`)

// RefFromURL extracts the bare content reference from any gateway URL.
// Inputs that carry no /ipfs/ path segment are returned unchanged, so a
// bare reference passes through.
func RefFromURL(url string) string {
	if m := refPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return url
}

// GatewayURL rewrites a reference or gateway URL onto the given gateway
// base. The base must end with a slash.
func GatewayURL(refOrURL, gatewayBase string) string {
	return gatewayBase + RefFromURL(refOrURL)
}
