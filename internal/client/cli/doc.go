// Package cli implements the interactive DeHug command line: uploading
// model and dataset files as content NFTs, fetching stored documents back
// through public gateways, and reading or updating engagement counters.
package cli
