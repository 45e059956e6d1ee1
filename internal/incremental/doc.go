// Package incremental memoizes pipeline stages by content address. A key is
// the SHA-256 of the stage name, the schema version and the canonical msgpack
// encoding of the stage input; values are stored msgpack-encoded so cached
// results never alias live data.
package incremental
