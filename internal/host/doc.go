// Package host defines the contract between the generation pipeline and the
// compiler that hosts it. The pipeline never touches syntax directly: it asks
// a Compilation for declarations, attribute data, type relationships, member
// lookups and identifier references, and copies what it needs into plain
// values before validation.
//
// Symbols live in an arena owned by the Compilation and are addressed by
// SymbolID. Partial declarations are merged into one symbol before any query
// is answered, so symbol identity is cross-part identity.
package host
