// Package delimvm implements ordered-choice matching of byte-string
// alternatives against a short lookahead window: try each literal in
// registration order, and the first one that prefixes the window wins.
//
// Package hook compiles each source's active multi-hook begin vector into a
// Program via CompileAlternation, then resolves which candidate (if any)
// matches a given window via MatchAlternation, mirroring the "first match by
// vector order wins" rule for multi-hook mode.
package delimvm
