// Package analysiscache persists onset analyses in SQLite so repeated runs on
// the same audio skip decoding.
//
// Entries are keyed by the SHA-256 of the audio bytes combined with the
// analysis parameter fingerprint, so editing a file or changing analysis
// settings never returns a stale result. CachedAnalyzer wraps an
// audio.Analyzer with lookup, a per-key file lock shared across processes,
// and write-back. Cache failures are logged and analysis proceeds uncached.
package analysiscache
