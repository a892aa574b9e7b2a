// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual stream properties (codec, sample rate, channels)
//   - Format: container-level metadata (duration, size, bitrate)
//
// Inspect executes ffprobe and returns the parsed Result. Helper methods on
// Result pick the primary audio stream and parse numeric fields.
package ffprobe
