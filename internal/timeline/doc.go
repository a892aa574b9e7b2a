// Package timeline pairs selected time points with caption lines and writes
// the result.
//
// Assemble zips times and lines positionally. WriteJSON emits the timeline as
// an indented JSON array; WriteSubtitles renders the same entries as SRT,
// WebVTT, SSA/ASS, or TTML cues through go-astisub.
package timeline
