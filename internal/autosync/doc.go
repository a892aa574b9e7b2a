// Package autosync runs the end-to-end timing pipeline: load caption lines,
// verify the analysis tools, detect onsets (through the cache when enabled),
// select one time point per line, and assemble the timeline.
//
// Run returns the complete result or an error; callers write output only
// after it succeeds, so a failed run never emits a partial timeline.
package autosync
