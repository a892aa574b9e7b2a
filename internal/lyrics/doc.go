// Package lyrics loads the caption lines that are placed on the timeline.
//
// Input is UTF-8 text, or UTF-16 when a byte order mark says so. Line text is
// kept byte for byte apart from trimming; blank lines are dropped and order
// is preserved. Invalid UTF-8 is an error.
package lyrics
