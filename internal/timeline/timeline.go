package timeline

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
)

// DefaultSpeed is the per-character display pace, in milliseconds, written
// into each entry when configuration does not override it.
const DefaultSpeed = 80

// Entry is a single caption placed on the timeline.
type Entry struct {
	Time  float64 `json:"time"`
	Text  string  `json:"text"`
	Speed int     `json:"speed"`
}

// Assemble pairs times with lines by position. The shorter input decides the
// entry count. Times are rounded to two decimals.
func Assemble(times []float64, lines []string, speed int) []Entry {
	count := min(len(times), len(lines))
	entries := make([]Entry, count)
	for i := range entries {
		entries[i] = Entry{
			Time:  Round(times[i]),
			Text:  lines[i],
			Speed: speed,
		}
	}
	return entries
}

// Round rounds seconds to two decimal places, halves away from zero.
func Round(seconds float64) float64 {
	return math.Round(seconds*100) / 100
}

// WriteJSON writes entries as a two-space indented JSON array with non-ASCII
// text left unescaped.
func WriteJSON(w io.Writer, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(entries); err != nil {
		return fmt.Errorf("encode timeline: %w", err)
	}
	return nil
}
