package timeline

import (
	"fmt"
	"io"
	"math"
	"time"
	"unicode/utf8"

	"github.com/asticode/go-astisub"
)

// DefaultMinDisplay is the shortest cue length used when options leave it unset.
const DefaultMinDisplay = 1200 * time.Millisecond

// SubtitleOptions controls cue timing for subtitle exports.
type SubtitleOptions struct {
	// MinDisplay is the shortest time a cue stays on screen unless the next
	// cue starts first.
	MinDisplay time.Duration
	// Duration caps cue ends at the end of the audio when positive.
	Duration time.Duration
	// Title is written into formats that carry metadata.
	Title string
}

// Cue is an entry with its computed display window.
type Cue struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// Cues computes display windows for entries. A cue lasts for its text length
// times the entry speed, at least MinDisplay, and ends no later than the next
// cue's start or the audio end.
func Cues(entries []Entry, opts SubtitleOptions) []Cue {
	minDisplay := opts.MinDisplay
	if minDisplay <= 0 {
		minDisplay = DefaultMinDisplay
	}
	cues := make([]Cue, len(entries))
	for i, entry := range entries {
		start := secondsToDuration(entry.Time)
		length := time.Duration(utf8.RuneCountInString(entry.Text)*entry.Speed) * time.Millisecond
		end := start + max(length, minDisplay)
		if i+1 < len(entries) {
			end = min(end, secondsToDuration(entries[i+1].Time))
		}
		if opts.Duration > 0 {
			end = min(end, opts.Duration)
		}
		cues[i] = Cue{Start: start, End: max(end, start), Text: entry.Text}
	}
	return cues
}

// WriteSubtitles renders entries in a subtitle format.
func WriteSubtitles(w io.Writer, entries []Entry, format Format, opts SubtitleOptions) error {
	subs := astisub.NewSubtitles()
	if opts.Title != "" {
		subs.Metadata = &astisub.Metadata{Title: opts.Title}
	}
	for i, cue := range Cues(entries, opts) {
		subs.Items = append(subs.Items, &astisub.Item{
			Index:   i + 1,
			StartAt: cue.Start,
			EndAt:   cue.End,
			Lines:   []astisub.Line{{Items: []astisub.LineItem{{Text: cue.Text}}}},
		})
	}

	var err error
	switch format {
	case FormatSRT:
		err = subs.WriteToSRT(w)
	case FormatVTT:
		err = subs.WriteToWebVTT(w)
	case FormatSSA, FormatASS:
		err = subs.WriteToSSA(w)
	case FormatTTML:
		err = subs.WriteToTTML(w)
	default:
		return fmt.Errorf("write subtitles: %q is not a subtitle format", format)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return nil
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(math.Round(seconds*1000)) * time.Millisecond
}
