package timeline

import (
	"fmt"
	"strings"
)

// Format is an output encoding for the timeline.
type Format string

const (
	FormatJSON Format = "json"
	FormatSRT  Format = "srt"
	FormatVTT  Format = "vtt"
	FormatSSA  Format = "ssa"
	FormatASS  Format = "ass"
	FormatTTML Format = "ttml"
)

var formats = []Format{FormatJSON, FormatSRT, FormatVTT, FormatSSA, FormatASS, FormatTTML}

// Formats lists the supported output formats.
func Formats() []Format {
	return append([]Format(nil), formats...)
}

// ParseFormat resolves a case-insensitive format name. "webvtt" is accepted
// for vtt.
func ParseFormat(value string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(value))
	if name == "webvtt" {
		name = string(FormatVTT)
	}
	for _, f := range formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format %q (want one of %s)", value, strings.Join(formatNames(), ", "))
}

// IsSubtitle reports whether the format is a subtitle container rather than JSON.
func (f Format) IsSubtitle() bool {
	return f != FormatJSON
}

// Extension returns the conventional file extension, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

func formatNames() []string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return names
}
