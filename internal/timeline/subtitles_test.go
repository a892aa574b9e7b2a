package timeline

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestCuesTiming(t *testing.T) {
	entries := []Entry{
		{Time: 1.0, Text: "short", Speed: 80},
		{Time: 1.5, Text: "a much longer caption line here", Speed: 80},
		{Time: 10.0, Text: "last", Speed: 80},
	}
	cues := Cues(entries, SubtitleOptions{MinDisplay: time.Second, Duration: 10500 * time.Millisecond})

	if cues[0].Start != time.Second || cues[0].End != 1500*time.Millisecond {
		t.Fatalf("first cue should end at the next start: %+v", cues[0])
	}
	// 31 runes at 80ms each.
	if cues[1].End != 1500*time.Millisecond+2480*time.Millisecond {
		t.Fatalf("second cue should follow text length: %+v", cues[1])
	}
	if cues[2].End != 10500*time.Millisecond {
		t.Fatalf("last cue should be capped at the audio end: %+v", cues[2])
	}
}

func TestCuesMinimumDisplayAndRunes(t *testing.T) {
	cues := Cues([]Entry{{Time: 2, Text: "你好", Speed: 80}}, SubtitleOptions{})
	if cues[0].End != 2*time.Second+DefaultMinDisplay {
		t.Fatalf("expected minimum display, got %+v", cues[0])
	}
	cues = Cues([]Entry{{Time: 2, Text: "一二三四五六七八九十一二三四五六七八九十", Speed: 100}}, SubtitleOptions{MinDisplay: time.Second})
	if cues[0].End != 4*time.Second {
		t.Fatalf("expected 20 runes at 100ms, got %+v", cues[0])
	}
}

func TestCuesNeverEndBeforeStart(t *testing.T) {
	cues := Cues([]Entry{{Time: 5, Text: "x", Speed: 80}, {Time: 5, Text: "y", Speed: 80}}, SubtitleOptions{Duration: 4 * time.Second})
	for _, cue := range cues {
		if cue.End < cue.Start {
			t.Fatalf("cue ends before it starts: %+v", cue)
		}
	}
}

func TestWriteSubtitlesSRT(t *testing.T) {
	entries := Assemble([]float64{1.0, 3.25}, []string{"first line", "second line"}, 80)
	var buf bytes.Buffer
	if err := WriteSubtitles(&buf, entries, FormatSRT, SubtitleOptions{MinDisplay: time.Second}); err != nil {
		t.Fatalf("WriteSubtitles returned error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"00:00:01,000 --> 00:00:02,000", "first line", "00:00:03,250 --> 00:00:04,250", "second line"} {
		if !strings.Contains(out, want) {
			t.Fatalf("SRT output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSubtitlesVTT(t *testing.T) {
	entries := Assemble([]float64{0.5}, []string{"hello"}, 80)
	var buf bytes.Buffer
	if err := WriteSubtitles(&buf, entries, FormatVTT, SubtitleOptions{}); err != nil {
		t.Fatalf("WriteSubtitles returned error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "WEBVTT") {
		t.Fatalf("expected WEBVTT header:\n%s", out)
	}
	if !strings.Contains(out, "00:00:00.500 --> 00:00:01.700") {
		t.Fatalf("unexpected VTT timing:\n%s", out)
	}
}

func TestWriteSubtitlesOtherFormats(t *testing.T) {
	entries := Assemble([]float64{0.5}, []string{"hello"}, 80)
	for _, format := range []Format{FormatSSA, FormatASS, FormatTTML} {
		var buf bytes.Buffer
		if err := WriteSubtitles(&buf, entries, format, SubtitleOptions{Title: "Song"}); err != nil {
			t.Fatalf("%s: WriteSubtitles returned error: %v", format, err)
		}
		if !strings.Contains(buf.String(), "hello") {
			t.Fatalf("%s output missing text:\n%s", format, buf.String())
		}
	}
}

func TestWriteSubtitlesRejectsJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSubtitles(&buf, nil, FormatJSON, SubtitleOptions{}); err == nil {
		t.Fatal("expected error for json format")
	}
}
