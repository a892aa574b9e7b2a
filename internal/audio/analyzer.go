package audio

import (
	"context"

	"beatsync/internal/onset"
)

// Analysis is the result of onset detection for one audio file.
type Analysis struct {
	Onsets     onset.Set `json:"onsets"`
	Duration   float64   `json:"duration"`
	SampleRate int       `json:"sample_rate"`
	Frames     int       `json:"frames"`
}

// Analyzer detects onsets in the audio file at path.
type Analyzer interface {
	Analyze(ctx context.Context, path string) (Analysis, error)
}

// AnalyzeSamples computes onsets for mono samples in [-1, 1] at sampleRate.
// The params sample rate is ignored in favour of sampleRate.
func AnalyzeSamples(samples []float64, sampleRate int, params Params) Analysis {
	params.SampleRate = sampleRate
	result := Analysis{
		Onsets:     onset.Set{},
		SampleRate: sampleRate,
	}
	if sampleRate > 0 {
		result.Duration = float64(len(samples)) / float64(sampleRate)
	}
	if len(samples) == 0 || params.Validate() != nil {
		return result
	}

	env := strengthEnvelope(samples, params)
	result.Frames = len(env)
	frames := pickPeaks(normalize(env), params.peakWindows())
	result.Onsets = make(onset.Set, 0, len(frames))
	for _, frame := range frames {
		result.Onsets = append(result.Onsets, onset.Onset{
			Time:     frameTime(frame, params.HopLength, sampleRate),
			Strength: env[frame],
		})
	}
	return result
}

func frameTime(frame, hop, sampleRate int) float64 {
	return float64(frame*hop) / float64(sampleRate)
}
