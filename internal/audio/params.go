package audio

import (
	"fmt"

	"beatsync/internal/config"
)

const (
	// TopDB floors the log-power mel spectrogram this many decibels below its peak.
	TopDB = 80.0
	// Lag is the frame distance used for the spectral-flux difference.
	Lag = 1

	amin = 1e-10

	// fingerprintVersion changes whenever the envelope or peak picking changes
	// in a way that invalidates cached results.
	fingerprintVersion = 1
)

// Params controls the onset strength envelope and peak picking.
type Params struct {
	SampleRate int
	NFFT       int
	HopLength  int
	NMels      int
	Delta      float64
}

// DefaultParams mirrors the repository configuration defaults.
func DefaultParams() Params {
	return ParamsFromConfig(nil)
}

// ParamsFromConfig extracts analysis parameters from configuration. A nil
// config yields the defaults.
func ParamsFromConfig(cfg *config.Config) Params {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	return Params{
		SampleRate: cfg.Analysis.SampleRate,
		NFFT:       cfg.Analysis.NFFT,
		HopLength:  cfg.Analysis.HopLength,
		NMels:      cfg.Analysis.NMels,
		Delta:      cfg.Analysis.PeakDelta,
	}
}

// Validate reports parameters the envelope cannot be computed with.
func (p Params) Validate() error {
	switch {
	case p.SampleRate <= 0:
		return fmt.Errorf("sample rate must be positive (got %d)", p.SampleRate)
	case p.NFFT < 2:
		return fmt.Errorf("n_fft must be at least 2 (got %d)", p.NFFT)
	case p.HopLength <= 0 || p.HopLength > p.NFFT:
		return fmt.Errorf("hop length must be in (0, n_fft] (got %d)", p.HopLength)
	case p.NMels <= 0:
		return fmt.Errorf("mel band count must be positive (got %d)", p.NMels)
	case p.Delta < 0 || p.Delta > 1:
		return fmt.Errorf("peak delta must be between 0 and 1 (got %v)", p.Delta)
	}
	return nil
}

// Fingerprint identifies the parameter set for cache keys.
func (p Params) Fingerprint() string {
	return fmt.Sprintf("v%d:sr=%d:nfft=%d:hop=%d:mels=%d:delta=%g",
		fingerprintVersion, p.SampleRate, p.NFFT, p.HopLength, p.NMels, p.Delta)
}

// peakWindows derives the peak picking windows, in frames, from the
// sample rate and hop: 30ms max window, 100ms average window, 30ms wait.
func (p Params) peakWindows() peakConfig {
	framesPerSecond := float64(p.SampleRate) / float64(p.HopLength)
	short := int(0.03 * framesPerSecond)
	long := int(0.10 * framesPerSecond)
	return peakConfig{
		preMax:  short,
		postMax: 1,
		preAvg:  long,
		postAvg: long + 1,
		wait:    short,
		delta:   p.Delta,
	}
}
