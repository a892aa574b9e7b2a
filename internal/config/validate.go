package config

import (
	"errors"
	"fmt"
)

var supportedFormats = map[string]struct{}{
	"json": {},
	"srt":  {},
	"vtt":  {},
	"ssa":  {},
	"ass":  {},
	"ttml": {},
}

var supportedLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTimeline(); err != nil {
		return err
	}
	if err := c.validateSelection(); err != nil {
		return err
	}
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTimeline() error {
	if c.Timeline.Speed <= 0 {
		return errors.New("timeline.speed must be positive (milliseconds per character)")
	}
	if _, ok := supportedFormats[c.Timeline.Format]; !ok {
		return fmt.Errorf("timeline.format: unsupported value %q", c.Timeline.Format)
	}
	return nil
}

func (c *Config) validateSelection() error {
	if c.Selection.LeadInSeconds < 0 {
		return errors.New("selection.lead_in_seconds must be >= 0")
	}
	if c.Selection.LeadOutSeconds < 0 {
		return errors.New("selection.lead_out_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if err := ensurePositiveMap(map[string]int{
		"analysis.sample_rate": c.Analysis.SampleRate,
		"analysis.n_fft":       c.Analysis.NFFT,
		"analysis.hop_length":  c.Analysis.HopLength,
		"analysis.n_mels":      c.Analysis.NMels,
	}); err != nil {
		return err
	}
	if c.Analysis.HopLength > c.Analysis.NFFT {
		return errors.New("analysis.hop_length must not exceed analysis.n_fft")
	}
	if c.Analysis.PeakDelta < 0 || c.Analysis.PeakDelta > 1 {
		return errors.New("analysis.peak_delta must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.Enabled && c.Cache.Dir == "" {
		return errors.New("cache.dir must be set when cache.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if _, ok := supportedLevels[c.Logging.Level]; !ok {
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
