package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeTimeline(); err != nil {
		return err
	}
	c.normalizeAnalysis()
	if err := c.normalizeCache(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeTimeline() error {
	if value, ok := os.LookupEnv("BEATSYNC_SPEED"); ok && strings.TrimSpace(value) != "" {
		speed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("BEATSYNC_SPEED: %w", err)
		}
		c.Timeline.Speed = speed
	}
	c.Timeline.Format = strings.ToLower(strings.TrimSpace(c.Timeline.Format))
	if c.Timeline.Format == "" {
		c.Timeline.Format = defaultFormat
	}
	if c.Timeline.MinDisplayMS <= 0 {
		c.Timeline.MinDisplayMS = defaultMinDisplayMS
	}
	return nil
}

func (c *Config) normalizeAnalysis() {
	c.Analysis.FFmpegBinary = strings.TrimSpace(c.Analysis.FFmpegBinary)
	if c.Analysis.FFmpegBinary == "" {
		c.Analysis.FFmpegBinary = defaultFFmpegBinary
	}
	c.Analysis.FFprobeBinary = strings.TrimSpace(c.Analysis.FFprobeBinary)
	if c.Analysis.FFprobeBinary == "" {
		c.Analysis.FFprobeBinary = defaultFFprobeBinary
	}
	if c.Analysis.SampleRate == 0 {
		c.Analysis.SampleRate = defaultSampleRate
	}
	if c.Analysis.NFFT == 0 {
		c.Analysis.NFFT = defaultNFFT
	}
	if c.Analysis.HopLength == 0 {
		c.Analysis.HopLength = defaultHopLength
	}
	if c.Analysis.NMels == 0 {
		c.Analysis.NMels = defaultNMels
	}
	if c.Analysis.TimeoutSeconds <= 0 {
		c.Analysis.TimeoutSeconds = defaultTimeoutSeconds
	}
}

func (c *Config) normalizeCache() error {
	if value, ok := os.LookupEnv("BEATSYNC_CACHE_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Cache.Dir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Cache.Dir) == "" {
		c.Cache.Dir = defaultCacheDir()
	}
	var err error
	if c.Cache.Dir, err = expandPath(c.Cache.Dir); err != nil {
		return fmt.Errorf("cache.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	if value, ok := os.LookupEnv("BEATSYNC_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.LogDir) != "" {
		var err error
		if c.Logging.LogDir, err = expandPath(strings.TrimSpace(c.Logging.LogDir)); err != nil {
			return fmt.Errorf("logging.log_dir: %w", err)
		}
	}
	return nil
}
