package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Timeline contains configuration for the assembled output.
type Timeline struct {
	// Speed is the per-character display pace in milliseconds written into
	// every timeline entry. Default: 80
	Speed int `toml:"speed"`
	// Format is the default output format (json, srt, vtt, ssa, ass, ttml).
	Format string `toml:"format"`
	// MinDisplayMS is the shortest cue duration used by subtitle exports.
	MinDisplayMS int `toml:"min_display_ms"`
}

// Selection contains the padding applied by the even-spread fallbacks.
type Selection struct {
	LeadInSeconds  float64 `toml:"lead_in_seconds"`
	LeadOutSeconds float64 `toml:"lead_out_seconds"`
}

// Analysis contains onset detection settings.
type Analysis struct {
	FFmpegBinary   string  `toml:"ffmpeg_binary"`
	FFprobeBinary  string  `toml:"ffprobe_binary"`
	SampleRate     int     `toml:"sample_rate"`
	NFFT           int     `toml:"n_fft"`
	HopLength      int     `toml:"hop_length"`
	NMels          int     `toml:"n_mels"`
	PeakDelta      float64 `toml:"peak_delta"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// Cache contains configuration for the onset analysis cache.
type Cache struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Logging contains configuration for diagnostic output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// LogDir additionally mirrors diagnostics into beatsync.log when set.
	LogDir string `toml:"log_dir"`
}

// Config encapsulates all configuration values for beatsync.
//
// Configuration sections by subsystem:
//   - Timeline: display speed, default output format, subtitle cue length
//   - Selection: lead-in/lead-out padding for onset-less fallbacks
//   - Analysis: ffmpeg/ffprobe binaries and onset detection parameters
//   - Cache: SQLite-backed onset analysis cache
//   - Logging: log format, level, and optional log directory
type Config struct {
	Timeline  Timeline  `toml:"timeline"`
	Selection Selection `toml:"selection"`
	Analysis  Analysis  `toml:"analysis"`
	Cache     Cache     `toml:"cache"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("beatsync.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the cache and log directories when configured.
func (c *Config) EnsureDirectories() error {
	if c.Cache.Enabled && strings.TrimSpace(c.Cache.Dir) != "" {
		if err := os.MkdirAll(c.Cache.Dir, 0o755); err != nil {
			return fmt.Errorf("create cache directory %q: %w", c.Cache.Dir, err)
		}
	}
	if strings.TrimSpace(c.Logging.LogDir) != "" {
		if err := os.MkdirAll(c.Logging.LogDir, 0o755); err != nil {
			return fmt.Errorf("create log directory %q: %w", c.Logging.LogDir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable used to decode audio.
func (c *Config) FFmpegBinary() string {
	if bin := strings.TrimSpace(c.Analysis.FFmpegBinary); bin != "" {
		return bin
	}
	return defaultFFmpegBinary
}

// FFprobeBinary returns the ffprobe executable used to inspect audio.
func (c *Config) FFprobeBinary() string {
	if bin := strings.TrimSpace(c.Analysis.FFprobeBinary); bin != "" {
		return bin
	}
	return defaultFFprobeBinary
}

// AnalysisTimeout returns the upper bound for a single decode and analysis run.
func (c *Config) AnalysisTimeout() time.Duration {
	return time.Duration(c.Analysis.TimeoutSeconds) * time.Second
}

// MinDisplay returns the shortest cue duration for subtitle exports.
func (c *Config) MinDisplay() time.Duration {
	return time.Duration(c.Timeline.MinDisplayMS) * time.Millisecond
}

// CacheDBPath returns the SQLite file backing the analysis cache.
func (c *Config) CacheDBPath() string {
	return filepath.Join(c.Cache.Dir, "analysis.db")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "beatsync")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/beatsync"
	}
	return filepath.Join(home, ".cache", "beatsync")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
