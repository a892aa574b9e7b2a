package config

const (
	defaultConfigPath     = "~/.config/beatsync/config.toml"
	defaultSpeed          = 80
	defaultFormat         = "json"
	defaultMinDisplayMS   = 1200
	defaultLeadInSeconds  = 0.5
	defaultLeadOutSeconds = 1.0
	defaultFFmpegBinary   = "ffmpeg"
	defaultFFprobeBinary  = "ffprobe"
	defaultSampleRate     = 22050
	defaultNFFT           = 2048
	defaultHopLength      = 512
	defaultNMels          = 128
	defaultPeakDelta      = 0.07
	defaultTimeoutSeconds = 300
	defaultCacheEnabled   = true
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Timeline: Timeline{
			Speed:        defaultSpeed,
			Format:       defaultFormat,
			MinDisplayMS: defaultMinDisplayMS,
		},
		Selection: Selection{
			LeadInSeconds:  defaultLeadInSeconds,
			LeadOutSeconds: defaultLeadOutSeconds,
		},
		Analysis: Analysis{
			FFmpegBinary:   defaultFFmpegBinary,
			FFprobeBinary:  defaultFFprobeBinary,
			SampleRate:     defaultSampleRate,
			NFFT:           defaultNFFT,
			HopLength:      defaultHopLength,
			NMels:          defaultNMels,
			PeakDelta:      defaultPeakDelta,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Cache: Cache{
			Enabled: defaultCacheEnabled,
			Dir:     defaultCacheDir(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
