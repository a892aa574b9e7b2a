package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"beatsync/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with a unique temp cache directory per
// test. It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Cache.Dir = filepath.Join(base, "cache")
	cfgVal.Logging.LogDir = ""
	cfgVal.Analysis.TimeoutSeconds = 30

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithCache toggles the analysis cache on the test config.
func WithCache(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.Enabled = enabled
	}
}

// WithSpeed overrides the timeline speed on the test config.
func WithSpeed(speed int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Timeline.Speed = speed
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffmpeg and ffprobe are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe"}
		}
		script := "#!/bin/sh\nexit 0\n"
		for _, name := range names {
			writeStub(b, name, script)
		}
		prependPath(b)
	}
}

// WithSilentAudioTools stubs ffprobe to report a single audio stream and
// ffmpeg to emit the given seconds of silent mono PCM at the configured
// sample rate. Every ffmpeg invocation appends a line to DecodeLog(cfg).
func WithSilentAudioTools(seconds int) ConfigOption {
	return func(b *configBuilder) {
		probe := "#!/bin/sh\n" +
			`echo '{"streams":[{"index":0,"codec_type":"audio","codec_name":"pcm_s16le","sample_rate":"22050","channels":1}],"format":{"duration":"` +
			fmt.Sprintf("%d", seconds) + `"}}'` + "\n"
		bytes := seconds * b.cfg.Analysis.SampleRate * 2
		decode := fmt.Sprintf("#!/bin/sh\necho decode >> %q\nhead -c %d /dev/zero\n", decodeLogPath(b.baseDir), bytes)
		b.cfg.Analysis.FFprobeBinary = writeStub(b, "ffprobe", probe)
		b.cfg.Analysis.FFmpegBinary = writeStub(b, "ffmpeg", decode)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Cache.Dir)
}

// DecodeLog returns the file the silent ffmpeg stub appends to per call.
func DecodeLog(cfg *config.Config) string {
	return decodeLogPath(BaseDir(cfg))
}

func decodeLogPath(base string) string {
	return filepath.Join(base, "ffmpeg-calls.log")
}

func binDir(b *configBuilder) string {
	dir := filepath.Join(b.baseDir, "bin")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		b.t.Fatalf("mkdir bin dir: %v", err)
	}
	return dir
}

func writeStub(b *configBuilder, name, script string) string {
	target := filepath.Join(binDir(b), name)
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		b.t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}

func prependPath(b *configBuilder) {
	b.t.Setenv("PATH", binDir(b)+string(os.PathListSeparator)+os.Getenv("PATH"))
}
