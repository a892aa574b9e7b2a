package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"beatsync/internal/config"
	"beatsync/internal/logging"
	"beatsync/internal/media/ffprobe"
	"beatsync/internal/services"
)

const stageAnalyze = "analyze"

// FFmpegAnalyzer decodes audio through ffmpeg and detects onsets in-process.
type FFmpegAnalyzer struct {
	FFmpegBinary  string
	FFprobeBinary string
	Params        Params
	Timeout       time.Duration
	Logger        *slog.Logger
}

// NewFFmpegAnalyzer builds an analyzer from configuration.
func NewFFmpegAnalyzer(cfg *config.Config, logger *slog.Logger) *FFmpegAnalyzer {
	analyzer := &FFmpegAnalyzer{
		Params: ParamsFromConfig(cfg),
		Logger: logging.NewComponentLogger(logger, "audio"),
	}
	if cfg != nil {
		analyzer.FFmpegBinary = cfg.FFmpegBinary()
		analyzer.FFprobeBinary = cfg.FFprobeBinary()
		analyzer.Timeout = cfg.AnalysisTimeout()
	}
	return analyzer
}

// Analyze probes the file for an audio stream, decodes it to mono PCM at the
// configured sample rate, and detects onsets.
func (a *FFmpegAnalyzer) Analyze(ctx context.Context, path string) (Analysis, error) {
	if err := a.Params.Validate(); err != nil {
		return Analysis{}, services.Wrap(services.ErrConfiguration, stageAnalyze, "params", "invalid analysis parameters", err)
	}
	if _, err := os.Stat(path); err != nil {
		return Analysis{}, services.Wrap(services.ErrValidation, stageAnalyze, "open", "audio file not readable", err)
	}
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}
	logger := logging.WithContext(ctx, a.logger())

	probe, err := ffprobe.Inspect(ctx, a.FFprobeBinary, path)
	if err != nil {
		return Analysis{}, services.Wrap(services.ErrExternalTool, stageAnalyze, "ffprobe", "inspect audio", err)
	}
	stream, ok := probe.PrimaryAudio()
	if !ok {
		return Analysis{}, services.Wrap(services.ErrValidation, stageAnalyze, "ffprobe", path, ffprobe.ErrNoAudio)
	}
	logger.Debug("audio stream",
		logging.String("codec", stream.CodecName),
		logging.Int("sample_rate", stream.SampleRateHz()),
		logging.Int("channels", stream.Channels),
		logging.Float64("container_duration", probe.DurationSeconds()),
	)

	start := time.Now()
	samples, err := decodePCM(ctx, a.FFmpegBinary, path, a.Params.SampleRate)
	if err != nil {
		return Analysis{}, services.Wrap(services.ErrExternalTool, stageAnalyze, "ffmpeg", "decode audio", err)
	}
	result := AnalyzeSamples(samples, a.Params.SampleRate, a.Params)
	logger.Debug("onset analysis complete",
		logging.Int("samples", len(samples)),
		logging.Int("frames", result.Frames),
		logging.Int("onsets", result.Onsets.Len()),
		logging.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

func (a *FFmpegAnalyzer) logger() *slog.Logger {
	if a.Logger == nil {
		return logging.NewNop()
	}
	return a.Logger
}

// decodePCM runs ffmpeg to decode the first audio stream to mono signed
// 16-bit little-endian PCM and scales it to [-1, 1).
func decodePCM(ctx context.Context, ffmpegBinary, path string, sampleRate int) ([]float64, error) {
	if strings.TrimSpace(ffmpegBinary) == "" {
		ffmpegBinary = "ffmpeg"
	}
	args := []string{
		"-hide_banner", "-loglevel", "error", "-nostdin",
		"-i", path,
		"-map", "0:a:0",
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"pipe:1",
	}
	cmd := exec.CommandContext(ctx, ffmpegBinary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg decode: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return pcmToFloat(stdout.Bytes()), nil
}

// pcmToFloat converts s16le bytes to float samples. A trailing odd byte is dropped.
func pcmToFloat(raw []byte) []float64 {
	samples := make([]float64, len(raw)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		samples[i] = float64(v) / 32768
	}
	return samples
}
