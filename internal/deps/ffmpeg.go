package deps

import (
	"fmt"
	"strings"

	"beatsync/internal/config"
	"beatsync/internal/services"
)

// InstallHint is shown when the audio analysis tools cannot be found.
const InstallHint = "install ffmpeg (which provides ffprobe), e.g. `apt install ffmpeg` or `brew install ffmpeg`"

// AnalysisRequirements lists the binaries onset analysis shells out to.
func AnalysisRequirements(cfg *config.Config) []Requirement {
	ffmpeg, ffprobe := "ffmpeg", "ffprobe"
	if cfg != nil {
		ffmpeg, ffprobe = cfg.FFmpegBinary(), cfg.FFprobeBinary()
	}
	return []Requirement{
		{Name: "FFmpeg", Command: ffmpeg, Description: "Decodes audio to mono PCM for onset detection"},
		{Name: "FFprobe", Command: ffprobe, Description: "Inspects audio streams and container metadata"},
	}
}

// Require returns an ErrDependencyMissing error naming every unavailable
// non-optional dependency, or nil when all are present.
func Require(statuses []Status) error {
	var missing []string
	for _, status := range statuses {
		if status.Available || status.Optional {
			continue
		}
		detail := status.Detail
		if detail == "" {
			detail = "unavailable"
		}
		missing = append(missing, fmt.Sprintf("%s (%s)", status.Name, detail))
	}
	if len(missing) == 0 {
		return nil
	}
	return services.Wrap(services.ErrDependencyMissing, "deps", "check",
		fmt.Sprintf("%s; %s", strings.Join(missing, ", "), InstallHint), nil)
}
