// Package deps reports the availability of the external binaries the
// transcription pipeline shells out to.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"meetingscribe/internal/config"
)

// Requirement defines an external dependency the pipeline relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// CheckSystemDeps evaluates the external tools for the given config. Both
// the daemon status endpoint and the CLI check command use this to avoid
// duplicating the requirements list.
func CheckSystemDeps(cfg *config.Config) []Status {
	whisperBinary := cfg.Pipeline.BinaryPath
	if strings.TrimSpace(whisperBinary) == "" {
		whisperBinary, _ = config.DefaultWhisperBinary()
	}
	ffmpegBinary := cfg.Pipeline.FFmpegPath
	if strings.TrimSpace(ffmpegBinary) == "" {
		ffmpegBinary, _ = config.DefaultFFmpegBinary()
	}

	requirements := []Requirement{
		{
			Name:        "Whisper",
			Command:     whisperBinary,
			Description: "Required for speech recognition",
		},
		{
			Name:        "FFmpeg",
			Command:     ffmpegBinary,
			Description: "Required for audio extraction",
		},
	}
	return CheckBinaries(requirements)
}
