// Package preflight validates the environment before a transcription job
// starts, so a doomed run fails in milliseconds instead of after a long
// download.
package preflight

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"meetingscribe/internal/config"
	"meetingscribe/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// Scratch space below this threshold fails the disk check; WAV extraction
// inflates compressed meeting audio considerably.
const minScratchBytes = 1 << 30

// RunJobChecks executes every check a transcription job depends on.
func RunJobChecks(cfg *config.Config) []Result {
	return []Result{
		checkBinary("whisper binary", cfg.Pipeline.BinaryPath,
			"set pipeline.binary_path or install whisper-cli on PATH"),
		checkBinary("ffmpeg binary", cfg.Pipeline.FFmpegPath,
			"set pipeline.ffmpeg_path or install ffmpeg on PATH"),
		checkModel(cfg.Pipeline.ModelPath),
		checkWritableDir("scratch directory", cfg.Daemon.ScratchDir),
		checkScratchSpace(cfg.Daemon.ScratchDir),
		checkWritableDir("output directory", cfg.Pipeline.OutputDir),
	}
}

// Err collapses failed checks into a single configuration error, or nil
// when everything passed.
func Err(results []Result) error {
	var failures []string
	for _, result := range results {
		if !result.Passed {
			failures = append(failures, result.Name+": "+result.Detail)
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return services.Wrap(services.ErrConfiguration, "preflight", "", strings.Join(failures, "; "), nil)
}

func checkBinary(name, path, hint string) Result {
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{Name: name, Detail: "not configured (" + hint + ")"}
	}
	if _, err := exec.LookPath(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s not found (%s)", path, hint)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

func checkModel(path string) Result {
	const name = "whisper model"
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{Name: name, Detail: "not configured (set pipeline.model_path to a ggml model file)"}
	}
	info, err := os.Stat(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s does not exist (download a ggml model and set pipeline.model_path)", path)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: path + " is a directory, expected a model file"}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

func checkWritableDir(name, path string) Result {
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s cannot be created (%v)", path, err)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s has insufficient permissions (%v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

func checkScratchSpace(path string) Result {
	const name = "scratch space"
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{Name: name, Detail: "scratch directory not configured"}
	}
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("cannot stat filesystem at %s (%v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	if free < minScratchBytes {
		return Result{Name: name, Detail: fmt.Sprintf("only %d MiB free at %s, need at least %d MiB",
			free/(1<<20), path, minScratchBytes/(1<<20))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d MiB free", free/(1<<20))}
}
