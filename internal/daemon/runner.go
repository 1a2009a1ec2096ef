package daemon

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"meetingscribe/internal/catalog"
	"meetingscribe/internal/config"
	"meetingscribe/internal/pipeline"
	"meetingscribe/internal/preflight"
	"meetingscribe/internal/services/ffmpeg"
	"meetingscribe/internal/services/whisper"
	"meetingscribe/internal/storage"
)

const libraryWriteTimeout = 10 * time.Second

// pipelineRunner builds the pipeline collaborators from a point-in-time
// configuration snapshot, so a config change mid-job never affects the job.
type pipelineRunner struct {
	daemon *Daemon
	logger *slog.Logger
}

func (r *pipelineRunner) Run(ctx context.Context, jobID, meetingID string, reporter pipeline.Reporter) (string, error) {
	// Blank tool locations are filled by probing the environment, so an
	// out-of-the-box config can still run when the tools are on PATH.
	resolved := config.ResolveDefaults(r.daemon.Config())

	if err := preflight.Err(preflight.RunJobChecks(&resolved)); err != nil {
		return "", err
	}

	store, err := storage.New(resolved.Storage)
	if err != nil {
		return "", err
	}

	extractor, err := ffmpeg.New(resolved.Pipeline.FFmpegPath)
	if err != nil {
		return "", err
	}
	recognizer, err := whisper.New(resolved.Pipeline.BinaryPath, resolved.Pipeline.ModelPath,
		whisper.WithLanguage(resolved.Pipeline.Language))
	if err != nil {
		return "", err
	}

	scratch := filepath.Join(resolved.Daemon.ScratchDir, jobID)
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			r.logger.Warn("failed to clean scratch directory",
				slog.String("path", scratch),
				slog.String("error", err.Error()))
		}
	}()

	return pipeline.Run(ctx, pipeline.Deps{
		Resolver:   catalog.New(store, r.logger),
		Store:      store,
		Extractor:  extractor,
		Recognizer: recognizer,
		Logger:     r.logger,
	}, pipeline.Options{
		MeetingID:         meetingID,
		ScratchDir:        scratch,
		OutputDir:         resolved.Pipeline.OutputDir,
		IncludeTimestamps: resolved.Pipeline.IncludeTimestamps,
		IncludeSpeaker:    resolved.Pipeline.IncludeSpeaker,
	}, reporter)
}
