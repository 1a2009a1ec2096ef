// Package pipeline turns one recorded meeting into a transcript file by
// downloading each speaker track, extracting recognizable audio, running the
// recognition engine, and merging the results chronologically.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"meetingscribe/internal/catalog"
	"meetingscribe/internal/logging"
	"meetingscribe/internal/services"
	"meetingscribe/internal/services/ffmpeg"
	"meetingscribe/internal/services/whisper"
	"meetingscribe/internal/transcript"
)

// Stage identifies the phase a running transcription is in.
type Stage string

const (
	StageFetch     Stage = "fetch"
	StageExtract   Stage = "extract"
	StageRecognize Stage = "recognize"
	StageFormat    Stage = "format"
)

// Reporter receives progress callbacks while a transcription runs. All
// methods are invoked from the pipeline goroutine.
type Reporter interface {
	StageChanged(stage Stage)
	SetTotals(trackCount int)
	TrackDone()
	Log(line string)
}

// TrackResolver resolves the speaker tracks of a meeting.
type TrackResolver interface {
	Tracks(ctx context.Context, meetingID string) ([]catalog.Track, error)
}

// Downloader fetches one object into a local file.
type Downloader interface {
	Download(ctx context.Context, key, destination string) error
}

// Extractor converts downloaded audio into recognizable WAV.
type Extractor interface {
	ExtractWAV(ctx context.Context, input, output string, onLine func(string)) error
}

// Recognizer transcribes one WAV file.
type Recognizer interface {
	Transcribe(ctx context.Context, input, outputBase string, onLine func(string)) ([]whisper.Segment, error)
}

// Deps are the collaborators a pipeline run needs. All fields are required.
type Deps struct {
	Resolver   TrackResolver
	Store      Downloader
	Extractor  Extractor
	Recognizer Recognizer
	Logger     *slog.Logger
}

// Options parameterize a single run.
type Options struct {
	MeetingID         string
	ScratchDir        string
	OutputDir         string
	IncludeTimestamps bool
	IncludeSpeaker    bool
}

// Run executes the full pipeline for one meeting and returns the path of the
// written transcript file. Intermediate artifacts live under ScratchDir and
// are left for the caller to clean up.
func Run(ctx context.Context, deps Deps, opts Options, reporter Reporter) (string, error) {
	if reporter == nil {
		reporter = nopReporter{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.With(slog.String("component", "pipeline"), slog.String("meeting", opts.MeetingID))

	reporter.StageChanged(StageFetch)
	tracks, err := deps.Resolver.Tracks(ctx, opts.MeetingID)
	if err != nil {
		return "", err
	}
	reporter.SetTotals(len(tracks))
	logger.Info("transcription started", slog.Int("tracks", len(tracks)))

	if err := os.MkdirAll(opts.ScratchDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrFetch, "fetch", "prepare scratch directory", opts.ScratchDir, err)
	}

	perTrack := make([][]transcript.Segment, 0, len(tracks))
	for i, track := range tracks {
		segments, err := processTrack(ctx, deps, opts, reporter, logger, i, track)
		if err != nil {
			return "", err
		}
		perTrack = append(perTrack, segments)
		reporter.TrackDone()
	}

	reporter.StageChanged(StageFormat)
	merged := transcript.Merge(perTrack...)
	text := transcript.Format(merged, opts.IncludeTimestamps, opts.IncludeSpeaker)

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrFormatting, "format", "prepare output directory", opts.OutputDir, err)
	}
	outputPath := filepath.Join(opts.OutputDir, transcript.FileName(opts.MeetingID))
	if err := os.WriteFile(outputPath, []byte(text), 0o644); err != nil {
		return "", services.Wrap(services.ErrFormatting, "format", "write transcript", outputPath, err)
	}

	logger.Info("transcription completed",
		slog.Int("segments", len(merged)),
		slog.String("output", outputPath))
	return outputPath, nil
}

func processTrack(ctx context.Context, deps Deps, opts Options, reporter Reporter, logger *slog.Logger, index int, track catalog.Track) ([]transcript.Segment, error) {
	base := filepath.Join(opts.ScratchDir, fmt.Sprintf("track-%03d", index))
	local := base + filepath.Ext(track.Key)

	reporter.StageChanged(StageFetch)
	reporter.Log("fetching " + track.Key)
	if err := deps.Store.Download(ctx, track.Key, local); err != nil {
		return nil, services.Wrap(services.ErrFetch, "fetch", "download track", track.Key, err)
	}

	wav := local
	if !ffmpeg.IsWAV(local) {
		reporter.StageChanged(StageExtract)
		wav = base + ".wav"
		if err := deps.Extractor.ExtractWAV(ctx, local, wav, reporter.Log); err != nil {
			return nil, services.Wrap(services.ErrExtraction, "extract", "convert track", track.Key, err)
		}
	}

	reporter.StageChanged(StageRecognize)
	recognized, err := deps.Recognizer.Transcribe(ctx, wav, base, func(line string) {
		// Only timestamped segment lines reach the job log; the engine's
		// model-loading chatter stays out of it.
		if progress, ok := whisper.ParseProgressLine(line); ok {
			reporter.Log(fmt.Sprintf("[%s] %s", track.Speaker, progress.Text))
		}
	})
	if err != nil {
		return nil, services.Wrap(services.ErrRecognition, "recognize", "transcribe track", track.Key, err)
	}

	// Track times position each recording within the meeting; an unparseable
	// label leaves the track anchored at the meeting start.
	offset, ok := catalog.ParseClock(track.TrackTime)
	if !ok {
		logger.Warn("unparseable track time, anchoring at meeting start",
			slog.String("track", track.Key),
			slog.String("label", track.TrackTime))
		offset = 0
	}

	segments := make([]transcript.Segment, 0, len(recognized))
	for _, seg := range recognized {
		segments = append(segments, transcript.Segment{
			Start:   float64(offset) + seg.Start,
			Speaker: track.Speaker,
			Text:    seg.Text,
		})
	}
	return segments, nil
}

type nopReporter struct{}

func (nopReporter) StageChanged(Stage) {}
func (nopReporter) SetTotals(int)      {}
func (nopReporter) TrackDone()         {}
func (nopReporter) Log(string)         {}
