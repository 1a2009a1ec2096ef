package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"meetingscribe/internal/catalog"
	"meetingscribe/internal/pipeline"
	"meetingscribe/internal/services"
	"meetingscribe/internal/services/whisper"
)

type fakeResolver struct {
	tracks []catalog.Track
	err    error
}

func (f *fakeResolver) Tracks(ctx context.Context, meetingID string) ([]catalog.Track, error) {
	return f.tracks, f.err
}

type fakeDownloader struct {
	err  error
	keys []string
}

func (f *fakeDownloader) Download(ctx context.Context, key, destination string) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return err
	}
	return os.WriteFile(destination, []byte("audio"), 0o644)
}

type fakeExtractor struct {
	err    error
	inputs []string
}

func (f *fakeExtractor) ExtractWAV(ctx context.Context, input, output string, onLine func(string)) error {
	if f.err != nil {
		return f.err
	}
	f.inputs = append(f.inputs, input)
	return os.WriteFile(output, []byte("RIFF"), 0o644)
}

type fakeRecognizer struct {
	err      error
	segments map[string][]whisper.Segment // keyed by input basename
	lines    []string
}

func (f *fakeRecognizer) Transcribe(ctx context.Context, input, outputBase string, onLine func(string)) ([]whisper.Segment, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, line := range f.lines {
		onLine(line)
	}
	return f.segments[filepath.Base(input)], nil
}

type recordingReporter struct {
	mu     sync.Mutex
	stages []pipeline.Stage
	total  int
	done   int
	log    []string
}

func (r *recordingReporter) StageChanged(stage pipeline.Stage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages = append(r.stages, stage)
}

func (r *recordingReporter) SetTotals(trackCount int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total = trackCount
}

func (r *recordingReporter) TrackDone() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done++
}

func (r *recordingReporter) Log(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = append(r.log, line)
}

func testDeps(resolver *fakeResolver, downloader *fakeDownloader, extractor *fakeExtractor, recognizer *fakeRecognizer) pipeline.Deps {
	return pipeline.Deps{
		Resolver:   resolver,
		Store:      downloader,
		Extractor:  extractor,
		Recognizer: recognizer,
	}
}

func TestRunProducesMergedTranscript(t *testing.T) {
	meetingID := "2024-05-01/localWorld.eu01-Sales/09-00-00"
	resolver := &fakeResolver{tracks: []catalog.Track{
		{Key: "2024-05-01/localWorld.eu01-Sales/09-00-00/alice/09-00-00_a.ogg", Speaker: "alice", TrackTime: "09-00-00"},
		{Key: "2024-05-01/localWorld.eu01-Sales/09-00-00/bob/09-00-05_b.ogg", Speaker: "bob", TrackTime: "09-00-05"},
	}}
	downloader := &fakeDownloader{}
	extractor := &fakeExtractor{}
	recognizer := &fakeRecognizer{
		segments: map[string][]whisper.Segment{
			"track-000.wav": {{Start: 0, Text: "hello"}, {Start: 10, Text: "bye"}},
			"track-001.wav": {{Start: 0, Text: "hi"}},
		},
		lines: []string{"[00:00:00.000 --> 00:00:02.000] chunk", "load: noise"},
	}
	reporter := &recordingReporter{}

	outputDir := t.TempDir()
	outputPath, err := pipeline.Run(context.Background(), testDeps(resolver, downloader, extractor, recognizer), pipeline.Options{
		MeetingID:         meetingID,
		ScratchDir:        t.TempDir(),
		OutputDir:         outputDir,
		IncludeTimestamps: false,
		IncludeSpeaker:    true,
	}, reporter)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	// bob's track starts 5 seconds after alice's, so his segment lands
	// between alice's two utterances.
	want := "alice：hello\nbob：hi\nalice：bye\n"
	if string(data) != want {
		t.Errorf("transcript = %q, want %q", string(data), want)
	}

	if reporter.total != 2 || reporter.done != 2 {
		t.Errorf("totals = %d/%d, want 2/2", reporter.done, reporter.total)
	}
	if reporter.stages[0] != pipeline.StageFetch || reporter.stages[len(reporter.stages)-1] != pipeline.StageFormat {
		t.Errorf("stage sequence = %v", reporter.stages)
	}
	if len(downloader.keys) != 2 || len(extractor.inputs) != 2 {
		t.Errorf("downloads = %v, extractions = %v", downloader.keys, extractor.inputs)
	}
}

func TestRunLogsOnlyTimestampedProgress(t *testing.T) {
	resolver := &fakeResolver{tracks: []catalog.Track{
		{Key: "d/r/t/alice/09-00-00_a.ogg", Speaker: "alice", TrackTime: "09-00-00"},
	}}
	recognizer := &fakeRecognizer{
		segments: map[string][]whisper.Segment{"track-000.wav": {{Start: 0, Text: "x"}}},
		lines: []string{
			"whisper_model_load: loading",
			"[00:00:01.000 --> 00:00:03.000]  こんにちは",
		},
	}
	reporter := &recordingReporter{}

	_, err := pipeline.Run(context.Background(), testDeps(resolver, &fakeDownloader{}, &fakeExtractor{}, recognizer), pipeline.Options{
		MeetingID:  "d/r/t",
		ScratchDir: t.TempDir(),
		OutputDir:  t.TempDir(),
	}, reporter)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var progress []string
	for _, line := range reporter.log {
		if strings.HasPrefix(line, "[alice]") {
			progress = append(progress, line)
		}
	}
	if len(progress) != 1 || progress[0] != "[alice] こんにちは" {
		t.Errorf("progress log = %v", progress)
	}
}

func TestRunSkipsExtractionForWAVTracks(t *testing.T) {
	resolver := &fakeResolver{tracks: []catalog.Track{
		{Key: "d/r/t/alice/09-00-00_a.wav", Speaker: "alice", TrackTime: "09-00-00"},
	}}
	extractor := &fakeExtractor{err: errors.New("must not be called")}
	recognizer := &fakeRecognizer{
		segments: map[string][]whisper.Segment{"track-000.wav": {{Start: 0, Text: "x"}}},
	}

	_, err := pipeline.Run(context.Background(), testDeps(resolver, &fakeDownloader{}, extractor, recognizer), pipeline.Options{
		MeetingID:  "d/r/t",
		ScratchDir: t.TempDir(),
		OutputDir:  t.TempDir(),
	}, &recordingReporter{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunWrapsStageFailures(t *testing.T) {
	tracks := []catalog.Track{{Key: "d/r/t/alice/09-00-00_a.ogg", Speaker: "alice", TrackTime: "09-00-00"}}
	boom := errors.New("boom")

	cases := []struct {
		name   string
		deps   pipeline.Deps
		marker error
	}{
		{
			name:   "fetch",
			deps:   testDeps(&fakeResolver{tracks: tracks}, &fakeDownloader{err: boom}, &fakeExtractor{}, &fakeRecognizer{}),
			marker: services.ErrFetch,
		},
		{
			name:   "extract",
			deps:   testDeps(&fakeResolver{tracks: tracks}, &fakeDownloader{}, &fakeExtractor{err: boom}, &fakeRecognizer{}),
			marker: services.ErrExtraction,
		},
		{
			name:   "recognize",
			deps:   testDeps(&fakeResolver{tracks: tracks}, &fakeDownloader{}, &fakeExtractor{}, &fakeRecognizer{err: boom}),
			marker: services.ErrRecognition,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := pipeline.Run(context.Background(), tc.deps, pipeline.Options{
				MeetingID:  "d/r/t",
				ScratchDir: t.TempDir(),
				OutputDir:  t.TempDir(),
			}, nil)
			if !errors.Is(err, tc.marker) {
				t.Fatalf("got %v, want %v", err, tc.marker)
			}
			if !errors.Is(err, boom) {
				t.Fatalf("cause not preserved: %v", err)
			}
		})
	}
}

func TestRunPropagatesResolverError(t *testing.T) {
	resolver := &fakeResolver{err: services.Wrap(services.ErrNotFound, "catalog", "list tracks", "none", nil)}
	_, err := pipeline.Run(context.Background(), testDeps(resolver, &fakeDownloader{}, &fakeExtractor{}, &fakeRecognizer{}), pipeline.Options{
		MeetingID:  "d/r/t",
		ScratchDir: t.TempDir(),
		OutputDir:  t.TempDir(),
	}, nil)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("got %v, want not-found", err)
	}
}
