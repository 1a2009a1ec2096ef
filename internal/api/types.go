// Package api defines the wire types shared by the daemon's HTTP surface
// and the CLI client.
package api

import (
	"meetingscribe/internal/catalog"
	"meetingscribe/internal/deps"
	"meetingscribe/internal/jobs"
	"meetingscribe/internal/library"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse reports object-store reachability.
type HealthResponse struct {
	Reachable bool   `json:"reachable"`
	Reason    string `json:"reason,omitempty"`
}

// DatesResponse lists recording dates, most recent first.
type DatesResponse struct {
	Dates []string `json:"dates"`
}

// MeetingsResponse lists the meetings recorded on one date.
type MeetingsResponse struct {
	Date     string                   `json:"date"`
	Meetings []catalog.MeetingSummary `json:"meetings"`
}

// StartTranscribeRequest asks the daemon to transcribe one meeting.
type StartTranscribeRequest struct {
	MeetingID string `json:"meetingId"`
}

// StartTranscribeResponse carries the id of the created job.
type StartTranscribeResponse struct {
	JobID string `json:"jobId"`
}

// JobResponse is a job snapshot.
type JobResponse = jobs.Snapshot

// DefaultsResponse carries best-effort probed tool locations.
type DefaultsResponse struct {
	WhisperBinary string `json:"whisperBinary,omitempty"`
	FFmpegBinary  string `json:"ffmpegBinary,omitempty"`
	OutputDir     string `json:"outputDir,omitempty"`
	ModelRoot     string `json:"modelRoot,omitempty"`
}

// TranscriptsResponse lists recorded transcripts, newest first.
type TranscriptsResponse struct {
	Transcripts []library.Entry `json:"transcripts"`
}

// StatusResponse summarizes daemon state for the CLI status command.
type StatusResponse struct {
	Version string         `json:"version"`
	Storage HealthResponse `json:"storage"`
	Job     *jobs.Snapshot `json:"job,omitempty"`
	Deps    []deps.Status  `json:"deps"`
}
