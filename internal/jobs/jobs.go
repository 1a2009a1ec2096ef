// Package jobs tracks transcription jobs. At most one job runs at a time;
// starting a new one after the previous reached a terminal state discards
// the old record.
package jobs

import (
	"strings"
	"time"
)

// State is the lifecycle phase of a job.
type State string

const (
	StatePending     State = "pending"
	StateDownloading State = "downloading"
	StateRunning     State = "running"
	StateCompleted   State = "completed"
	StateFailed      State = "failed"
)

// Terminal reports whether no further transitions can occur.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Job logs are capped so a chatty engine cannot grow the record unbounded.
const maxLogLines = 500

// job is the manager's mutable record. All access goes through the
// manager's lock.
type job struct {
	id         string
	meetingID  string
	state      State
	completed  int
	total      int
	outputPath string
	errMessage string
	log        []string
	updatedAt  time.Time
}

// Snapshot is a consistent point-in-time copy of a job record.
type Snapshot struct {
	JobID      string    `json:"jobId"`
	MeetingID  string    `json:"meetingId"`
	State      State     `json:"state"`
	Completed  int       `json:"completed"`
	Total      int       `json:"total"`
	OutputPath string    `json:"outputPath,omitempty"`
	Error      string    `json:"error,omitempty"`
	Log        string    `json:"log,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (j *job) snapshot() Snapshot {
	return Snapshot{
		JobID:      j.id,
		MeetingID:  j.meetingID,
		State:      j.state,
		Completed:  j.completed,
		Total:      j.total,
		OutputPath: j.outputPath,
		Error:      j.errMessage,
		Log:        strings.Join(j.log, "\n"),
		UpdatedAt:  j.updatedAt,
	}
}

func (j *job) appendLog(line string) {
	j.log = append(j.log, line)
	if len(j.log) > maxLogLines {
		j.log = j.log[len(j.log)-maxLogLines:]
	}
}
