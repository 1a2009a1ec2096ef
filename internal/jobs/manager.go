package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"meetingscribe/internal/logging"
	"meetingscribe/internal/pipeline"
	"meetingscribe/internal/services"
)

// Runner executes the transcription pipeline for one meeting. The daemon
// builds the runner from point-in-time configuration so a config change
// never affects a job already in flight.
type Runner interface {
	Run(ctx context.Context, jobID, meetingID string, reporter pipeline.Reporter) (outputPath string, err error)
}

// Manager owns the single job slot and answers status queries.
type Manager struct {
	runner Runner
	logger *slog.Logger

	mu          sync.RWMutex
	current     *job
	subscribers map[chan Snapshot]struct{}

	onCompleted func(meetingID, outputPath string)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager constructs a manager. The completion hook, when non-nil, runs
// after a job reaches the completed state.
func NewManager(runner Runner, logger *slog.Logger, onCompleted func(meetingID, outputPath string)) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		runner:      runner,
		logger:      logger.With(slog.String("component", "jobs")),
		subscribers: make(map[chan Snapshot]struct{}),
		onCompleted: onCompleted,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start creates a job for meetingID and schedules the pipeline without
// blocking. It fails with a conflict error while another job is active.
func (m *Manager) Start(meetingID string) (string, error) {
	m.mu.Lock()
	if m.current != nil && !m.current.state.Terminal() {
		active := m.current.id
		m.mu.Unlock()
		return "", services.Wrap(services.ErrConflict, "jobs", "start",
			"a transcription job is already active: "+active, nil)
	}

	j := &job{
		id:        uuid.NewString(),
		meetingID: meetingID,
		state:     StatePending,
		updatedAt: time.Now().UTC(),
	}
	m.current = j
	snap := j.snapshot()
	m.mu.Unlock()

	m.logger.Info("job created",
		slog.String("job", j.id),
		slog.String("meeting", meetingID))
	m.broadcast(snap)

	m.wg.Add(1)
	go m.run(j)
	return j.id, nil
}

// Status returns the snapshot for jobID. Unknown or superseded ids fail
// with a not-found error.
func (m *Manager) Status(jobID string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil || m.current.id != jobID {
		return Snapshot{}, services.Wrap(services.ErrNotFound, "jobs", "status", "unknown job "+jobID, nil)
	}
	return m.current.snapshot(), nil
}

// Active returns the current job snapshot, if any job record exists.
func (m *Manager) Active() (Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return Snapshot{}, false
	}
	return m.current.snapshot(), true
}

// Subscribe registers for snapshot updates. Slow consumers miss updates
// rather than blocking the pipeline. The returned function unsubscribes.
func (m *Manager) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 16)
	m.mu.Lock()
	m.subscribers[ch] = struct{}{}
	m.mu.Unlock()

	return ch, func() {
		m.mu.Lock()
		if _, ok := m.subscribers[ch]; ok {
			delete(m.subscribers, ch)
			close(ch)
		}
		m.mu.Unlock()
	}
}

// Close cancels any running job and waits for its goroutine to exit.
func (m *Manager) Close() {
	m.cancel()
	m.wg.Wait()
}

func (m *Manager) run(j *job) {
	defer m.wg.Done()

	outputPath, err := m.runner.Run(m.ctx, j.id, j.meetingID, &jobReporter{manager: m, job: j})

	m.mu.Lock()
	if err != nil {
		j.state = StateFailed
		j.errMessage = err.Error()
	} else {
		j.state = StateCompleted
		j.outputPath = outputPath
	}
	j.updatedAt = time.Now().UTC()
	snap := j.snapshot()
	m.mu.Unlock()

	if err != nil {
		m.logger.Error("job failed",
			slog.String("job", j.id),
			slog.String("meeting", j.meetingID),
			logging.Error(err))
	} else {
		m.logger.Info("job completed",
			slog.String("job", j.id),
			slog.String("meeting", j.meetingID),
			slog.String("output", outputPath))
		if m.onCompleted != nil {
			m.onCompleted(j.meetingID, outputPath)
		}
	}
	m.broadcast(snap)
}

func (m *Manager) broadcast(snap Snapshot) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for ch := range m.subscribers {
		select {
		case ch <- snap:
		default:
		}
	}
}

// update applies fn to j under the lock and broadcasts the result.
func (m *Manager) update(j *job, fn func(*job)) {
	m.mu.Lock()
	fn(j)
	j.updatedAt = time.Now().UTC()
	snap := j.snapshot()
	m.mu.Unlock()
	m.broadcast(snap)
}

// jobReporter adapts pipeline progress callbacks onto one job record.
type jobReporter struct {
	manager *Manager
	job     *job
}

func (r *jobReporter) StageChanged(stage pipeline.Stage) {
	r.manager.update(r.job, func(j *job) {
		if j.state.Terminal() {
			return
		}
		// Every track fetches again, but observers must never see the
		// state move backwards once recognition has started.
		if stage == pipeline.StageFetch && j.state != StateRunning {
			j.state = StateDownloading
			return
		}
		j.state = StateRunning
	})
}

func (r *jobReporter) SetTotals(trackCount int) {
	r.manager.update(r.job, func(j *job) {
		j.total = trackCount
	})
}

func (r *jobReporter) TrackDone() {
	r.manager.update(r.job, func(j *job) {
		// completed never decreases, even if a caller misbehaves.
		if j.total == 0 || j.completed < j.total {
			j.completed++
		}
	})
}

func (r *jobReporter) Log(line string) {
	r.manager.update(r.job, func(j *job) {
		j.appendLog(line)
	})
}
