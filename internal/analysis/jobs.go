package analysis

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	serrors "github.com/scamlens/scamlens/internal/shared/errors"
)

// Job tracks one analysis through its lifecycle. Snapshot copies are
// handed out; the stored job is only mutated under the manager's lock.
type Job struct {
	ID         string     `json:"jobId"`
	URL        string     `json:"url"`
	Status     string     `json:"status"`
	Progress   int        `json:"progress"`
	Stage      string     `json:"stage,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
	Error      string     `json:"error,omitempty"`
	Result     *Result    `json:"-"`
}

func (j *Job) finished() bool {
	return j.Status == StatusComplete || j.Status == StatusError
}

// Manager is the in-memory job store. Completed jobs are retained for
// polling and pruned by a background loop once the store exceeds its
// retention limit.
type Manager struct {
	mu          sync.RWMutex
	jobs        map[string]*Job
	subscribers map[chan Job]struct{}
	maxJobs     int
}

// NewManager returns a running manager with the default retention of the
// last 1000 jobs.
func NewManager() *Manager {
	m := &Manager{
		jobs:        make(map[string]*Job),
		subscribers: make(map[chan Job]struct{}),
		maxJobs:     1000,
	}
	go m.cleanupLoop()
	return m
}

// SetMaxJobs configures how many jobs the manager retains in memory.
func (m *Manager) SetMaxJobs(max int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if max > 0 {
		m.maxJobs = max
	}
}

// Create registers a new pending job for the given URL.
func (m *Manager) Create(url string) *Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	job := &Job{
		ID:        uuid.NewString(),
		URL:       url,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
	m.jobs[job.ID] = job
	m.broadcast(*job)
	snapshot := *job
	return &snapshot
}

// Start moves a pending job to running.
func (m *Manager) Start(id string) {
	m.update(id, func(j *Job) {
		if j.Status == StatusPending {
			j.Status = StatusRunning
		}
	})
}

// SetProgress records checker progress on a running job. Progress never
// moves backwards; late stragglers cannot regress the displayed value.
func (m *Manager) SetProgress(id string, progress int, stage string) {
	m.update(id, func(j *Job) {
		if j.finished() {
			return
		}
		if progress > j.Progress {
			j.Progress = progress
		}
		j.Stage = stage
	})
}

// Complete stores the final result and marks the job complete. The
// result is stored as-is and must not be mutated afterwards.
func (m *Manager) Complete(id string, res *Result) {
	m.update(id, func(j *Job) {
		if j.finished() {
			return
		}
		now := time.Now()
		j.Status = StatusComplete
		j.Progress = 100
		j.Stage = ""
		j.FinishedAt = &now
		j.Result = res
	})
}

// Fail marks the job errored with the given reason.
func (m *Manager) Fail(id, reason string) {
	m.update(id, func(j *Job) {
		if j.finished() {
			return
		}
		now := time.Now()
		j.Status = StatusError
		j.Error = reason
		j.FinishedAt = &now
	})
}

// Get returns a snapshot of the job, or ErrJobNotFound.
func (m *Manager) Get(id string) (*Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, serrors.ErrJobNotFound
	}
	snapshot := *job
	return &snapshot, nil
}

// Result returns the final result of a finished job. Running jobs return
// ErrJobNotFinished.
func (m *Manager) Result(id string) (*Result, error) {
	job, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	if !job.finished() {
		return nil, serrors.ErrJobNotFinished
	}
	return job.Result, nil
}

// List returns up to limit jobs, newest first.
func (m *Manager) List(limit int) []Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	jobs := make([]Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		jobs = append(jobs, *job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].ID > jobs[j].ID
		}
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	if limit > 0 && limit < len(jobs) {
		jobs = jobs[:limit]
	}
	return jobs
}

// Subscribe returns a channel receiving job snapshots on every state
// change, and a cancel func that must be called to release it.
func (m *Manager) Subscribe() (chan Job, func()) {
	ch := make(chan Job, 10)
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

func (m *Manager) update(id string, fn func(*Job)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return
	}
	fn(job)
	m.broadcast(*job)
}

// broadcast delivers a snapshot to every subscriber. Callers hold m.mu.
// Slow consumers with a full buffer miss the update rather than block
// the job path.
func (m *Manager) broadcast(job Job) {
	for ch := range m.subscribers {
		select {
		case ch <- job:
		default:
		}
	}
}

// cleanupLoop prunes the oldest finished jobs once the store grows past
// maxJobs. Unfinished jobs are never pruned.
func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		m.prune()
	}
}

func (m *Manager) prune() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.jobs) <= m.maxJobs {
		return
	}

	type finishedJob struct {
		id string
		at time.Time
	}
	var finished []finishedJob
	for id, job := range m.jobs {
		if !job.finished() {
			continue
		}
		at := time.Now()
		if job.FinishedAt != nil {
			at = *job.FinishedAt
		}
		finished = append(finished, finishedJob{id: id, at: at})
	}

	sort.Slice(finished, func(i, j int) bool {
		return finished[i].at.Before(finished[j].at)
	})

	toRemove := len(m.jobs) - m.maxJobs
	if toRemove > len(finished) {
		toRemove = len(finished)
	}
	for i := 0; i < toRemove; i++ {
		delete(m.jobs, finished[i].id)
	}
}
