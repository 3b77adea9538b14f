package metrics

import (
	"sync"
	"time"
)

// Metrics tracks curation activity across runs. Safe for concurrent use.
type Metrics struct {
	mu sync.RWMutex

	RunsCompleted      int64
	RunsFailed         int64
	CandidatesFetched  int64
	ArticlesSelected   int64
	ArticlesRejected   int64
	JudgeFailures      int64
	DuplicatesExcluded int64
	DigestsSent        int64

	LastRunDuration    time.Duration
	AverageRunDuration time.Duration
	TotalRunDuration   time.Duration
	RunCount           int64

	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

// New returns a healthy, zeroed metrics registry.
func New() *Metrics {
	return &Metrics{IsHealthy: true}
}

func (m *Metrics) AddCandidates(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CandidatesFetched += int64(n)
}

func (m *Metrics) AddSelected(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesSelected += int64(n)
}

func (m *Metrics) AddRejected(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesRejected += int64(n)
}

func (m *Metrics) AddJudgeFailures(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.JudgeFailures += int64(n)
}

func (m *Metrics) AddDuplicatesExcluded(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesExcluded += int64(n)
}

func (m *Metrics) IncrementDigestsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DigestsSent++
}

func (m *Metrics) RecordRunDuration(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastRunDuration = duration
	m.TotalRunDuration += duration
	m.RunCount++

	if m.RunCount > 0 {
		m.AverageRunDuration = m.TotalRunDuration / time.Duration(m.RunCount)
	}
}

// SetLastRun marks a completed run and restores the healthy flag.
func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RunsCompleted++
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

// SetError records a failed run.
func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RunsFailed++
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

// GetStats snapshots every counter for the stats endpoint.
func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"runs_completed":          m.RunsCompleted,
		"runs_failed":             m.RunsFailed,
		"candidates_fetched":      m.CandidatesFetched,
		"articles_selected":       m.ArticlesSelected,
		"articles_rejected":       m.ArticlesRejected,
		"judge_failures":          m.JudgeFailures,
		"duplicates_excluded":     m.DuplicatesExcluded,
		"digests_sent":            m.DigestsSent,
		"last_run_duration_ms":    m.LastRunDuration.Milliseconds(),
		"average_run_duration_ms": m.AverageRunDuration.Milliseconds(),
		"last_run_time":           m.LastRunTime.Format(time.RFC3339),
		"last_error_time":         m.LastErrorTime.Format(time.RFC3339),
		"last_error":              m.LastError,
		"is_healthy":              m.IsHealthy,
	}
}
