// Package metrics tracks per-run counters exposed by the optional
// monitoring endpoints.
package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	FeedsSucceeded     int64
	FeedsFailed        int64
	ItemsFetched       int64
	DuplicatesFiltered int64
	ArticlesSelected   int64
	LLMRequests        int64
	EmailsSent         int64

	// Timings
	LastRunDuration time.Duration

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) RecordFeed(ok bool, items int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ok {
		m.FeedsSucceeded++
		m.ItemsFetched += int64(items)
	} else {
		m.FeedsFailed++
	}
}

func (m *Metrics) RecordSelection(poolSize, selected int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesFiltered += int64(poolSize - selected)
	m.ArticlesSelected += int64(selected)
}

func (m *Metrics) IncrementLLMRequests() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LLMRequests++
}

func (m *Metrics) IncrementEmailsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EmailsSent++
}

func (m *Metrics) SetLastRun(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.LastRunDuration = d
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"feeds_succeeded":      m.FeedsSucceeded,
		"feeds_failed":         m.FeedsFailed,
		"items_fetched":        m.ItemsFetched,
		"duplicates_filtered":  m.DuplicatesFiltered,
		"articles_selected":    m.ArticlesSelected,
		"llm_requests":         m.LLMRequests,
		"emails_sent":          m.EmailsSent,
		"last_run_duration_ms": m.LastRunDuration.Milliseconds(),
		"last_run_time":        m.LastRunTime.Format(time.RFC3339),
		"last_error_time":      m.LastErrorTime.Format(time.RFC3339),
		"last_error":           m.LastError,
		"is_healthy":           m.IsHealthy,
	}
}
