// Package service is the caller-facing facade over the repository and the
// aggregator. It owns the read-through caches and honors the invalidation
// contract: every successful mutation drops cached list and snapshot
// results so subsequent reads are never stale.
package service

import (
	"log/slog"
	"sync"
	"time"

	"clindb/internal/storage"
)

type listEntry struct {
	rows []storage.Appointment
	at   time.Time
}

type snapshotEntry struct {
	stats *storage.Stats
	at    time.Time
}

// Manager wraps the repository and aggregator with short-TTL caches.
type Manager struct {
	repo   *storage.AppointmentRepository
	agg    *storage.Aggregator
	logger *slog.Logger

	listTTL     time.Duration
	snapshotTTL time.Duration

	mu       sync.Mutex
	lists    map[storage.Filter]listEntry
	snapshot *snapshotEntry
}

// NewManager creates a manager. TTLs of zero disable caching for the
// corresponding read path.
func NewManager(repo *storage.AppointmentRepository, agg *storage.Aggregator, logger *slog.Logger, listTTL, snapshotTTL time.Duration) *Manager {
	return &Manager{
		repo:        repo,
		agg:         agg,
		logger:      logger,
		listTTL:     listTTL,
		snapshotTTL: snapshotTTL,
		lists:       make(map[storage.Filter]listEntry),
	}
}

// List returns appointments matching f, newest first. Read failures
// degrade to an empty result set rather than propagating.
func (m *Manager) List(f storage.Filter) []storage.Appointment {
	if m.listTTL > 0 {
		m.mu.Lock()
		if e, ok := m.lists[f]; ok && time.Since(e.at) < m.listTTL {
			m.mu.Unlock()
			return e.rows
		}
		m.mu.Unlock()
	}

	rows, err := m.repo.List(f)
	if err != nil {
		m.logger.Error("list appointments failed", "error", err)
		return []storage.Appointment{}
	}

	if m.listTTL > 0 {
		m.mu.Lock()
		m.lists[f] = listEntry{rows: rows, at: time.Now()}
		m.mu.Unlock()
	}
	return rows
}

// Snapshot returns the current statistics. Read failures degrade to an
// all-zero snapshot.
func (m *Manager) Snapshot() *storage.Stats {
	if m.snapshotTTL > 0 {
		m.mu.Lock()
		if m.snapshot != nil && time.Since(m.snapshot.at) < m.snapshotTTL {
			stats := m.snapshot.stats
			m.mu.Unlock()
			return stats
		}
		m.mu.Unlock()
	}

	stats, err := m.agg.Snapshot()
	if err != nil {
		m.logger.Error("statistics snapshot failed", "error", err)
		return &storage.Stats{}
	}

	if m.snapshotTTL > 0 {
		m.mu.Lock()
		m.snapshot = &snapshotEntry{stats: stats, at: time.Now()}
		m.mu.Unlock()
	}
	return stats
}

// Get returns one appointment, or nil when absent or on read failure.
func (m *Manager) Get(id int64) *storage.Appointment {
	a, err := m.repo.Get(id)
	if err != nil {
		m.logger.Error("get appointment failed", "id", id, "error", err)
		return nil
	}
	return a
}

// Add inserts a new appointment and invalidates cached reads on success.
func (m *Manager) Add(na storage.NewAppointment) (int64, error) {
	id, err := m.repo.Insert(na)
	if err != nil {
		return 0, err
	}
	m.Invalidate()
	return id, nil
}

// Update patches an appointment and invalidates cached reads on success.
func (m *Manager) Update(id int64, p storage.Patch) (bool, error) {
	ok, err := m.repo.Update(id, p)
	if err != nil {
		return false, err
	}
	if ok {
		m.Invalidate()
	}
	return ok, nil
}

// Delete removes an appointment and invalidates cached reads on success.
func (m *Manager) Delete(id int64) (bool, error) {
	ok, err := m.repo.Delete(id)
	if err != nil {
		return false, err
	}
	if ok {
		m.Invalidate()
	}
	return ok, nil
}

// Invalidate drops every cached read result.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	m.lists = make(map[storage.Filter]listEntry)
	m.snapshot = nil
	m.mu.Unlock()
}
