// Package notifier implements an in-memory notification registry.
//
// The registry is a placeholder pending a durable notification store:
// records live in process memory only and are lost on restart. Mark and
// delete operations are no-ops for unknown identifiers since producers
// may reference notifications lazily.
package notifier

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	KindGoal       = "goal"
	KindMilestone  = "milestone"
	KindWithdrawal = "withdrawal"
	KindSystem     = "system"

	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// Notification is a transient user-facing alert record.
type Notification struct {
	ID        string
	UserID    string
	Kind      string
	Title     string
	Message   string
	Priority  string
	Read      bool
	CreatedAt time.Time
}

// Registry holds notifications keyed by identifier, guarded for concurrent request access.
type Registry struct {
	mu      sync.RWMutex
	records map[string]*Notification
}

// NewRegistry initializes an empty notification registry.
func NewRegistry() *Registry {
	return &Registry{records: make(map[string]*Notification)}
}

// Add creates a new unread notification and returns its identifier.
func (r *Registry) Add(userID, kind, title, message, priority string) string {
	record := &Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Kind:      kind,
		Title:     title,
		Message:   message,
		Priority:  priority,
		Read:      false,
		CreatedAt: time.Now(),
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.ID] = record
	return record.ID
}

// ListAll returns all notifications for a user, most recent first.
func (r *Registry) ListAll(userID string) []Notification {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var records []Notification
	for _, record := range r.records {
		if record.UserID == userID {
			records = append(records, *record)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records
}

// MarkAsRead sets the read flag for a notification, no-op when absent.
func (r *Registry) MarkAsRead(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if record, ok := r.records[id]; ok {
		record.Read = true
	}
}

// MarkAllAsRead marks the given notifications as read. An empty id set
// falls back to every known notification of the user.
func (r *Registry) MarkAllAsRead(userID string, ids []string) {
	if len(ids) == 0 {
		for _, record := range r.ListAll(userID) {
			ids = append(ids, record.ID)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if record, ok := r.records[id]; ok {
			record.Read = true
		}
	}
}

// Delete removes a notification, no-op when absent.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, id)
}

// Sweep removes read notifications created before the retention cutoff
// and returns the number of records removed.
func (r *Registry) Sweep(olderThan time.Duration) int {
	cutoff := time.Now().Add(-olderThan)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, record := range r.records {
		if record.Read && record.CreatedAt.Before(cutoff) {
			delete(r.records, id)
			removed++
		}
	}
	return removed
}
