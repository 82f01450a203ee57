// Package targets implements the per-user monthly target store.
//
// The store holds process-wide state with no persistence: targets are
// lost on restart and callers must treat them as best-effort.
package targets

import (
	"fmt"
	"sync"
	"time"

	targetErrors "github.com/Mohammademon02/income-tracking-api/internal/service/targets/v1/errors"
)

const (
	DefaultTargetPoints   = 14000
	DefaultTargetEarnings = 140

	MinTargetPoints   = 1000
	MaxTargetPoints   = 100000
	MinTargetEarnings = 10
	MaxTargetEarnings = 1000
)

// Target is a user-configurable goal pair for a calendar month.
type Target struct {
	Points    int
	Earnings  float64
	UpdatedAt time.Time
}

// Store maps user identifiers to monthly targets, last-write-wins.
type Store struct {
	mu      sync.RWMutex
	targets map[string]Target
}

// NewStore initializes an empty target store.
func NewStore() *Store {
	return &Store{targets: make(map[string]Target)}
}

// Get returns the stored target for a user or the default one.
// The default is not persisted, so repeated calls before any Set return
// a fresh default with a new timestamp each time.
func (st *Store) Get(userID string) Target {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if target, ok := st.targets[userID]; ok {
		return target
	}
	return Target{
		Points:    DefaultTargetPoints,
		Earnings:  DefaultTargetEarnings,
		UpdatedAt: time.Now(),
	}
}

// Set validates and overwrites the target for a user.
func (st *Store) Set(userID string, points, earnings float64) (Target, error) {
	if points < MinTargetPoints || points > MaxTargetPoints {
		return Target{}, &targetErrors.InvalidTargetError{Msg: fmt.Sprintf("target points must be within [%d, %d], got %v", MinTargetPoints, MaxTargetPoints, points)}
	}
	if earnings < MinTargetEarnings || earnings > MaxTargetEarnings {
		return Target{}, &targetErrors.InvalidTargetError{Msg: fmt.Sprintf("target earnings must be within [%d, %d], got %v", MinTargetEarnings, MaxTargetEarnings, earnings)}
	}
	target := Target{
		Points:    int(points),
		Earnings:  earnings,
		UpdatedAt: time.Now(),
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.targets[userID] = target
	return target, nil
}
