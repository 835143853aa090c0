package shared

import (
	"fmt"
	"time"
)

// LifecycleStatus represents the state of a queued unit of work
type LifecycleStatus string

const (
	// LifecycleStatusPending indicates the work is queued but not started
	LifecycleStatusPending LifecycleStatus = "PENDING"

	// LifecycleStatusInProgress indicates the work is actively advancing
	LifecycleStatusInProgress LifecycleStatus = "IN_PROGRESS"

	// LifecycleStatusCompleted indicates the work finished successfully
	LifecycleStatusCompleted LifecycleStatus = "COMPLETED"

	// LifecycleStatusFailed indicates the work was abandoned
	LifecycleStatusFailed LifecycleStatus = "FAILED"
)

// LifecycleStateMachine manages the PENDING → IN_PROGRESS → COMPLETED/FAILED
// transitions shared by crafting tasks.
//
// Invariants:
// - COMPLETED and FAILED are terminal
// - Timestamps come from the injected clock
type LifecycleStateMachine struct {
	status     LifecycleStatus
	createdAt  time.Time
	updatedAt  time.Time
	startedAt  *time.Time
	finishedAt *time.Time
	lastError  error
	clock      Clock
}

// NewLifecycleStateMachine creates a new lifecycle state machine in PENDING state
func NewLifecycleStateMachine(clock Clock) *LifecycleStateMachine {
	if clock == nil {
		clock = NewRealClock()
	}

	now := clock.Now()
	return &LifecycleStateMachine{
		status:    LifecycleStatusPending,
		createdAt: now,
		updatedAt: now,
		clock:     clock,
	}
}

// Getters

func (sm *LifecycleStateMachine) Status() LifecycleStatus { return sm.status }
func (sm *LifecycleStateMachine) CreatedAt() time.Time    { return sm.createdAt }
func (sm *LifecycleStateMachine) UpdatedAt() time.Time    { return sm.updatedAt }
func (sm *LifecycleStateMachine) StartedAt() *time.Time   { return sm.startedAt }
func (sm *LifecycleStateMachine) FinishedAt() *time.Time  { return sm.finishedAt }
func (sm *LifecycleStateMachine) LastError() error        { return sm.lastError }

// Start transitions from PENDING to IN_PROGRESS
func (sm *LifecycleStateMachine) Start() error {
	if sm.status != LifecycleStatusPending {
		return fmt.Errorf("cannot start from %s state", sm.status)
	}

	now := sm.clock.Now()
	sm.status = LifecycleStatusInProgress
	sm.startedAt = &now
	sm.updatedAt = now
	return nil
}

// Complete transitions from IN_PROGRESS to COMPLETED
func (sm *LifecycleStateMachine) Complete() error {
	if sm.status != LifecycleStatusInProgress {
		return fmt.Errorf("cannot complete from %s state", sm.status)
	}

	now := sm.clock.Now()
	sm.status = LifecycleStatusCompleted
	sm.finishedAt = &now
	sm.updatedAt = now
	return nil
}

// Fail transitions to FAILED from any non-terminal state
func (sm *LifecycleStateMachine) Fail(err error) error {
	if sm.IsFinished() {
		return fmt.Errorf("cannot fail from %s state", sm.status)
	}

	now := sm.clock.Now()
	sm.status = LifecycleStatusFailed
	sm.lastError = err
	sm.finishedAt = &now
	sm.updatedAt = now
	return nil
}

// IsInProgress returns true while the work is advancing
func (sm *LifecycleStateMachine) IsInProgress() bool {
	return sm.status == LifecycleStatusInProgress
}

// IsPending returns true if the work hasn't started yet
func (sm *LifecycleStateMachine) IsPending() bool {
	return sm.status == LifecycleStatusPending
}

// IsFinished returns true once the work has completed or failed
func (sm *LifecycleStateMachine) IsFinished() bool {
	return sm.status == LifecycleStatusCompleted || sm.status == LifecycleStatusFailed
}

// RuntimeDuration reports how long the work has been (or was) in progress.
// Returns 0 if not started yet.
func (sm *LifecycleStateMachine) RuntimeDuration() time.Duration {
	if sm.startedAt == nil {
		return 0
	}

	endTime := sm.clock.Now()
	if sm.finishedAt != nil {
		endTime = *sm.finishedAt
	}

	return endTime.Sub(*sm.startedAt)
}

// RecoverFromPersistence restores lifecycle state when rebuilding a task from storage
func (sm *LifecycleStateMachine) RecoverFromPersistence(status LifecycleStatus, createdAt, updatedAt time.Time) {
	sm.status = status
	sm.createdAt = createdAt
	sm.updatedAt = updatedAt
}

// Clone returns an independent copy sharing the same clock
func (sm *LifecycleStateMachine) Clone() *LifecycleStateMachine {
	c := *sm
	return &c
}
