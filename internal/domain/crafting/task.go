package crafting

import (
	"github.com/google/uuid"

	"github.com/andrescamacho/factorycore/internal/domain/shared"
)

// TaskStatus mirrors the lifecycle status of a crafting task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = TaskStatus(shared.LifecycleStatusPending)
	TaskStatusInProgress TaskStatus = TaskStatus(shared.LifecycleStatusInProgress)
	TaskStatusCompleted  TaskStatus = TaskStatus(shared.LifecycleStatusCompleted)
	TaskStatusFailed     TaskStatus = TaskStatus(shared.LifecycleStatusFailed)
)

// Task is one manual crafting job: Quantity runs of a recipe.
//
// Inputs are debited when the chain is committed, so a task only credits its
// output on completion. CreditQuantity is what reaches inventory: the full
// output for the requested item, or only the rounding surplus for an
// intermediate that the next task consumes.
type Task struct {
	id             string
	recipeID       string
	targetItem     string
	quantity       int
	outputQuantity int
	creditQuantity int
	progress       float64
	duration       float64
	predecessorID  string
	lifecycle      *shared.LifecycleStateMachine
}

// NewTask creates a pending task
func NewTask(
	recipeID, targetItem string,
	runs, outputQuantity, creditQuantity int,
	duration float64,
	predecessorID string,
	clock shared.Clock,
) *Task {
	return &Task{
		id:             uuid.New().String(),
		recipeID:       recipeID,
		targetItem:     targetItem,
		quantity:       runs,
		outputQuantity: outputQuantity,
		creditQuantity: creditQuantity,
		duration:       duration,
		predecessorID:  predecessorID,
		lifecycle:      shared.NewLifecycleStateMachine(clock),
	}
}

// Getters

func (t *Task) ID() string            { return t.id }
func (t *Task) RecipeID() string      { return t.recipeID }
func (t *Task) TargetItem() string    { return t.targetItem }
func (t *Task) Quantity() int         { return t.quantity }
func (t *Task) OutputQuantity() int   { return t.outputQuantity }
func (t *Task) CreditQuantity() int   { return t.creditQuantity }
func (t *Task) Progress() float64     { return t.progress }
func (t *Task) Duration() float64     { return t.duration }
func (t *Task) PredecessorID() string { return t.predecessorID }
func (t *Task) Status() TaskStatus    { return TaskStatus(t.lifecycle.Status()) }
func (t *Task) LastError() error      { return t.lifecycle.LastError() }

// IsFinished returns true once the task completed or failed
func (t *Task) IsFinished() bool {
	return t.lifecycle.IsFinished()
}

// Start moves a pending task into progress
func (t *Task) Start() error {
	if err := t.lifecycle.Start(); err != nil {
		return &ErrInvalidTaskTransition{TaskID: t.id, From: t.Status(), To: TaskStatusInProgress, Description: err.Error()}
	}
	return nil
}

// Advance adds dt seconds of work. It returns the unused seconds once the
// task completes, so the queue can hand them to the next task.
func (t *Task) Advance(dt float64) (leftover float64, completed bool, err error) {
	if !t.lifecycle.IsInProgress() {
		return dt, false, &ErrInvalidTaskTransition{TaskID: t.id, From: t.Status(), To: TaskStatusInProgress, Description: "task is not in progress"}
	}

	if t.duration <= 0 {
		t.progress = 1
	} else {
		remaining := (1 - t.progress) * t.duration
		if dt < remaining {
			t.progress += dt / t.duration
			return 0, false, nil
		}
		leftover = dt - remaining
		t.progress = 1
	}

	if err := t.lifecycle.Complete(); err != nil {
		return dt, false, &ErrInvalidTaskTransition{TaskID: t.id, From: t.Status(), To: TaskStatusCompleted, Description: err.Error()}
	}
	return leftover, true, nil
}

// Fail abandons the task
func (t *Task) Fail(reason error) error {
	if err := t.lifecycle.Fail(reason); err != nil {
		return &ErrInvalidTaskTransition{TaskID: t.id, From: t.Status(), To: TaskStatusFailed, Description: err.Error()}
	}
	return nil
}

// Clone returns a deep copy with the same id
func (t *Task) Clone() *Task {
	c := *t
	c.lifecycle = t.lifecycle.Clone()
	return &c
}
