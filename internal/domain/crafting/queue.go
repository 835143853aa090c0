package crafting

import (
	"fmt"

	"github.com/andrescamacho/factorycore/internal/domain/inventory"
)

// Completion is a finished task and the inventory credit it produces
type Completion struct {
	Task   *Task
	Credit inventory.Adjustment
}

// Queue runs manual crafting tasks one at a time in enqueue order. A task
// starts only after its predecessor has completed.
type Queue struct {
	tasks []*Task
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue appends tasks, which must already be ordered predecessor-first
func (q *Queue) Enqueue(tasks ...*Task) {
	q.tasks = append(q.tasks, tasks...)
}

// Tasks returns the queued tasks
func (q *Queue) Tasks() []*Task {
	return append([]*Task(nil), q.tasks...)
}

// Clone returns a queue of deep-copied tasks
func (q *Queue) Clone() *Queue {
	c := &Queue{tasks: make([]*Task, len(q.tasks))}
	for i, t := range q.tasks {
		c.tasks[i] = t.Clone()
	}
	return c
}

// Len returns the number of queued tasks
func (q *Queue) Len() int {
	return len(q.tasks)
}

// Advance spends dt seconds on the queue. Time left over when a task
// completes flows into the next one. Completed tasks leave the queue.
func (q *Queue) Advance(dt float64) ([]Completion, error) {
	var completions []Completion
	completed := make(map[string]bool)

	for dt > 0 && len(q.tasks) > 0 {
		head := q.tasks[0]
		if pred := head.PredecessorID(); pred != "" && !completed[pred] && q.contains(pred) {
			return completions, fmt.Errorf("task %s is blocked by predecessor %s", head.ID(), pred)
		}
		if head.Status() == TaskStatusPending {
			if err := head.Start(); err != nil {
				return completions, err
			}
		}

		leftover, done, err := head.Advance(dt)
		if err != nil {
			return completions, err
		}
		if !done {
			break
		}

		completed[head.ID()] = true
		q.tasks = q.tasks[1:]
		completions = append(completions, Completion{
			Task:   head,
			Credit: inventory.Adjustment{ItemID: head.TargetItem(), Delta: head.CreditQuantity()},
		})
		dt = leftover
	}
	return completions, nil
}

// Cancel fails a task and every task that transitively follows it, removing
// them from the queue
func (q *Queue) Cancel(taskID string, reason error) ([]*Task, error) {
	if !q.contains(taskID) {
		return nil, &ErrTaskNotFound{TaskID: taskID}
	}

	doomed := map[string]bool{taskID: true}
	var failed []*Task
	kept := q.tasks[:0]
	for _, t := range q.tasks {
		if doomed[t.ID()] || doomed[t.PredecessorID()] {
			doomed[t.ID()] = true
			if err := t.Fail(reason); err != nil {
				return nil, err
			}
			failed = append(failed, t)
			continue
		}
		kept = append(kept, t)
	}
	q.tasks = kept
	return failed, nil
}

func (q *Queue) contains(taskID string) bool {
	for _, t := range q.tasks {
		if t.ID() == taskID {
			return true
		}
	}
	return false
}
