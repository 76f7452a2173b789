package pending

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Condition reports whether an action's prerequisite holds right now.
// It is evaluated again on every Flush and must be cheap.
type Condition interface {
	Satisfied() bool
}

// ConditionFunc adapts a plain function to Condition.
type ConditionFunc func() bool

func (f ConditionFunc) Satisfied() bool { return f() }

// Action is the deferred unit of work.
type Action func()

type (
	item struct {
		id        string
		condition Condition
		action    Action
		queuedAt  time.Time
	}
	// Entry describes a queued action.
	Entry struct {
		ID       string
		QueuedAt time.Time
	}
)

// Queue is a FIFO of actions waiting on their conditions.
//
// ExecuteOrDefer and Flush hold the same lock for their whole duration,
// actions included. An action must not call back into the Queue that is
// running it.
type Queue struct {
	mu    sync.Mutex
	items []*item
}

// New returns an empty Queue.
func New() *Queue {
	return &Queue{}
}

// ExecuteOrDefer runs a right away if c is satisfied, otherwise appends it
// to the tail of the queue. deferred reports which of the two happened.
//
// A panic raised by a propagates to the caller. A panic raised by c is
// returned as a *ConditionError and a is neither run nor queued.
func (q *Queue) ExecuteOrDefer(c Condition, a Action) (deferred bool, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	ok, err := evaluate(c, "")
	if err != nil {
		return false, err
	}
	if ok {
		a()
		return false, nil
	}
	q.items = append(q.items, &item{
		id:        uuid.New().String(),
		condition: c,
		action:    a,
		queuedAt:  time.Now(),
	})
	return true, nil
}

// Flush runs queued actions in the order they were queued until the queue
// is empty or the head's condition is not satisfied. It returns how many
// actions ran.
//
// If the head's condition panics, Flush stops and returns a *ConditionError;
// the entry stays at the head and is evaluated again on the next call. If an
// action panics, the panic propagates and that action is not re-queued.
func (q *Queue) Flush() (ran int, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) > 0 {
		head := q.items[0]
		ok, err := evaluate(head.condition, head.id)
		if err != nil {
			return ran, err
		}
		if !ok {
			return ran, nil
		}
		q.items[0] = nil
		q.items = q.items[1:]
		if len(q.items) == 0 {
			q.items = nil
		}
		ran++
		head.action()
	}
	return ran, nil
}

// Len returns the number of queued actions.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Pending lists queued actions head first.
func (q *Queue) Pending() []Entry {
	q.mu.Lock()
	defer q.mu.Unlock()
	entries := make([]Entry, 0, len(q.items))
	for _, it := range q.items {
		entries = append(entries, Entry{ID: it.id, QueuedAt: it.queuedAt})
	}
	return entries
}

func evaluate(c Condition, id string) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			err = &ConditionError{ID: id, Value: r}
		}
	}()
	return c.Satisfied(), nil
}
