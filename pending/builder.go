package pending

// Partial is a condition bound to a queue, waiting for its action.
type Partial struct {
	queue     *Queue
	condition Condition
}

// WaitFor starts a q.WaitFor(c).ThenExecute(a) chain, which reads the same
// as q.ExecuteOrDefer(c, a).
func (q *Queue) WaitFor(c Condition) Partial {
	return Partial{queue: q, condition: c}
}

// ThenExecute hands a to ExecuteOrDefer.
func (p Partial) ThenExecute(a Action) (deferred bool, err error) {
	return p.queue.ExecuteOrDefer(p.condition, a)
}
