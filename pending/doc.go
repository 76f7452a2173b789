// Package pending holds work until the condition it depends on is satisfied.
//
// A Queue runs an action immediately when its condition already holds and
// otherwise keeps it, in arrival order, until Flush is called at a point
// where the condition may have changed (a resource became available, a
// file appeared, a session finished initialising).
//
// Ordering:
//   - Flush only ever looks at the head of the queue.
//   - A blocked head blocks everything behind it, even entries whose
//     conditions would already pass.
//   - Every action runs at most once and is removed before it runs.
//
// There is no cancellation and no timeout. An action whose condition never
// becomes true stays queued for the lifetime of the Queue, together with
// everything queued after it.
//
// A Queue is owned by whoever constructs it. There is no package-level
// queue.
package pending
