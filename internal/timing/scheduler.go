// Package timing provides deferred execution on a single-threaded event loop.
//
// Callbacks scheduled through a Scheduler always run on the loop that owns
// the layer state, never concurrently with event handlers.
package timing

import "time"

type Timer interface {
	// Stop cancels the timer. It returns false if the timer already fired
	// or was stopped.
	Stop() bool
}

type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}
