package timing

import "time"

// Debounced delays fn until delay has passed without another Call. Newer
// calls replace the pending one, so only the latest argument is delivered.
type Debounced[T any] struct {
	scheduler Scheduler
	delay     time.Duration
	fn        func(T)
	timer     Timer
}

func Debounce[T any](s Scheduler, delay time.Duration, fn func(T)) *Debounced[T] {
	return &Debounced[T]{scheduler: s, delay: delay, fn: fn}
}

func (d *Debounced[T]) Call(arg T) {
	if d.timer != nil {
		d.timer.Stop()
	}
	var current Timer
	current = d.scheduler.AfterFunc(d.delay, func() {
		if d.timer != current {
			return
		}
		d.timer = nil
		d.fn(arg)
	})
	d.timer = current
}

// Cancel drops the pending invocation, if any.
func (d *Debounced[T]) Cancel() {
	if d.timer == nil {
		return
	}
	d.timer.Stop()
	d.timer = nil
}

func (d *Debounced[T]) Pending() bool {
	return d.timer != nil
}
