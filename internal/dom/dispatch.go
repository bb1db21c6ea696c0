package dom

// Dispatch runs e through the capture, target and bubble phases along the
// path from the document to e.Target. A nil target dispatches on Body.
// It returns false if a listener prevented the default action.
func (d *Document) Dispatch(e *Event) bool {
	if e.Target == nil {
		e.Target = d.Body
	}
	d.seq++
	e.seq = d.seq
	e.stopped, e.stoppedNow = false, false

	path := propagationPath(e.Target)
	last := len(path) - 1

	for i := 0; i < last && !e.stopped; i++ {
		invoke(path[i], e, PhaseCapturing, true)
	}
	if !e.stopped {
		invoke(path[last], e, PhaseAtTarget, true)
	}
	if !e.stopped {
		invoke(path[last], e, PhaseAtTarget, false)
	}
	for i := last - 1; i >= 0 && !e.stopped; i-- {
		invoke(path[i], e, PhaseBubbling, false)
	}

	e.phase = PhaseNone
	e.currentTarget = nil
	return !e.defaultPrevented
}

// ListenerCount returns the number of listeners attached to the document.
func (d *Document) ListenerCount() int {
	return d.listeners.len()
}

// propagationPath lists targets from the outermost ancestor down to target.
// Detached subtrees do not reach the document.
func propagationPath(target *Node) []EventTarget {
	var path []EventTarget
	for cur := EventTarget(target); cur != nil; cur = cur.parentTarget() {
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func invoke(target EventTarget, e *Event, phase Phase, capture bool) {
	e.currentTarget = target
	e.phase = phase
	set := target.listenerSet()
	for _, l := range set.matching(e.Type, capture) {
		if l.removed {
			continue
		}
		if l.opts.Once {
			set.remove(l)
		}
		e.inPassive = l.opts.Passive
		l.handler(e)
		e.inPassive = false
		if e.stoppedNow {
			return
		}
	}
}
