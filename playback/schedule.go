package playback

// eventDelay runs callbacks a whole number of frames in the future.  Each
// event stores its delay relative to the event before it, so Step touches
// only the head of the queue.
type eventDelay struct {
	events []delayEvent
}

type delayEvent struct {
	n int
	f func()
}

// Delay schedules f to run on the n'th following call to Step.
func (d *eventDelay) Delay(n int, f func()) {
	i := 0
	for ; i < len(d.events); i++ {
		e := &d.events[i]
		if n < e.n {
			e.n -= n
			break
		}
		n -= e.n
	}
	d.events = append(d.events, delayEvent{})
	copy(d.events[i+1:], d.events[i:])
	d.events[i] = delayEvent{n, f}
}

// Step advances one frame and runs the events that are due.
func (d *eventDelay) Step() {
	if len(d.events) > 0 {
		d.events[0].n--
		for len(d.events) > 0 {
			e := &d.events[0]
			if e.n > 0 {
				break
			}
			e.f()
			d.events = d.events[1:]
		}
	}
}

// Len returns the number of pending events.
func (d *eventDelay) Len() int { return len(d.events) }
