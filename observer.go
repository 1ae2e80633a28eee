package canopy

type observer struct {
	fn   func()
	dead bool
}

// observerList is a set of change callbacks. Callbacks may add or remove
// observers while a notification is running: removed ones are not called
// again and added ones first run on the next notification.
type observerList struct {
	items []*observer
}

func (l *observerList) add(fn func()) (remove func()) {
	o := &observer{fn: fn}
	l.items = append(l.items, o)
	return func() {
		if o.dead {
			return
		}
		o.dead = true
		live := make([]*observer, 0, len(l.items))
		for _, it := range l.items {
			if it != o {
				live = append(live, it)
			}
		}
		l.items = live
	}
}

func (l *observerList) notify() {
	for _, o := range l.items {
		if !o.dead {
			o.fn()
		}
	}
}

func (l *observerList) len() int { return len(l.items) }
