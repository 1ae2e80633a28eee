package canopy

// CanvasScheduler tracks every live bitmap of an engine so pending paint
// commands can be flushed in one pass before a frame is drawn.
type CanvasScheduler struct {
	bitmaps []*Bitmap
	flushed int
}

func newCanvasScheduler() *CanvasScheduler {
	return &CanvasScheduler{}
}

func (s *CanvasScheduler) register(b *Bitmap) {
	b.sched = len(s.bitmaps)
	s.bitmaps = append(s.bitmaps, b)
}

// unregister removes b by swapping the last entry into its place.
func (s *CanvasScheduler) unregister(b *Bitmap) {
	i := b.sched
	if i < 0 || i >= len(s.bitmaps) || s.bitmaps[i] != b {
		return
	}
	last := len(s.bitmaps) - 1
	s.bitmaps[i] = s.bitmaps[last]
	s.bitmaps[i].sched = i
	s.bitmaps[last] = nil
	s.bitmaps = s.bitmaps[:last]
	b.sched = -1
}

// Len returns the number of live bitmaps.
func (s *CanvasScheduler) Len() int { return len(s.bitmaps) }

// SubmitPendingPaintCommands flushes every bitmap with queued commands and
// returns how many were flushed.
func (s *CanvasScheduler) SubmitPendingPaintCommands() int {
	n := 0
	for _, b := range s.bitmaps {
		if len(b.commands) > 0 {
			b.SubmitQueuedCommands()
			n++
		}
	}
	s.flushed = n
	return n
}

// disposeAll releases every remaining bitmap.
func (s *CanvasScheduler) disposeAll() {
	for len(s.bitmaps) > 0 {
		s.bitmaps[len(s.bitmaps)-1].Dispose()
	}
}
