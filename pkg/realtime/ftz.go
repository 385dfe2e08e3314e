// Package realtime holds the scheduling and hot-path disciplines shared by
// both ABI bridges: denormal handling, short-lived value caches, and
// realtime-priority propagation to the foreign host's audio thread.
package realtime

// ScopedFlushToZero enables flush-to-zero handling of denormal floats for
// the duration of audio processing and restores the previous CPU flags on
// Restore, on every exit path.
type ScopedFlushToZero struct {
	previous uint32
	active   bool
}

// EnableFlushToZero captures the current denormal flags and enables
// flush-to-zero. On architectures without the control register this is a
// no-op that still pairs correctly with Restore.
func EnableFlushToZero() ScopedFlushToZero {
	if !ftzSupported {
		return ScopedFlushToZero{}
	}
	prev := getDenormalFlags()
	setDenormalFlags(prev | ftzBits)
	return ScopedFlushToZero{previous: prev, active: true}
}

// Restore puts the flags back the way they were. Safe to call more than
// once; only the first call has an effect.
func (s *ScopedFlushToZero) Restore() {
	if s.active {
		setDenormalFlags(s.previous)
		s.active = false
	}
}
