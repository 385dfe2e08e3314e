package realtime

import (
	"time"

	"golang.org/x/sys/unix"
	"go.uber.org/zap"
)

// PrioritySyncInterval is how often the native side piggy-backs its audio
// thread's scheduling priority on an audio request so the foreign host can
// mirror it.
const PrioritySyncInterval = 10 * time.Second

// DefaultPriority is the SCHED_FIFO priority used for the callback handler
// thread until the host's own priority has been observed.
const DefaultPriority = 5

// Priority returns the calling thread's SCHED_FIFO priority, or false when
// the thread is not under first-in-first-out realtime scheduling.
func Priority() (int, bool) {
	attr, err := unix.SchedGetAttr(0, 0)
	if err != nil || attr.Policy != unix.SCHED_FIFO {
		return 0, false
	}
	return int(attr.Priority), true
}

// SetPriority moves the calling thread onto SCHED_FIFO with the given
// priority, or back to SCHED_OTHER when fifo is false. Fails without
// realtime privileges; callers treat that as advisory.
func SetPriority(fifo bool, priority int) error {
	attr := &unix.SchedAttr{Size: unix.SizeofSchedAttr}
	if fifo {
		attr.Policy = unix.SCHED_FIFO
		attr.Priority = uint32(priority)
	} else {
		attr.Policy = unix.SCHED_NORMAL
	}
	return unix.SchedSetAttr(0, attr, 0)
}

// WarnOnResourceLimits logs informational warnings when the scheduler
// limits are set so low that mapping shared memory or running a SCHED_FIFO
// audio thread is likely to misbehave. PipeWire's rtkit module is the usual
// culprit for a low RTTIME limit.
func WarnOnResourceLimits(logger *zap.Logger) {
	if logger == nil {
		return
	}
	var memlock unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_MEMLOCK, &memlock); err == nil {
		if memlock.Cur != unix.RLIM_INFINITY && memlock.Cur < 64<<20 {
			logger.Warn("RLIMIT_MEMLOCK is low, mapping shared memory may fail",
				zap.Uint64("bytes", memlock.Cur))
		}
	}
	var rttime unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_RTTIME, &rttime); err == nil {
		if rttime.Cur != unix.RLIM_INFINITY {
			logger.Warn("RLIMIT_RTTIME is set, the realtime audio thread may be killed under load",
				zap.Uint64("microseconds", rttime.Cur))
		}
	}
}
