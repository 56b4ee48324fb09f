package kernel

import "cadence/internal/kerr"

// Mutexes reuse the low broadcast bits of EventVector as ownership
// tokens (an extension beyond RTuinOS's pure broadcast-event
// model, since RTuinOS itself has no mutex primitive). Acquiring one is
// a binary resource grab; releasing hands it straight to the oldest
// waiter in the highest priority class present, never back to a lower
// one while a higher one waits, the same priority-respecting handoff
// the ready-queue scheduler itself uses.

// AcquireMutex blocks the calling task until it owns mutex idx, or
// until timeout ticks elapse (zero means wait without a bound). It
// reports whether the mutex was actually acquired - a false result
// means the wait timed out instead - and a non-nil error only for an
// idx outside the configured mutex range.
func (k *Kernel[T]) AcquireMutex(idx int, timeout T) (bool, error) {
	if idx < 0 || idx >= k.cfg.NumMutexEvents {
		return false, kerr.ErrUnknownMutex
	}
	prior := k.cs.Enter()
	self := k.active
	if k.mutexOwner[idx] == noTask {
		k.mutexOwner[idx] = self
		k.cs.Leave(prior)
		return true, nil
	}

	bit := k.layout.mutexBit(idx)
	mask := bit
	hasTimer := timeout != 0
	if hasTimer {
		mask |= EvtDelayTimer
	}
	t := &k.tasks[self]
	t.waitMask = mask
	t.waitForAll = false
	t.hasTimeout = hasTimer
	if hasTimer {
		// Same one-past-the-sum rule Wait uses: a timeout of N ticks must
		// still be pending when N ticks have elapsed and only matures on
		// tick N+1.
		t.dueTime = k.time + timeout + 1
	}
	t.waitMutex = idx
	t.status = statusSuspended
	k.mutexWaiters[idx].PushBack(self)
	k.removeReady(self)
	k.cs.Leave(prior)
	k.dispatch(reqWait)

	// Resumed either because ReleaseMutex handed us ownership (bit set
	// in postedEvents) or because our timeout matured first (Tick
	// already pulled us back out of mutexWaiters[idx]). mask is captured
	// above rather than read back from t, since makeReady already
	// cleared t.waitMask by the time either path resumes us here.
	result := consumeWait(t, mask)
	t.waitMutex = -1
	return result&bit != 0, nil
}

// ReleaseMutex gives up ownership of mutex idx, which the calling task
// must currently hold, and hands it to the oldest waiter in the
// highest priority class waiting on it, if any. Releasing a mutex the
// caller does not own is a runtime-invariant violation, not a
// recoverable error - it goes through Fatalf, same as RTuinOS's debug
// assertion on a mismatched rtos_releaseMutex.
func (k *Kernel[T]) ReleaseMutex(idx int) error {
	if idx < 0 || idx >= k.cfg.NumMutexEvents {
		return kerr.ErrUnknownMutex
	}
	prior := k.cs.Enter()
	self := k.active
	if k.mutexOwner[idx] != self {
		k.log.Fatalf("task %d released mutex %d it does not own", self, idx)
		k.cs.Leave(prior)
		return nil
	}
	k.mutexOwner[idx] = noTask
	if waiter, ok := k.pickHighestPriorityWaiter(k.mutexWaiters[idx]); ok {
		k.mutexOwner[idx] = waiter
		wt := &k.tasks[waiter]
		wt.postedEvents |= k.layout.mutexBit(idx)
		wt.waitMutex = -1
		k.makeReady(waiter)
	}
	k.cs.Leave(prior)
	k.dispatch(reqMutexRelease)
	return nil
}
