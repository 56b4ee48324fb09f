package kernel

import "cadence/internal/kerr"

// Semaphores are the counting counterpart to mutexes, carved out of the
// same low broadcast bit range. TakeSema decrements the
// counter immediately if it is positive; otherwise the caller queues up
// and GiveSema either hands its unit straight to the oldest waiter in
// the highest priority class present, or, with nobody waiting,
// increments the counter for a future TakeSema to find - the
// "transfer-on-post" handoff rule.

// TakeSema blocks the calling task until it can claim one unit of
// semaphore idx, or until timeout ticks elapse (zero means wait
// without a bound). It reports whether a unit was actually claimed,
// and a non-nil error only for an idx outside the configured range.
func (k *Kernel[T]) TakeSema(idx int, timeout T) (bool, error) {
	if idx < 0 || idx >= k.cfg.NumSemaphoreEvents {
		return false, kerr.ErrUnknownSema
	}
	prior := k.cs.Enter()
	self := k.active
	if k.semaCounter[idx] > 0 {
		k.semaCounter[idx]--
		k.cs.Leave(prior)
		return true, nil
	}

	bit := k.layout.semaBit(idx)
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
	t.waitSema = idx
	t.status = statusSuspended
	k.semaWaiters[idx].PushBack(self)
	k.removeReady(self)
	k.cs.Leave(prior)
	k.dispatch(reqWait)

	result := consumeWait(t, mask)
	t.waitSema = -1
	return result&bit != 0, nil
}

// GiveSema releases one unit of semaphore idx. If a task is already
// waiting on it, that unit is transferred straight to the oldest
// waiter in the highest priority class present and the counter never
// moves; otherwise the counter is incremented for a later TakeSema.
func (k *Kernel[T]) GiveSema(idx int) error {
	if idx < 0 || idx >= k.cfg.NumSemaphoreEvents {
		return kerr.ErrUnknownSema
	}
	prior := k.cs.Enter()
	if waiter, ok := k.pickHighestPriorityWaiter(k.semaWaiters[idx]); ok {
		wt := &k.tasks[waiter]
		wt.postedEvents |= k.layout.semaBit(idx)
		wt.waitSema = -1
		k.makeReady(waiter)
	} else if k.semaCounter[idx] < 255 {
		k.semaCounter[idx]++
	} else {
		k.log.Warnf("semaphore %d counter saturated at 255", idx)
	}
	k.cs.Leave(prior)
	k.dispatch(reqSemaRelease)
	return nil
}
