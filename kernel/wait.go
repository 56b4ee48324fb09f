package kernel

// Wait suspends the calling task until mask is satisfied in the
// task's accumulated event vector - any one bit if waitForAll is
// false, every bit if true - or until timeout ticks have elapsed,
// whichever comes first. A timeout of zero (the T zero value) means
// wait without a time bound. Wait must only ever be called by the
// currently active task about itself; calling it for another task is
// a programming error the architecture layer has no way to catch, the
// same contract RTuinOS's rtos_waitForEvent places on its caller.
//
// The returned EventVector is exactly the bits of mask that were set
// when the wait matured on an explicit post. A wait that matured on its
// deadline returns only EvtDelayTimer or EvtAbsoluteTimer, regardless of
// waitForAll; event bits that had arrived without completing the wait
// stay pending for the task's next wait.
func (k *Kernel[T]) Wait(mask EventVector, waitForAll bool, timeout T) EventVector {
	hasTimer := timeout != 0
	fullMask := mask
	if hasTimer {
		fullMask |= EvtDelayTimer
	}
	return k.waitInternal(fullMask, waitForAll, timeout, false, hasTimer)
}

// WaitUntil suspends the calling task until mask is satisfied or until
// its absolute due time matures, whichever comes first - the
// absolute-timer counterpart of Wait, grounded on
// rtos_suspendTaskTillTime. period is not an offset from now: it is
// added to the task's own due time from its previous WaitUntil call
// (or zero, on the task's first call), so a task that calls
// WaitUntil(evt, false, period) at the end of every loop iteration
// runs at a fixed cadence with no drift, even though the task's own
// execution time and any preemption eat into each period.
func (k *Kernel[T]) WaitUntil(mask EventVector, waitForAll bool, period T) EventVector {
	return k.waitInternal(mask|EvtAbsoluteTimer, waitForAll, period, true, true)
}

// Delay suspends the calling task until the (ticks+1)-th tick from now,
// so at least ticks full tick periods pass, and ignores every other
// event in the meantime - the degenerate, timer-only case
// of Wait, kept as its own entry point because it is by far the most
// common one task bodies use.
func (k *Kernel[T]) Delay(ticks T) {
	k.waitInternal(EvtDelayTimer, true, ticks, false, true)
}

// waitInternal is the one suspension path every public wait variant
// funnels through. mask is the already-assembled full wait mask
// (including any timer bit); when/absolute describe the deadline.
func (k *Kernel[T]) waitInternal(mask EventVector, waitForAll bool, when T, absolute bool, hasTimer bool) EventVector {
	if mask == 0 {
		k.log.Fatalf("task %d waited for the empty event mask with no timeout: it would never resume", k.active)
		return 0
	}
	prior := k.cs.Enter()
	self := k.active
	t := &k.tasks[self]

	// The timer bits folded into mask above are never set in postedEvents
	// before the wait actually suspends, but the all-satisfied test still
	// must not require them - only a real event post or an already-posted
	// event satisfies this check; the deadline is handled separately by
	// Tick. A timer-only wait has no event bits and always suspends.
	eventMask := mask &^ (EvtDelayTimer | EvtAbsoluteTimer)
	if eventMask != 0 && waitSatisfied(t.postedEvents, eventMask, waitForAll) {
		result := consumeWait(t, mask)
		k.cs.Leave(prior)
		return result
	}

	t.waitMask = mask
	t.waitForAll = waitForAll
	t.hasTimeout = hasTimer
	if hasTimer {
		if absolute {
			// Advance from the task's own previous due time (zero before
			// its first call), not from k.time - see WaitUntil.
			t.dueTime += when
		} else {
			// A delay of N ticks must still be pending when N ticks have
			// elapsed and only matures on tick N+1 - due time is one past
			// the naive sum so Tick's due-time check doesn't fire early.
			t.dueTime = k.time + when + 1
		}
	}
	t.status = statusSuspended
	k.removeReady(self)
	// The critical section must be released before dispatch: Switch
	// blocks this goroutine until the task is resumed, and resuming it
	// is exactly what a Post or Tick running under its own Enter/Leave
	// would otherwise be unable to do while this call still held the
	// section open.
	k.cs.Leave(prior)
	k.dispatch(reqWait)
	// Resumed here once some Post or Tick call found this task's wait
	// condition satisfied and made it ready again.
	return consumeWait(t, mask)
}

// waitSatisfied reports whether posted events already meet a wait
// condition without needing to suspend at all - the "event already
// happened before the task got around to waiting for it" case.
func waitSatisfied(posted, mask EventVector, waitForAll bool) bool {
	if waitForAll {
		return posted&mask == mask
	}
	return posted&mask != 0
}

// consumeWait clears the bits that satisfied a wait from the task's
// pending event vector and returns exactly the bits that did so -
// never the whole requested mask. A wake on the deadline is reported
// as the timer bit alone, even for a waitForAll wait that had received
// some of its events. Bits not returned stay pending for the task's
// next wait, matching RTuinOS's "unconsumed events are not lost"
// behaviour.
func consumeWait[T cyclicType](t *taskState[T], mask EventVector) EventVector {
	result := t.postedEvents & mask
	if timers := result & (EvtDelayTimer | EvtAbsoluteTimer); timers != 0 {
		result = timers
	}
	t.postedEvents &^= result
	t.waitMask = 0
	t.hasTimeout = false
	return result
}
