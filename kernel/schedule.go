package kernel

import "cadence/internal/bitqueue"

// pickNext returns the task that should be active right now: the
// oldest ready task in the highest non-empty priority class, or the
// idle task if every class is empty. It never mutates ready-list
// state - callers decide whether that amounts to a change of active
// task and, if so, drive the actual context switch.
func (k *Kernel[T]) pickNext() TaskID {
	for c := len(k.ready) - 1; c >= 0; c-- {
		if id, ok := k.ready[c].Front(); ok {
			return id
		}
	}
	return k.idle
}

// reschedule re-evaluates who should be active and, if it differs from
// who is, performs the context switch. Every service that can change
// readiness - Wait, Post, Tick, mutex/semaphore release - ends by
// calling this, the same "always end by falling through to the
// scheduler" discipline RTuinOS's rtos_setEvent and the tick ISR share.
func (k *Kernel[T]) reschedule() {
	next := k.pickNext()
	if next == k.active {
		return
	}
	prev := k.active
	// prev keeps whatever status the caller already gave it (Suspended,
	// if it just blocked on a wait) or falls back to Ready - it is still
	// sitting in its priority class's ready queue in every other case,
	// including a round-robin rotation or simple preemption by Post.
	if prev != k.idle && k.tasks[prev].status != statusSuspended {
		k.tasks[prev].status = statusReady
	}
	k.active = next
	if next != k.idle {
		k.tasks[next].status = statusActive
	}
	k.reloadRoundRobin(next)
	k.sw.Switch(&k.tasks[prev].ctx, k.tasks[next].ctx)
	k.runIdle()
}

// reloadRoundRobin resets a task's time-slice counter to its configured
// allotment the moment it becomes active; tasks that didn't opt in
// (RoundRobinTicks == 0) are unaffected since their slice never expires.
func (k *Kernel[T]) reloadRoundRobin(id TaskID) {
	if id == k.idle {
		return
	}
	k.tasks[id].roundRobinLeft = k.tasks[id].cfg.RoundRobinTicks
}

// makeReady moves a task into its priority class's ready queue. It is
// the single path by which a suspended or timed-out task becomes
// eligible to run again.
func (k *Kernel[T]) makeReady(id TaskID) {
	t := &k.tasks[id]
	t.hasTimeout = false
	t.waitMask = 0
	t.status = statusReady
	if !k.ready[t.prioClass].PushBack(id) {
		k.log.Errorf("ready queue for priority class %d is full, dropping task %d", t.prioClass, id)
	}
}

// removeReady takes a task out of its priority class's ready queue,
// used when a task that was ready (including the active one) is about
// to suspend on a new wait.
func (k *Kernel[T]) removeReady(id TaskID) {
	t := &k.tasks[id]
	k.ready[t.prioClass].Remove(id, func(a, b TaskID) bool { return a == b })
}

// schedRequest tags why dispatch was asked to re-evaluate the active
// task. RTuinOS's C scheduler folds this into a handful of naked
// (no-prologue) functions, one per entry reason, relying on the
// compiler never touching registers the hand-written asm still
// expects; cadence has no naked-function equivalent, so the same
// "which door did we come in through" information is carried as an
// ordinary tagged value instead, consumed only for diagnostics.
type schedRequest uint8

const (
	reqWait schedRequest = iota
	reqPost
	reqTick
	reqMutexRelease
	reqSemaRelease
)

func (r schedRequest) String() string {
	switch r {
	case reqWait:
		return "wait"
	case reqPost:
		return "post"
	case reqTick:
		return "tick"
	case reqMutexRelease:
		return "mutex-release"
	case reqSemaRelease:
		return "sema-release"
	default:
		return "unknown"
	}
}

// dispatch is the single entry point every service calls instead of
// reschedule directly, so a mode switch is always attributed to the
// event that triggered it in the debug log.
func (k *Kernel[T]) dispatch(reason schedRequest) {
	before := k.active
	k.reschedule()
	if k.active != before {
		k.log.Debugf("dispatch %s: task %d -> task %d", reason, before, k.active)
	}
}

// pickHighestPriorityWaiter removes and returns the waiter that should
// be handed a mutex or a semaphore unit next: the oldest entry within
// the highest priority class represented in q. A plain FIFO queue
// doesn't carry priority information on its own, so this drains q into
// a scratch slice, picks the best candidate, and reinserts the rest in
// their original relative order - acceptable cost at RTOS task-count
// scale, and it keeps bitqueue itself free of any notion of priority.
func (k *Kernel[T]) pickHighestPriorityWaiter(q *bitqueue.Queue[TaskID]) (TaskID, bool) {
	n := q.Len()
	if n == 0 {
		return noTask, false
	}
	items := make([]TaskID, 0, n)
	for i := 0; i < n; i++ {
		v, _ := q.PopFront()
		items = append(items, v)
	}
	best := 0
	for i := 1; i < n; i++ {
		if k.tasks[items[i]].prioClass > k.tasks[items[best]].prioClass {
			best = i
		}
	}
	chosen := items[best]
	for i, v := range items {
		if i != best {
			q.PushBack(v)
		}
	}
	return chosen, true
}

// rotateToBack moves id from the front to the back of its own priority
// class's ready queue, the round-robin "your slice is over" action.
func (k *Kernel[T]) rotateToBack(id TaskID) {
	t := &k.tasks[id]
	q := k.ready[t.prioClass]
	if front, ok := q.Front(); !ok || front != id {
		return
	}
	if v, ok := q.PopFront(); ok {
		q.PushBack(v)
	}
}
