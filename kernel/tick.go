package kernel

import "cadence/internal/cyclic"

// Tick advances the kernel's time base by one and services every timer
// wait due at or before the new time, the cadence analogue of
// RTuinOS's system timer ISR calling into its scheduler. On a board it
// is called from the periodic timer interrupt the board port sets up;
// nothing in this method depends on that - a host test can call it
// directly to drive simulated time.
func (k *Kernel[T]) Tick() {
	prior := k.cs.Enter()
	k.time++
	for i := 0; i < k.cfg.NumTasks; i++ {
		id := TaskID(i)
		t := &k.tasks[id]
		if t.status != statusSuspended || !t.hasTimeout {
			continue
		}
		if cyclic.Before(k.time, t.dueTime) {
			continue
		}
		if k.time != t.dueTime {
			// The due time already passed on some earlier tick without
			// the task being serviced - only possible if ticks are
			// being delivered faster than this loop can drain them.
			// The counter saturates rather than wraps: it is a coarse
			// "this is still happening" diagnostic, not a measurement.
			if t.overrunCount < ^uint32(0) {
				t.overrunCount++
			}
			k.log.Statsf("overrun", "task %d's deadline elapsed again before being serviced", id)
		}

		var timerBit EventVector
		if t.waitMask&EvtAbsoluteTimer != 0 {
			timerBit = EvtAbsoluteTimer
		} else {
			timerBit = EvtDelayTimer
		}
		t.postedEvents |= timerBit

		if t.waitMutex >= 0 {
			k.mutexWaiters[t.waitMutex].Remove(id, func(a, b TaskID) bool { return a == b })
			t.waitMutex = -1
		}
		if t.waitSema >= 0 {
			k.semaWaiters[t.waitSema].Remove(id, func(a, b TaskID) bool { return a == b })
			t.waitSema = -1
		}
		k.makeReady(id)
	}

	if k.cfg.RoundRobin && k.active != k.idle {
		act := &k.tasks[k.active]
		if act.roundRobinLeft > 0 {
			act.roundRobinLeft--
			if act.roundRobinLeft == 0 {
				k.rotateToBack(k.active)
			}
		}
	}

	k.cs.Leave(prior)
	k.dispatch(reqTick)
}

// Time returns the kernel's current tick count, read-only: application
// code observes it, it never sets it directly.
func (k *Kernel[T]) Time() T {
	return k.time
}
