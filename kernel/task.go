package kernel

import (
	"cadence/arch"
	"cadence/internal/cyclic"
)

// TaskID identifies a task slot, 0..Config.NumTasks-1 for application
// tasks, with one further value reserved for the implicit idle task.
// 255 tasks is RTuinOS's own ceiling (task IDs are stored in a single
// byte throughout its ready/suspended arrays); cadence keeps the same
// limit for the same reason.
type TaskID uint8

// noTask marks an empty mutex-owner slot or an absent waiter.
const noTask TaskID = 0xff

// TaskFunc is an application task's entry point. It must never return;
// a task that falls off the end of its function is a programming
// error, not a clean exit - there is no dynamic task teardown.
type TaskFunc func(startEvent EventVector)

// TaskConfig describes one task at InitTask time, grounded on RTuinOS's
// rtos_initializeTask parameter list.
type TaskConfig[T cyclicType] struct {
	// Priority is the task's priority class, 0 (lowest) .. NumPrioClasses-1.
	Priority int
	// Function is the task's entry point.
	Function TaskFunc
	// Stack is the memory the task runs on; its size is the only stack
	// budgeting cadence performs; see StackReserve for the diagnostic.
	Stack []byte
	// RoundRobinTicks is this task's time slice when Config.RoundRobin
	// is enabled and more than one task shares its priority class; zero
	// disables round robin for this task specifically.
	RoundRobinTicks T
}

// taskState is the kernel's internal, mutable record for one task -
// the cadence analogue of RTuinOS's per-task entries spread across
// _taskDescAry, _dueTaskIdAryAry and _suspendedTaskIdAry. Bundling it as
// a struct field of Kernel instead of a handful of package-level arrays
// is the one structural departure from RTuinOS's C-derived globals,
// made so a host test can run more than one Kernel at a time.
type taskState[T cyclicType] struct {
	id       TaskID
	cfg      TaskConfig[T]
	prioClass int

	// ctx is the architecture-specific saved machine state; nil until
	// the task's stack has been prepared for its first dispatch.
	ctx arch.TaskContext

	// waitMask and waitForAll describe what the task is suspended for;
	// meaningful only while the task is not in a ready list.
	waitMask   EventVector
	waitForAll bool
	// postedEvents accumulates events that have arrived while the task
	// is suspended, cleared and handed back as the wait's result once
	// the wait condition is satisfied.
	postedEvents EventVector

	// dueTime is the absolute tick at which a timer wait (absolute or
	// delay-derived) matures.
	dueTime    T
	hasTimeout bool

	// roundRobinLeft counts down this task's remaining ticks within the
	// current time slice; reloaded from cfg.RoundRobinTicks each time
	// the task becomes the active one.
	roundRobinLeft T

	// overrunCount tallies how many times this task's due time elapsed
	// again before it was next resumed - StackReserve's timing
	// counterpart.
	overrunCount uint32

	// status is the task's current scheduling state. It is tracked
	// explicitly rather than inferred from ready-queue membership so
	// Post's broadcast pass can tell "suspended, waiting on this event"
	// from "ready" or "active" in one field read.
	status taskStatus

	// waitMutex and waitSema record which mutex or semaphore waiter
	// queue, if any, this task is currently parked in, so a timeout can
	// pull it back out of that queue instead of leaving a stale entry
	// behind. -1 means "not waiting on a mutex/semaphore right now."
	waitMutex int
	waitSema  int
}

// taskStatus is one task's place in the scheduler, RTuinOS's implicit
// "which array is this task ID in right now" made an explicit field.
type taskStatus uint8

const (
	statusReady taskStatus = iota
	statusActive
	statusSuspended
)

// cyclicType is a local alias for the tick-width constraint every
// generic kernel type is parameterized over. It must stay exactly
// internal/cyclic.Unsigned (not a widened ~-form of it): cyclic.Before
// and cyclic.After are called directly with a Kernel's T, and Go only
// allows passing a type parameter where a constraint is expected when
// its own constraint's term set is a subset of the target's.
type cyclicType = cyclic.Unsigned
