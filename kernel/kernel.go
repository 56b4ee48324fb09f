// Package kernel implements the portable core of cadence: a
// priority-based, optionally round-robin, single-core real-time
// scheduler driven by a 16-bit event vector that unifies broadcast
// events, mutexes, semaphores and timers. It is architecture-agnostic -
// it never touches a register or a physical timer - and instead drives
// three small collaborator interfaces in package arch to do so.
//
// Grounded throughout on RTuinOS's C scheduler for behavior, and on
// idiomatic Go task/event bookkeeping for shape.
package kernel

import (
	"cadence/arch"
	"cadence/internal/bitqueue"
	"cadence/internal/kerr"
	"cadence/internal/trust"
)

// Kernel is one scheduler instance. T is the tick-counter width
// (uint8, uint16 or uint32); most AVR targets use uint8 or uint16, per
// a configuration knob set once per board at construction time.
type Kernel[T cyclicType] struct {
	cfg    Config
	layout bitLayout

	tasks []taskState[T] // index 0..NumTasks-1 application, NumTasks idle
	idle  TaskID

	// ready is indexed by priority class, each a fixed-capacity FIFO of
	// task IDs ready to run, mirroring RTuinOS's _dueTaskIdAryAry. A
	// task not present in any ready queue and not the active one is
	// suspended; taskState.status records which, per task, in one field
	// rather than needing a fourth bookkeeping array like
	// RTuinOS's _suspendedTaskIdAry.
	ready []*bitqueue.Queue[TaskID]

	active TaskID
	time   T

	mutexOwner   []TaskID
	mutexWaiters []*bitqueue.Queue[TaskID]
	semaCounter  []uint8
	semaWaiters  []*bitqueue.Queue[TaskID]

	sw arch.ContextSwitcher
	cs arch.CriticalSection
	sb arch.StackBuilder

	log   *trust.Logger
	hooks Hooks

	started bool
}

// New constructs a Kernel from its configuration and architecture
// collaborators. It panics (via log.Fatalf, so a replaced trust.Trap
// can intercept it in a production build) on an invalid Config -
// RTuinOS's equivalent checks are #if preprocessor guards at compile
// time; cadence's Config is a runtime value, so the check has to be
// made a runtime one, but it still only ever runs once, at startup.
func New[T cyclicType](cfg Config, sw arch.ContextSwitcher, cs arch.CriticalSection, sb arch.StackBuilder, hooks Hooks, log *trust.Logger) *Kernel[T] {
	if log == nil {
		log = trust.New(nil, trust.Error|trust.Warn)
	}
	cfg.validate(log.Fatalf)

	k := &Kernel[T]{
		cfg:    cfg,
		layout: bitLayout{numMutex: cfg.NumMutexEvents, numSema: cfg.NumSemaphoreEvents},
		tasks:  make([]taskState[T], cfg.NumTasks+1),
		idle:   TaskID(cfg.NumTasks),
		ready:  make([]*bitqueue.Queue[TaskID], cfg.NumPrioClasses),

		mutexOwner:   make([]TaskID, cfg.NumMutexEvents),
		mutexWaiters: make([]*bitqueue.Queue[TaskID], cfg.NumMutexEvents),
		semaCounter:  make([]uint8, cfg.NumSemaphoreEvents),
		semaWaiters:  make([]*bitqueue.Queue[TaskID], cfg.NumSemaphoreEvents),

		sw: sw, cs: cs, sb: sb,
		hooks: hooks,
		log:   log,
		active: noTask,
	}
	for c := range k.ready {
		k.ready[c] = bitqueue.New[TaskID](cfg.MaxTasksPerClass)
	}
	for m := range k.mutexOwner {
		k.mutexOwner[m] = noTask
		k.mutexWaiters[m] = bitqueue.New[TaskID](cfg.NumTasks)
	}
	for s := range k.semaWaiters {
		k.semaWaiters[s] = bitqueue.New[TaskID](cfg.NumTasks)
		if s < len(cfg.SemaphoreInitial) {
			k.semaCounter[s] = cfg.SemaphoreInitial[s]
		}
	}
	k.tasks[k.idle] = taskState[T]{
		id: k.idle, prioClass: -1, waitMutex: -1, waitSema: -1,
		ctx: sb.Prepare(nil, nil, 0),
	}
	return k
}

// InitTask installs a task into slot id, preparing its stack so that
// its first dispatch enters Function with startEvent 0. Tasks are
// installed once, before Start, and never thereafter - dynamic task
// creation is a non-goal.
func (k *Kernel[T]) InitTask(id TaskID, tc TaskConfig[T]) error {
	if int(id) >= k.cfg.NumTasks {
		return kerr.ErrNoFreeSlot
	}
	if k.tasks[id].ctx != nil {
		return kerr.ErrNoFreeSlot
	}
	if tc.Priority < 0 || tc.Priority >= k.cfg.NumPrioClasses {
		return kerr.ErrBadPriority
	}
	fillStackPattern(tc.Stack)
	k.tasks[id] = taskState[T]{
		id:        id,
		cfg:       tc,
		prioClass: tc.Priority,
		ctx:       k.sb.Prepare(tc.Stack, func(startEvent uint16) { tc.Function(EventVector(startEvent)) }, 0),
		waitMutex: -1,
		waitSema:  -1,
	}
	if !k.ready[tc.Priority].PushBack(id) {
		return kerr.ErrNoFreeSlot
	}
	return nil
}

// Start runs Setup, then hands control to the scheduler permanently.
// On real hardware this call never returns; on the sim backend it
// returns once its idle loop (runIdle) ends, which is at once when
// Hooks.Idle is nil.
func (k *Kernel[T]) Start() {
	if k.started {
		k.log.Fatalf("Start called twice")
		return
	}
	if k.hooks.Setup != nil {
		k.hooks.Setup()
	}
	if k.cfg.UseISR0 && k.hooks.EnableISR0 != nil {
		k.hooks.EnableISR0()
	}
	if k.cfg.UseISR1 && k.hooks.EnableISR1 != nil {
		k.hooks.EnableISR1()
	}
	k.started = true
	prior := k.cs.Enter()
	k.active = k.pickNext()
	if k.active == k.idle {
		k.cs.Leave(prior)
		k.runIdle()
		return
	}
	k.tasks[k.active].status = statusActive
	k.reloadRoundRobin(k.active)
	k.cs.Leave(prior)
	k.sw.Switch(&k.tasks[k.idle].ctx, k.tasks[k.active].ctx)
	k.runIdle()
}

// runIdle runs Hooks.Idle for as long as no configured task is ready.
// It is called both from Start and from the point reschedule resumes
// into when a switch back to the idle task completes - the same call
// site a real preemptive kernel's idle loop resumes into after a tick
// or event ISR hands control back to it.
func (k *Kernel[T]) runIdle() {
	for k.active == k.idle {
		if k.hooks.Idle == nil {
			return
		}
		k.hooks.Idle()
	}
}
