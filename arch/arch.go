// Package arch defines the small set of collaborator contracts kernel
// depends on but never implements itself: saving and restoring machine
// state, masking the interrupts able to touch kernel data, and preparing
// a fresh stack for first dispatch. Driving the kernel's tick is not
// part of these contracts: whoever owns the timer calls Kernel.Tick.
// arch/avr implements the critical section against the real interrupt
// flag and leaves the switch and stack preparation to the board port;
// arch/sim implements all three in terms of goroutines and channels
// so the scheduler core can be exercised from `go test` on any host.
//
// Board bring-up, pin muxing and driver code stay out of this package
// entirely - arch only ever sees the four operations (Switch, Enter,
// Leave, Prepare) the kernel core needs, mirroring how RTuinOS confines everything CPU-specific to its
// rtos_enterCriticalSection/leaveCriticalSection macros and its AVR
// assembly ISR prologue/epilogue.
package arch

// TaskContext is an opaque, architecture-owned representation of a
// suspended task's machine state (register file and stack pointer, for
// a real target; a permit channel, for arch/sim). Kernel code never
// inspects it, only stores and passes it back.
type TaskContext interface{}

// ContextSwitcher transfers control from one task's saved state to
// another's. Switch saves the currently running context into *from and
// restores to, transferring control to it; the call returns to its
// caller only once some later Switch restores *from again. Exactly one
// ContextSwitcher is live per Kernel.
type ContextSwitcher interface {
	Switch(from *TaskContext, to TaskContext)
}

// CriticalSection masks exactly the interrupt sources able to post
// events or advance the tick - never more, and never relies on a
// global interrupt disable where a finer mask exists. Enter returns an
// opaque token recording the prior mask; Leave restores it. The kernel
// itself never nests an Enter inside another Enter.
type CriticalSection interface {
	Enter() (prior uint32)
	Leave(prior uint32)
}

// StackBuilder prepares a fresh stack so that restoring the returned
// TaskContext enters entry with startEvent as its argument, as if entry
// had just been called. A task function is never expected to return;
// what a real target does if one does (trap, reset) is this
// collaborator's business, not kernel's.
//
// Kernel also calls Prepare exactly once with a nil stack and a nil
// entry, to obtain the context representing whatever is already
// running when Start is called - the idle task's context on a real
// target is simply the boot stack, not a freshly allocated one.
// Implementations must recognize a nil entry and return a context that
// does not spawn any new execution, only one that can be switched back
// into.
type StackBuilder interface {
	Prepare(stack []byte, entry func(startEvent uint16), startEvent uint16) TaskContext
}
