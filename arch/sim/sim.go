// Package sim backs kernel on an ordinary host, exercised by `go test`
// without any TinyGo toolchain or real interrupt hardware. Every
// cadence task becomes one goroutine; a "context switch" is a permit
// handed from one goroutine to another over an unbuffered channel,
// with the caller blocking on its own permit until it is handed
// control again. This is the same deterministic hand-off-and-block
// pattern nerdsane-gvisor-dst's DSTScheduler uses to keep goroutine
// execution order reproducible in tests - sim borrows the pattern, not
// gvisor's pkg/sync fork, which brings far more than a single
// project's worth of scheduling would ever use.
//
// CriticalSection is backed by a single mutex: on a host there is no
// interrupt mask to manipulate, only the one lock every Enter/Leave
// pair around kernel state already needs to stay race-free across
// goroutines standing in for independent tasks.
package sim

import (
	"sync"

	"cadence/arch"
)

// taskContext is the sim backend's arch.TaskContext: a permit channel
// the task blocks on between dispatches, plus the entry point used to
// lazily start its goroutine the first time it is switched to.
type taskContext struct {
	resume     chan struct{}
	entry      func(startEvent uint16)
	startEvent uint16
	launched   bool
}

// ContextSwitcher implements arch.ContextSwitcher over goroutines.
type ContextSwitcher struct{}

// Switch hands the permit to to's goroutine (launching it first if
// this is its first dispatch) and then blocks until from's context is
// handed the permit again. This includes the idle context the kernel
// prepared with a nil entry for the goroutine that called Start; only
// a nil *from skips the wait.
func (ContextSwitcher) Switch(from *arch.TaskContext, to arch.TaskContext) {
	toCtx := to.(*taskContext)
	if toCtx.entry != nil && !toCtx.launched {
		toCtx.launched = true
		go func() {
			<-toCtx.resume
			toCtx.entry(toCtx.startEvent)
		}()
	}

	var fromCtx *taskContext
	if *from != nil {
		fromCtx = (*from).(*taskContext)
	}

	toCtx.resume <- struct{}{}
	if fromCtx != nil {
		<-fromCtx.resume
	}
}

// StackBuilder implements arch.StackBuilder over the same taskContext;
// "stack" is accepted only to satisfy the interface and ignored, since
// a goroutine's stack is managed by the Go runtime, not cadence.
type StackBuilder struct{}

func (StackBuilder) Prepare(stack []byte, entry func(startEvent uint16), startEvent uint16) arch.TaskContext {
	return &taskContext{resume: make(chan struct{}), entry: entry, startEvent: startEvent}
}

// CriticalSection implements arch.CriticalSection with a plain mutex;
// the "prior mask" it hands back is unused (always zero) since a host
// has no interrupt mask to save and restore.
type CriticalSection struct {
	mu sync.Mutex
}

func (c *CriticalSection) Enter() uint32 {
	c.mu.Lock()
	return 0
}

func (c *CriticalSection) Leave(uint32) {
	c.mu.Unlock()
}
