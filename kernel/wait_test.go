package kernel

import (
	"bytes"
	"testing"

	"cadence/arch/sim"
	"cadence/internal/trust"
)

// TestWaitEmptyMaskIsFatal pins the empty-wait guard: a task that
// waits for nothing at all with no timeout can never resume, and the
// kernel treats that as a configuration-contract violation rather than
// silently hanging it forever.
func TestWaitEmptyMaskIsFatal(t *testing.T) {
	prevTrap := trust.Trap
	trapped := false
	trust.Trap = func() { trapped = true }
	defer func() { trust.Trap = prevTrap }()

	var buf bytes.Buffer
	log := trust.New(&buf, trust.Error)

	cfg := Config{NumTasks: 1, NumPrioClasses: 1, MaxTasksPerClass: 1}
	k := New[uint8](cfg, sim.ContextSwitcher{}, &sim.CriticalSection{}, sim.StackBuilder{}, Hooks{}, log)
	k.active = 0 // simulate task 0 already being active for this direct call

	k.Wait(0, true, 0)

	if !trapped {
		t.Fatalf("waiting on an empty mask with no timeout should trap")
	}
}

// TestTimeoutWinsWithoutEvent exercises the timeout path of Wait in
// isolation: a live task waits with waitForAll on an event nobody
// posts, the test drives Tick by hand, and the wait must return just
// the delay-timer bit.
func TestTimeoutWinsWithoutEvent(t *testing.T) {
	cfg := Config{NumTasks: 1, NumPrioClasses: 1, MaxTasksPerClass: 1}
	k := newTestKernel(t, cfg)

	result := make(chan EventVector, 1)
	k.hooks.Idle = func() {}

	if err := k.InitTask(0, TaskConfig[uint8]{
		Priority: 0,
		Stack:    make([]byte, 256),
		Function: func(EventVector) {
			result <- k.Wait(EventVector(1), true, 3)
			for {
				k.Delay(255)
			}
		},
	}); err != nil {
		t.Fatalf("InitTask: %v", err)
	}

	go k.Start()
	for i := 0; i < 4; i++ {
		k.Tick()
	}

	select {
	case got := <-result:
		if got != EvtDelayTimer {
			t.Fatalf("Wait returned %#04x, want just EvtDelayTimer", got)
		}
	default:
		t.Fatalf("task never resumed after its timeout should have matured")
	}
}
