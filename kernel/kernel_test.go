package kernel

import (
	"testing"

	"cadence/arch/sim"
)

func newTestKernel(t *testing.T, cfg Config) *Kernel[uint8] {
	t.Helper()
	return New[uint8](cfg, sim.ContextSwitcher{}, &sim.CriticalSection{}, sim.StackBuilder{}, Hooks{}, nil)
}

// TestTwoPeriodicTasksRespectPriority runs a low-priority task that only
// ever gets to run between the high-priority task's delays, and checks
// that over ten ticks the high-priority task completes its three runs
// and the low-priority task still runs at least once.
func TestTwoPeriodicTasksRespectPriority(t *testing.T) {
	var order []string
	done := make(chan struct{})

	cfg := Config{NumTasks: 2, NumPrioClasses: 2, MaxTasksPerClass: 1}
	k := newTestKernel(t, cfg)

	k.hooks.Idle = func() {
		select {
		case <-done:
		default:
		}
	}

	highRuns := 0
	lowRuns := 0

	if err := k.InitTask(0, TaskConfig[uint8]{
		Priority: 1,
		Stack:    make([]byte, 256),
		Function: func(EventVector) {
			for i := 0; i < 3; i++ {
				order = append(order, "high")
				highRuns++
				k.Delay(2)
			}
			close(done)
			for {
				k.Delay(255)
			}
		},
	}); err != nil {
		t.Fatalf("InitTask high: %v", err)
	}

	if err := k.InitTask(1, TaskConfig[uint8]{
		Priority: 0,
		Stack:    make([]byte, 256),
		Function: func(EventVector) {
			for {
				order = append(order, "low")
				lowRuns++
				k.Delay(1)
			}
		},
	}); err != nil {
		t.Fatalf("InitTask low: %v", err)
	}

	go k.Start()
	for i := 0; i < 10; i++ {
		k.Tick()
	}

	if highRuns < 3 {
		t.Fatalf("high priority task ran %d times, want at least 3", highRuns)
	}
	if lowRuns == 0 {
		t.Fatalf("low priority task never ran")
	}
}

// TestProducerConsumerSemaphore exercises TakeSema/GiveSema
// transfer-on-post: a consumer blocked on an empty semaphore must
// receive at least one unit given by a periodic producer within five
// ticks.
func TestProducerConsumerSemaphore(t *testing.T) {
	cfg := Config{NumTasks: 2, NumPrioClasses: 1, MaxTasksPerClass: 2, NumSemaphoreEvents: 1}
	k := newTestKernel(t, cfg)

	consumed := make(chan int, 8)
	k.hooks.Idle = func() {}

	if err := k.InitTask(0, TaskConfig[uint8]{
		Priority: 0,
		Stack:    make([]byte, 256),
		Function: func(EventVector) {
			for i := 0; ; i++ {
				ok, err := k.TakeSema(0, 0)
				if err != nil {
					t.Errorf("TakeSema: %v", err)
				}
				if ok {
					consumed <- i
				}
			}
		},
	}); err != nil {
		t.Fatalf("InitTask consumer: %v", err)
	}

	if err := k.InitTask(1, TaskConfig[uint8]{
		Priority: 0,
		Stack:    make([]byte, 256),
		Function: func(EventVector) {
			for {
				k.Delay(1)
				_ = k.GiveSema(0)
			}
		},
	}); err != nil {
		t.Fatalf("InitTask producer: %v", err)
	}

	go k.Start()
	for i := 0; i < 5; i++ {
		k.Tick()
	}

	select {
	case <-consumed:
	default:
		t.Fatalf("consumer never received a transferred semaphore unit")
	}
}

// TestMutexHandoffGoesToHighestPriorityWaiter checks that releasing a
// mutex with two waiters of different priority classes hands it to the
// higher-priority one regardless of arrival order.
func TestMutexHandoffGoesToHighestPriorityWaiter(t *testing.T) {
	cfg := Config{NumTasks: 3, NumPrioClasses: 3, MaxTasksPerClass: 1, NumMutexEvents: 1}
	k := newTestKernel(t, cfg)
	k.hooks.Idle = func() {}

	var acquireOrder []int
	release := make(chan struct{})

	// Owner holds the mutex until told to release it.
	if err := k.InitTask(0, TaskConfig[uint8]{
		Priority: 2,
		Stack:    make([]byte, 256),
		Function: func(EventVector) {
			ok, _ := k.AcquireMutex(0, 0)
			if !ok {
				t.Errorf("owner failed to acquire free mutex")
			}
			<-release
			_ = k.ReleaseMutex(0)
			for {
				k.Delay(255)
			}
		},
	}); err != nil {
		t.Fatalf("InitTask owner: %v", err)
	}

	if err := k.InitTask(1, TaskConfig[uint8]{
		Priority: 0,
		Stack:    make([]byte, 256),
		Function: func(EventVector) {
			k.Delay(1)
			ok, _ := k.AcquireMutex(0, 0)
			if ok {
				acquireOrder = append(acquireOrder, 1)
			}
			for {
				k.Delay(255)
			}
		},
	}); err != nil {
		t.Fatalf("InitTask low waiter: %v", err)
	}

	if err := k.InitTask(2, TaskConfig[uint8]{
		Priority: 1,
		Stack:    make([]byte, 256),
		Function: func(EventVector) {
			k.Delay(1)
			ok, _ := k.AcquireMutex(0, 0)
			if ok {
				acquireOrder = append(acquireOrder, 2)
			}
			for {
				k.Delay(255)
			}
		},
	}); err != nil {
		t.Fatalf("InitTask mid waiter: %v", err)
	}

	go k.Start()
	for i := 0; i < 3; i++ {
		k.Tick()
	}
	close(release)
	for i := 0; i < 3; i++ {
		k.Tick()
	}

	if len(acquireOrder) == 0 {
		t.Fatalf("no waiter ever acquired the mutex")
	}
	if acquireOrder[0] != 2 {
		t.Fatalf("mutex went to task %d first, want the mid-priority task (2)", acquireOrder[0])
	}
}
