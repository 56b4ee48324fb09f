package kernel

import "testing"

// TestPostPreemptsLowerPriorityTask pins the "a broadcast event wakes a
// higher-priority waiter and it runs before the poster's own next tick"
// scenario: a low-priority task posts an event a high-priority task is
// waiting for, and the high-priority task's side effect must be visible
// by the time Post returns control to the driving test goroutine.
func TestPostPreemptsLowerPriorityTask(t *testing.T) {
	cfg := Config{NumTasks: 2, NumPrioClasses: 2, MaxTasksPerClass: 1}
	k := newTestKernel(t, cfg)

	const evt EventVector = 1
	order := make(chan string, 2)

	if err := k.InitTask(0, TaskConfig[uint8]{
		Priority: 1, // high
		Stack:    make([]byte, 256),
		Function: func(EventVector) {
			k.Wait(evt, true, 0)
			order <- "high"
			for {
				k.Delay(255)
			}
		},
	}); err != nil {
		t.Fatalf("InitTask(high): %v", err)
	}
	if err := k.InitTask(1, TaskConfig[uint8]{
		Priority: 0, // low
		Stack:    make([]byte, 256),
		Function: func(EventVector) {
			k.Delay(1)
			k.Post(evt)
			order <- "low"
			for {
				k.Delay(255)
			}
		},
	}); err != nil {
		t.Fatalf("InitTask(low): %v", err)
	}

	go k.Start()
	for i := 0; i < 3; i++ {
		k.Tick()
	}

	first := <-order
	if first != "high" {
		t.Fatalf("got %q first, want the high-priority waiter to run before the poster continues", first)
	}
	<-order
}
