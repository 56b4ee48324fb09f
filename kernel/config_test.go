package kernel

import "testing"

func TestConfigValidateAcceptsSaneValues(t *testing.T) {
	cfg := Config{NumTasks: 4, NumPrioClasses: 2, MaxTasksPerClass: 4, NumMutexEvents: 2, NumSemaphoreEvents: 2}
	called := false
	cfg.validate(func(string, ...interface{}) { called = true })
	if called {
		t.Fatalf("validate flagged a well-formed config")
	}
}

func TestConfigValidateRejectsOverCommittedBits(t *testing.T) {
	cfg := Config{NumTasks: 2, NumPrioClasses: 1, MaxTasksPerClass: 2, NumMutexEvents: 7, NumSemaphoreEvents: 6}
	called := false
	cfg.validate(func(string, ...interface{}) { called = true })
	if !called {
		t.Fatalf("validate accepted mutex+semaphore bits exceeding the available broadcast span")
	}
}

func TestConfigValidateRejectsBadPriorityClassCount(t *testing.T) {
	cfg := Config{NumTasks: 2, NumPrioClasses: 3, MaxTasksPerClass: 2}
	called := false
	cfg.validate(func(string, ...interface{}) { called = true })
	if !called {
		t.Fatalf("validate accepted more priority classes than tasks")
	}
}
