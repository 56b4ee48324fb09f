package kernel

// Config holds the compile-time settings of a Kernel, grounded on
// rtos.config.h's RTOS_NO_TASKS / RTOS_NO_PRIO_CLASSES /
// RTOS_MAX_NO_TASKS_IN_PRIO_CLASS / RTOS_ROUND_ROBIN_MODE_SUPPORTED and
// on the (numMutexEvents, numSemaphoreEvents) partitioning of the low
// broadcast bits. A Config is validated once by New and never mutated afterward -
// dynamic task creation and reconfiguration are both non-goals.
type Config struct {
	// NumTasks is the number of application tasks, 1..255. The kernel
	// adds one implicit idle task beyond this count.
	NumTasks int
	// NumPrioClasses is the number of distinct priority classes,
	// 1..NumTasks. Class 0 is lowest priority; higher classes preempt.
	NumPrioClasses int
	// MaxTasksPerClass bounds the per-class ready list size, 1..255.
	MaxTasksPerClass int
	// RoundRobin enables time-slice rotation within a priority class.
	RoundRobin bool
	// NumMutexEvents is how many of the low broadcast bits are
	// reinterpreted as mutex bits, 0..8.
	NumMutexEvents int
	// NumSemaphoreEvents is how many bits after the mutex range are
	// reinterpreted as semaphore bits, 0..8.
	NumSemaphoreEvents int
	// UseISR0 and UseISR1 bind bits 12 and 13 to application-defined
	// external interrupts instead of leaving them as broadcast events,
	// mirroring RTOS_USE_APPL_INTERRUPT_00/01.
	UseISR0, UseISR1 bool
	// SemaphoreInitial gives each semaphore's starting counter value; a
	// nil or short slice leaves the remaining semaphores at zero.
	SemaphoreInitial []uint8
}

// validate enforces the configuration-contract error kind:
// out-of-range settings are a debug-build fatal assertion, caught here
// once at construction instead of being left to crash later and harder
// to diagnose.
func (c Config) validate(fatalf func(string, ...interface{})) {
	switch {
	case c.NumTasks < 1 || c.NumTasks > 255:
		fatalf("NumTasks %d out of range 1..255", c.NumTasks)
	case c.NumPrioClasses < 1 || c.NumPrioClasses > c.NumTasks:
		fatalf("NumPrioClasses %d out of range 1..%d", c.NumPrioClasses, c.NumTasks)
	case c.MaxTasksPerClass < 1 || c.MaxTasksPerClass > 255:
		fatalf("MaxTasksPerClass %d out of range 1..255", c.MaxTasksPerClass)
	case c.NumMutexEvents < 0 || c.NumMutexEvents > 8:
		fatalf("NumMutexEvents %d out of range 0..8", c.NumMutexEvents)
	case c.NumSemaphoreEvents < 0 || c.NumSemaphoreEvents > 8:
		fatalf("NumSemaphoreEvents %d out of range 0..8", c.NumSemaphoreEvents)
	case c.NumMutexEvents+c.NumSemaphoreEvents > numBroadcastBits:
		fatalf("mutex+semaphore bits %d exceed available broadcast bits %d",
			c.NumMutexEvents+c.NumSemaphoreEvents, numBroadcastBits)
	}
}

// Hooks are the callbacks application code supplies.
type Hooks struct {
	// Idle runs repeatedly whenever no configured task is ready. It
	// should return periodically rather than loop forever internally,
	// the same convention RTuinOS's loop() follows, so that diagnostics
	// and (if ever added) cooperative idle-time work stay responsive.
	Idle func()
	// Setup runs once at the beginning of Start, after InitTask has
	// prepared the task stacks and before the first task is dispatched.
	Setup func()
	// EnableISR0 and EnableISR1 arm the two optional application
	// interrupts; only called if Config.UseISR0 / UseISR1 is set.
	EnableISR0 func()
	EnableISR1 func()
}
