//go:build avr

// Command cadence-avr is the thin entry point that wires a concrete
// ATmega board to the portable kernel, keeping the library package
// free of any board-specific wiring of its own.
package main

import (
	"machine"

	"cadence/arch/avr"
	"cadence/internal/trust"
	"cadence/kernel"
)

const tickHz = 100

var log = trust.New(machine.Serial, trust.Error|trust.Warn|trust.Stats)

func main() {
	machine.Serial.Configure(machine.UARTConfig{BaudRate: 9600})

	cfg := kernel.Config{
		NumTasks:           2,
		NumPrioClasses:     2,
		MaxTasksPerClass:   1,
		NumMutexEvents:     1,
		NumSemaphoreEvents: 1,
	}
	hooks := kernel.Hooks{
		Setup: func() {
			machine.LED.Configure(machine.PinConfig{Mode: machine.PinOutput})
		},
		Idle: func() {
			machine.LED.High()
		},
	}

	k := kernel.New[uint8](cfg, avr.ContextSwitcher{}, avr.CriticalSection{}, avr.StackBuilder{}, hooks, log)

	if err := k.InitTask(0, kernel.TaskConfig[uint8]{
		Priority: 1,
		Stack:    make([]byte, 256),
		Function: sensorTask(k),
	}); err != nil {
		log.Fatalf("cadence-avr: InitTask(sensor): %v", err)
	}
	if err := k.InitTask(1, kernel.TaskConfig[uint8]{
		Priority: 0,
		Stack:    make([]byte, 256),
		Function: reportTask(k),
	}); err != nil {
		log.Fatalf("cadence-avr: InitTask(report): %v", err)
	}

	configureTickTimer(k)
	k.Start()
}

func sensorTask(k *kernel.Kernel[uint8]) kernel.TaskFunc {
	return func(kernel.EventVector) {
		for {
			k.Delay(tickHz / 10)
			_ = k.GiveSema(0)
		}
	}
}

func reportTask(k *kernel.Kernel[uint8]) kernel.TaskFunc {
	return func(kernel.EventVector) {
		for {
			ok, err := k.TakeSema(0, 0)
			if err != nil {
				log.Errorf("reportTask: %v", err)
				continue
			}
			if ok {
				log.Infof("reserve=%d overrun=%d", k.StackReserve(0), k.OverrunCount(0, false))
			}
		}
	}
}

// configureTickTimer arms the board timer interrupt that drives
// k.Tick; left as a stub here since physical timer setup is out of
// this repository's scope - a real board port assigns its
// own interrupt handler to call k.Tick at tickHz.
func configureTickTimer(k *kernel.Kernel[uint8]) {
	_ = k
}
