//go:build avr

// Package avr wires kernel to an ATmega-family target built with
// TinyGo, the chip family RTuinOS itself targets.
//
// Board bring-up, physical timer setup and CPU-specific assembly are
// explicitly out of scope for this repository - kernel's
// ContextSwitcher and StackBuilder contracts exist precisely so that
// register-level save/restore and stack-frame layout, the one part of
// a real port that is genuinely assembly, stay outside the portable
// core. This package supplies the part that is ordinary TinyGo Go code
// (masking the single global interrupt flag, the same cli/sei pair
// RTuinOS's rtos_enterCriticalSection macro expands to) and leaves the
// two assembly-shaped contracts as named extension points a concrete
// board port assigns before calling kernel.New, rather than guessing
// at register conventions this tree has no way to verify against real
// hardware.
package avr

import (
	"device/avr"

	"cadence/arch"
)

// CriticalSection masks and restores the global interrupt enable bit,
// the only interrupt source able to touch kernel state on a single-core
// AVR part - there is no finer-grained mask to reach for, unlike a
// multi-line interrupt controller on a bigger core. Grounded on the
// teacher's lib/upbeat MaskDAIF/UnmaskDAIF pair: save the flag, mask,
// later restore exactly what was saved.
type CriticalSection struct{}

func (CriticalSection) Enter() uint32 {
	prior := avr.SREG.Get()
	avr.AsmFull("cli", nil)
	return uint32(prior)
}

func (CriticalSection) Leave(prior uint32) {
	avr.SREG.Set(uint8(prior))
}

// ContextSwitch and PrepareStack are the board port's extension
// points for the two operations this package deliberately does not
// implement itself. A concrete board assigns both before the first
// call to kernel.New; left unassigned, they fail loudly instead of
// silently corrupting a stack.
var (
	ContextSwitch = func(from *arch.TaskContext, to arch.TaskContext) {
		panic("arch/avr: ContextSwitch not assigned by the board port")
	}
	PrepareStack = func(stack []byte, entry func(startEvent uint16), startEvent uint16) arch.TaskContext {
		panic("arch/avr: PrepareStack not assigned by the board port")
	}
)

// ContextSwitcher adapts the ContextSwitch extension point to
// arch.ContextSwitcher.
type ContextSwitcher struct{}

func (ContextSwitcher) Switch(from *arch.TaskContext, to arch.TaskContext) {
	ContextSwitch(from, to)
}

// StackBuilder adapts the PrepareStack extension point to
// arch.StackBuilder.
type StackBuilder struct{}

func (StackBuilder) Prepare(stack []byte, entry func(startEvent uint16), startEvent uint16) arch.TaskContext {
	return PrepareStack(stack, entry, startEvent)
}
