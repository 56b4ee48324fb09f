// Package cyclic implements the signed-difference comparison that makes
// sense of a wrapping, fixed-width system clock: "A occurs before B" is
// decided by interpreting A-B as a signed quantity, which is only valid
// while the true distance between A and B is less than half the cycle.
//
// RTuinOS picks the tick width at compile time via a C preprocessor
// macro (RTOS_DEFINE_TYPE_OF_SYSTEM_TIME); a type parameter does the
// same job here without needing a macro facility.
package cyclic

// Unsigned is any of the fixed-width unsigned integer kinds usable as a
// tick counter: 8-bit, 16-bit, or 32-bit. 32-bit is supported for
// completeness, though a tick counter that wide is rarely useful on an
// 8-bit core.
//
// The constraint is deliberately exact (not ~uint8 etc.): the type
// switch in signedDelta below needs the boxed value's dynamic type to
// be one of these three, and a defined type like "type Tick uint8"
// would box as Tick, not uint8, and fail every case. Kernel is generic
// directly over one of these three types rather than over a named
// wrapper for the same reason.
type Unsigned interface {
	uint8 | uint16 | uint32
}

// Before reports whether a occurred strictly before b on a cyclic clock,
// by signed-interpreting a-b, so the comparison works across the
// counter's wrap-around. Ties (a == b) are never "before."
func Before[T Unsigned](a, b T) bool {
	return signedDelta(a, b) < 0
}

// After reports whether a occurred strictly after b.
func After[T Unsigned](a, b T) bool {
	return signedDelta(a, b) > 0
}

// signedDelta returns a-b reinterpreted as signed: negative means a is
// earlier, positive means a is later, zero means equal. The result is
// only meaningful while |true distance| < half the type's cycle length.
func signedDelta[T Unsigned](a, b T) int64 {
	switch any(a).(type) {
	case uint8:
		return int64(int8(uint8(a) - uint8(b)))
	case uint16:
		return int64(int16(uint16(a) - uint16(b)))
	default:
		return int64(int32(uint32(a) - uint32(b)))
	}
}
