package subtle

import "lukechampine.com/uint128"

// ConditionalAssignU8 sets *this to other if choice == 1, and leaves it unchanged if choice == 0.
//
//go:nosplit
func ConditionalAssignU8(this *uint8, other uint8, choice uint8) {
	// 0x00 or 0xff
	mask := -choice
	*this ^= mask & (*this ^ other)
}

// ConditionalAssignI8 is ConditionalAssignU8 for signed bytes.
//
//go:nosplit
func ConditionalAssignI8(this *int8, other int8, choice uint8) {
	mask := int8(-choice)
	*this ^= mask & (*this ^ other)
}

//go:nosplit
func ConditionalAssignU16(this *uint16, other uint16, choice uint8) {
	mask := -uint16(choice)
	*this ^= mask & (*this ^ other)
}

//go:nosplit
func ConditionalAssignI16(this *int16, other int16, choice uint8) {
	mask := -int16(choice)
	*this ^= mask & (*this ^ other)
}

//go:nosplit
func ConditionalAssignU32(this *uint32, other uint32, choice uint8) {
	mask := -uint32(choice)
	*this ^= mask & (*this ^ other)
}

//go:nosplit
func ConditionalAssignU64(this *uint64, other uint64, choice uint8) {
	mask := -uint64(choice)
	*this ^= mask & (*this ^ other)
}

// ConditionalAssignU128 sets both limbs of *this to those of other if choice == 1.
//
//go:nosplit
func ConditionalAssignU128(this *uint128.Uint128, other uint128.Uint128, choice uint8) {
	mask := -uint64(choice)
	this.Lo ^= mask & (this.Lo ^ other.Lo)
	this.Hi ^= mask & (this.Hi ^ other.Hi)
}

// Uint64IsNonZero returns 1 if x != 0 and 0 otherwise.
//
//go:nosplit
func Uint64IsNonZero(x uint64) uint8 {
	// the top bit of x | -x is set for every x except zero
	return uint8((x | -x) >> 63)
}

// Uint64Equal returns 1 if a == b and 0 otherwise.
//
//go:nosplit
func Uint64Equal(a, b uint64) uint8 {
	return Uint64IsNonZero(a^b) ^ 1
}

//go:nosplit
func Uint128Equal(a, b uint128.Uint128) uint8 {
	return Uint64IsNonZero((a.Lo^b.Lo)|(a.Hi^b.Hi)) ^ 1
}

// AbsI8 returns |this| as an unsigned byte, including AbsI8(-128) == 128.
//
// Both this and -this are computed, the sign bit selects between them.
//
//go:nosplit
func AbsI8(this int8) uint8 {
	negative := uint8(this) >> 7
	negated := -this
	absolute := this
	ConditionalAssignI8(&absolute, negated, negative)
	return uint8(absolute)
}

// AbsI16 returns |this| as an unsigned value, including AbsI16(-32768) == 32768.
//
//go:nosplit
func AbsI16(this int16) uint16 {
	negative := uint8(uint16(this) >> 15)
	negated := -this
	absolute := this
	ConditionalAssignI16(&absolute, negated, negative)
	return uint16(absolute)
}
