package timing

import (
	"git.gammaspectra.live/P2Pool/subtle/curve25519"
	"git.gammaspectra.live/P2Pool/subtle/subtle"
)

// Targets every primitive of package subtle, plus the curve25519 types built on them
func Targets() []Target {
	return []Target{
		{
			Name:      "bytes_equal",
			InputSize: 2,
			Fixed:     make([]byte, 2),
			Run: func(in []byte) uint8 {
				return subtle.BytesEqual(in[0], in[1])
			},
		},
		{
			Name:      "byte_is_nonzero",
			InputSize: 1,
			Fixed:     make([]byte, 1),
			Run: func(in []byte) uint8 {
				return subtle.ByteIsNonZero(in[0])
			},
		},
		{
			// equal zero arrays against mostly unequal random ones, an early exit would show here
			Name:      "arrays_equal",
			InputSize: subtle.Bytes32Size * 2,
			Fixed:     make([]byte, subtle.Bytes32Size*2),
			Run: func(in []byte) uint8 {
				return subtle.ArraysEqual((*[subtle.Bytes32Size]byte)(in[:subtle.Bytes32Size]), (*[subtle.Bytes32Size]byte)(in[subtle.Bytes32Size:]))
			},
		},
		{
			Name:      "conditional_assign_u8",
			InputSize: 3,
			Fixed:     make([]byte, 3),
			Run: func(in []byte) uint8 {
				this := in[0]
				subtle.ConditionalAssignU8(&this, in[1], in[2]&1)
				return this
			},
		},
		{
			Name:      "conditional_assign_i8",
			InputSize: 3,
			Fixed:     make([]byte, 3),
			Run: func(in []byte) uint8 {
				this := int8(in[0])
				subtle.ConditionalAssignI8(&this, int8(in[1]), in[2]&1)
				return uint8(this)
			},
		},
		{
			Name:      "conditional_assign_u16",
			InputSize: 5,
			Fixed:     make([]byte, 5),
			Run: func(in []byte) uint8 {
				this := uint16(in[0]) | uint16(in[1])<<8
				subtle.ConditionalAssignU16(&this, uint16(in[2])|uint16(in[3])<<8, in[4]&1)
				return uint8(this ^ this>>8)
			},
		},
		{
			Name:      "abs_i8",
			InputSize: 1,
			Fixed:     make([]byte, 1),
			Run: func(in []byte) uint8 {
				return subtle.AbsI8(int8(in[0]))
			},
		},
		{
			Name:      "abs_i16",
			InputSize: 2,
			Fixed:     make([]byte, 2),
			Run: func(in []byte) uint8 {
				v := subtle.AbsI16(int16(uint16(in[0]) | uint16(in[1])<<8))
				return uint8(v ^ v>>8)
			},
		},
		{
			Name:      "uint64_equal",
			InputSize: 16,
			Fixed:     make([]byte, 16),
			Run: func(in []byte) uint8 {
				var a, b uint64
				for i := range 8 {
					a |= uint64(in[i]) << (8 * i)
					b |= uint64(in[8+i]) << (8 * i)
				}
				return subtle.Uint64Equal(a, b)
			},
		},
		{
			Name:      "conditional_swap_bytes32",
			InputSize: subtle.Bytes32Size*2 + 1,
			Fixed:     make([]byte, subtle.Bytes32Size*2+1),
			Run: func(in []byte) uint8 {
				a := [subtle.Bytes32Size]byte(in[:subtle.Bytes32Size])
				b := [subtle.Bytes32Size]byte(in[subtle.Bytes32Size : subtle.Bytes32Size*2])
				subtle.ConditionalSwapBytes32(&a, &b, in[subtle.Bytes32Size*2]&1)
				return a[0] ^ b[31]
			},
		},
		{
			Name:      "element_conditional_negate",
			InputSize: curve25519.ElementSize + 1,
			Fixed:     make([]byte, curve25519.ElementSize+1),
			Run: func(in []byte) uint8 {
				var e curve25519.Element
				_, _ = e.SetBytes(in[:curve25519.ElementSize])
				e.ConditionalNegate(in[curve25519.ElementSize] & 1)
				return e.IsNegative()
			},
		},
		{
			Name:      "element_equal",
			InputSize: curve25519.ElementSize * 2,
			Fixed:     make([]byte, curve25519.ElementSize*2),
			Run: func(in []byte) uint8 {
				var a, b curve25519.Element
				_, _ = a.SetBytes(in[:curve25519.ElementSize])
				_, _ = b.SetBytes(in[curve25519.ElementSize:])
				return a.ConstantTimeEq(&b)
			},
		},
		{
			Name:      "scalar_is_reduced",
			InputSize: curve25519.ScalarSize,
			Fixed:     make([]byte, curve25519.ScalarSize),
			Run: func(in []byte) uint8 {
				return curve25519.ScalarIsReduced32([curve25519.ScalarSize]byte(in))
			},
		},
	}
}

// TargetByName nil if no target has that name
func TargetByName(name string) *Target {
	for _, t := range Targets() {
		if t.Name == name {
			return &t
		}
	}
	return nil
}
