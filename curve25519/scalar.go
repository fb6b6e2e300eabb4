package curve25519

import (
	"git.gammaspectra.live/P2Pool/edwards25519" //nolint:depguard
	"git.gammaspectra.live/P2Pool/subtle/subtle"
)

// Scalar an integer modulo basepointOrder, with constant-time selection, comparison and negation
type Scalar edwards25519.Scalar

const ScalarSize = 32

// basepointOrder is the order of the Ristretto group and of the Ed25519 basepoint, i.e., l = 2^252 + 27742317777372353535851937790883648493.
var basepointOrder = [ScalarSize]byte{0xed, 0xd3, 0xf5, 0x5c, 0x1a, 0x63, 0x12, 0x58, 0xd6, 0x9c, 0xf7, 0xa2, 0xde, 0xf9, 0xde, 0x14, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10}

func (s *Scalar) sc() *edwards25519.Scalar {
	return (*edwards25519.Scalar)(s)
}

// ScalarIsReduced32 returns 1 if a, read as a 256-bit little-endian integer, is lower than basepointOrder.
// All bytes are visited and the result is taken from the final borrow of a - basepointOrder.
//
//go:nosplit
func ScalarIsReduced32[T ~[ScalarSize]byte](a T) uint8 {
	var borrow uint8
	for i := 0; i < ScalarSize; i++ {
		// in [-256, 255], so bit 15 is the sign
		d := uint16(a[i]) - uint16(basepointOrder[i]) - uint16(borrow)
		borrow = uint8(d >> 15)
	}
	return borrow
}

// SetCanonicalBytes sets s = x, where x is a 32-byte little-endian encoding of s lower than basepointOrder.
func (s *Scalar) SetCanonicalBytes(x []byte) (*Scalar, error) {
	if _, err := s.sc().SetCanonicalBytes(x); err != nil {
		return nil, err
	}
	return s, nil
}

// setReducedBytes sets s from a 32-byte encoding already known to be reduced, without the variable-time canonical check
func (s *Scalar) setReducedBytes(x *[ScalarSize]byte) *Scalar {
	var wide [ScalarSize * 2]byte
	copy(wide[:], x[:])
	// a reduced value is unchanged by the wide reduction
	_, _ = s.sc().SetUniformBytes(wide[:])
	return s
}

func (s *Scalar) Bytes() (out [ScalarSize]byte) {
	copy(out[:], s.sc().Bytes())
	return out
}

func (s *Scalar) Set(x *Scalar) *Scalar {
	*s = *x
	return s
}

func (s *Scalar) Add(x, y *Scalar) *Scalar {
	s.sc().Add(x.sc(), y.sc())
	return s
}

func (s *Scalar) Negate(x *Scalar) *Scalar {
	s.sc().Negate(x.sc())
	return s
}

// ConditionalAssign sets s = other if choice == 1, and leaves s unchanged if choice == 0.
// Scalars have no limb selection exported, so the selection happens on the canonical encodings.
func (s *Scalar) ConditionalAssign(other *Scalar, choice uint8) {
	a, b := s.Bytes(), other.Bytes()
	subtle.ConditionalAssignBytes32(&a, &b, choice)
	s.setReducedBytes(&a)
}

func (s *Scalar) ConstantTimeEq(other *Scalar) uint8 {
	a, b := s.Bytes(), other.Bytes()
	return subtle.ArraysEqual(&a, &b)
}

func (s *Scalar) ConditionalNegate(choice uint8) {
	subtle.ConditionalNegate(s, choice)
}

var (
	_ subtle.Assignable[*Scalar]    = (*Scalar)(nil)
	_ subtle.Equatable[*Scalar]     = (*Scalar)(nil)
	_ subtle.Negatable[*Scalar]     = (*Scalar)(nil)
	_ subtle.ConditionallyNegatable = (*Scalar)(nil)
)
