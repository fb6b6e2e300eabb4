package curve25519

import (
	"git.gammaspectra.live/P2Pool/edwards25519/field" //nolint:depguard
	"git.gammaspectra.live/P2Pool/subtle/subtle"
)

// Element a field element of GF(2^255-19), with constant-time selection, comparison and negation
type Element field.Element

func (v *Element) fe() *field.Element {
	return (*field.Element)(v)
}

func (v *Element) Zero() *Element {
	v.fe().Zero()
	return v
}

func (v *Element) One() *Element {
	v.fe().One()
	return v
}

func (v *Element) Set(a *Element) *Element {
	*v = *a
	return v
}

// SetBytes sets v to x, a 32-byte little-endian encoding. The most significant bit is ignored
// and non-canonical values are accepted, as in RFC 7748.
func (v *Element) SetBytes(x []byte) (*Element, error) {
	if _, err := v.fe().SetBytes(x); err != nil {
		return nil, err
	}
	return v, nil
}

// Bytes returns the canonical 32-byte little-endian encoding of v.
func (v *Element) Bytes() (out [ElementSize]byte) {
	copy(out[:], v.fe().Bytes())
	return out
}

func (v *Element) Add(a, b *Element) *Element {
	v.fe().Add(a.fe(), b.fe())
	return v
}

func (v *Element) Negate(a *Element) *Element {
	v.fe().Negate(a.fe())
	return v
}

// ConditionalAssign sets v = other if choice == 1, and leaves v unchanged if choice == 0.
func (v *Element) ConditionalAssign(other *Element, choice uint8) {
	v.fe().Select(other.fe(), v.fe(), int(choice))
}

// ConstantTimeEq compares the canonical encodings of v and other
func (v *Element) ConstantTimeEq(other *Element) uint8 {
	a, b := v.Bytes(), other.Bytes()
	return subtle.ArraysEqual(&a, &b)
}

func (v *Element) ConditionalNegate(choice uint8) {
	subtle.ConditionalNegate(v, choice)
}

// IsNegative returns 1 if v is negative, that is, if its canonical encoding is odd
func (v *Element) IsNegative() uint8 {
	return uint8(v.fe().IsNegative())
}

// Absolute sets v to |u|, the non-negative one of u and -u
func (v *Element) Absolute(u *Element) *Element {
	v.Set(u)
	v.ConditionalNegate(u.IsNegative())
	return v
}

const ElementSize = 32

var (
	_ subtle.Assignable[*Element]   = (*Element)(nil)
	_ subtle.Equatable[*Element]    = (*Element)(nil)
	_ subtle.Negatable[*Element]    = (*Element)(nil)
	_ subtle.ConditionallyNegatable = (*Element)(nil)
)
