package curve25519

import (
	"errors"

	"git.gammaspectra.live/P2Pool/subtle/subtle"
	fasthex "github.com/tmthrgd/go-hex"
)

const PrivateKeySize = 32
const PublicKeySize = 32

var ZeroPrivateKeyBytes = PrivateKeyBytes{}
var ZeroPublicKeyBytes = PublicKeyBytes{}

type PrivateKeyBytes [PrivateKeySize]byte

// Scalar returns the scalar encoded by k, or nil if k is not reduced
func (k *PrivateKeyBytes) Scalar() *Scalar {
	secret, err := new(Scalar).SetCanonicalBytes((*k)[:])
	if err != nil {
		return nil
	}
	return secret
}

func (k *PrivateKeyBytes) ConstantTimeEq(other *PrivateKeyBytes) uint8 {
	return subtle.Bytes32Equal(k, other)
}

func (k *PrivateKeyBytes) ConditionalAssign(other *PrivateKeyBytes, choice uint8) {
	subtle.ConditionalAssignBytes32((*[PrivateKeySize]byte)(k), (*[PrivateKeySize]byte)(other), choice)
}

func (k *PrivateKeyBytes) String() string {
	return fasthex.EncodeToString(k[:])
}

func (k *PrivateKeyBytes) UnmarshalJSON(b []byte) error {
	return unmarshalKeyJSON((*[PrivateKeySize]byte)(k), b)
}

func (k *PrivateKeyBytes) MarshalJSON() ([]byte, error) {
	return marshalKeyJSON((*[PrivateKeySize]byte)(k)), nil
}

type PublicKeyBytes [PublicKeySize]byte

func (k *PublicKeyBytes) ConstantTimeEq(other *PublicKeyBytes) uint8 {
	return subtle.Bytes32Equal(k, other)
}

func (k *PublicKeyBytes) ConditionalAssign(other *PublicKeyBytes, choice uint8) {
	subtle.ConditionalAssignBytes32((*[PublicKeySize]byte)(k), (*[PublicKeySize]byte)(other), choice)
}

// Element decodes k as a field element, as a Montgomery u-coordinate would be
func (k *PublicKeyBytes) Element() *Element {
	e, _ := new(Element).SetBytes(k[:])
	return e
}

func (k *PublicKeyBytes) String() string {
	return fasthex.EncodeToString(k[:])
}

func (k *PublicKeyBytes) UnmarshalJSON(b []byte) error {
	return unmarshalKeyJSON((*[PublicKeySize]byte)(k), b)
}

func (k *PublicKeyBytes) MarshalJSON() ([]byte, error) {
	return marshalKeyJSON((*[PublicKeySize]byte)(k)), nil
}

func marshalKeyJSON(k *[32]byte) []byte {
	var buf [32*2 + 2]byte
	buf[0] = '"'
	buf[32*2+1] = '"'
	fasthex.Encode(buf[1:], k[:])
	return buf[:]
}

func unmarshalKeyJSON(k *[32]byte, b []byte) error {
	if len(b) == 0 || len(b) == 2 {
		return nil
	}

	if len(b) != 32*2+2 {
		return errors.New("wrong key size")
	}
	if b[0] != '"' || b[len(b)-1] != '"' {
		return errors.New("key is not a JSON string")
	}

	if _, err := fasthex.Decode(k[:], b[1:len(b)-1]); err != nil {
		return err
	}
	return nil
}

var (
	_ subtle.Assignable[*PrivateKeyBytes] = (*PrivateKeyBytes)(nil)
	_ subtle.Equatable[*PrivateKeyBytes]  = (*PrivateKeyBytes)(nil)
	_ subtle.Assignable[*PublicKeyBytes]  = (*PublicKeyBytes)(nil)
	_ subtle.Equatable[*PublicKeyBytes]   = (*PublicKeyBytes)(nil)
)
