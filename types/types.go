package types

import (
	"errors"

	"git.gammaspectra.live/P2Pool/subtle/subtle"
	fasthex "github.com/tmthrgd/go-hex"
)

const HashSize = 32

// Hash 32 bytes of secret or public data, e.g. an encoded field element or a seed.
//
//nolint:recvcheck
type Hash [HashSize]byte

var ZeroHash Hash

var errWrongSize = errors.New("wrong size")

func MustBytes32FromString[T ~[32]byte](s string) T {
	if h, err := Bytes32FromString[T](s); err != nil {
		panic(err)
	} else {
		return h
	}
}

func Bytes32FromString[T ~[32]byte](s string) (T, error) {
	var h T
	if buf, err := fasthex.DecodeString(s); err != nil {
		return h, err
	} else {
		if len(buf) != 32 {
			return h, errWrongSize
		}
		copy(h[:], buf)
		return h, nil
	}
}

func MustHashFromString(s string) Hash {
	return MustBytes32FromString[Hash](s)
}

func HashFromString(s string) (Hash, error) {
	return Bytes32FromString[Hash](s)
}

func HashFromBytes(buf []byte) (h Hash) {
	if len(buf) != HashSize {
		return
	}
	copy(h[:], buf)
	return
}

// ConstantTimeEq returns 1 if h == *other, examining all bytes
func (h *Hash) ConstantTimeEq(other *Hash) uint8 {
	return subtle.Bytes32Equal(h, other)
}

// ConditionalAssign sets h to *other if choice == 1
func (h *Hash) ConditionalAssign(other *Hash, choice uint8) {
	subtle.ConditionalAssignBytes32((*[HashSize]byte)(h), (*[HashSize]byte)(other), choice)
}

// IsZero returns 1 if all bytes are zero, in constant time
func (h *Hash) IsZero() uint8 {
	return subtle.Bytes32Equal(h, &ZeroHash)
}

func (h Hash) Slice() []byte {
	return h[:]
}

func (h Hash) String() string {
	return fasthex.EncodeToString(h[:])
}

func (h Hash) MarshalJSON() ([]byte, error) {
	var buf [HashSize*2 + 2]byte
	buf[0] = '"'
	buf[HashSize*2+1] = '"'
	fasthex.Encode(buf[1:], h[:])
	return buf[:], nil
}

func (h *Hash) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || len(b) == 2 {
		return nil
	}

	if len(b) != HashSize*2+2 {
		return errors.New("wrong hash size")
	}

	if _, err := fasthex.Decode(h[:], b[1:len(b)-1]); err != nil {
		return err
	}

	return nil
}
