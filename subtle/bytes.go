package subtle

const Bytes32Size = 32

// BytesEqual returns 1 if a == b and 0 otherwise.
//
//go:nosplit
func BytesEqual(a, b uint8) uint8 {
	x := ^(a ^ b)
	x &= x >> 4
	x &= x >> 2
	x &= x >> 1
	return x & 1
}

// ByteIsNonZero returns 1 if b != 0 and 0 otherwise.
//
//go:nosplit
func ByteIsNonZero(b uint8) uint8 {
	x := b
	x |= x >> 4
	x |= x >> 2
	x |= x >> 1
	return x & 1
}

// ArraysEqual returns 1 if a and b hold the same 32 bytes and 0 otherwise.
// All 32 byte pairs are compared, there is no early exit on mismatch.
//
//go:nosplit
func ArraysEqual(a, b *[Bytes32Size]byte) uint8 {
	var x uint8
	for i := 0; i < Bytes32Size; i++ {
		x |= a[i] ^ b[i]
	}
	return BytesEqual(x, 0)
}

// Bytes32Equal ArraysEqual for any named 32-byte type, like hashes or key bytes
func Bytes32Equal[T ~[Bytes32Size]byte](a, b *T) uint8 {
	x, y := [Bytes32Size]byte(*a), [Bytes32Size]byte(*b)
	return ArraysEqual(&x, &y)
}

// ConditionalAssignBytes32 sets *this to *other if choice == 1, and leaves it unchanged if choice == 0.
//
//go:nosplit
func ConditionalAssignBytes32(this, other *[Bytes32Size]byte, choice uint8) {
	mask := -choice
	for i := 0; i < Bytes32Size; i++ {
		this[i] ^= mask & (this[i] ^ other[i])
	}
}

// ConditionalSwapBytes32 exchanges *a and *b if choice == 1, and leaves both unchanged if choice == 0.
//
//go:nosplit
func ConditionalSwapBytes32(a, b *[Bytes32Size]byte, choice uint8) {
	mask := -choice
	for i := 0; i < Bytes32Size; i++ {
		t := mask & (a[i] ^ b[i])
		a[i] ^= t
		b[i] ^= t
	}
}
