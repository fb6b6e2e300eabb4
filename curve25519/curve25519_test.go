package curve25519

import (
	"testing"

	"git.gammaspectra.live/P2Pool/subtle/subtle"
	"git.gammaspectra.live/P2Pool/subtle/types"
	"git.gammaspectra.live/P2Pool/subtle/utils"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"
	"github.com/stretchr/testify/require"
)

// elementFromUint64 small little-endian values are always canonical
func elementFromUint64(x uint64) *Element {
	var b [ElementSize]byte
	for i := range 8 {
		b[i] = byte(x >> (8 * i))
	}
	e, err := new(Element).SetBytes(b[:])
	if err != nil {
		panic(err)
	}
	return e
}

func scalarFromUint64(x uint64) *Scalar {
	var b [ScalarSize]byte
	for i := range 8 {
		b[i] = byte(x >> (8 * i))
	}
	s, err := new(Scalar).SetCanonicalBytes(b[:])
	if err != nil {
		panic(err)
	}
	return s
}

var (
	// p - 1
	negativeOneElement = types.MustBytes32FromString[PublicKeyBytes]("ecffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff7f")
	// l - 1
	negativeOneScalar = types.MustBytes32FromString[PrivateKeyBytes]("ecd3f55c1a631258d69cf7a2def9de1400000000000000000000000000000010")
)

func TestElement(t *testing.T) {
	spec.Run(t, "Element", func(t *testing.T, when spec.G, it spec.S) {
		var x, y *Element

		it.Before(func() {
			x = elementFromUint64(486662)
			y = elementFromUint64(9)
		})

		when("ConditionalAssign", func() {
			it("keeps x on choice 0", func() {
				x.ConditionalAssign(y, 0)
				require.Equal(t, uint8(1), x.ConstantTimeEq(elementFromUint64(486662)))
			})

			it("takes y on choice 1", func() {
				x.ConditionalAssign(y, 1)
				require.Equal(t, uint8(1), x.ConstantTimeEq(y))
			})
		})

		when("ConstantTimeEq", func() {
			it("compares canonical encodings", func() {
				// p + 1 is a non-canonical encoding of 1
				nonCanonical := types.MustBytes32FromString[PublicKeyBytes]("eeffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff7f")
				require.Equal(t, uint8(1), nonCanonical.Element().ConstantTimeEq(new(Element).One()))
				require.Equal(t, uint8(0), x.ConstantTimeEq(y))
			})
		})

		when("ConditionalNegate", func() {
			it("negates one into p - 1", func() {
				one := new(Element).One()
				one.ConditionalNegate(1)
				require.Equal(t, [ElementSize]byte(negativeOneElement), one.Bytes())
			})

			it("keeps x on choice 0", func() {
				x.ConditionalNegate(0)
				require.Equal(t, uint8(1), x.ConstantTimeEq(elementFromUint64(486662)))
			})

			it("sums to zero with the original", func() {
				original := new(Element).Set(x)
				subtle.ConditionalNegate(x, 1)
				sum := new(Element).Add(x, original)
				require.Equal(t, uint8(1), sum.ConstantTimeEq(new(Element).Zero()))
			})
		})

		when("Absolute", func() {
			it("returns a non-negative element", func() {
				negative := new(Element).Negate(y)
				// p - 9 is even, so it is the non-negative one of the pair
				require.Equal(t, uint8(0), negative.IsNegative())
				require.Equal(t, uint8(1), y.IsNegative())

				abs := new(Element).Absolute(y)
				require.Equal(t, uint8(0), abs.IsNegative())
				require.Equal(t, uint8(1), abs.ConstantTimeEq(negative))

				abs.Absolute(negative)
				require.Equal(t, uint8(1), abs.ConstantTimeEq(negative))
			})
		})
	}, spec.Report(report.Terminal{}))
}

func TestScalar(t *testing.T) {
	spec.Run(t, "Scalar", func(t *testing.T, when spec.G, it spec.S) {
		var x, y *Scalar

		it.Before(func() {
			x = scalarFromUint64(12345)
			y = scalarFromUint64(0xdeadbeef)
		})

		it("assigns on choice 1 only", func() {
			x.ConditionalAssign(y, 0)
			require.Equal(t, uint8(1), x.ConstantTimeEq(scalarFromUint64(12345)))
			x.ConditionalAssign(y, 1)
			require.Equal(t, uint8(1), x.ConstantTimeEq(y))
		})

		it("negates one into l - 1", func() {
			one := scalarFromUint64(1)
			one.ConditionalNegate(1)
			require.Equal(t, [ScalarSize]byte(negativeOneScalar), one.Bytes())
		})

		it("keeps the value on choice 0", func() {
			x.ConditionalNegate(0)
			require.Equal(t, uint8(1), x.ConstantTimeEq(scalarFromUint64(12345)))
		})

		it("sums to zero with the original", func() {
			original := new(Scalar).Set(x)
			x.ConditionalNegate(1)
			require.Equal(t, uint8(1), new(Scalar).Add(x, original).ConstantTimeEq(scalarFromUint64(0)))
		})

		it("parses key bytes", func() {
			require.Equal(t, uint8(1), negativeOneScalar.Scalar().ConstantTimeEq(new(Scalar).Negate(scalarFromUint64(1))))
			require.Nil(t, (&PrivateKeyBytes{0: 0xff, 31: 0xff}).Scalar())
		})
	}, spec.Report(report.Terminal{}))
}

func TestScalarIsReduced32(t *testing.T) {
	require.Equal(t, uint8(1), ScalarIsReduced32(ZeroPrivateKeyBytes))
	require.Equal(t, uint8(1), ScalarIsReduced32(negativeOneScalar))
	require.Equal(t, uint8(0), ScalarIsReduced32(basepointOrder))

	order := basepointOrder
	order[31]++
	require.Equal(t, uint8(0), ScalarIsReduced32(order))

	var ones types.Hash
	for i := range ones {
		ones[i] = 0xff
	}
	require.Equal(t, uint8(0), ScalarIsReduced32(ones))

	// lower in the top byte wins over higher low bytes
	lower := basepointOrder
	lower[31]--
	lower[0] = 0xff
	require.Equal(t, uint8(1), ScalarIsReduced32(lower))
}

func TestKeyBytes(t *testing.T) {
	t.Run("ConstantTimeEq", func(t *testing.T) {
		a := negativeOneScalar
		b := negativeOneScalar
		require.Equal(t, uint8(1), a.ConstantTimeEq(&b))
		b[17] ^= 4
		require.Equal(t, uint8(0), a.ConstantTimeEq(&b))
	})

	t.Run("ConditionalAssign", func(t *testing.T) {
		var pub PublicKeyBytes
		pub.ConditionalAssign(&negativeOneElement, 0)
		require.Equal(t, ZeroPublicKeyBytes, pub)
		pub.ConditionalAssign(&negativeOneElement, 1)
		require.Equal(t, negativeOneElement, pub)
	})

	t.Run("JSON", func(t *testing.T) {
		buf, err := utils.MarshalJSON(&negativeOneElement)
		require.NoError(t, err)
		require.Equal(t, `"`+negativeOneElement.String()+`"`, string(buf))

		var decoded PublicKeyBytes
		require.NoError(t, utils.UnmarshalJSON(buf, &decoded))
		require.Equal(t, negativeOneElement, decoded)

		var priv PrivateKeyBytes
		require.Error(t, priv.UnmarshalJSON([]byte(`"00"`)))

		// right length, hex body intact, delimiters are not quotes
		body := negativeOneElement.String()
		for _, malformed := range []string{"x" + body + "x", "[" + body + "]", `"` + body + "'", "0" + body + "0"} {
			var pub PublicKeyBytes
			require.Error(t, pub.UnmarshalJSON([]byte(malformed)), malformed)
			require.Equal(t, ZeroPublicKeyBytes, pub, malformed)
			require.Error(t, priv.UnmarshalJSON([]byte(malformed)), malformed)
		}
	})
}
