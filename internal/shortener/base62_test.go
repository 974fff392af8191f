package shortener

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortlink/internal/domain"
)

func TestEncode_Zero(t *testing.T) {
	s, err := Encode(0)
	require.NoError(t, err)
	assert.Equal(t, "0", s)
}

func TestEncode_KnownValues(t *testing.T) {
	cases := map[int64]string{
		1:   "1",
		10:  "A",
		35:  "Z",
		36:  "a",
		61:  "z",
		62:  "10",
		124: "20",
		125: "21",
	}
	for n, want := range cases {
		s, err := Encode(n)
		require.NoError(t, err)
		assert.Equal(t, want, s, "Encode(%d)", n)
	}
}

func TestEncode_Negative(t *testing.T) {
	_, err := Encode(-1)
	assert.ErrorIs(t, err, domain.ErrEncoding)
}

func TestDecode_RoundTrip(t *testing.T) {
	values := []int64{0, 1, 61, 62, 63, 3843, 3844, 123456789, math.MaxInt64}
	for _, n := range values {
		s, err := Encode(n)
		require.NoError(t, err)

		got, err := Decode(s)
		require.NoError(t, err)
		assert.Equal(t, n, got, "round trip of %d via %q", n, s)
	}

	// A sweep over small values catches off-by-one mistakes in the digit order.
	for n := int64(0); n < 10000; n++ {
		s, err := Encode(n)
		require.NoError(t, err)
		got, err := Decode(s)
		require.NoError(t, err)
		require.Equal(t, n, got)
	}
}

func TestDecode_Empty(t *testing.T) {
	_, err := Decode("")
	assert.ErrorIs(t, err, domain.ErrEncoding)
}

func TestDecode_InvalidCharacters(t *testing.T) {
	for _, s := range []string{"abc!", "with space", "é", "-1", "abc/def"} {
		_, err := Decode(s)
		assert.ErrorIs(t, err, domain.ErrEncoding, "Decode(%q)", s)
	}
}

func TestDecode_Overflow(t *testing.T) {
	// math.MaxInt64 encodes to "AzL8n0Y58m7"; one digit more must overflow.
	_, err := Decode("zzzzzzzzzzzz")
	assert.ErrorIs(t, err, domain.ErrEncoding)
}
