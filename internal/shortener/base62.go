package shortener

import (
	"fmt"
	"math"

	"shortlink/internal/domain"
)

// Base62 character set (0-9, A-Z, a-z) - 62 characters total
// Using base62 instead of base64 avoids special characters that might cause URL issues
const base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const base = int64(len(base62Chars))

// charValue maps a base62 byte to its numeric value, or -1 when the byte is
// outside the alphabet.
func charValue(c byte) int64 {
	switch {
	case c >= '0' && c <= '9':
		return int64(c - '0')
	case c >= 'A' && c <= 'Z':
		return int64(c-'A') + 10
	case c >= 'a' && c <= 'z':
		return int64(c-'a') + 36
	default:
		return -1
	}
}

// Encode converts a non-negative integer to its base62 representation,
// most significant digit first. Encode(0) returns "0", never the empty
// string. Negative input fails with domain.ErrEncoding.
func Encode(n int64) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("%w: cannot encode negative number %d", domain.ErrEncoding, n)
	}
	if n == 0 {
		return string(base62Chars[0]), nil
	}

	// int64 fits in at most 11 base62 digits
	buf := make([]byte, 0, 11)
	for n > 0 {
		buf = append(buf, base62Chars[n%base])
		n /= base
	}

	// Remainders come out least-significant-first; reverse in place.
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf), nil
}

// Decode converts a base62 string back to its integer value. It fails with
// domain.ErrEncoding for the empty string, for any character outside the
// alphabet, and for values that overflow int64. Every storage backend keys
// records on a signed 64-bit integer, so anything past that bound can never
// name a record anyway.
func Decode(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: input string is empty", domain.ErrEncoding)
	}

	var n int64
	for i := 0; i < len(s); i++ {
		v := charValue(s[i])
		if v < 0 {
			return 0, fmt.Errorf("%w: invalid character %q", domain.ErrEncoding, s[i])
		}
		if n > (math.MaxInt64-v)/base {
			return 0, fmt.Errorf("%w: value overflows int64", domain.ErrEncoding)
		}
		n = n*base + v
	}
	return n, nil
}
