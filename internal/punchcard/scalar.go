package punchcard

import (
	"crypto/rand"
	"crypto/sha512"
	"encoding/binary"
	"fmt"

	"github.com/gtank/ristretto255"
)

// EncodingSize is the length of a compressed point or canonical scalar.
const EncodingSize = 32

func randomScalar() (*ristretto255.Scalar, error) {
	var buf [64]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return nil, fmt.Errorf("failed to read randomness: %w", err)
	}
	return ristretto255.NewScalar().FromUniformBytes(buf[:]), nil
}

func oneScalar() *ristretto255.Scalar {
	var buf [EncodingSize]byte
	buf[0] = 1
	s := ristretto255.NewScalar()
	// 1 is canonical
	_ = s.Decode(buf[:])
	return s
}

// uint32Scalar returns the canonical little-endian encoding of n as a scalar.
func uint32Scalar(n uint32) [EncodingSize]byte {
	var buf [EncodingSize]byte
	binary.LittleEndian.PutUint32(buf[:4], n)
	return buf
}

// scalarPow returns base^exp by square-and-multiply.
func scalarPow(base *ristretto255.Scalar, exp uint32) *ristretto255.Scalar {
	result := oneScalar()
	acc := ristretto255.NewScalar().Add(base, ristretto255.NewScalar())
	for exp > 0 {
		if exp&1 == 1 {
			result = ristretto255.NewScalar().Multiply(result, acc)
		}
		acc = ristretto255.NewScalar().Multiply(acc, acc)
		exp >>= 1
	}
	return result
}

func hashToScalar(parts ...[]byte) *ristretto255.Scalar {
	h := sha512.New()
	for _, p := range parts {
		h.Write(p)
	}
	return ristretto255.NewScalar().FromUniformBytes(h.Sum(nil))
}

func hashToElement(secret []byte) *ristretto255.Element {
	sum := sha512.Sum512(secret)
	return ristretto255.NewElement().FromUniformBytes(sum[:])
}

func encodeElement(e *ristretto255.Element) []byte {
	return e.Encode(make([]byte, 0, EncodingSize))
}

func encodeScalar(s *ristretto255.Scalar) []byte {
	return s.Encode(make([]byte, 0, EncodingSize))
}

func decodeElement(b []byte) (*ristretto255.Element, error) {
	if len(b) != EncodingSize {
		return nil, fmt.Errorf("%w: point is %d bytes", ErrInvalidEncoding, len(b))
	}
	e := ristretto255.NewElement()
	if err := e.Decode(b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return e, nil
}

func decodeScalar(b []byte) (*ristretto255.Scalar, error) {
	if len(b) != EncodingSize {
		return nil, fmt.Errorf("%w: scalar is %d bytes", ErrInvalidEncoding, len(b))
	}
	s := ristretto255.NewScalar()
	if err := s.Decode(b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return s, nil
}
