package pairing

import (
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// element is a point of G1 or G2.
type element interface {
	mul(s *fr.Element) element
	add(o element) element
	equal(o element) bool
	bytes() []byte
}

// group lets the punch and proof code run unchanged on either source group.
type group interface {
	name() string
	generator() element
	hash(msg, dst []byte) (element, error)
	decode(b []byte) (element, error)
}

var (
	_, _, g1Gen, g2Gen = bls12381.Generators()

	groupG1 group = g1Group{}
	groupG2 group = g2Group{}
)

type g1Point struct{ p bls12381.G1Affine }

func (e g1Point) mul(s *fr.Element) element {
	var k big.Int
	s.BigInt(&k)
	var r g1Point
	r.p.ScalarMultiplication(&e.p, &k)
	return r
}

func (e g1Point) add(o element) element {
	q := o.(g1Point)
	var a, b bls12381.G1Jac
	a.FromAffine(&e.p)
	b.FromAffine(&q.p)
	a.AddAssign(&b)
	var r g1Point
	r.p.FromJacobian(&a)
	return r
}

func (e g1Point) equal(o element) bool {
	q, ok := o.(g1Point)
	return ok && e.p.Equal(&q.p)
}

func (e g1Point) bytes() []byte {
	b := e.p.Bytes()
	return b[:]
}

type g1Group struct{}

func (g1Group) name() string { return "G1" }

func (g1Group) generator() element { return g1Point{p: g1Gen} }

func (g1Group) hash(msg, dst []byte) (element, error) {
	p, err := bls12381.HashToG1(msg, dst)
	if err != nil {
		return nil, fmt.Errorf("hash to G1: %w", err)
	}
	return g1Point{p: p}, nil
}

func (g1Group) decode(b []byte) (element, error) {
	if len(b) != bls12381.SizeOfG1AffineCompressed {
		return nil, fmt.Errorf("%w: G1 point is %d bytes", ErrInvalidEncoding, len(b))
	}
	var p bls12381.G1Affine
	if _, err := p.SetBytes(b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return g1Point{p: p}, nil
}

type g2Point struct{ p bls12381.G2Affine }

func (e g2Point) mul(s *fr.Element) element {
	var k big.Int
	s.BigInt(&k)
	var r g2Point
	r.p.ScalarMultiplication(&e.p, &k)
	return r
}

func (e g2Point) add(o element) element {
	q := o.(g2Point)
	var a, b bls12381.G2Jac
	a.FromAffine(&e.p)
	b.FromAffine(&q.p)
	a.AddAssign(&b)
	var r g2Point
	r.p.FromJacobian(&a)
	return r
}

func (e g2Point) equal(o element) bool {
	q, ok := o.(g2Point)
	return ok && e.p.Equal(&q.p)
}

func (e g2Point) bytes() []byte {
	b := e.p.Bytes()
	return b[:]
}

type g2Group struct{}

func (g2Group) name() string { return "G2" }

func (g2Group) generator() element { return g2Point{p: g2Gen} }

func (g2Group) hash(msg, dst []byte) (element, error) {
	p, err := bls12381.HashToG2(msg, dst)
	if err != nil {
		return nil, fmt.Errorf("hash to G2: %w", err)
	}
	return g2Point{p: p}, nil
}

func (g2Group) decode(b []byte) (element, error) {
	if len(b) != bls12381.SizeOfG2AffineCompressed {
		return nil, fmt.Errorf("%w: G2 point is %d bytes", ErrInvalidEncoding, len(b))
	}
	var p bls12381.G2Affine
	if _, err := p.SetBytes(b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return g2Point{p: p}, nil
}

func randomScalar() (fr.Element, error) {
	var s fr.Element
	if _, err := s.SetRandom(); err != nil {
		return fr.Element{}, fmt.Errorf("failed to sample scalar: %w", err)
	}
	return s, nil
}

func hashToScalar(dst []byte, parts ...[]byte) (fr.Element, error) {
	var msg []byte
	for _, p := range parts {
		msg = append(msg, p...)
	}
	out, err := fr.Hash(msg, dst, 1)
	if err != nil {
		return fr.Element{}, fmt.Errorf("hash to field: %w", err)
	}
	return out[0], nil
}

func encodeScalar(s *fr.Element) []byte {
	b := s.Bytes()
	return b[:]
}

func decodeScalar(b []byte) (fr.Element, error) {
	var s fr.Element
	if len(b) != fr.Bytes {
		return s, fmt.Errorf("%w: scalar is %d bytes", ErrInvalidEncoding, len(b))
	}
	if err := s.SetBytesCanonical(b); err != nil {
		return s, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return s, nil
}
