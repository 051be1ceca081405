// Package pairing implements mergeable punch cards over BLS12-381.
//
// Each card has a G1 part and a G2 part derived from one secret with
// different hash-to-curve domain separators. Both parts are punched and
// remasked in lockstep exactly like the Ristretto cards. To redeem, two
// cards are merged: the unmasked G1 part of one is paired with the unmasked
// G2 part of the other, giving e(H1(s1), H2(s2))^(k^(a+b)) for punch counts
// a and b, which the server checks against its own computation.
package pairing

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/toozej/punchcard/internal/store"
)

var (
	// ErrInvalidEncoding is returned when a point, scalar or pairing value cannot be decoded.
	ErrInvalidEncoding = errors.New("invalid encoding")
	// ErrPartMismatch is returned when only one of a card's two parts verifies.
	ErrPartMismatch = errors.New("card parts disagree")
)

// Domain separators for hashing card secrets to each group and for the
// proof challenges of each part.
var (
	cardDSTG1  = []byte{0, 0, 0, 0}
	cardDSTG2  = []byte{1, 0, 0, 0}
	proofDSTG1 = []byte{3, 0, 0, 0}
	proofDSTG2 = []byte{4, 0, 0, 0}
)

// Proof is a Chaum-Pedersen proof for one card part.
type Proof struct {
	VT    []byte
	WT    []byte
	BetaZ []byte
}

// Server holds the punching secret, its public keys in both groups and the
// redeemed-card store.
type Server struct {
	secret fr.Element
	pubG1  []byte
	pubG2  []byte
	used   store.Store
}

// NewServer generates a fresh server secret. A nil store selects an
// in-memory one.
func NewServer(used store.Store) (*Server, error) {
	if used == nil {
		used = store.NewMemory()
	}
	k, err := randomScalar()
	if err != nil {
		return nil, err
	}
	return &Server{
		secret: k,
		pubG1:  groupG1.generator().mul(&k).bytes(),
		pubG2:  groupG2.generator().mul(&k).bytes(),
		used:   used,
	}, nil
}

// PublicKeys returns g1^k and g2^k in compressed form.
func (s *Server) PublicKeys() (g1, g2 []byte) {
	return append([]byte(nil), s.pubG1...), append([]byte(nil), s.pubG2...)
}

// Punch punches both parts of a card.
func (s *Server) Punch(cardG1, cardG2 []byte) (newG1, newG2 []byte, proofG1, proofG2 Proof, err error) {
	newG1, proofG1, err = s.punchPart(groupG1, s.pubG1, cardG1, proofDSTG1)
	if err != nil {
		return nil, nil, Proof{}, Proof{}, err
	}
	newG2, proofG2, err = s.punchPart(groupG2, s.pubG2, cardG2, proofDSTG2)
	if err != nil {
		return nil, nil, Proof{}, Proof{}, err
	}
	return newG1, newG2, proofG1, proofG2, nil
}

func (s *Server) punchPart(g group, pub, card, dst []byte) ([]byte, Proof, error) {
	u, err := g.decode(card)
	if err != nil {
		return nil, Proof{}, fmt.Errorf("punch %s: %w", g.name(), err)
	}
	punched := u.mul(&s.secret).bytes()

	betaT, err := randomScalar()
	if err != nil {
		return nil, Proof{}, fmt.Errorf("punch %s: %w", g.name(), err)
	}
	vt := g.generator().mul(&betaT).bytes()
	wt := u.mul(&betaT).bytes()

	chal, err := hashToScalar(dst, pub, card, punched, vt, wt)
	if err != nil {
		return nil, Proof{}, fmt.Errorf("punch %s: %w", g.name(), err)
	}
	var betaZ fr.Element
	betaZ.Mul(&chal, &s.secret)
	betaZ.Add(&betaZ, &betaT)

	return punched, Proof{VT: vt, WT: wt, BetaZ: encodeScalar(&betaZ)}, nil
}

// Verify checks a merged redemption: gt must equal
// e(H1(secret1)^(k^punches), H2(secret2)) and neither secret may have been
// redeemed. On success both secrets are recorded together.
func (s *Server) Verify(ctx context.Context, gt []byte, secret1, secret2 [store.SecretSize]byte, punches uint32) (bool, error) {
	// a card merged with itself would count its punches twice
	if secret1 == secret2 {
		return false, nil
	}

	var got bls12381.GT
	if err := got.SetBytes(gt); err != nil {
		return false, fmt.Errorf("verify: %w: %v", ErrInvalidEncoding, err)
	}

	h1, err := groupG1.hash(secret1[:], cardDSTG1)
	if err != nil {
		return false, fmt.Errorf("verify: %w", err)
	}
	h2, err := groupG2.hash(secret2[:], cardDSTG2)
	if err != nil {
		return false, fmt.Errorf("verify: %w", err)
	}

	var exp fr.Element
	exp.Exp(s.secret, new(big.Int).SetUint64(uint64(punches)))
	want, err := pair(h1.mul(&exp), h2)
	if err != nil {
		return false, fmt.Errorf("verify: %w", err)
	}
	if !got.Equal(&want) {
		return false, nil
	}

	added, err := s.used.AddAll(ctx, secret1, secret2)
	if err != nil {
		return false, fmt.Errorf("verify: %w", err)
	}
	return added, nil
}

// Redeemed returns the number of recorded secrets.
func (s *Server) Redeemed(ctx context.Context) (int, error) {
	return s.used.Len(ctx)
}

func pair(a, b element) (bls12381.GT, error) {
	p := a.(g1Point)
	q := b.(g2Point)
	gt, err := bls12381.Pair([]bls12381.G1Affine{p.p}, []bls12381.G2Affine{q.p})
	if err != nil {
		return bls12381.GT{}, fmt.Errorf("pairing: %w", err)
	}
	return gt, nil
}

type part struct {
	card  element
	mask  fr.Element
	count uint32
}

// Card is the client side of a mergeable punch card.
type Card struct {
	secret [store.SecretSize]byte
	g1     part
	g2     part
}

// NewCard creates a card with a random secret and returns the masked parts
// to send for the first punch.
func NewCard() (c *Card, cardG1, cardG2 []byte, err error) {
	c = &Card{}
	if _, err := rand.Read(c.secret[:]); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to read randomness: %w", err)
	}
	if c.g1, err = newPart(groupG1, c.secret[:], cardDSTG1); err != nil {
		return nil, nil, nil, err
	}
	if c.g2, err = newPart(groupG2, c.secret[:], cardDSTG2); err != nil {
		return nil, nil, nil, err
	}
	return c, c.g1.card.bytes(), c.g2.card.bytes(), nil
}

func newPart(g group, secret, dst []byte) (part, error) {
	h, err := g.hash(secret, dst)
	if err != nil {
		return part{}, err
	}
	mask, err := randomScalar()
	if err != nil {
		return part{}, err
	}
	return part{card: h.mul(&mask), mask: mask}, nil
}

// VerifyRemask checks both proofs. If both hold, both parts are remasked and
// the count incremented; if neither holds the card is unchanged. If exactly
// one holds, the card is unchanged and ErrPartMismatch is returned.
func (c *Card) VerifyRemask(punchedG1, punchedG2, pubG1, pubG2 []byte, proofG1, proofG2 Proof) (nextG1, nextG2 []byte, ok bool, err error) {
	w1, ok1, err := c.g1.verify(groupG1, punchedG1, pubG1, proofG1, proofDSTG1)
	if err != nil {
		return nil, nil, false, err
	}
	w2, ok2, err := c.g2.verify(groupG2, punchedG2, pubG2, proofG2, proofDSTG2)
	if err != nil {
		return nil, nil, false, err
	}

	switch {
	case ok1 && ok2:
		g1, err := c.g1.remask(w1)
		if err != nil {
			return nil, nil, false, err
		}
		g2, err := c.g2.remask(w2)
		if err != nil {
			return nil, nil, false, err
		}
		c.g1, c.g2 = g1, g2
		return c.g1.card.bytes(), c.g2.card.bytes(), true, nil
	case ok1 != ok2:
		return c.g1.card.bytes(), c.g2.card.bytes(), false, ErrPartMismatch
	default:
		return c.g1.card.bytes(), c.g2.card.bytes(), false, nil
	}
}

func (p *part) verify(g group, punched, pub []byte, proof Proof, dst []byte) (element, bool, error) {
	w, err := g.decode(punched)
	if err != nil {
		return nil, false, fmt.Errorf("verify remask %s: %w", g.name(), err)
	}
	pk, err := g.decode(pub)
	if err != nil {
		return nil, false, fmt.Errorf("verify remask %s: %w", g.name(), err)
	}
	vt, err := g.decode(proof.VT)
	if err != nil {
		return nil, false, fmt.Errorf("verify remask %s: %w", g.name(), err)
	}
	wt, err := g.decode(proof.WT)
	if err != nil {
		return nil, false, fmt.Errorf("verify remask %s: %w", g.name(), err)
	}
	betaZ, err := decodeScalar(proof.BetaZ)
	if err != nil {
		return nil, false, fmt.Errorf("verify remask %s: %w", g.name(), err)
	}

	chal, err := hashToScalar(dst, pub, p.card.bytes(), punched, proof.VT, proof.WT)
	if err != nil {
		return nil, false, fmt.Errorf("verify remask %s: %w", g.name(), err)
	}

	gbz := g.generator().mul(&betaZ)
	vtvc := vt.add(pk.mul(&chal))
	ubz := p.card.mul(&betaZ)
	wtwc := wt.add(w.mul(&chal))

	return w, gbz.equal(vtvc) && ubz.equal(wtwc), nil
}

func (p part) remask(punched element) (part, error) {
	mask, err := randomScalar()
	if err != nil {
		return part{}, err
	}
	var factor fr.Element
	factor.Inverse(&p.mask)
	factor.Mul(&factor, &mask)
	return part{card: punched.mul(&factor), mask: mask, count: p.count + 1}, nil
}

func (p part) unmasked() element {
	var inv fr.Element
	inv.Inverse(&p.mask)
	return p.card.mul(&inv)
}

// Count returns the number of accepted punches.
func (c *Card) Count() uint32 {
	return c.g1.count
}

// Redemption is what a client presents to redeem two merged cards.
type Redemption struct {
	Secret1 [store.SecretSize]byte
	Secret2 [store.SecretSize]byte
	Pairing []byte
	Punches uint32
}

// Merge combines c with other into a single redemption worth the punches of
// both cards.
func (c *Card) Merge(other *Card) (Redemption, error) {
	gt, err := pair(c.g1.unmasked(), other.g2.unmasked())
	if err != nil {
		return Redemption{}, fmt.Errorf("merge: %w", err)
	}
	b := gt.Bytes()
	return Redemption{
		Secret1: c.secret,
		Secret2: other.secret,
		Pairing: b[:],
		Punches: c.Count() + other.Count(),
	}, nil
}
