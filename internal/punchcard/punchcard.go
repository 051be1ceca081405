// Package punchcard implements unlinkable loyalty punch cards over the
// Ristretto255 group.
//
// A client holds a random secret s and a card H(s)^(m*k^n), where m is a
// fresh mask and n the number of punches. The server punches by raising the
// masked card to its secret k and proves it did so honestly with a
// Chaum-Pedersen proof of equal discrete logarithms (Boneh-Shoup, Fig. 19.7).
// The client verifies, strips its old mask and applies a new one, so the
// server cannot link successive punches. On redemption the client reveals s
// and the unmasked card H(s)^(k^n); the server recomputes it and records s so
// the card cannot be redeemed twice.
package punchcard

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/gtank/ristretto255"

	"github.com/toozej/punchcard/internal/store"
)

// ErrInvalidEncoding is returned when a point or scalar cannot be decoded.
var ErrInvalidEncoding = errors.New("invalid encoding")

// Proof is a non-interactive Chaum-Pedersen proof that the server raised a
// card to the same secret as its public key.
type Proof struct {
	VT    []byte
	WT    []byte
	BetaZ []byte
}

// Server holds the punching secret and the set of redeemed cards.
type Server struct {
	secret *ristretto255.Scalar
	pub    []byte
	used   store.Store
}

// NewServer generates a fresh server secret. Redeemed secrets are recorded
// in used; a nil store selects an in-memory one.
func NewServer(used store.Store) (*Server, error) {
	if used == nil {
		used = store.NewMemory()
	}
	k, err := randomScalar()
	if err != nil {
		return nil, err
	}
	pub := encodeElement(ristretto255.NewElement().ScalarBaseMult(k))
	return &Server{secret: k, pub: pub, used: used}, nil
}

// PublicKey returns the compressed point g^k.
func (s *Server) PublicKey() []byte {
	return append([]byte(nil), s.pub...)
}

// Punch raises card to the server secret and proves it.
func (s *Server) Punch(card []byte) ([]byte, Proof, error) {
	u, err := decodeElement(card)
	if err != nil {
		return nil, Proof{}, fmt.Errorf("punch: %w", err)
	}

	punched := encodeElement(ristretto255.NewElement().ScalarMult(s.secret, u))

	betaT, err := randomScalar()
	if err != nil {
		return nil, Proof{}, fmt.Errorf("punch: %w", err)
	}
	vt := encodeElement(ristretto255.NewElement().ScalarBaseMult(betaT))
	wt := encodeElement(ristretto255.NewElement().ScalarMult(betaT, u))

	chal := hashToScalar(s.pub, card, punched, vt, wt)
	kc := ristretto255.NewScalar().Multiply(s.secret, chal)
	betaZ := ristretto255.NewScalar().Add(kc, betaT)

	return punched, Proof{VT: vt, WT: wt, BetaZ: encodeScalar(betaZ)}, nil
}

// Verify checks that card is H(secret)^(k^punches) and that secret has not
// been redeemed before. A valid card is recorded as redeemed.
func (s *Server) Verify(ctx context.Context, card []byte, secret [store.SecretSize]byte, punches uint32) (bool, error) {
	got, err := decodeElement(card)
	if err != nil {
		return false, fmt.Errorf("verify: %w", err)
	}

	exp := scalarPow(s.secret, punches)
	want := ristretto255.NewElement().ScalarMult(exp, hashToElement(secret[:]))
	if got.Equal(want) != 1 {
		return false, nil
	}

	added, err := s.used.Add(ctx, secret)
	if err != nil {
		return false, fmt.Errorf("verify: %w", err)
	}
	return added, nil
}

// Preload fills the redeemed set with n synthetic secrets, the scalar
// encodings of 0 through n-1. It stops early when ctx is done.
func (s *Server) Preload(ctx context.Context, n uint32) error {
	for i := uint32(0); i < n; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("preload: %w", err)
		}
		if _, err := s.used.Add(ctx, uint32Scalar(i)); err != nil {
			return fmt.Errorf("preload: %w", err)
		}
	}
	return nil
}

// IsRedeemed reports whether secret has already been redeemed.
func (s *Server) IsRedeemed(ctx context.Context, secret [store.SecretSize]byte) (bool, error) {
	return s.used.Contains(ctx, secret)
}

// Redeemed returns the number of recorded secrets.
func (s *Server) Redeemed(ctx context.Context) (int, error) {
	return s.used.Len(ctx)
}

// Card is the client side of a punch card.
type Card struct {
	secret [store.SecretSize]byte
	card   *ristretto255.Element
	mask   *ristretto255.Scalar
	count  uint32
}

// NewCard creates a card with a random secret and returns it together with
// the masked card to send for the first punch.
func NewCard() (*Card, []byte, error) {
	c := &Card{}
	if _, err := rand.Read(c.secret[:]); err != nil {
		return nil, nil, fmt.Errorf("failed to read randomness: %w", err)
	}
	mask, err := randomScalar()
	if err != nil {
		return nil, nil, err
	}
	c.mask = mask
	c.card = ristretto255.NewElement().ScalarMult(mask, hashToElement(c.secret[:]))
	return c, encodeElement(c.card), nil
}

// VerifyRemask checks the server's proof for punched. If it holds, the card
// is unmasked, remasked with a fresh mask and its count incremented. If not,
// the previous card and count are kept. The returned bytes are the card to
// present next.
func (c *Card) VerifyRemask(punched, pub []byte, proof Proof) ([]byte, bool, error) {
	w, err := decodeElement(punched)
	if err != nil {
		return nil, false, fmt.Errorf("verify remask: %w", err)
	}
	pk, err := decodeElement(pub)
	if err != nil {
		return nil, false, fmt.Errorf("verify remask: %w", err)
	}
	vt, err := decodeElement(proof.VT)
	if err != nil {
		return nil, false, fmt.Errorf("verify remask: %w", err)
	}
	wt, err := decodeElement(proof.WT)
	if err != nil {
		return nil, false, fmt.Errorf("verify remask: %w", err)
	}
	betaZ, err := decodeScalar(proof.BetaZ)
	if err != nil {
		return nil, false, fmt.Errorf("verify remask: %w", err)
	}

	current := encodeElement(c.card)
	chal := hashToScalar(pub, current, punched, proof.VT, proof.WT)

	gbz := ristretto255.NewElement().ScalarBaseMult(betaZ)
	vtvc := ristretto255.NewElement().Add(vt, ristretto255.NewElement().ScalarMult(chal, pk))

	ubz := ristretto255.NewElement().ScalarMult(betaZ, c.card)
	wtwc := ristretto255.NewElement().Add(wt, ristretto255.NewElement().ScalarMult(chal, w))

	if gbz.Equal(vtvc) != 1 || ubz.Equal(wtwc) != 1 {
		return current, false, nil
	}

	mask, err := randomScalar()
	if err != nil {
		return nil, false, err
	}
	inv := ristretto255.NewScalar().Invert(c.mask)
	remask := ristretto255.NewScalar().Multiply(inv, mask)
	c.card = ristretto255.NewElement().ScalarMult(remask, w)
	c.mask = mask
	c.count++

	return encodeElement(c.card), true, nil
}

// Redeem unmasks the card and returns the secret and the unmasked card to
// present to the server. The card should not be punched afterwards.
func (c *Card) Redeem() ([store.SecretSize]byte, []byte) {
	unmask := ristretto255.NewScalar().Invert(c.mask)
	c.card = ristretto255.NewElement().ScalarMult(unmask, c.card)
	c.mask = oneScalar()
	return c.secret, encodeElement(c.card)
}

// Count returns the number of accepted punches.
func (c *Card) Count() uint32 {
	return c.count
}
