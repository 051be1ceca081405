package pairing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/toozej/punchcard/internal/store"
)

func punchN(t *testing.T, srv *Server, card *Card, c1, c2 []byte, n int) {
	t.Helper()
	pub1, pub2 := srv.PublicKeys()
	for i := 0; i < n; i++ {
		p1, p2, proof1, proof2, err := srv.Punch(c1, c2)
		require.NoError(t, err)

		var ok bool
		c1, c2, ok, err = card.VerifyRemask(p1, p2, pub1, pub2, proof1, proof2)
		require.NoError(t, err)
		require.True(t, ok, "honest punch %d rejected", i)
	}
}

func TestMergeAndVerify(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		first  int
		second int
	}{
		{name: "both unpunched", first: 0, second: 0},
		{name: "uneven", first: 2, second: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, err := NewServer(store.NewMemory())
			require.NoError(t, err)

			a, a1, a2, err := NewCard()
			require.NoError(t, err)
			b, b1, b2, err := NewCard()
			require.NoError(t, err)

			punchN(t, srv, a, a1, a2, tt.first)
			punchN(t, srv, b, b1, b2, tt.second)
			require.Equal(t, uint32(tt.first), a.Count())
			require.Equal(t, uint32(tt.second), b.Count())

			r, err := a.Merge(b)
			require.NoError(t, err)
			require.Equal(t, uint32(tt.first+tt.second), r.Punches)

			ok, err := srv.Verify(ctx, r.Pairing, r.Secret1, r.Secret2, r.Punches)
			require.NoError(t, err)
			require.True(t, ok, "valid merged card rejected")

			n, err := srv.Redeemed(ctx)
			require.NoError(t, err)
			require.Equal(t, 2, n)

			// replay
			ok, err = srv.Verify(ctx, r.Pairing, r.Secret1, r.Secret2, r.Punches)
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
}

func TestVerify_WrongCount(t *testing.T) {
	ctx := context.Background()
	srv, err := NewServer(nil)
	require.NoError(t, err)

	a, a1, a2, err := NewCard()
	require.NoError(t, err)
	b, _, _, err := NewCard()
	require.NoError(t, err)
	punchN(t, srv, a, a1, a2, 1)

	r, err := a.Merge(b)
	require.NoError(t, err)

	ok, err := srv.Verify(ctx, r.Pairing, r.Secret1, r.Secret2, r.Punches+1)
	require.NoError(t, err)
	require.False(t, ok)

	n, err := srv.Redeemed(ctx)
	require.NoError(t, err)
	require.Zero(t, n, "rejected redemption must not record secrets")
}

func TestVerify_SelfMerge(t *testing.T) {
	ctx := context.Background()
	srv, err := NewServer(store.NewMemory())
	require.NoError(t, err)

	a, a1, a2, err := NewCard()
	require.NoError(t, err)
	punchN(t, srv, a, a1, a2, 2)

	r, err := a.Merge(a)
	require.NoError(t, err)
	require.Equal(t, uint32(4), r.Punches)

	ok, err := srv.Verify(ctx, r.Pairing, r.Secret1, r.Secret2, r.Punches)
	require.NoError(t, err)
	require.False(t, ok, "self-merged card accepted")

	n, err := srv.Redeemed(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestVerifyRemask_Rejections(t *testing.T) {
	honest, err := NewServer(nil)
	require.NoError(t, err)
	rogue, err := NewServer(nil)
	require.NoError(t, err)

	card, c1, c2, err := NewCard()
	require.NoError(t, err)
	pub1, pub2 := honest.PublicKeys()

	// both parts punched by the wrong key
	p1, p2, proof1, proof2, err := rogue.Punch(c1, c2)
	require.NoError(t, err)
	n1, n2, ok, err := card.VerifyRemask(p1, p2, pub1, pub2, proof1, proof2)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, c1, n1)
	require.Equal(t, c2, n2)

	// only the G2 part is wrong
	h1, _, hproof1, _, err := honest.Punch(c1, c2)
	require.NoError(t, err)
	_, _, ok, err = card.VerifyRemask(h1, p2, pub1, pub2, hproof1, proof2)
	require.ErrorIs(t, err, ErrPartMismatch)
	require.False(t, ok)
	require.Zero(t, card.Count())
}

func TestInvalidEncoding(t *testing.T) {
	srv, err := NewServer(nil)
	require.NoError(t, err)

	_, _, c2, err := NewCard()
	require.NoError(t, err)

	_, _, _, _, err = srv.Punch([]byte{1, 2, 3}, c2)
	require.ErrorIs(t, err, ErrInvalidEncoding)

	_, err = srv.Verify(context.Background(), []byte{0}, [store.SecretSize]byte{}, [store.SecretSize]byte{}, 0)
	require.ErrorIs(t, err, ErrInvalidEncoding)

	_, err = decodeScalar([]byte{1})
	require.ErrorIs(t, err, ErrInvalidEncoding)
}
