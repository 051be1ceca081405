package app

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/toozej/punchcard/internal/pairing"
	"github.com/toozej/punchcard/internal/punchcard"
	"github.com/toozej/punchcard/internal/store"
)

// Demo implements the demo command logic: it walks one card through the
// whole punch-card lifecycle and shows each exchange, then merges two
// pairing cards.
func Demo(ctx context.Context, w io.Writer, punches int, dsn string) error {
	if punches < 0 {
		return fmt.Errorf("punches must not be negative, got %d", punches)
	}

	used, err := store.Open(dsn)
	if err != nil {
		return fmt.Errorf("failed to open redeemed-card store: %w", err)
	}
	defer used.Close()

	fmt.Fprintln(w, "=================================================")
	fmt.Fprintln(w, "Punchcard - Protocol Walkthrough")
	fmt.Fprintln(w, "=================================================")

	if err := demoRistretto(ctx, w, used, punches); err != nil {
		return err
	}
	if err := demoPairing(ctx, w, used, punches); err != nil {
		return err
	}

	n, err := used.Len(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "\n"+strings.Repeat("=", 50))
	fmt.Fprintf(w, "Redeemed secrets on record: %d\n", n)
	return nil
}

func demoRistretto(ctx context.Context, w io.Writer, used store.Store, punches int) error {
	fmt.Fprintln(w, "\n🎫 Ristretto punch card")

	srv, err := punchcard.NewServer(used)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "  server public key  %s\n", short(srv.PublicKey()))

	card, masked, err := punchcard.NewCard()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "  new masked card    %s\n", short(masked))

	for i := 0; i < punches; i++ {
		punched, proof, err := srv.Punch(masked)
		if err != nil {
			return err
		}
		next, ok, err := card.VerifyRemask(punched, srv.PublicKey(), proof)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  punch %-3d proof=%-5t card %s\n", i+1, ok, short(next))
		masked = next
	}

	secret, unmasked := card.Redeem()
	ok, err := srv.Verify(ctx, unmasked, secret, card.Count())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "  redeem %d punches: accepted=%t\n", card.Count(), ok)

	again, err := srv.Verify(ctx, unmasked, secret, card.Count())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "  redeem again:      accepted=%t\n", again)
	return nil
}

func demoPairing(ctx context.Context, w io.Writer, used store.Store, punches int) error {
	fmt.Fprintln(w, "\n🔗 Mergeable pairing cards")

	srv, err := pairing.NewServer(used)
	if err != nil {
		return err
	}
	pub1, pub2 := srv.PublicKeys()

	cards := make([]*pairing.Card, 2)
	for i := range cards {
		card, c1, c2, err := pairing.NewCard()
		if err != nil {
			return err
		}
		// split the punches between the two cards
		n := punches / 2
		if i == 0 {
			n = punches - n
		}
		for j := 0; j < n; j++ {
			p1, p2, proof1, proof2, err := srv.Punch(c1, c2)
			if err != nil {
				return err
			}
			var ok bool
			if c1, c2, ok, err = card.VerifyRemask(p1, p2, pub1, pub2, proof1, proof2); err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("card %d: honest punch rejected", i+1)
			}
		}
		fmt.Fprintf(w, "  card %d punched %d times\n", i+1, card.Count())
		cards[i] = card
	}

	r, err := cards[0].Merge(cards[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "  merged pairing     %s\n", short(r.Pairing))

	ok, err := srv.Verify(ctx, r.Pairing, r.Secret1, r.Secret2, r.Punches)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "  redeem %d punches: accepted=%t\n", r.Punches, ok)
	return nil
}

func short(b []byte) string {
	s := hex.EncodeToString(b)
	if len(s) > 16 {
		return s[:16] + "…"
	}
	return s
}
