// Package bench times the punch-card protocols and renders the results as
// the text shown by the native greeting provider.
package bench

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/toozej/punchcard/internal/pairing"
	"github.com/toozej/punchcard/internal/punchcard"
	"github.com/toozej/punchcard/internal/store"
)

// lookupsPerIteration is the number of membership queries timed per
// iteration of the lookup suite.
const lookupsPerIteration = 100

// Runner executes a Profile against a redeemed-card store.
type Runner struct {
	profile Profile
	used    store.Store
}

// NewRunner returns a Runner. A nil store selects an in-memory one.
func NewRunner(p Profile, used store.Store) *Runner {
	if used == nil {
		used = store.NewMemory()
	}
	return &Runner{profile: p, used: used}
}

// recorder collects samples per operation in first-seen order.
type recorder struct {
	order   []string
	samples map[string][]time.Duration
}

func newRecorder() *recorder {
	return &recorder{samples: make(map[string][]time.Duration)}
}

func (r *recorder) measure(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if _, ok := r.samples[name]; !ok {
		r.order = append(r.order, name)
	}
	r.samples[name] = append(r.samples[name], elapsed)
	return nil
}

func (r *recorder) measurements() []Measurement {
	out := make([]Measurement, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, Measurement{
			Name:    name,
			Samples: len(r.samples[name]),
			Stats:   computeDurationStats(r.samples[name]),
		})
	}
	return out
}

// Run executes every suite of the profile and returns the report.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if err := r.profile.Validate(); err != nil {
		return nil, err
	}

	report := &Report{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Profile:   r.profile,
	}
	rec := newRecorder()

	for _, suite := range r.profile.Suites {
		log.WithFields(log.Fields{"suite": suite, "run": report.ID}).Debug("running benchmark suite")
		for i := 0; i < r.profile.Iterations; i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			var err error
			switch suite {
			case SuiteRistretto:
				err = r.runRistretto(ctx, rec)
			case SuitePairing:
				err = r.runPairing(ctx, rec)
			case SuiteLookup:
				err = r.runLookup(ctx, rec)
			}
			if err != nil {
				return nil, fmt.Errorf("suite %s iteration %d: %w", suite, i, err)
			}
		}
	}

	report.Elapsed = time.Since(report.StartedAt)
	report.Measurements = rec.measurements()
	return report, nil
}

func (r *Runner) runRistretto(ctx context.Context, rec *recorder) error {
	var srv *punchcard.Server
	if err := rec.measure("ristretto/server-setup", func() (err error) {
		srv, err = punchcard.NewServer(r.used)
		return err
	}); err != nil {
		return err
	}

	var (
		card   *punchcard.Card
		masked []byte
	)
	if err := rec.measure("ristretto/card-setup", func() (err error) {
		card, masked, err = punchcard.NewCard()
		return err
	}); err != nil {
		return err
	}

	pub := srv.PublicKey()
	for p := 0; p < r.profile.Punches; p++ {
		var (
			punched []byte
			proof   punchcard.Proof
		)
		if err := rec.measure("ristretto/punch", func() (err error) {
			punched, proof, err = srv.Punch(masked)
			return err
		}); err != nil {
			return err
		}
		if err := rec.measure("ristretto/verify-remask", func() error {
			next, ok, err := card.VerifyRemask(punched, pub, proof)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("honest punch rejected")
			}
			masked = next
			return nil
		}); err != nil {
			return err
		}
	}

	return rec.measure("ristretto/redeem", func() error {
		secret, unmasked := card.Redeem()
		ok, err := srv.Verify(ctx, unmasked, secret, card.Count())
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("valid card rejected")
		}
		return nil
	})
}

func (r *Runner) runPairing(ctx context.Context, rec *recorder) error {
	var srv *pairing.Server
	if err := rec.measure("pairing/server-setup", func() (err error) {
		srv, err = pairing.NewServer(r.used)
		return err
	}); err != nil {
		return err
	}
	pub1, pub2 := srv.PublicKeys()

	cards := make([]*pairing.Card, 2)
	for i := range cards {
		var c1, c2 []byte
		if err := rec.measure("pairing/card-setup", func() (err error) {
			cards[i], c1, c2, err = pairing.NewCard()
			return err
		}); err != nil {
			return err
		}

		for p := 0; p < r.profile.Punches; p++ {
			var (
				p1, p2         []byte
				proof1, proof2 pairing.Proof
			)
			if err := rec.measure("pairing/punch", func() (err error) {
				p1, p2, proof1, proof2, err = srv.Punch(c1, c2)
				return err
			}); err != nil {
				return err
			}
			if err := rec.measure("pairing/verify-remask", func() error {
				n1, n2, ok, err := cards[i].VerifyRemask(p1, p2, pub1, pub2, proof1, proof2)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("honest punch rejected")
				}
				c1, c2 = n1, n2
				return nil
			}); err != nil {
				return err
			}
		}
	}

	var redemption pairing.Redemption
	if err := rec.measure("pairing/merge", func() (err error) {
		redemption, err = cards[0].Merge(cards[1])
		return err
	}); err != nil {
		return err
	}

	return rec.measure("pairing/redeem", func() error {
		ok, err := srv.Verify(ctx, redemption.Pairing, redemption.Secret1, redemption.Secret2, redemption.Punches)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("valid merged card rejected")
		}
		return nil
	})
}

func (r *Runner) runLookup(ctx context.Context, rec *recorder) error {
	srv, err := punchcard.NewServer(r.used)
	if err != nil {
		return err
	}
	if err := rec.measure("lookup/preload", func() error {
		return srv.Preload(ctx, uint32(r.profile.Preload))
	}); err != nil {
		return err
	}

	for i := 0; i < lookupsPerIteration; i++ {
		var secret [store.SecretSize]byte
		if _, err := rand.Read(secret[:]); err != nil {
			return fmt.Errorf("failed to read randomness: %w", err)
		}
		if err := rec.measure("lookup/contains", func() error {
			_, err := srv.IsRedeemed(ctx, secret)
			return err
		}); err != nil {
			return err
		}
	}
	return nil
}
