// Package native is the routine behind the host-to-native call: it times
// the punch-card protocols and returns the results as display text.
package native

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/toozej/punchcard/internal/bench"
	"github.com/toozej/punchcard/internal/greeting"
	"github.com/toozej/punchcard/internal/store"
)

// DefaultTimeout bounds a single benchmark run.
const DefaultTimeout = 2 * time.Minute

// Options configures the native routine.
type Options struct {
	// Fs is used to read ProfilePath. Nil selects the OS filesystem.
	Fs afero.Fs
	// ProfilePath names a benchmark profile; empty selects the default profile.
	ProfilePath string
	// StoreDSN selects a SQLite redeemed-card store; empty keeps it in memory.
	StoreDSN string
	// Placeholder is displayed when the routine fails.
	Placeholder string
	// Timeout bounds the run; zero selects DefaultTimeout.
	Timeout time.Duration
}

// Benchmark is a greeting.Source whose result is a benchmark report.
type Benchmark struct {
	opts Options
}

// NewBenchmark returns the fallible native routine.
func NewBenchmark(opts Options) *Benchmark {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Benchmark{opts: opts}
}

// Run implements greeting.Source.
func (b *Benchmark) Run() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), b.opts.Timeout)
	defer cancel()

	report, err := b.Report(ctx)
	if err != nil {
		return "", err
	}
	return report.String(), nil
}

// Report runs the benchmark and returns the structured result.
func (b *Benchmark) Report(ctx context.Context) (*bench.Report, error) {
	profile := bench.DefaultProfile()
	if b.opts.ProfilePath != "" {
		p, err := bench.LoadProfile(b.opts.Fs, b.opts.ProfilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load native profile: %w", err)
		}
		profile = p
	}

	used, err := store.Open(b.opts.StoreDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open redeemed-card store: %w", err)
	}
	defer func() {
		if err := used.Close(); err != nil {
			log.WithError(err).Warn("failed to close redeemed-card store")
		}
	}()

	log.WithFields(log.Fields{
		"iterations": profile.Iterations,
		"punches":    profile.Punches,
		"suites":     profile.Suites,
	}).Debug("starting native benchmark")

	return bench.NewRunner(profile, used).Run(ctx)
}

// New returns the native routine as a Provider that never fails.
func New(opts Options) greeting.Provider {
	return greeting.WithFallback(NewBenchmark(opts), opts.Placeholder)
}
