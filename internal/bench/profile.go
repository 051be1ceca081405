package bench

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Suite names accepted in a profile.
const (
	SuiteRistretto = "ristretto"
	SuitePairing   = "pairing"
	SuiteLookup    = "lookup"
)

// Upper bounds on a profile so a typo cannot stall the startup path.
const (
	maxPunches = 1000
	maxPreload = 1_000_000
)

// Profile controls what the benchmark runs.
type Profile struct {
	// Iterations is how many times each suite is repeated.
	Iterations int `yaml:"iterations" hcl:"iterations,optional"`
	// Punches is the number of punches applied to each card per iteration.
	Punches int `yaml:"punches" hcl:"punches,optional"`
	// Preload is the number of synthetic redeemed secrets loaded before the
	// lookup suite.
	Preload int `yaml:"preload" hcl:"preload,optional"`
	// Suites selects which suites to run, in order.
	Suites []string `yaml:"suites" hcl:"suites,optional"`
}

// DefaultProfile returns the profile used when none is configured.
func DefaultProfile() Profile {
	return Profile{
		Iterations: 5,
		Punches:    10,
		Preload:    1000,
		Suites:     []string{SuiteRistretto, SuitePairing, SuiteLookup},
	}
}

// LoadProfile reads a profile from a .yaml, .yml or .hcl file. Fields the
// file leaves out keep their default values.
func LoadProfile(fs afero.Fs, path string) (Profile, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	// #nosec G304 - Profile path is provided by user via CLI, using afero abstraction
	f, err := fs.Open(filepath.Clean(path))
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile content: %w", err)
	}

	p := DefaultProfile()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &p); err != nil {
			return Profile{}, fmt.Errorf("failed to parse profile: %w", err)
		}
	case ".hcl":
		// hclsimple picks the syntax from a lower-case suffix
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".hcl"
		if err := hclsimple.Decode(name, data, nil, &p); err != nil {
			return Profile{}, fmt.Errorf("failed to parse profile: %w", err)
		}
	default:
		return Profile{}, fmt.Errorf("unsupported profile format %q", ext)
	}

	if len(p.Suites) == 0 {
		p.Suites = DefaultProfile().Suites
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate reports the first invalid field of p.
func (p Profile) Validate() error {
	if p.Iterations < 1 {
		return fmt.Errorf("invalid profile: iterations must be at least 1, got %d", p.Iterations)
	}
	if p.Punches < 0 || p.Punches > maxPunches {
		return fmt.Errorf("invalid profile: punches must be between 0 and %d, got %d", maxPunches, p.Punches)
	}
	if p.Preload < 0 || p.Preload > maxPreload {
		return fmt.Errorf("invalid profile: preload must be between 0 and %d, got %d", maxPreload, p.Preload)
	}
	if len(p.Suites) == 0 {
		return fmt.Errorf("invalid profile: no suites selected")
	}
	for _, s := range p.Suites {
		switch s {
		case SuiteRistretto, SuitePairing, SuiteLookup:
		default:
			return fmt.Errorf("invalid profile: unknown suite %q", s)
		}
	}
	return nil
}
