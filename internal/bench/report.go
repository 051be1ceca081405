package bench

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Measurement is the summary of one timed operation.
type Measurement struct {
	Name    string        `yaml:"name"`
	Samples int           `yaml:"samples"`
	Stats   DurationStats `yaml:"stats"`
}

// Report is the result of a benchmark run.
type Report struct {
	ID           string        `yaml:"id"`
	StartedAt    time.Time     `yaml:"started_at"`
	Elapsed      time.Duration `yaml:"elapsed"`
	Profile      Profile       `yaml:"profile"`
	Measurements []Measurement `yaml:"measurements"`
}

// String renders the report as a fixed-width table.
func (r *Report) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "punchcard benchmark %s\n", r.ID)
	fmt.Fprintf(&b, "iterations=%d punches=%d preload=%d suites=%s\n",
		r.Profile.Iterations, r.Profile.Punches, r.Profile.Preload, strings.Join(r.Profile.Suites, ","))
	fmt.Fprintf(&b, "%-24s %7s %10s %10s %10s %10s %10s\n", "operation", "n", "mean", "median", "p95", "min", "max")
	b.WriteString(strings.Repeat("-", 86))
	b.WriteString("\n")
	for _, m := range r.Measurements {
		fmt.Fprintf(&b, "%-24s %7d %10s %10s %10s %10s %10s\n",
			m.Name, m.Samples,
			round(m.Stats.Mean), round(m.Stats.Median), round(m.Stats.P95),
			round(m.Stats.Min), round(m.Stats.Max))
	}
	fmt.Fprintf(&b, "total %s", round(r.Elapsed))

	return b.String()
}

// YAML renders the report as a YAML document.
func (r *Report) YAML() (string, error) {
	out, err := yaml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	return string(out), nil
}

// Find returns the measurement named name.
func (r *Report) Find(name string) (Measurement, bool) {
	for _, m := range r.Measurements {
		if m.Name == name {
			return m, true
		}
	}
	return Measurement{}, false
}

func round(d time.Duration) string {
	switch {
	case d >= time.Second:
		return d.Round(time.Millisecond).String()
	case d >= time.Millisecond:
		return d.Round(time.Microsecond).String()
	default:
		return d.Round(100 * time.Nanosecond).String()
	}
}
