package app

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/toozej/punchcard/internal/native"
)

func TestDemo(t *testing.T) {
	var buf bytes.Buffer
	if err := Demo(context.Background(), &buf, 3, ""); err != nil {
		t.Fatalf("Demo() failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"redeem 3 punches: accepted=true",
		"redeem again:      accepted=false",
		"card 1 punched 2 times",
		"card 2 punched 1 times",
		"Redeemed secrets on record: 3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("demo output missing %q:\n%s", want, out)
		}
	}
}

func TestDemo_NegativePunches(t *testing.T) {
	if err := Demo(context.Background(), &bytes.Buffer{}, -1, ""); err == nil {
		t.Error("Demo() should have failed for negative punches")
	}
}

func TestBench(t *testing.T) {
	fs := afero.NewMemMapFs()
	profile := "iterations: 1\npunches: 1\nsuites: [ristretto]\n"
	if err := afero.WriteFile(fs, "/p.yaml", []byte(profile), 0644); err != nil {
		t.Fatalf("failed to write profile: %v", err)
	}
	opts := native.Options{ProfilePath: "/p.yaml"}

	var buf bytes.Buffer
	if err := Bench(context.Background(), fs, &buf, opts, FormatText, ""); err != nil {
		t.Fatalf("Bench() text failed: %v", err)
	}
	if !strings.Contains(buf.String(), "ristretto/redeem") {
		t.Errorf("text report missing ristretto/redeem:\n%s", buf.String())
	}

	if err := Bench(context.Background(), fs, &buf, opts, FormatYAML, "/reports/out.yaml"); err != nil {
		t.Fatalf("Bench() yaml failed: %v", err)
	}
	data, err := afero.ReadFile(fs, "/reports/out.yaml")
	if err != nil {
		t.Fatalf("report file not written: %v", err)
	}
	if !strings.Contains(string(data), "measurements:") {
		t.Errorf("yaml report missing measurements:\n%s", data)
	}

	if err := Bench(context.Background(), fs, &buf, opts, "xml", ""); err == nil {
		t.Error("Bench() should have failed for unsupported format")
	}

	if err := Bench(context.Background(), fs, &buf, native.Options{ProfilePath: "/missing.yaml"}, FormatText, ""); err == nil {
		t.Error("Bench() should have failed for missing profile")
	}
}
