package native

import (
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/toozej/punchcard/internal/greeting"
	"github.com/toozej/punchcard/internal/shell"
)

func writeProfile(t *testing.T, fs afero.Fs, name, content string) {
	t.Helper()
	if err := afero.WriteFile(fs, name, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write profile: %v", err)
	}
}

func TestBenchmark_Run(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeProfile(t, fs, "/small.yaml", "iterations: 1\npunches: 1\nsuites: [ristretto]\n")

	text, err := NewBenchmark(Options{Fs: fs, ProfilePath: "/small.yaml"}).Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(text, "ristretto/punch") {
		t.Errorf("expected report to mention ristretto/punch, got:\n%s", text)
	}
	if strings.Contains(text, "pairing/") {
		t.Errorf("pairing suite ran although not selected:\n%s", text)
	}
}

func TestBenchmark_MissingProfile(t *testing.T) {
	_, err := NewBenchmark(Options{Fs: afero.NewMemMapFs(), ProfilePath: "/missing.yaml"}).Run()
	if err == nil {
		t.Error("expected error for missing profile")
	}
}

func TestNew_FallsBackToPlaceholder(t *testing.T) {
	p := New(Options{Fs: afero.NewMemMapFs(), ProfilePath: "/missing.yaml", Placeholder: "no native"})

	var field shell.Field
	shell.New(p, &field).Start()

	text, _ := field.Text()
	if text != "no native" {
		t.Errorf("field = %q, want %q", text, "no native")
	}
}

func TestNew_DefaultPlaceholder(t *testing.T) {
	p := New(Options{Fs: afero.NewMemMapFs(), ProfilePath: "/bad.json"})
	if got := p.Run(); got != greeting.DefaultPlaceholder {
		t.Errorf("Run() = %q, want %q", got, greeting.DefaultPlaceholder)
	}
}

func TestNew_SQLiteStore(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeProfile(t, fs, "/lookup.hcl", "iterations = 1\npreload = 5\nsuites = [\"lookup\"]\n")

	p := New(Options{Fs: fs, ProfilePath: "/lookup.hcl", StoreDSN: ":memory:"})
	text := p.Run()
	if !strings.Contains(text, "lookup/contains") {
		t.Errorf("expected lookup measurements, got:\n%s", text)
	}
}
