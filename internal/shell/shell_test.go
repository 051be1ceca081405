package shell

import (
	"bytes"
	"sync/atomic"
	"testing"

	"github.com/spf13/afero"
	"go.uber.org/goleak"

	"github.com/toozej/punchcard/internal/greeting"
)

func TestStart_StubHello(t *testing.T) {
	var field Field
	s := New(greeting.Stub("hello"), &field)

	if got := s.Start(); got != "hello" {
		t.Errorf("Start() = %q, want %q", got, "hello")
	}

	text, set := field.Text()
	if !set {
		t.Fatal("display was never written")
	}
	if text != "hello" {
		t.Errorf("field = %q, want exactly %q", text, "hello")
	}
}

func TestStart_InvokesProviderOnce(t *testing.T) {
	var calls int32
	p := greeting.Func(func() string {
		atomic.AddInt32(&calls, 1)
		return "once"
	})

	var field Field
	s := New(p, &field)
	s.Start()
	s.Start()

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("provider invoked %d times, want 1", n)
	}
	if text, _ := field.Text(); text != "once" {
		t.Errorf("field = %q, want %q", text, "once")
	}
}

func TestStart_FailedNativeShowsPlaceholder(t *testing.T) {
	p := greeting.WithFallback(greeting.SourceFunc(func() (string, error) {
		panic("library failed to load")
	}), "")

	var field Field
	New(p, &field).Start()

	text, set := field.Text()
	if !set || text == "" {
		t.Fatal("display left blank after native failure")
	}
	if text != greeting.DefaultPlaceholder {
		t.Errorf("field = %q, want placeholder %q", text, greeting.DefaultPlaceholder)
	}
}

func TestStartAsync(t *testing.T) {
	defer goleak.VerifyNone(t)

	var field Field
	s := New(greeting.Stub("async hello"), &field)

	got, ok := <-s.StartAsync()
	if !ok {
		t.Fatal("result channel closed without a value")
	}
	if got != "async hello" {
		t.Errorf("StartAsync() = %q, want %q", got, "async hello")
	}
	if text, _ := field.Text(); text != "async hello" {
		t.Errorf("field = %q, want %q", text, "async hello")
	}

	if _, ok := <-s.StartAsync(); !ok {
		t.Error("second StartAsync produced no value")
	}
}

func TestWriterField(t *testing.T) {
	var buf bytes.Buffer
	New(greeting.Stub("hello"), WriterField{W: &buf}).Start()

	if buf.String() != "hello\n" {
		t.Errorf("writer got %q, want %q", buf.String(), "hello\n")
	}
}

func TestFileField(t *testing.T) {
	fs := afero.NewMemMapFs()
	field := FileField{Fs: fs, Path: "/out/field.txt"}

	New(greeting.Stub("hello"), field).Start()

	data, err := afero.ReadFile(fs, "/out/field.txt")
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}
	if string(data) != "hello\n" {
		t.Errorf("file contents = %q, want %q", string(data), "hello\n")
	}
}

func TestFileField_ReadOnlyFs(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	field := FileField{Fs: fs, Path: "/field.txt"}

	if err := field.write("hello"); err == nil {
		t.Error("expected error writing to read-only filesystem")
	}
	// SetText logs instead of failing
	field.SetText("hello")
}
