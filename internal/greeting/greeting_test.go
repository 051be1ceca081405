package greeting

import (
	"errors"
	"testing"
)

func TestStub(t *testing.T) {
	p := Stub("hello")
	if got := p.Run(); got != "hello" {
		t.Errorf("Stub.Run() = %q, want %q", got, "hello")
	}
	// Calling twice in the same process must not crash.
	if got := p.Run(); got != "hello" {
		t.Errorf("second Stub.Run() = %q, want %q", got, "hello")
	}
}

func TestFunc(t *testing.T) {
	calls := 0
	p := Func(func() string {
		calls++
		return "from func"
	})
	if got := p.Run(); got != "from func" {
		t.Errorf("Func.Run() = %q, want %q", got, "from func")
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestWithFallback(t *testing.T) {
	tests := []struct {
		name        string
		src         Source
		placeholder string
		want        string
	}{
		{
			name: "success passes text through",
			src:  SourceFunc(func() (string, error) { return "setup 1.2ms", nil }),
			want: "setup 1.2ms",
		},
		{
			name: "error uses default placeholder",
			src:  SourceFunc(func() (string, error) { return "", errors.New("dlopen failed") }),
			want: DefaultPlaceholder,
		},
		{
			name:        "error uses configured placeholder",
			src:         SourceFunc(func() (string, error) { return "partial", errors.New("boom") }),
			placeholder: "unavailable",
			want:        "unavailable",
		},
		{
			name: "panic is recovered",
			src:  SourceFunc(func() (string, error) { panic("native fault") }),
			want: DefaultPlaceholder,
		},
		{
			name: "empty result",
			src:  SourceFunc(func() (string, error) { return "", nil }),
			want: DefaultPlaceholder,
		},
		{
			name: "invalid utf8",
			src:  SourceFunc(func() (string, error) { return string([]byte{0xff, 0xfe}), nil }),
			want: DefaultPlaceholder,
		},
		{
			name: "missing source",
			src:  nil,
			want: DefaultPlaceholder,
		},
		{
			name:        "blank placeholder falls back to default",
			src:         SourceFunc(func() (string, error) { return "", errors.New("boom") }),
			placeholder: "   ",
			want:        DefaultPlaceholder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := WithFallback(tt.src, tt.placeholder)
			if got := p.Run(); got != tt.want {
				t.Errorf("Run() = %q, want %q", got, tt.want)
			}
			// idempotent in the sense of not crashing
			_ = p.Run()
		})
	}
}

func TestFallbackCall_Errors(t *testing.T) {
	f := &fallback{src: SourceFunc(func() (string, error) { return "", nil })}
	if _, err := f.call(); !errors.Is(err, ErrEmptyResult) {
		t.Errorf("expected ErrEmptyResult, got %v", err)
	}

	f = &fallback{src: SourceFunc(func() (string, error) { return "\xc3\x28", nil })}
	if _, err := f.call(); !errors.Is(err, ErrInvalidText) {
		t.Errorf("expected ErrInvalidText, got %v", err)
	}
}
