package main

import "testing"

func TestRunNative_Stub(t *testing.T) {
	t.Setenv("PUNCHCARD_STUB", "hello")

	if got := runNative(); got != "hello" {
		t.Errorf("runNative() = %q, want %q", got, "hello")
	}
	// the provider is resolved once per process
	t.Setenv("PUNCHCARD_STUB", "changed")
	if got := runNative(); got != "hello" {
		t.Errorf("second runNative() = %q, want %q", got, "hello")
	}
}
