// Package greeting provides the native greeting provider consumed by the host shell.
//
// A Provider exposes a single operation, Run, which takes no input and returns
// a human-readable string. The host shell calls it once at startup and shows
// the result verbatim. Native routines that can fail implement Source instead
// and are adapted to a Provider with WithFallback, which substitutes a
// placeholder so that a failure never reaches the display surface.
//
// Example usage:
//
//	import "github.com/toozej/punchcard/internal/greeting"
//
//	func main() {
//		p := greeting.WithFallback(nativeSource, "")
//		fmt.Println(p.Run())
//	}
package greeting

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
)

// DefaultPlaceholder is displayed when a native routine fails and no other
// placeholder was configured.
const DefaultPlaceholder = "punchcard: native routine unavailable"

var (
	// ErrEmptyResult is reported when a source returns an empty string.
	ErrEmptyResult = errors.New("native routine returned empty result")
	// ErrInvalidText is reported when a source returns bytes that are not valid UTF-8.
	ErrInvalidText = errors.New("native routine returned invalid text")
)

// Provider is the capability injected into the startup path.
type Provider interface {
	Run() string
}

// Source is a native routine that may fail.
type Source interface {
	Run() (string, error)
}

// Func adapts an ordinary function to the Provider interface.
type Func func() string

// Run calls f.
func (f Func) Run() string {
	return f()
}

// SourceFunc adapts an ordinary function to the Source interface.
type SourceFunc func() (string, error)

// Run calls f.
func (f SourceFunc) Run() (string, error) {
	return f()
}

// Stub is a Provider that always returns the same text. It stands in for the
// native routine when none is available.
type Stub string

// Run returns the stub text.
func (s Stub) Run() string {
	return string(s)
}

type fallback struct {
	src         Source
	placeholder string
}

// WithFallback returns a Provider that runs src and returns its result. If
// src returns an error, panics, or produces empty or non-UTF-8 text, the fault
// is logged and placeholder is returned instead. An empty placeholder selects
// DefaultPlaceholder.
func WithFallback(src Source, placeholder string) Provider {
	if strings.TrimSpace(placeholder) == "" {
		placeholder = DefaultPlaceholder
	}
	return &fallback{src: src, placeholder: placeholder}
}

// Run implements Provider.
func (f *fallback) Run() string {
	text, err := f.call()
	if err != nil {
		log.WithError(err).Warn("native routine failed, displaying placeholder")
		return f.placeholder
	}
	return text
}

func (f *fallback) call() (text string, err error) {
	if f.src == nil {
		return "", errors.New("native routine not loaded")
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("native routine panicked: %v", r)
		}
	}()

	text, err = f.src.Run()
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", ErrEmptyResult
	}
	if !utf8.ValidString(text) {
		return "", ErrInvalidText
	}
	log.Debugf("native routine returned %d bytes", len(text))
	return text, nil
}
