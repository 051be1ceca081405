// Package shell is the host side of the application: on an external startup
// trigger it invokes the greeting provider once and writes the returned text
// verbatim into a display surface.
package shell

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/toozej/punchcard/internal/greeting"
)

// Shell binds a provider to a display surface.
type Shell struct {
	provider greeting.Provider
	display  Display

	once sync.Once
	text string
}

// New returns a Shell that shows p's result on d.
func New(p greeting.Provider, d Display) *Shell {
	return &Shell{provider: p, display: d}
}

// Start invokes the provider and displays its result. The provider runs at
// most once per Shell; later calls redisplay the first result.
func (s *Shell) Start() string {
	s.once.Do(func() {
		log.Debug("startup trigger received, invoking provider")
		s.text = s.provider.Run()
	})
	s.display.SetText(s.text)
	return s.text
}

// StartAsync runs Start on a separate goroutine so the caller is not blocked
// by the provider. The returned channel yields the displayed text once and is
// then closed.
func (s *Shell) StartAsync() <-chan string {
	out := make(chan string, 1)
	go func() {
		defer close(out)
		out <- s.Start()
	}()
	return out
}
