package shell

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Display is the surface the startup result is written to.
type Display interface {
	SetText(text string)
}

// Field is an in-memory display surface. The zero value is ready to use.
type Field struct {
	mu   sync.Mutex
	text string
	set  bool
}

// SetText replaces the field contents.
func (f *Field) SetText(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text = text
	f.set = true
}

// Text returns the current contents and whether SetText was ever called.
func (f *Field) Text() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.text, f.set
}

// WriterField writes each text it receives, followed by a newline, to W.
type WriterField struct {
	W io.Writer
}

// SetText implements Display.
func (w WriterField) SetText(text string) {
	if _, err := fmt.Fprintln(w.W, text); err != nil {
		log.WithError(err).Error("failed to write to display")
	}
}

// FileField writes the text to a file, replacing previous contents.
type FileField struct {
	Fs   afero.Fs
	Path string
}

// SetText implements Display.
func (f FileField) SetText(text string) {
	if err := f.write(text); err != nil {
		log.WithError(err).WithField("path", f.Path).Error("failed to write to display file")
	}
}

func (f FileField) write(text string) error {
	fs := f.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	path := filepath.Clean(f.Path)
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := afero.WriteFile(fs, path, []byte(text+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
