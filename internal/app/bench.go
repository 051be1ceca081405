package app

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/toozej/punchcard/internal/native"
	"github.com/toozej/punchcard/internal/shell"
)

// Output formats accepted by Bench.
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

// Bench implements the bench command logic. Unlike the startup path, a
// failure is returned to the caller instead of being replaced by a
// placeholder. The report goes to w, or to outputPath when it is set.
func Bench(ctx context.Context, fs afero.Fs, w io.Writer, opts native.Options, format, outputPath string) error {
	if format != FormatText && format != FormatYAML {
		return fmt.Errorf("unsupported format %q (want %s or %s)", format, FormatText, FormatYAML)
	}

	opts.Fs = fs
	report, err := native.NewBenchmark(opts).Report(ctx)
	if err != nil {
		return fmt.Errorf("benchmark failed: %w", err)
	}

	text := report.String()
	if format == FormatYAML {
		if text, err = report.YAML(); err != nil {
			return err
		}
	}

	var display shell.Display = shell.WriterField{W: w}
	if outputPath != "" {
		display = shell.FileField{Fs: fs, Path: outputPath}
	}
	display.SetText(text)
	return nil
}
