package cli

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// RunOptions holds the flags shared by every command.
type RunOptions struct {
	LogLevel string
	NoColor  bool
	Out      io.Writer
}

func (o RunOptions) output() io.Writer {
	if o.Out == nil {
		return os.Stdout
	}
	return o.Out
}

func (o RunOptions) termOptions() []termenv.OutputOption {
	if o.NoColor {
		return []termenv.OutputOption{termenv.WithProfile(termenv.Ascii)}
	}
	return nil
}
