package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/modelo"
	"github.com/aretw0/modelo/internal/logging"
	"github.com/aretw0/modelo/pkg/registry"
)

// createLogger configures the application logger.
// It writes to Stderr to keep stdout for command output.
func createLogger(level string) (*slog.Logger, error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.New(lvl), nil
}

// createRuntime builds a runtime whose registry holds the builtin factories
// plus any extra functions.
func createRuntime(opts RunOptions, extra func(*registry.Registry)) (*modelo.Runtime, error) {
	logger, err := createLogger(opts.LogLevel)
	if err != nil {
		return nil, err
	}
	reg := registry.Builtins()
	if extra != nil {
		extra(reg)
	}
	rt, err := modelo.New(modelo.WithLogger(logger), modelo.WithRegistry(reg))
	if err != nil {
		return nil, fmt.Errorf("error initializing runtime: %w", err)
	}
	return rt, nil
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}
