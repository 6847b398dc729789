package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/peplab/internal/logging"
)

// NewLogger configures the application logger on stderr.
// Debug wins over the configured level.
func NewLogger(debug bool, level string) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.New(logging.ParseLevel(level))
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}
