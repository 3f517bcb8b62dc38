package inference

import (
	"log/slog"
)

var logger = slog.New(slog.DiscardHandler)

// SetLogger routes inference trace output to l. Passing nil silences it.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	logger = l.With("section", "inference")
}
