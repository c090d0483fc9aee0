package helpers

import (
	"log/slog"
	"os"
)

// SetupLogger returns the handler to hand down to child components and a
// logger grouped under component. A nil handler is replaced with a text
// handler on stdout, grouped under machine, and a warning is logged once.
func SetupLogger(handler slog.Handler, machine string, component string) (slog.Handler, *slog.Logger) {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stdout, nil).WithGroup(machine)
		slog.New(handler).Warn("Handler is nil, using the default logger configuration.")
	}

	if component == "" {
		return handler, slog.New(handler)
	}
	return handler, slog.New(handler.WithGroup(component))
}
