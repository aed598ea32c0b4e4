package logging

import (
	"log/slog"
	"os"
)

// Setup installs the global slog logger with JSON output to stdout. Called
// before the database is up; main swaps in the Postgres fan-out handler
// once a connection exists.
func Setup() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}
