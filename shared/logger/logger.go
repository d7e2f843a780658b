package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger: JSON in release mode, a console writer
// with debug level otherwise.
func New(release bool) zerolog.Logger {
	if release {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).With().Timestamp().Logger()
}
