package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger configures the global zerolog logger. Logs go to stderr unless
// logFile is set, in which case the returned closer must be closed on exit.
func InitLogger(debug bool, logFile string) (io.Closer, error) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if logFile == "" {
		SetLogOutput(os.Stderr, true)
		return io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		SetLogOutput(os.Stderr, true)
		return io.NopCloser(nil), fmt.Errorf("error opening log file: %w", err)
	}
	SetLogOutput(f, false)
	return f, nil
}

// SetLogOutput points the global logger at w.
func SetLogOutput(w io.Writer, color bool) {
	writer := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.DateTime,
		NoColor:    !color,
	}
	log.Logger = zerolog.New(writer).With().Timestamp().Logger()
}
