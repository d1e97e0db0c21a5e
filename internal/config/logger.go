package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
)

type stackTracer interface{ StackTrace() pkgerrors.StackTrace }

// InitLogger configures zerolog for text-based output on stderr with no
// coloring. Call sites should use .Stack() on error events to include stacks.
func InitLogger() {
	InitLoggerTo(os.Stderr)
}

// InitLoggerTo is InitLogger with an explicit writer. The MCP stdio server
// uses it to keep stdout free for the protocol.
func InitLoggerTo(w io.Writer) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.ErrorStackMarshaler = func(err error) interface{} {
		if _, ok := err.(stackTracer); !ok {
			err = pkgerrors.WithStack(err)
		}
		return zpkgerrors.MarshalStack(err)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	})
}

// SetLogLevel sets the global log level for zerolog.
func SetLogLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

// ParseLevel accepts debug, info, warn and error in any case.
func ParseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}
