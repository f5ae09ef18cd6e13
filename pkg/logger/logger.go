package logger

import (
	"fmt"
	"io"
	"os"
	"probe-wizard/config"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const prodStr string = "production"

// Init builds the base logger from config and installs it as the global zerolog logger.
func Init(cfg *config.Config) *zerolog.Logger {
	baseLogger := New(cfg.Env, cfg.ServiceName, os.Stdout)

	log.Logger = *baseLogger

	return baseLogger
}

func New(env, service string, out io.Writer) *zerolog.Logger {

	// Set global level based on environment
	switch env {
	case prodStr:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	var baseLogger zerolog.Logger

	if env == prodStr {
		baseLogger = zerolog.New(out)
	} else {
		baseLogger = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    false,
			PartsOrder: []string{
				"time", "level", "caller", "service", "env", "message", "err",
			},
			FormatLevel: func(i any) string {
				return strings.ToUpper(fmt.Sprintf("[%s]", i))
			},
			FormatCaller: func(caller any) string {
				return fmt.Sprintf("(%s)", caller)
			},
		})
	}

	baseLogger = baseLogger.With().
		Timestamp().
		Str("service", service).
		Str("env", env).
		Logger()

	// caller info only outside production
	if env != prodStr {
		baseLogger = baseLogger.With().Caller().Logger()
	}

	return &baseLogger
}
