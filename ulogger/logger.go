// Package ulogger provides the structured logging interface used
// throughout the consensus core, backed by zerolog.
package ulogger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the minimal surface every package in this module depends
// on. Kept narrow so callers can supply any backing implementation
// (zerolog, gocore, or a test double) without pulling in the concrete
// type.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

// ZLogger wraps a zerolog.Logger and tags every line with the owning
// service/component name.
type ZLogger struct {
	zerolog.Logger
	service string
}

// New builds a pretty-printed console logger for service, honoring an
// optional level ("debug", "info", "warn", "error", "fatal").
func New(service string, level ...string) *ZLogger {
	if service == "" {
		service = "consensus"
	}

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	output.FormatMessage = func(i interface{}) string {
		return "| " + service + "| " + fmtMsg(i)
	}

	z := &ZLogger{
		Logger: zerolog.New(output).With().
			Timestamp().
			Logger(),
		service: service,
	}

	if len(level) > 0 {
		z.setLevel(level[0])
	}

	return z
}

func fmtMsg(i interface{}) string {
	s, _ := i.(string)
	return s
}

func (z *ZLogger) setLevel(level string) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		z.Logger = z.Logger.Level(zerolog.DebugLevel)
	case "INFO":
		z.Logger = z.Logger.Level(zerolog.InfoLevel)
	case "WARN":
		z.Logger = z.Logger.Level(zerolog.WarnLevel)
	case "ERROR":
		z.Logger = z.Logger.Level(zerolog.ErrorLevel)
	case "FATAL":
		z.Logger = z.Logger.Level(zerolog.FatalLevel)
	default:
		z.Logger = z.Logger.Level(zerolog.InfoLevel)
	}
}

func (z *ZLogger) Debugf(format string, args ...interface{}) { z.Logger.Debug().Msgf(format, args...) }
func (z *ZLogger) Infof(format string, args ...interface{})  { z.Logger.Info().Msgf(format, args...) }
func (z *ZLogger) Warnf(format string, args ...interface{})  { z.Logger.Warn().Msgf(format, args...) }
func (z *ZLogger) Errorf(format string, args ...interface{}) { z.Logger.Error().Msgf(format, args...) }
func (z *ZLogger) Fatalf(format string, args ...interface{}) { z.Logger.Fatal().Msgf(format, args...) }
