package core

import "github.com/rs/zerolog"

type Log interface {
	Info() *zerolog.Event
	Debug() *zerolog.Event
	Warn() *zerolog.Event
	Error() *zerolog.Event
}

// NopLog discards all events. Used by tests and callers that do not care.
func NopLog() Log {
	return logWrapper{zerolog.Nop()}
}

func NewLog(logger zerolog.Logger) Log {
	return logWrapper{logger}
}

type logWrapper struct {
	logger zerolog.Logger
}

func (l logWrapper) Info() *zerolog.Event  { return l.logger.Info() }
func (l logWrapper) Debug() *zerolog.Event { return l.logger.Debug() }
func (l logWrapper) Warn() *zerolog.Event  { return l.logger.Warn() }
func (l logWrapper) Error() *zerolog.Event { return l.logger.Error() }
