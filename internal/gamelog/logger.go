// Package gamelog is the structured logging boundary of the rules engine.
//
// Every record carries a "channel" field so consumers can separate the game
// transcript (action, effect) from engine diagnostics (debug, warn, error).
package gamelog

import (
	"go.uber.org/zap"
)

// Channel names attached to every record.
const (
	ChannelInfo   = "info"
	ChannelAction = "action"
	ChannelEffect = "effect"
	ChannelDebug  = "debug"
	ChannelWarn   = "warn"
	ChannelError  = "error"
)

// Logger receives structured engine output.
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Action(msg string, fields ...zap.Field)
	Effect(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	With(fields ...zap.Field) Logger
}

type zapLogger struct {
	base *zap.Logger
}

// New wraps a zap logger. A nil logger falls back to zap.NewNop().
func New(logger *zap.Logger) Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &zapLogger{base: logger}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return New(nil)
}

func (l *zapLogger) Info(msg string, fields ...zap.Field) {
	l.base.Info(msg, withChannel(ChannelInfo, fields)...)
}

func (l *zapLogger) Action(msg string, fields ...zap.Field) {
	l.base.Info(msg, withChannel(ChannelAction, fields)...)
}

func (l *zapLogger) Effect(msg string, fields ...zap.Field) {
	l.base.Info(msg, withChannel(ChannelEffect, fields)...)
}

func (l *zapLogger) Debug(msg string, fields ...zap.Field) {
	l.base.Debug(msg, withChannel(ChannelDebug, fields)...)
}

func (l *zapLogger) Warn(msg string, fields ...zap.Field) {
	l.base.Warn(msg, withChannel(ChannelWarn, fields)...)
}

func (l *zapLogger) Error(msg string, fields ...zap.Field) {
	l.base.Error(msg, withChannel(ChannelError, fields)...)
}

func (l *zapLogger) With(fields ...zap.Field) Logger {
	return &zapLogger{base: l.base.With(fields...)}
}

func withChannel(channel string, fields []zap.Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields)+1)
	out = append(out, zap.String("channel", channel))
	return append(out, fields...)
}
