package log

import (
	"github.com/rs/zerolog"
)

var (
	L *Logger
)

func init() {
	L = New(WithLevel(zerolog.InfoLevel))
}

// SetGlobalLogger 设置全局日志记录器
func SetGlobalLogger(logger *Logger) {
	L = logger
}

// SetGlobalLevel 设置全局日志级别
func SetGlobalLevel(level zerolog.Level) {
	L.Logger = L.Logger.Level(level)
}

func Debug() *zerolog.Event {
	return L.Debug()
}

func Info() *zerolog.Event {
	return L.Info()
}

func Warn() *zerolog.Event {
	return L.Warn()
}

func Error() *zerolog.Event {
	return L.Error().Stack()
}

func Fatal() *zerolog.Event {
	return L.Fatal().Stack()
}

func Debugf(format string, args ...any) {
	L.Debug().Msgf(format, args...)
}

func Infof(format string, args ...any) {
	L.Info().Msgf(format, args...)
}

func Warnf(format string, args ...any) {
	L.Warn().Msgf(format, args...)
}

func Errorf(format string, args ...any) {
	L.Error().Stack().Msgf(format, args...)
}

func Fatalf(format string, args ...any) {
	L.Fatal().Stack().Msgf(format, args...)
}
