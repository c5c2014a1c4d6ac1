package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/kochabonline/tgkit/core/reflect"
)

// 日志轮转模式
type RotateMode int

const (
	RotateModeTime RotateMode = iota
	RotateModeSize
)

type Config struct {
	Level            string           `json:"level" mapstructure:"level" default:"info"`
	RotateMode       RotateMode       `json:"rotate_mode" mapstructure:"rotate_mode"`
	Filepath         string           `json:"filepath" mapstructure:"filepath" default:"log"`
	Filename         string           `json:"filename" mapstructure:"filename" default:"tgctl"`
	FileExt          string           `json:"file_ext" mapstructure:"file_ext" default:"log"`
	RotatelogsConfig RotatelogsConfig `json:"rotatelogs" mapstructure:"rotatelogs"`
	LumberjackConfig LumberjackConfig `json:"lumberjack" mapstructure:"lumberjack"`
	Mask             MaskConfig       `json:"mask" mapstructure:"mask"`
}

type RotatelogsConfig struct {
	MaxAge       int `json:"max_age" mapstructure:"max_age" default:"24"`
	RotationTime int `json:"rotation_time" mapstructure:"rotation_time" default:"1"`
}

type LumberjackConfig struct {
	MaxSize    int  `json:"max_size" mapstructure:"max_size" default:"100"`
	MaxBackups int  `json:"max_backups" mapstructure:"max_backups" default:"5"`
	MaxAge     int  `json:"max_age" mapstructure:"max_age" default:"30"`
	Compress   bool `json:"compress" mapstructure:"compress"`
}

type Logger struct {
	zerolog.Logger
	desensitizer *Desensitizer
}

type Option func(*Logger)

// WithCaller 设置调用栈信息
func WithCaller() Option {
	return func(l *Logger) {
		l.Logger = l.Logger.With().Caller().Logger()
	}
}

// WithLevel 设置日志级别
func WithLevel(level zerolog.Level) Option {
	return func(l *Logger) {
		l.Logger = l.Logger.Level(level)
	}
}

// WithDesensitize 替换默认的 bot token 脱敏规则, nil 表示不脱敏
func WithDesensitize(d *Desensitizer) Option {
	return func(l *Logger) {
		l.desensitizer = d
	}
}

func (l *Logger) GetDesensitizer() *Desensitizer {
	return l.desensitizer
}

func init() {
	zerolog.TimeFieldFormat = time.DateTime
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
}

// ParseLevel parses a level name, falling back to info for unknown names.
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// build wires the writer through the desensitizer and applies opts.
// Options run twice: once to pick up the desensitizer, once on the rebuilt logger.
func build(writer io.Writer, opts ...Option) *Logger {
	l := &Logger{desensitizer: DefaultDesensitizer()}
	for _, opt := range opts {
		opt(l)
	}

	if l.desensitizer != nil {
		writer = NewDesensitizeWriter(writer, l.desensitizer)
	}
	l.Logger = zerolog.New(writer).With().Timestamp().Logger()

	for _, opt := range opts {
		opt(l)
	}
	return l
}

// New 创建新的Logger实例，输出到控制台
func New(opts ...Option) *Logger {
	return build(consoleWriter(os.Stderr), opts...)
}

// NewWithWriter 创建输出到指定writer的Logger, 输出为JSON
func NewWithWriter(w io.Writer, opts ...Option) *Logger {
	return build(w, opts...)
}

// NewFile 创建文件输出的Logger
func NewFile(c Config, opts ...Option) *Logger {
	return build(newFallbackWriter(c), opts...)
}

// NewMulti 创建同时输出到文件和控制台的Logger
func NewMulti(c Config, opts ...Option) *Logger {
	return build(zerolog.MultiLevelWriter(newFallbackWriter(c), consoleWriter(os.Stderr)), opts...)
}

// newFallbackWriter 文件writer创建失败时回退到控制台
func newFallbackWriter(config Config) io.Writer {
	if err := reflect.SetDefaultTag(&config); err != nil {
		return consoleWriter(os.Stderr)
	}

	writer, err := rotateWriter(config)
	if err != nil {
		return consoleWriter(os.Stderr)
	}

	return writer
}

func (c *Config) fileFullPath() string {
	return c.fileFullPathWithFormat("")
}

func (c *Config) fileFullPathWithFormat(format string) string {
	var builder strings.Builder
	builder.Grow(len(c.Filename) + len(format) + len(c.FileExt) + 3)

	builder.WriteString(c.Filename)
	if format != "" {
		builder.WriteByte('.')
		builder.WriteString(format)
	}
	builder.WriteByte('.')
	builder.WriteString(c.FileExt)

	return filepath.Join(c.Filepath, builder.String())
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	output := zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime}
	output.FormatLevel = func(i any) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	return output
}

func rotateWriter(config Config) (io.Writer, error) {
	switch config.RotateMode {
	case RotateModeTime:
		return timeRotateWriter(config)
	case RotateModeSize:
		return sizeRotateWriter(config), nil
	default:
		return nil, fmt.Errorf("unsupported rotate mode: %d", config.RotateMode)
	}
}

func timeRotateWriter(config Config) (io.Writer, error) {
	writer, err := rotatelogs.New(
		config.fileFullPathWithFormat("%Y%m%d%H%M"),
		rotatelogs.WithLinkName(config.fileFullPath()),
		rotatelogs.WithMaxAge(time.Duration(config.RotatelogsConfig.MaxAge)*time.Hour),
		rotatelogs.WithRotationTime(time.Duration(config.RotatelogsConfig.RotationTime)*time.Hour),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create time rotate writer: %w", err)
	}
	return writer, nil
}

func sizeRotateWriter(config Config) io.Writer {
	return &lumberjack.Logger{
		Filename:   config.fileFullPath(),
		MaxSize:    config.LumberjackConfig.MaxSize,
		MaxBackups: config.LumberjackConfig.MaxBackups,
		MaxAge:     config.LumberjackConfig.MaxAge,
		Compress:   config.LumberjackConfig.Compress,
	}
}
