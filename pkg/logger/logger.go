package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"vkbackup/pkg/config"
)

// Version is stamped on every log line
var Version = "1.0.0"

// Logger is the structured logger handed to every component
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)

	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger
	WithContext(ctx context.Context) Logger

	DebugWithFields(msg string, fields map[string]interface{})
	InfoWithFields(msg string, fields map[string]interface{})
	WarnWithFields(msg string, fields map[string]interface{})
	ErrorWithFields(msg string, fields map[string]interface{})

	GetZerolog() *zerolog.Logger
}

// levels accepted in logging.level; an empty value means info
var levels = map[string]zerolog.Level{
	"":         zerolog.InfoLevel,
	"debug":    zerolog.DebugLevel,
	"info":     zerolog.InfoLevel,
	"warn":     zerolog.WarnLevel,
	"warning":  zerolog.WarnLevel,
	"error":    zerolog.ErrorLevel,
	"disabled": zerolog.Disabled,
}

// levelTags are the coloured four-letter tags of the console format
var levelTags = map[string]string{
	zerolog.LevelDebugValue: "\033[37mDEBG\033[0m",
	zerolog.LevelInfoValue:  "\033[32mINFO\033[0m",
	zerolog.LevelWarnValue:  "\033[33mWARN\033[0m",
	zerolog.LevelErrorValue: "\033[31mERRO\033[0m",
}

// zlog wraps a zerolog child logger; fields live in the zerolog context
type zlog struct {
	zl zerolog.Logger
}

// New builds a Logger that writes to stdout
func New(cfg *config.LoggingConfig) (Logger, error) {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter builds a Logger writing to out: human-readable by default,
// JSON lines with logging.format=json. logging.file adds a JSON copy.
func NewWithWriter(cfg *config.LoggingConfig, out io.Writer) (Logger, error) {
	level, err := parseLogLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	sink, err := buildSink(cfg, out)
	if err != nil {
		return nil, err
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zl := zerolog.New(sink).Level(level).With().
		Timestamp().
		Str("app", "vkbackup").
		Str("version", Version).
		Logger()

	return &zlog{zl: zl}, nil
}

func buildSink(cfg *config.LoggingConfig, out io.Writer) (io.Writer, error) {
	console := out
	if !strings.EqualFold(cfg.Format, "json") {
		console = consoleWriter(out)
	}
	if cfg.File == "" {
		return console, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return zerolog.MultiLevelWriter(console, file), nil
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	w := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = out
		w.TimeFormat = "15:04:05"
	})
	w.FormatLevel = func(i interface{}) string {
		name, _ := i.(string)
		if tag, ok := levelTags[name]; ok {
			return tag
		}
		return strings.ToUpper(name)
	}
	w.FormatMessage = func(i interface{}) string {
		if i == nil {
			return ""
		}
		return fmt.Sprintf("| %s", i)
	}
	w.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("\033[36m%s\033[0m:", i)
	}
	return w
}

func parseLogLevel(name string) (zerolog.Level, error) {
	if level, ok := levels[strings.ToLower(name)]; ok {
		return level, nil
	}
	return zerolog.InfoLevel, fmt.Errorf("unknown log level: %s", name)
}

func (l *zlog) Debug(msg string) { l.zl.Debug().Msg(msg) }
func (l *zlog) Info(msg string)  { l.zl.Info().Msg(msg) }
func (l *zlog) Warn(msg string)  { l.zl.Warn().Msg(msg) }
func (l *zlog) Error(msg string) { l.zl.Error().Msg(msg) }

func (l *zlog) WithField(key string, value interface{}) Logger {
	return &zlog{zl: l.zl.With().Interface(key, value).Logger()}
}

func (l *zlog) WithFields(fields map[string]interface{}) Logger {
	return &zlog{zl: l.zl.With().Fields(fields).Logger()}
}

// WithError attaches err under "error"; a nil error returns l unchanged
func (l *zlog) WithError(err error) Logger {
	if err == nil {
		return l
	}
	return &zlog{zl: l.zl.With().Err(err).Logger()}
}

func (l *zlog) WithContext(ctx context.Context) Logger {
	return &zlog{zl: l.zl.With().Ctx(ctx).Logger()}
}

func (l *zlog) DebugWithFields(msg string, fields map[string]interface{}) {
	l.zl.Debug().Fields(fields).Msg(msg)
}

func (l *zlog) InfoWithFields(msg string, fields map[string]interface{}) {
	l.zl.Info().Fields(fields).Msg(msg)
}

func (l *zlog) WarnWithFields(msg string, fields map[string]interface{}) {
	l.zl.Warn().Fields(fields).Msg(msg)
}

func (l *zlog) ErrorWithFields(msg string, fields map[string]interface{}) {
	l.zl.Error().Fields(fields).Msg(msg)
}

func (l *zlog) GetZerolog() *zerolog.Logger {
	return &l.zl
}

var globalLogger Logger

// Initialize builds the process-wide logger from cfg and mirrors it into
// zerolog's global log.Logger
func Initialize(cfg *config.LoggingConfig) error {
	l, err := New(cfg)
	if err != nil {
		return err
	}
	SetLogger(l)
	log.Logger = *l.GetZerolog()
	return nil
}

// GetLogger returns the process-wide logger, an info-level one if none was set
func GetLogger() Logger {
	if globalLogger == nil {
		globalLogger, _ = New(&config.LoggingConfig{Level: "info"})
	}
	return globalLogger
}

// SetLogger replaces the process-wide logger
func SetLogger(l Logger) {
	globalLogger = l
}
