package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Field is a structured key/value pair attached to a log entry.
type Field = zap.Field

// Logger is the minimal surface the engine and strategies log through.
type Logger interface {
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

func String(key, val string) Field                { return zap.String(key, val) }
func Int(key string, val int) Field               { return zap.Int(key, val) }
func Float64(key string, val float64) Field       { return zap.Float64(key, val) }
func Bool(key string, val bool) Field             { return zap.Bool(key, val) }
func Err(err error) Field                         { return zap.Error(err) }
func Stringer(key string, val fmt.Stringer) Field { return zap.Stringer(key, val) }

// zapLogger implements Logger on top of a plain zap.Logger.
type zapLogger struct {
	z *zap.Logger
}

func (l *zapLogger) Info(msg string, fields ...Field)  { l.z.Info(msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...Field)  { l.z.Warn(msg, fields...) }
func (l *zapLogger) Error(msg string, fields ...Field) { l.z.Error(msg, fields...) }

// NewZapLogger creates a production‑ready logger (JSON encoding, level INFO).
func NewZapLogger() (Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &zapLogger{z: z}, nil
}

// FileConfig describes a rotating log file.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// NewFileLogger writes JSON entries to a lumberjack-rotated file in addition
// to stderr.
func NewFileLogger(fc FileConfig) (Logger, error) {
	if fc.Path == "" {
		return nil, fmt.Errorf("logger: empty file path")
	}
	if fc.MaxSizeMB <= 0 {
		fc.MaxSizeMB = 100
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	enc := zapcore.NewJSONEncoder(encCfg)

	rotator := &lumberjack.Logger{
		Filename:   fc.Path,
		MaxSize:    fc.MaxSizeMB,
		MaxBackups: fc.MaxBackups,
		MaxAge:     fc.MaxAgeDays,
		Compress:   true,
	}
	core := zapcore.NewTee(
		zapcore.NewCore(enc, zapcore.AddSync(rotator), zap.InfoLevel),
		zapcore.NewCore(enc, zapcore.Lock(os.Stderr), zap.InfoLevel),
	)
	return &zapLogger{z: zap.New(core)}, nil
}

// NewNop discards everything.
func NewNop() Logger { return &zapLogger{z: zap.NewNop()} }
