// Package logging builds the zap logger used by the server and the CLI.
//
// Stdout carries the JSON-RPC stream, so log lines always go to stderr,
// plus a rotated file when one is configured.
package logging

import (
	"io"
	"os"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ironsheep/image-filter-mcp/internal/config"
)

// New returns a logger writing to stderr and, if cfg.LogFile is set, to a
// rotated file.
func New(cfg config.Config) (*zap.Logger, error) {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter is New with the console destination replaced by w.
func NewWithWriter(cfg config.Config, w io.Writer) (*zap.Logger, error) {
	level := new(zapcore.Level)
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, err
	}

	console := zapcore.NewCore(encoder(cfg.Development()), zapcore.Lock(zapcore.AddSync(w)), level)
	core := console
	if cfg.LogFile != "" {
		file := zapcore.NewCore(encoder(false), fileWriter(cfg.LogFile), level)
		core = zapcore.NewTee(console, file)
	}
	return zap.New(core, zap.AddCaller()), nil
}

func encoder(development bool) zapcore.Encoder {
	if development {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		ec.EncodeCaller = zapcore.ShortCallerEncoder
		return zapcore.NewConsoleEncoder(ec)
	}
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.TimeKey = "time"
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	ec.EncodeDuration = zapcore.SecondsDurationEncoder
	ec.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewJSONEncoder(ec)
}

func fileWriter(filename string) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   filename,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     7,
		LocalTime:  true,
	})
}
