// Package logging builds the zap loggers used by predictkit.
package logging

import (
	"fmt"
	"strings"
	"sync"

	"github.com/apex-x/predictkit/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	registerOnce sync.Once
	registerErr  error
)

func registerSinks() error {
	registerOnce.Do(func() {
		registerErr = zap.RegisterSink(zstdScheme, newCompressedSink)
	})
	return registerErr
}

// New builds a logger for cfg. The returned close function flushes the
// logger and releases its output; it must be called before exit so that
// zstd outputs are finalized.
func New(cfg config.Log) (*zap.Logger, func(), error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	encoder, err := buildEncoder(cfg.Format)
	if err != nil {
		return nil, nil, err
	}

	output := strings.TrimSpace(cfg.Output)
	switch output {
	case "", "stderr":
		output = "stderr"
	case "discard", "none":
		return zap.NewNop(), func() {}, nil
	}
	if strings.HasPrefix(output, zstdScheme+"://") {
		if err := registerSinks(); err != nil {
			return nil, nil, fmt.Errorf("failed to register %s sink: %w", zstdScheme, err)
		}
	}

	sink, closeSink, err := zap.Open(output)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log output %q: %w", output, err)
	}
	errorSink, closeErrorSink, err := zap.Open("stderr")
	if err != nil {
		closeSink()
		return nil, nil, fmt.Errorf("failed to open error output: %w", err)
	}

	logger := zap.New(
		zapcore.NewCore(encoder, sink, level),
		zap.ErrorOutput(errorSink),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	closeFn := func() {
		_ = logger.Sync()
		closeSink()
		closeErrorSink()
	}
	return logger, closeFn, nil
}

func parseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info", "":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unsupported log level %q", level)
	}
}

func buildEncoder(format string) (zapcore.Encoder, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "":
		encoderConfig := zap.NewProductionEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewJSONEncoder(encoderConfig), nil
	case "console":
		return zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()), nil
	default:
		return nil, fmt.Errorf("unsupported log format %q", format)
	}
}
