package main

import (
	"context"
	"fmt"
	"time"

	"github.com/zoobzio/capitan"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/zoobzio/sieve"
)

// newLogger builds a zap logger writing to stderr, leaving stdout for the
// final report.
func newLogger(level string, development bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	encoding := "json"
	encoderCfg := zap.NewProductionEncoderConfig()
	if development {
		encoding = "console"
		encoderCfg = zap.NewDevelopmentEncoderConfig()
	}
	encoderCfg.TimeKey = "time"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(lvl),
		Development:       development,
		Encoding:          encoding,
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: !development,
	}
	return cfg.Build()
}

type extractor func(*capitan.Event) (zap.Field, bool)

func stringField(name string, from func(*capitan.Event) (string, bool)) extractor {
	return func(e *capitan.Event) (zap.Field, bool) {
		v, ok := from(e)
		return zap.String(name, v), ok
	}
}

func intField(name string, from func(*capitan.Event) (int, bool)) extractor {
	return func(e *capitan.Event) (zap.Field, bool) {
		v, ok := from(e)
		return zap.Int(name, v), ok
	}
}

func durationField(name string, from func(*capitan.Event) (time.Duration, bool)) extractor {
	return func(e *capitan.Event) (zap.Field, bool) {
		v, ok := from(e)
		return zap.Duration(name, v), ok
	}
}

var extractors = []extractor{
	stringField("run", sieve.KeyRun.From),
	intField("value", sieve.KeyValue.From),
	stringField("category", sieve.KeyCategory.From),
	intField("consumer", sieve.KeyConsumer.From),
	intField("sum", sieve.KeySum.From),
	intField("size", sieve.KeySize.From),
	intField("capacity", sieve.KeyCapacity.From),
	intField("consumers", sieve.KeyConsumers.From),
	stringField("token", sieve.KeyToken.From),
	intField("speed", sieve.KeySpeed.From),
	durationField("timeout", sieve.KeyTimeout.From),
	stringField("state", sieve.KeyState.From),
	stringField("old_state", sieve.KeyOldState.From),
	stringField("new_state", sieve.KeyNewState.From),
	durationField("debounce", sieve.KeyDebounce.From),
	stringField("error", sieve.KeyError.From),
}

// eventFields converts every known key present on e into a zap field.
func eventFields(e *capitan.Event) []zap.Field {
	fields := make([]zap.Field, 0, 4)
	for _, extract := range extractors {
		if f, ok := extract(e); ok {
			fields = append(fields, f)
		}
	}
	return fields
}

// logAt returns a capitan listener writing msg at lvl.
func logAt(logger *zap.Logger, lvl zapcore.Level, msg string) func(context.Context, *capitan.Event) {
	return func(_ context.Context, e *capitan.Event) {
		if ce := logger.Check(lvl, msg); ce != nil {
			ce.Write(eventFields(e)...)
		}
	}
}

// hookSignals routes sieve signals to logger. Per-item signals log at debug.
func hookSignals(logger *zap.Logger) {
	debug := func(msg string) func(context.Context, *capitan.Event) {
		return logAt(logger, zapcore.DebugLevel, msg)
	}
	info := func(msg string) func(context.Context, *capitan.Event) {
		return logAt(logger, zapcore.InfoLevel, msg)
	}
	warn := func(msg string) func(context.Context, *capitan.Event) {
		return logAt(logger, zapcore.WarnLevel, msg)
	}

	capitan.Hook(sieve.PipelineStarted, info("pipeline started"))
	capitan.Hook(sieve.PipelineStopped, info("pipeline stopped"))
	capitan.Hook(sieve.PipelineReset, info("pipeline reset"))
	capitan.Hook(sieve.PipelinePaused, info("pipeline paused"))
	capitan.Hook(sieve.PipelineResumed, info("pipeline resumed"))
	capitan.Hook(sieve.SpeedChanged, info("speed changed"))
	capitan.Hook(sieve.JoinTimedOut, warn("loops did not exit in time"))
	capitan.Hook(sieve.SourceFailed, warn("source unavailable"))

	capitan.Hook(sieve.ItemProduced, debug("produced"))
	capitan.Hook(sieve.ProducerParseFailed, warn("skipped malformed token"))
	capitan.Hook(sieve.ProducerFinished, info("producer finished reading"))
	capitan.Hook(sieve.ItemConsumed, debug("consumed"))
	capitan.Hook(sieve.ConsumerStopped, info("consumer stopped"))

	capitan.Hook(sieve.ControlStarted, info("control watching"))
	capitan.Hook(sieve.ControlStopped, info("control stopped"))
	capitan.Hook(sieve.ControlStateChanged, info("control state changed"))
	capitan.Hook(sieve.ControlChangeReceived, debug("control document received"))
	capitan.Hook(sieve.ControlDecodeFailed, warn("control document rejected"))
	capitan.Hook(sieve.ControlValidationFailed, warn("control document rejected"))
	capitan.Hook(sieve.ControlApplyFailed, warn("control document not applied"))
	capitan.Hook(sieve.ControlApplySucceeded, debug("control document applied"))
}
