package logger

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Log      *zap.Logger
	onceInit sync.Once
)

// Init builds the process logger once and installs it as zap's global.
func Init(level zapcore.Level, development bool, meta ...zap.Field) error {
	var initErr error
	onceInit.Do(func() {
		instance, err := configure(level, development).Build(zap.AddCaller())
		if err != nil {
			initErr = errors.Wrap(err, "build zap logger")
			return
		}
		Log = instance.With(meta...)
		zap.ReplaceGlobals(Log)
	})
	if initErr != nil {
		return initErr
	}
	if Log == nil {
		return errors.New("logger not initialized")
	}
	return nil
}

func configure(level zapcore.Level, development bool) zap.Config {
	encoder := zap.NewProductionEncoderConfig()
	encoder.TimeKey = "timestamp"
	encoder.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder.EncodeLevel = zapcore.CapitalLevelEncoder
	if development {
		encoder.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	encoder.EncodeCaller = zapcore.ShortCallerEncoder
	encoder.EncodeDuration = zapcore.SecondsDurationEncoder
	encoder.EncodeName = zapcore.FullNameEncoder
	encoder.CallerKey = "caller"
	return zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       development,
		DisableCaller:     false,
		DisableStacktrace: !development,
		Encoding:          "console",
		EncoderConfig:     encoder,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
	}
}
