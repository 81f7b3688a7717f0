package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Init builds a zap logger for the given environment and installs it as
// the global logger returned by zap.L().
func Init(environment string) error {
	var conf zap.Config
	switch strings.ToLower(environment) {
	case "development", "local", "test":
		conf = zap.NewDevelopmentConfig()
		conf.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		conf = zap.NewProductionConfig()
		conf.EncoderConfig.TimeKey = "time"
		conf.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	l, err := conf.Build(zap.Fields(zap.String("env", environment)))
	if err != nil {
		return fmt.Errorf("conf.Build -> %w", err)
	}

	zap.ReplaceGlobals(l)

	return nil
}

// GooseLogger adapts the global zap logger to goose's logger interface.
// Migration chatter is logged at debug level.
type GooseLogger struct{}

func (GooseLogger) Fatal(v ...interface{}) { zap.S().Fatal(v...) }

func (GooseLogger) Fatalf(format string, v ...interface{}) {
	zap.S().Fatalf(strings.TrimSuffix(format, "\n"), v...)
}

func (GooseLogger) Print(v ...interface{}) { zap.S().Debug(v...) }

func (GooseLogger) Println(v ...interface{}) { zap.S().Debug(v...) }

func (GooseLogger) Printf(format string, v ...interface{}) {
	zap.S().Debugf(strings.TrimSuffix(format, "\n"), v...)
}
