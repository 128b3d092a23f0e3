package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newZap(core zapcore.Core) *zap.Logger {
	return zap.New(core)
}
