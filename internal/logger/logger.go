// Package logger holds the process-wide zap logger. It defaults to a nop
// logger so packages can log unconditionally in tests.
package logger

import (
	"go.uber.org/zap"
)

var Log = zap.NewNop().Sugar()

// Init swaps in the production logger. Call once at bootstrap.
func Init() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = logger.Sugar()
}
