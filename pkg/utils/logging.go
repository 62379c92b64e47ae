package utils

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the process-wide logger. JSON goes to stderr so stdout stays
// free for reports; LOG_FILE additionally tees every entry to that file and
// LOG_LEVEL (debug|info|warn|error) sets the minimum level.
func Logger() *zap.Logger {
	loggerOnce.Do(func() { logger = build() })
	return logger
}

// SetLogger replaces the process-wide logger, mainly for tests.
func SetLogger(l *zap.Logger) {
	loggerOnce.Do(func() {})
	logger = l
}

func build() *zap.Logger {
	lvl := zapcore.InfoLevel
	if s := os.Getenv("LOG_LEVEL"); s != "" {
		if err := lvl.Set(s); err != nil {
			lvl = zapcore.InfoLevel
		}
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	enc := zapcore.NewJSONEncoder(encCfg)
	consoleCore := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), lvl)

	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		return zap.New(consoleCore)
	}
	_ = os.MkdirAll(filepath.Dir(logFile), 0o755)
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		l := zap.New(consoleCore)
		l.Warn("cannot open log file, logging to stderr only", zap.String("path", logFile), zap.Error(err))
		return l
	}
	fileCore := zapcore.NewCore(enc, zapcore.AddSync(f), lvl)
	return zap.New(zapcore.NewTee(fileCore, consoleCore))
}
