package logging

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Fields map[string]interface{}

var (
	mu     sync.RWMutex
	level  = zap.NewAtomicLevelAt(zap.InfoLevel)
	logger = newLogger()
	// exit is swapped in tests so Fatal can be exercised.
	exit = os.Exit
)

func newLogger() *zap.Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.MessageKey = "msg"
	enc.EncodeTime = zapcore.RFC3339TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.Lock(os.Stderr), level)
	return zap.New(core)
}

// SetLevel changes the minimum level. Unknown names leave the level as is.
func SetLevel(name string) error {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return err
	}
	level.SetLevel(l)
	return nil
}

// SetLogger replaces the backing logger, mostly for tests.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// Sync flushes buffered entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = logger.Sync()
}

func output(lvl zapcore.Level, msg string, fields Fields) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if ce := l.Check(lvl, msg); ce != nil {
		zf := make([]zap.Field, 0, len(fields))
		for k, v := range fields {
			zf = append(zf, zap.Any(k, v))
		}
		ce.Write(zf...)
	}
}

func withError(fields Fields, err error) Fields {
	if fields == nil {
		fields = Fields{}
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	return fields
}

// Debug logs a diagnostic message; dropped unless the level is debug.
func Debug(msg string, fields Fields) {
	output(zapcore.DebugLevel, msg, fields)
}

// Info logs an informational message with optional fields.
func Info(msg string, fields Fields) {
	output(zapcore.InfoLevel, msg, fields)
}

// Warn logs a recoverable problem.
func Warn(msg string, fields Fields) {
	output(zapcore.WarnLevel, msg, fields)
}

// Error logs an error message and includes the error text in the fields.
func Error(msg string, err error, fields Fields) {
	output(zapcore.ErrorLevel, msg, withError(fields, err))
}

// Fatal logs a fatal error and exits the process.
func Fatal(msg string, err error, fields Fields) {
	// logged at error level so zap does not exit before Sync
	output(zapcore.ErrorLevel, msg, withError(fields, err))
	Sync()
	exit(1)
}
