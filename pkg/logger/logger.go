package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logger shared by every service component. It wraps
// zap with an action-tagged surface: each log line carries the service name,
// the hostname and the action being performed.
type Logger struct {
	z *zap.Logger
}

func NewLogger(service string) Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.RFC3339TimeEncoder
	encCfg.MessageKey = "message"

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.Lock(os.Stdout),
		zap.NewAtomicLevelAt(zapcore.DebugLevel),
	)

	hostname, _ := os.Hostname()
	z := zap.New(core).With(
		zap.String("service", service),
		zap.String("hostname", hostname),
	)
	return Logger{z: z}
}

// Nop returns a logger that discards everything. Used by tests.
func Nop() Logger {
	return Logger{z: zap.NewNop()}
}

// Action returns a child logger tagged with the action currently performed.
func (l Logger) Action(action string) Logger {
	return Logger{z: l.z.With(zap.String("action", action))}
}

// With attaches alternating key/value pairs to every subsequent log line.
func (l Logger) With(kv ...any) Logger {
	return Logger{z: l.z.Sugar().With(kv...).Desugar()}
}

func (l Logger) Debug(msg string, kv ...any) {
	l.z.Sugar().Debugw(msg, kv...)
}

func (l Logger) Info(msg string, kv ...any) {
	l.z.Sugar().Infow(msg, kv...)
}

func (l Logger) Warn(msg string, kv ...any) {
	l.z.Sugar().Warnw(msg, kv...)
}

func (l Logger) Error(msg string, err error, kv ...any) {
	if err != nil {
		kv = append(kv, "error", err.Error())
	}
	l.z.Sugar().Errorw(msg, kv...)
}

// Sync flushes buffered log entries before shutdown.
func (l Logger) Sync() error {
	return l.z.Sync()
}
