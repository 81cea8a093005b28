package telemetry

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

// Logger writes every recorded event as a debug log line.
type Logger struct {
	logger *zap.Logger
}

// NewLogger wraps logger; nil falls back to a no-op logger.
func NewLogger(logger *zap.Logger) *Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Logger{logger: logger}
}

// Record logs event with its payload as fields.
func (l *Logger) Record(_ context.Context, event string, payload map[string]any) {
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	fields := make([]zap.Field, 0, len(keys)+1)
	fields = append(fields, zap.String("event", event))
	for _, key := range keys {
		fields = append(fields, zap.Any(key, payload[key]))
	}
	l.logger.Debug("kpi telemetry", fields...)
}

// Recorder is the subset of kpi.Telemetry the fan-out needs.
type Recorder interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

// Multi fans one event out to several recorders, skipping nil entries.
type Multi []Recorder

// Record forwards the event to each recorder.
func (m Multi) Record(ctx context.Context, event string, payload map[string]any) {
	for _, r := range m {
		if r != nil {
			r.Record(ctx, event, payload)
		}
	}
}
