package telemetry

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestPrometheusCountsByEventAndReport(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewPrometheus(reg)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.Record(ctx, "kpi.preferences.toggle", map[string]any{"report_key": "marketing.campaigns"})
	metrics.Record(ctx, "kpi.preferences.toggle", map[string]any{"report_key": "marketing.campaigns"})
	metrics.Record(ctx, "kpi.preferences.reorder", map[string]any{"report_key": "marketing.coupons"})
	metrics.Record(ctx, "", nil)

	toggles := metrics.Collector().WithLabelValues("kpi.preferences.toggle", "marketing.campaigns")
	assert.Equal(t, 2.0, testutil.ToFloat64(toggles))
	reorders := metrics.Collector().WithLabelValues("kpi.preferences.reorder", "marketing.coupons")
	assert.Equal(t, 1.0, testutil.ToFloat64(reorders))
}

func TestPrometheusReusesRegisteredCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPrometheus(reg)
	require.NoError(t, err)
	second, err := NewPrometheus(reg)
	require.NoError(t, err)

	first.Record(context.Background(), "kpi.tiles.resolve", map[string]any{"report_key": "r"})
	assert.Equal(t, 1.0, testutil.ToFloat64(second.Collector().WithLabelValues("kpi.tiles.resolve", "r")))
}

func TestLoggerWritesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	rec := NewLogger(zap.New(core))

	rec.Record(context.Background(), "kpi.preferences.toggle", map[string]any{"tile_id": "spend"})

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "kpi.preferences.toggle", fields["event"])
	assert.Equal(t, "spend", fields["tile_id"])
}

func TestMultiSkipsNil(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	multi := Multi{nil, NewLogger(zap.New(core))}
	multi.Record(context.Background(), "event", nil)
	assert.Equal(t, 1, logs.Len())
}
