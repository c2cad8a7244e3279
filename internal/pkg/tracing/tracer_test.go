package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestInitTracerProvider_WithoutExporter(t *testing.T) {
	tp, err := InitTracerProvider("test-service", "", 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	assert.Empty(t, GetTraceIDFromContext(context.Background()))

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()
	assert.Len(t, GetTraceIDFromContext(ctx), 32)
}

func TestSampler(t *testing.T) {
	cases := []struct {
		name  string
		ratio float64
		want  string
	}{
		{"full", 1, sdktrace.AlwaysSample().Description()},
		{"above one", 2, sdktrace.AlwaysSample().Description()},
		{"zero disables", 0, sdktrace.NeverSample().Description()},
		{"negative disables", -0.5, sdktrace.NeverSample().Description()},
		{"ratio", 0.25, sdktrace.TraceIDRatioBased(0.25).Description()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, sampler(tc.ratio).Description())
		})
	}
}

func TestInitTracerProvider_ZeroRatioDropsRootSpans(t *testing.T) {
	tp, err := InitTracerProvider("test-service", "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()
	assert.False(t, span.SpanContext().IsSampled())
}
