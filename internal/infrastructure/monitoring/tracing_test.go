package monitoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap/zaptest"
)

func TestNewTracingProvider_Disabled(t *testing.T) {
	tp, err := NewTracingProvider(context.Background(), TracingConfig{Enabled: false}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, tp.Enabled())
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestNewTracingProvider_Enabled(t *testing.T) {
	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	tp, err := NewTracingProvider(context.Background(), TracingConfig{
		Enabled:        true,
		ServiceName:    "kondate-test",
		ServiceVersion: "test",
		Environment:    "test",
		Endpoint:       "127.0.0.1:4318",
		Insecure:       true,
		SamplingRate:   1,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.True(t, tp.Enabled())

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok)

	ctx, span := otel.Tracer("test").Start(context.Background(), "probe")
	assert.NotEmpty(t, TraceIDFromContext(ctx))
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = tp.Shutdown(ctx)
}

func TestTraceIDFromContext_NoSpan(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
}
