package observability

import (
	"context"
	"testing"

	"github.com/annel0/genesys/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInitTelemetry_Disabled(t *testing.T) {
	shutdown, err := InitTelemetry(context.Background(), config.TelemetryConfig{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestNewTracerProvider_ServiceResource(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp, err := NewTracerProvider(context.Background(), "genesys-test", trace.WithSpanProcessor(rec))
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "app.startup")
	span.End()
	require.NoError(t, tp.Shutdown(context.Background()))

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "app.startup", spans[0].Name())

	found := false
	for _, kv := range spans[0].Resource().Attributes() {
		if kv.Key == "service.name" {
			found = true
			assert.Equal(t, "genesys-test", kv.Value.AsString())
		}
	}
	assert.True(t, found, "Ресурс содержит имя сервиса")
}
