package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope_RoundTrip(t *testing.T) {
	ev, err := NewEnvelope(SourceWorld, TypeEntitySpawned, EntityEvent{EntityID: 7, Signature: "block_dirt", X: 1, Z: -2})
	require.NoError(t, err)

	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, TypeEntitySpawned, ev.EventType)
	assert.Equal(t, 1, ev.Version)

	var payload EntityEvent
	require.NoError(t, ev.Decode(&payload))
	assert.Equal(t, uint64(7), payload.EntityID)
	assert.Equal(t, "block_dirt", payload.Signature)

	other, err := NewEnvelope(SourceWorld, TypeEntitySpawned, EntityEvent{})
	require.NoError(t, err)
	assert.NotEqual(t, ev.ID, other.ID, "Идентификаторы событий уникальны")
}

func TestMemoryBus_FilterAndOrder(t *testing.T) {
	bus := NewMemoryBus(16)

	var mu sync.Mutex
	var got []string
	_, err := bus.Subscribe(context.Background(), Filter{Types: []string{TypeAnimationChanged}}, func(ctx context.Context, ev *Envelope) {
		var a AnimationEvent
		assert.NoError(t, ev.Decode(&a))
		mu.Lock()
		got = append(got, a.Next)
		mu.Unlock()
	})
	require.NoError(t, err)

	for _, next := range []string{"player_walk", "player_idle", "player_walk"} {
		ev, err := NewEnvelope(SourceMovement, TypeAnimationChanged, AnimationEvent{Next: next})
		require.NoError(t, err)
		require.NoError(t, bus.Publish(context.Background(), ev))
	}
	ev, err := NewEnvelope(SourceWorld, TypeEntitySpawned, EntityEvent{})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), ev))

	bus.Close()

	assert.Equal(t, []string{"player_walk", "player_idle", "player_walk"}, got, "События доставляются в порядке публикации")
	stats := bus.Metrics()
	assert.Equal(t, uint64(4), stats.Published)
	assert.Equal(t, uint64(3), stats.Consumed, "Фильтр отсекает чужие типы")

	assert.ErrorIs(t, bus.Publish(context.Background(), ev), ErrClosed)
	bus.Close()
}

func TestMemoryBus_Unsubscribe(t *testing.T) {
	bus := NewMemoryBus(4)
	calls := 0
	sub, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) { calls++ })
	require.NoError(t, err)
	sub.Unsubscribe()

	ev, err := NewEnvelope(SourceWorld, TypeWorldGenerated, WorldEvent{})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), ev))
	bus.Close()

	assert.Equal(t, 0, calls)
}

func TestMemoryBus_DropsLowPriorityWhenFull(t *testing.T) {
	bus := NewMemoryBus(1)
	block := make(chan struct{})
	_, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) { <-block })
	require.NoError(t, err)

	publish := func() {
		ev, err := NewEnvelope(SourceWorld, TypeEntitySpawned, EntityEvent{})
		require.NoError(t, err)
		require.NoError(t, bus.Publish(context.Background(), ev))
	}
	publish()
	// Первое событие забрано обработчиком, второе занимает буфер
	assert.Eventually(t, func() bool { return bus.Metrics().InFlight == 0 }, time.Second, time.Millisecond)
	publish()
	publish()

	assert.Equal(t, uint64(1), bus.Metrics().Dropped)
	close(block)
	bus.Close()
}

func TestMetricsExporter_Collect(t *testing.T) {
	bus := NewMemoryBus(8)
	reg := prometheus.NewRegistry()
	exporter := NewMetricsExporter(bus, reg)

	for i := 0; i < 3; i++ {
		ev, err := NewEnvelope(SourceWorld, TypeEntitySpawned, EntityEvent{})
		require.NoError(t, err)
		require.NoError(t, bus.Publish(context.Background(), ev))
	}
	bus.Close()

	exporter.Collect()
	exporter.Collect()
	assert.Equal(t, 3.0, testutil.ToFloat64(exporter.published), "Повторный сбор не удваивает счетчик")
	assert.Equal(t, 0.0, testutil.ToFloat64(exporter.inflight))

	exporter.Start(time.Millisecond)
	exporter.Stop()
}

func TestStartLoggingListener(t *testing.T) {
	bus := NewMemoryBus(4)
	sub, err := StartLoggingListener(bus)
	require.NoError(t, err)
	require.NotNil(t, sub)

	ev, err := NewEnvelope(SourceWorld, TypeWorldGenerated, WorldEvent{Cells: 900})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), ev))
	bus.Close()

	assert.Equal(t, uint64(1), bus.Metrics().Consumed)
}
