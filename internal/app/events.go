package app

import (
	"context"

	"github.com/annel0/genesys/internal/assets"
	"github.com/annel0/genesys/internal/eventbus"
	"github.com/annel0/genesys/internal/logging"
	"github.com/annel0/genesys/internal/world"
	"github.com/annel0/genesys/internal/world/entity"
)

// publish отправляет событие в шину, если она подключена. Ошибки шины не прерывают тик.
func (a *App) publish(ctx context.Context, source, eventType string, payload any, priority int) {
	if a.deps.Bus == nil {
		return
	}
	ev, err := eventbus.NewEnvelope(source, eventType, payload)
	if err != nil {
		logging.Warn("%v", err)
		return
	}
	ev.Priority = priority
	if err := a.deps.Bus.Publish(ctx, ev); err != nil {
		logging.Warn("Публикация %s: %v", eventType, err)
	}
}

func entityEvent(e *entity.Entity) eventbus.EntityEvent {
	return eventbus.EntityEvent{
		EntityID:  e.ID,
		Signature: string(entity.ModelSignature(e.Variant)),
		Class:     string(e.Variant.Class()),
		X:         e.Coordinate.X,
		Y:         e.Coordinate.Y,
		Z:         e.Coordinate.Z,
	}
}

func worldEvent(halfExtent int, stats world.Stats) eventbus.WorldEvent {
	ev := eventbus.WorldEvent{
		HalfExtent: halfExtent,
		Cells:      stats.Cells,
		Terrain:    make(map[string]int, len(stats.Terrain)),
		Vegetation: make(map[string]int, len(stats.Vegetation)),
	}
	for v, n := range stats.Terrain {
		ev.Terrain[v.String()] = n
	}
	for v, n := range stats.Vegetation {
		ev.Vegetation[v.String()] = n
	}
	return ev
}

func (a *App) onSpawn(e *entity.Entity) {
	if a.deps.Metrics != nil {
		a.deps.Metrics.Spawned(string(e.Variant.Class()))
	}
	a.publish(context.Background(), eventbus.SourceWorld, eventbus.TypeEntitySpawned, entityEvent(e), 0)
}

func (a *App) onDespawn(e *entity.Entity) {
	if a.deps.Metrics != nil {
		a.deps.Metrics.Despawned(string(e.Variant.Class()))
	}
	a.publish(context.Background(), eventbus.SourceWorld, eventbus.TypeEntityDespawned, entityEvent(e), 0)
}

func (a *App) onAnimationStarted(previous, next assets.Handle) {
	prev, cur := a.clipName(previous), a.clipName(next)
	if a.deps.Metrics != nil {
		a.deps.Metrics.AnimationChanged(cur)
	}
	logging.Debug("Анимация игрока: %q → %s (тик %d)", prev, cur, a.tick)
	a.publish(context.Background(), eventbus.SourceMovement, eventbus.TypeAnimationChanged, eventbus.AnimationEvent{
		Tick:     a.tick,
		Previous: prev,
		Next:     cur,
	}, 5)
}
