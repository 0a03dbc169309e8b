// Package app связывает реестр ассетов, генератор мира и покадровый конвейер игрока.
package app

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/annel0/genesys/internal/animation"
	"github.com/annel0/genesys/internal/assets"
	"github.com/annel0/genesys/internal/assets/stream"
	"github.com/annel0/genesys/internal/config"
	"github.com/annel0/genesys/internal/diagnostics"
	"github.com/annel0/genesys/internal/eventbus"
	"github.com/annel0/genesys/internal/input"
	"github.com/annel0/genesys/internal/logging"
	"github.com/annel0/genesys/internal/movement"
	"github.com/annel0/genesys/internal/tracelog"
	"github.com/annel0/genesys/internal/vec"
	"github.com/annel0/genesys/internal/world"
	"github.com/annel0/genesys/internal/world/entity"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const tracerName = "github.com/annel0/genesys/internal/app"

// TraceWriter приемник покадровой трассы
type TraceWriter interface {
	Write(rec tracelog.Record) error
}

// AssetStats источник статистики загрузчика ассетов
type AssetStats interface {
	Stats() stream.Stats
}

// eyeCamera камера, знающая своё положение (нужно для удаления дальних сущностей)
type eyeCamera interface {
	EyePosition() vec.Vec3Float
}

// Deps внешние зависимости. Нулевые поля заменяются значениями по умолчанию
// либо отключают соответствующую функцию.
type Deps struct {
	Loader     assets.Loader        // nil: MemoryLoader
	Camera     input.Camera         // nil: ортографическая камера песочницы
	Rand       *rand.Rand           // nil: из world.seed или текущего времени
	Bus        eventbus.EventBus    // nil: события не публикуются
	Metrics    *diagnostics.Metrics // nil: без Prometheus
	Store      *diagnostics.Store   // nil: без отладочной панели
	Trace      TraceWriter          // nil: трасса не пишется
	AssetStats AssetStats
}

// App песочница: мир, игрок и конвейер тика
type App struct {
	cfg  *config.Config
	deps Deps

	registry   *assets.Registry
	catalog    *assets.Catalog
	entities   *entity.EntityManager
	generator  *world.WorldGenerator
	despawner  *world.Despawner
	projector  *input.Projector
	controller *movement.Controller
	animations *animation.Player
	fps        *diagnostics.FPSCounter

	// Сигнатуры анимаций по ссылкам, для событий и метрик
	clips map[assets.Handle]assets.Signature

	player *entity.Entity
	body   movement.Body
	tick   uint64
	stats  world.Stats
}

// New создаёт песочницу. Ассеты не загружаются до Startup.
func New(cfg *config.Config, deps Deps) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	if deps.Loader == nil {
		deps.Loader = assets.NewMemoryLoader()
	}
	if deps.Camera == nil {
		deps.Camera = input.NewOrthoCamera()
	}
	if deps.Rand == nil && cfg.World.Seed != 0 {
		deps.Rand = rand.New(rand.NewSource(cfg.World.Seed))
	}

	a := &App{
		cfg:       cfg,
		deps:      deps,
		registry:  assets.NewRegistry(deps.Loader),
		entities:  entity.NewEntityManager(),
		generator: world.NewWorldGenerator(world.GeneratorConfig{HalfExtent: cfg.World.HalfExtent}, deps.Rand),
		projector: input.NewProjector(cfg.Input.GroundHeight),
		fps:       diagnostics.NewFPSCounter(60),
	}
	a.despawner = world.NewDespawner(a.entities)
	a.animations = animation.NewPlayer(animation.SinkFunc(a.onAnimationStarted))
	a.entities.SetHooks(a.onSpawn, a.onDespawn)
	return a
}

// Startup загружает ассеты, запечатывает реестр, строит мир и создаёт игрока.
// Любая ошибка фатальна для запуска.
func (a *App) Startup(ctx context.Context) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "app.startup")
	defer span.End()

	table, err := a.table()
	if err != nil {
		span.RecordError(err)
		return err
	}
	if err := a.loadTable(ctx, table); err != nil {
		span.RecordError(err)
		return err
	}
	a.catalog = a.registry.Seal()
	a.indexClips()
	models, anims := a.registry.Len()
	logging.Info("📦 Реестр ассетов запечатан: моделей %d, анимаций %d", models, anims)

	stats, err := a.generator.Generate(ctx, a.catalog, a.entities)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("генерация мира: %w", err)
	}
	a.stats = stats
	logging.Info("🌍 Мир построен: %d ячеек, сущностей %d", stats.Cells, a.entities.Count())
	a.publish(ctx, eventbus.SourceWorld, eventbus.TypeWorldGenerated, worldEvent(a.generator.HalfExtent(), stats), 5)

	if err := a.spawnPlayer(); err != nil {
		span.RecordError(err)
		return err
	}

	span.SetAttributes(
		attribute.Int("app.entities", a.entities.Count()),
		attribute.Int("app.models", models),
	)
	return nil
}

func (a *App) table() (assets.Table, error) {
	if a.cfg.Assets.Manifest == "" {
		return assets.DefaultTable(), nil
	}
	table, err := assets.LoadManifest(a.cfg.Assets.Manifest)
	if err != nil {
		return assets.Table{}, fmt.Errorf("манифест ассетов: %w", err)
	}
	return table, nil
}

func (a *App) loadTable(ctx context.Context, table assets.Table) error {
	_, span := otel.Tracer(tracerName).Start(ctx, "assets.load_table")
	defer span.End()
	span.SetAttributes(
		attribute.Int("assets.models", len(table.Models)),
		attribute.Int("assets.animations", len(table.Animations)),
	)

	if err := assets.LoadTable(a.registry, table); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func (a *App) indexClips() {
	a.clips = make(map[assets.Handle]assets.Signature)
	for _, sig := range a.catalog.Signatures(assets.KindAnimation) {
		if h, err := a.catalog.GetAnimation(sig); err == nil {
			a.clips[h] = sig
		}
	}
}

// clipName сигнатура клипа; для пустой ссылки пустая строка
func (a *App) clipName(h assets.Handle) string {
	if sig, ok := a.clips[h]; ok {
		return string(sig)
	}
	return h.Path()
}

func (a *App) spawnPlayer() error {
	model, err := a.catalog.GetModel(entity.ModelSignature(entity.CharacterPlayer))
	if err != nil {
		return fmt.Errorf("модель игрока: %w", err)
	}
	idle, err := a.catalog.GetAnimation(entity.AnimationSignature(entity.CharacterPlayer, entity.AnimationIdle))
	if err != nil {
		return fmt.Errorf("анимация игрока: %w", err)
	}

	a.player = a.entities.Spawn(entity.CharacterPlayer, vec.Vec3{}, model)
	a.body = movement.Body{Animation: idle}
	a.controller = movement.NewController(a.catalog, a.cfg.Player.Speed)
	a.animations.Play(idle)
	return nil
}

// Tick выполняет один кадр: ввод → движение → анимация → удаление дальних сущностей.
// Ошибка фатальна: реестр не содержит нужной анимации.
func (a *App) Tick(ctx context.Context, dt float64, frame input.Frame) (movement.State, error) {
	if a.controller == nil {
		return movement.State{}, fmt.Errorf("тик до Startup")
	}
	start := time.Now()

	snap := a.projector.Update(frame, a.deps.Camera)
	state, err := a.controller.Tick(dt, snap, &a.body)
	if err != nil {
		return state, err
	}

	a.entities.SetTransform(a.player.ID, entity.Transform{
		Translation: a.body.Position.Add(vec.Vec3Float{Y: entity.CharacterLift}),
		Scale:       1,
		Yaw:         a.body.Facing,
	})
	a.entities.Move(a.player.ID, a.body.Position.Floor())
	a.animations.Play(a.body.Animation)
	a.despawner.Sweep(a.eye())

	a.fps.Observe(dt)
	a.record(dt, snap, state)
	a.report(time.Since(start), snap, state)
	a.tick++
	return state, nil
}

func (a *App) eye() vec.Vec3Float {
	if cam, ok := a.deps.Camera.(eyeCamera); ok {
		return cam.EyePosition()
	}
	return input.DefaultEye
}

func (a *App) record(dt float64, snap input.Snapshot, state movement.State) {
	if a.deps.Trace == nil {
		return
	}
	rec := tracelog.Record{
		Tick:      a.tick,
		DT:        dt,
		Facing:    state.Facing,
		Delta:     [3]float64{state.Delta.X, state.Delta.Y, state.Delta.Z},
		Walking:   state.Walking,
		Animation: state.Animation.String(),
		Mouse:     [3]float64{snap.MouseWorld.X, snap.MouseWorld.Y, snap.MouseWorld.Z},
		Projected: snap.Projected,
	}
	if err := a.deps.Trace.Write(rec); err != nil {
		logging.Warn("Не удалось записать трассу тика %d: %v", a.tick, err)
	}
}

func (a *App) report(elapsed time.Duration, snap input.Snapshot, state movement.State) {
	byClass := make(map[string]int)
	for class, n := range a.entities.CountByClass() {
		byClass[string(class)] = n
	}

	if a.deps.Metrics != nil {
		a.deps.Metrics.ObserveTick(elapsed, a.fps.FPS())
		a.deps.Metrics.SetEntities(byClass)
	}
	if a.deps.Store == nil {
		return
	}

	cell := diagnostics.HoveredCell(snap.MouseWorld)
	ds := diagnostics.Snapshot{
		Tick:        a.tick,
		FPS:         a.fps.FPS(),
		MouseScreen: [2]float64{snap.MouseScreen.X, snap.MouseScreen.Y},
		MouseWorld:  [3]float64{snap.MouseWorld.X, snap.MouseWorld.Y, snap.MouseWorld.Z},
		Projected:   snap.Projected,
		HoveredCell: cell,
		Player: diagnostics.PlayerState{
			Position:  [3]float64{a.body.Position.X, a.body.Position.Y, a.body.Position.Z},
			Facing:    a.body.Facing,
			Walking:   state.Walking,
			Animation: state.Animation.String(),
		},
		Entities:    byClass,
		Transitions: a.controller.Transitions(),
		Restarts:    a.animations.Restarts(),
	}
	for _, e := range a.entities.AtCell(cell[0], cell[1]) {
		ds.Hovered = append(ds.Hovered, string(entity.ModelSignature(e.Variant)))
	}
	if a.deps.AssetStats != nil {
		ds.Assets = a.deps.AssetStats.Stats()
	}
	if a.deps.Bus != nil {
		ds.EventBus = a.deps.Bus.Metrics()
	}
	a.deps.Store.Publish(ds)
}

// Catalog возвращает каталог ассетов; nil до Startup
func (a *App) Catalog() *assets.Catalog { return a.catalog }

// Entities возвращает менеджер сущностей
func (a *App) Entities() *entity.EntityManager { return a.entities }

// Player возвращает сущность игрока; nil до Startup
func (a *App) Player() *entity.Entity { return a.player }

// Body возвращает копию состояния игрока
func (a *App) Body() movement.Body { return a.body }

// Ticks количество выполненных тиков
func (a *App) Ticks() uint64 { return a.tick }

// WorldStats итог генерации мира
func (a *App) WorldStats() world.Stats { return a.stats }

// Animations возвращает проигрыватель анимаций игрока
func (a *App) Animations() *animation.Player { return a.animations }
