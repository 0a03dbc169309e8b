package world

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/annel0/genesys/internal/assets"
	"github.com/annel0/genesys/internal/vec"
	"github.com/annel0/genesys/internal/world/entity"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Вероятности дерева решений генерации. Вложенность ветвей и сами константы
// являются наблюдаемым поведением и не должны заменяться равномерным распределением.
const (
	ProbDirt      = 0.3  // Земля вместо травы
	ProbCorn      = 0.5  // Кукуруза на земле
	ProbTree      = 0.05 // Дерево на земле, если не кукуруза
	ProbGrassTuft = 0.4  // Трава на травяном блоке
)

// DefaultHalfExtent половина стороны сетки по умолчанию: ячейки [-15, 15)
const DefaultHalfExtent = 15

// ModelCatalog источник ссылок на модели (только чтение)
type ModelCatalog interface {
	GetModel(sig assets.Signature) (assets.Handle, error)
}

// Spawner материализует сущности в мире
type Spawner interface {
	Spawn(v entity.Variant, coord vec.Vec3, model assets.Handle) *entity.Entity
}

// GeneratorConfig параметры генератора
type GeneratorConfig struct {
	HalfExtent int // Сетка (2N)x(2N), x и z в [-N, N)
}

// Stats итог генерации
type Stats struct {
	Cells      int
	Terrain    map[entity.Terrain]int
	Vegetation map[entity.Vegetation]int
}

// WorldGenerator размещает ландшафт и растительность на сетке один раз после загрузки ассетов
type WorldGenerator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// NewWorldGenerator создаёт генератор. rng == nil дает источник, засеянный текущим временем:
// раскладка мира между запусками не воспроизводится.
func NewWorldGenerator(cfg GeneratorConfig, rng *rand.Rand) *WorldGenerator {
	if cfg.HalfExtent <= 0 {
		cfg.HalfExtent = DefaultHalfExtent
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &WorldGenerator{cfg: cfg, rng: rng}
}

// HalfExtent возвращает половину стороны сетки
func (wg *WorldGenerator) HalfExtent() int {
	return wg.cfg.HalfExtent
}

func (wg *WorldGenerator) bernoulli(p float64) bool {
	return wg.rng.Float64() < p
}

// Decide выбирает вариант ландшафта и (не более одного) вариант растительности для ячейки
func (wg *WorldGenerator) Decide() (terrain entity.Terrain, vegetation entity.Vegetation, hasVegetation bool) {
	if wg.bernoulli(ProbDirt) {
		// Ветка земли: растительность есть всегда
		if wg.bernoulli(ProbCorn) {
			return entity.TerrainDirt, entity.VegetationCorn, true
		} else if wg.bernoulli(ProbTree) {
			return entity.TerrainDirt, entity.VegetationTree, true
		}
		return entity.TerrainDirt, entity.VegetationGrass, true
	}

	// Ветка травы
	if wg.bernoulli(ProbGrassTuft) {
		return entity.TerrainGrass, entity.VegetationGrass, true
	}
	return entity.TerrainGrass, 0, false
}

// Generate обходит сетку и создает сущности. Промах реестра фатален:
// таблица вариантов генерации и фаза загрузки разошлись, ячейка не пропускается.
func (wg *WorldGenerator) Generate(ctx context.Context, catalog ModelCatalog, sink Spawner) (Stats, error) {
	_, span := otel.Tracer("github.com/annel0/genesys/internal/world").Start(ctx, "world.generate")
	defer span.End()

	stats := Stats{
		Terrain:    make(map[entity.Terrain]int),
		Vegetation: make(map[entity.Vegetation]int),
	}

	n := wg.cfg.HalfExtent
	for x := -n; x < n; x++ {
		for z := -n; z < n; z++ {
			terrain, vegetation, hasVegetation := wg.Decide()

			ground := vec.Vec3{X: x, Y: 0, Z: z}
			if err := place(catalog, sink, terrain, ground); err != nil {
				span.RecordError(err)
				return stats, fmt.Errorf("ячейка (%d, %d): %w", x, z, err)
			}
			stats.Terrain[terrain]++

			if hasVegetation {
				if err := place(catalog, sink, vegetation, ground.Up()); err != nil {
					span.RecordError(err)
					return stats, fmt.Errorf("ячейка (%d, %d): %w", x, z, err)
				}
				stats.Vegetation[vegetation]++
			}
			stats.Cells++
		}
	}

	span.SetAttributes(
		attribute.Int("world.cells", stats.Cells),
		attribute.Int("world.half_extent", n),
	)
	return stats, nil
}

func place(catalog ModelCatalog, sink Spawner, v entity.Variant, coord vec.Vec3) error {
	handle, err := catalog.GetModel(entity.ModelSignature(v))
	if err != nil {
		return err
	}
	sink.Spawn(v, coord, handle)
	return nil
}
