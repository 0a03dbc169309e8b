package world

import (
	"context"
	"math/rand"
	"testing"

	"github.com/annel0/genesys/internal/assets"
	"github.com/annel0/genesys/internal/vec"
	"github.com/annel0/genesys/internal/world/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sealedCatalog(t *testing.T, table assets.Table) *assets.Catalog {
	t.Helper()
	reg := assets.NewRegistry(assets.NewMemoryLoader())
	require.NoError(t, assets.LoadTable(reg, table))
	return reg.Seal()
}

func TestWorldGenerator_GridSize(t *testing.T) {
	em := entity.NewEntityManager()
	gen := NewWorldGenerator(GeneratorConfig{HalfExtent: 15}, rand.New(rand.NewSource(1)))

	stats, err := gen.Generate(context.Background(), sealedCatalog(t, assets.DefaultTable()), em)
	require.NoError(t, err)

	assert.Equal(t, 30*30, stats.Cells, "Сетка (2N)x(2N)")
	assert.Equal(t, 900, stats.Terrain[entity.TerrainGrass]+stats.Terrain[entity.TerrainDirt],
		"В каждой ячейке ровно один блок ландшафта")
	assert.Equal(t, 0, stats.Vegetation[entity.VegetationBamboo], "Бамбук не размещается деревом решений")

	for _, e := range em.All() {
		assert.GreaterOrEqual(t, e.Coordinate.X, -15)
		assert.Less(t, e.Coordinate.X, 15)
		assert.GreaterOrEqual(t, e.Coordinate.Z, -15)
		assert.Less(t, e.Coordinate.Z, 15)
	}
}

func TestWorldGenerator_TerrainRatio(t *testing.T) {
	gen := NewWorldGenerator(GeneratorConfig{HalfExtent: 100}, rand.New(rand.NewSource(42)))
	stats, err := gen.Generate(context.Background(), sealedCatalog(t, assets.DefaultTable()), entity.NewEntityManager())
	require.NoError(t, err)

	total := float64(stats.Cells)
	dirt := float64(stats.Terrain[entity.TerrainDirt])
	assert.InDelta(t, ProbDirt, dirt/total, 0.02, "Доля земли должна сходиться к 30%")

	// Под землей: кукуруза 50%, дерево 0.5*0.05, трава остальное
	corn := float64(stats.Vegetation[entity.VegetationCorn])
	tree := float64(stats.Vegetation[entity.VegetationTree])
	assert.InDelta(t, ProbCorn, corn/dirt, 0.03)
	assert.InDelta(t, (1-ProbCorn)*ProbTree, tree/dirt, 0.01)

	// Трава на траве: 40% травяных блоков плюс вся "прочая" растительность земли
	grassTerrain := float64(stats.Terrain[entity.TerrainGrass])
	dirtGrass := dirt * (1 - ProbCorn) * (1 - ProbTree)
	tufts := float64(stats.Vegetation[entity.VegetationGrass]) - dirtGrass
	assert.InDelta(t, ProbGrassTuft, tufts/grassTerrain, 0.03)
}

func TestWorldGenerator_VegetationAboveTerrain(t *testing.T) {
	em := entity.NewEntityManager()
	gen := NewWorldGenerator(GeneratorConfig{HalfExtent: 20}, rand.New(rand.NewSource(7)))
	_, err := gen.Generate(context.Background(), sealedCatalog(t, assets.DefaultTable()), em)
	require.NoError(t, err)

	terrain := make(map[vec.Vec3]entity.Variant)
	var plants []*entity.Entity
	for _, e := range em.All() {
		switch e.Variant.(type) {
		case entity.Terrain:
			assert.Equal(t, 0, e.Coordinate.Y, "Ландшафт на уровне y=0")
			terrain[e.Coordinate] = e.Variant
		case entity.Vegetation:
			plants = append(plants, e)
		}
	}
	require.NotEmpty(t, plants)

	for _, p := range plants {
		below := vec.Vec3{X: p.Coordinate.X, Y: p.Coordinate.Y - 1, Z: p.Coordinate.Z}
		_, ok := terrain[below]
		assert.True(t, ok, "Растительность %v должна стоять на блоке", p.Coordinate)
		assert.Equal(t, 1, p.Coordinate.Y)
		assert.Equal(t, float64(p.Coordinate.Y)-entity.VegetationInset, p.Transform.Translation.Y)

		// Кукуруза и деревья растут только на земле
		if p.Variant == entity.VegetationCorn || p.Variant == entity.VegetationTree {
			assert.Equal(t, entity.TerrainDirt, terrain[below])
		}
	}
}

func TestWorldGenerator_DecideBranches(t *testing.T) {
	gen := NewWorldGenerator(GeneratorConfig{}, rand.New(rand.NewSource(3)))
	assert.Equal(t, DefaultHalfExtent, gen.HalfExtent())

	for i := 0; i < 10000; i++ {
		terrain, vegetation, has := gen.Decide()
		if terrain == entity.TerrainDirt {
			assert.True(t, has, "На земле всегда есть растительность")
			continue
		}
		if has {
			assert.Equal(t, entity.VegetationGrass, vegetation, "На траве растет только трава")
		}
	}
}

func TestWorldGenerator_MissingModelIsFatal(t *testing.T) {
	table := assets.DefaultTable()
	models := table.Models[:0]
	for _, row := range table.Models {
		if row.Signature() != "block_grass" {
			models = append(models, row)
		}
	}
	table.Models = models

	em := entity.NewEntityManager()
	gen := NewWorldGenerator(GeneratorConfig{HalfExtent: 5}, rand.New(rand.NewSource(1)))
	_, err := gen.Generate(context.Background(), sealedCatalog(t, table), em)

	require.Error(t, err)
	assert.ErrorIs(t, err, assets.ErrNotLoaded)
	assert.True(t, assets.IsFatal(err))
	sig, ok := assets.SignatureOf(err)
	assert.True(t, ok)
	assert.Equal(t, assets.Signature("block_grass"), sig)
}
