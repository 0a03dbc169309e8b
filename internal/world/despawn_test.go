package world

import (
	"testing"

	"github.com/annel0/genesys/internal/assets"
	"github.com/annel0/genesys/internal/vec"
	"github.com/annel0/genesys/internal/world/entity"
	"github.com/stretchr/testify/assert"
)

func TestDespawner_Sweep(t *testing.T) {
	em := entity.NewEntityManager()
	near := em.Spawn(entity.TerrainGrass, vec.Vec3{X: 1, Z: 1}, assets.Handle{})
	far := em.Spawn(entity.TerrainDirt, vec.Vec3{X: 14, Z: -14}, assets.Handle{})
	farPlant := em.Spawn(entity.VegetationCorn, vec.Vec3{X: -14, Y: 1, Z: -14}, assets.Handle{})
	player := em.Spawn(entity.CharacterPlayer, vec.Vec3{X: 30}, assets.Handle{})

	removed := NewDespawner(em).Sweep(vec.Vec3Float{X: 10, Y: 10, Z: 10})

	assert.Equal(t, 2, removed)
	_, ok := em.Get(near.ID)
	assert.True(t, ok, "Ближний блок остается")
	_, ok = em.Get(far.ID)
	assert.False(t, ok, "Дальний блок удален")
	_, ok = em.Get(farPlant.ID)
	assert.False(t, ok)
	_, ok = em.Get(player.ID)
	assert.True(t, ok, "Игрок никогда не удаляется")
}
