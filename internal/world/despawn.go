package world

import (
	"github.com/annel0/genesys/internal/vec"
	"github.com/annel0/genesys/internal/world/entity"
)

// Despawner удаляет блоки и растительность, которые дальше от начала координат, чем камера.
// Персонажи не удаляются.
type Despawner struct {
	entities *entity.EntityManager
}

// NewDespawner создает сборщик сущностей за пределами видимости
func NewDespawner(em *entity.EntityManager) *Despawner {
	return &Despawner{entities: em}
}

// Sweep удаляет сущности дальше камеры и возвращает их количество
func (d *Despawner) Sweep(cameraEye vec.Vec3Float) int {
	limit := cameraEye.Length()
	origin := vec.Vec3Float{}

	removed := 0
	for _, e := range d.entities.All() {
		if _, isCharacter := e.Variant.(entity.Character); isCharacter {
			continue
		}
		if e.Transform.Translation.DistanceTo(origin) > limit {
			if d.entities.Despawn(e.ID) {
				removed++
			}
		}
	}
	return removed
}
