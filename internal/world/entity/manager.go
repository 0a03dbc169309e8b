package entity

import (
	"sort"
	"sync"

	"github.com/annel0/genesys/internal/assets"
	"github.com/annel0/genesys/internal/vec"
)

// Hook вызывается при создании или удалении сущности
type Hook func(e *Entity)

// EntityManager управляет всеми сущностями в мире
type EntityManager struct {
	entities     map[uint64]*Entity // Хранилище всех сущностей
	nextEntityID uint64             // Счетчик для генерации ID
	onSpawn      Hook
	onDespawn    Hook
	index        *spatialIndex // Сущности по ячейкам сетки
	mu           sync.RWMutex // Диагностика читает счетчики из другой горутины
}

// NewEntityManager создаёт новый менеджер сущностей
func NewEntityManager() *EntityManager {
	return &EntityManager{
		entities: make(map[uint64]*Entity),
		index:    newSpatialIndex(),
	}
}

// SetHooks устанавливает обработчики создания и удаления
func (em *EntityManager) SetHooks(onSpawn, onDespawn Hook) {
	em.onSpawn = onSpawn
	em.onDespawn = onDespawn
}

// Spawn создаёт сущность варианта в ячейке с указанной моделью
func (em *EntityManager) Spawn(v Variant, coord vec.Vec3, model assets.Handle) *Entity {
	em.mu.Lock()
	em.nextEntityID++
	e := &Entity{
		ID:         em.nextEntityID,
		Variant:    v,
		Coordinate: coord,
		Model:      model,
		Transform:  PlacementTransform(v, coord),
	}
	em.entities[e.ID] = e
	em.index.insert(e)
	em.mu.Unlock()

	if em.onSpawn != nil {
		em.onSpawn(e)
	}
	return e
}

// Despawn удаляет сущность из мира
func (em *EntityManager) Despawn(id uint64) bool {
	em.mu.Lock()
	e, exists := em.entities[id]
	if exists {
		delete(em.entities, id)
		em.index.remove(e)
	}
	em.mu.Unlock()

	if exists && em.onDespawn != nil {
		em.onDespawn(e)
	}
	return exists
}

// SetTransform заменяет данные отрисовки сущности
func (em *EntityManager) SetTransform(id uint64, t Transform) bool {
	em.mu.Lock()
	defer em.mu.Unlock()
	e, exists := em.entities[id]
	if exists {
		e.Transform = t
	}
	return exists
}

// Move переносит сущность в другую ячейку сетки и обновляет индекс ячеек
func (em *EntityManager) Move(id uint64, coord vec.Vec3) bool {
	em.mu.Lock()
	defer em.mu.Unlock()
	e, exists := em.entities[id]
	if !exists {
		return false
	}
	if e.Coordinate != coord {
		em.index.remove(e)
		e.Coordinate = coord
		em.index.insert(e)
	}
	return true
}

// Get возвращает сущность по ID
func (em *EntityManager) Get(id uint64) (*Entity, bool) {
	em.mu.RLock()
	defer em.mu.RUnlock()
	e, exists := em.entities[id]
	return e, exists
}

// All возвращает все сущности в порядке создания
func (em *EntityManager) All() []*Entity {
	em.mu.RLock()
	out := make([]*Entity, 0, len(em.entities))
	for _, e := range em.entities {
		out = append(out, e)
	}
	em.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AtCell возвращает сущности ячейки (x, z) снизу вверх: блок, затем растительность.
// Перемещённые сущности учитываются по ячейке последнего Move.
func (em *EntityManager) AtCell(x, z int) []*Entity {
	em.mu.RLock()
	defer em.mu.RUnlock()
	return em.index.at(x, z)
}

// Count возвращает количество сущностей
func (em *EntityManager) Count() int {
	em.mu.RLock()
	defer em.mu.RUnlock()
	return len(em.entities)
}

// CountByClass возвращает количество сущностей по классам
func (em *EntityManager) CountByClass() map[assets.Class]int {
	em.mu.RLock()
	defer em.mu.RUnlock()
	out := make(map[assets.Class]int)
	for _, e := range em.entities {
		out[e.Variant.Class()]++
	}
	return out
}
