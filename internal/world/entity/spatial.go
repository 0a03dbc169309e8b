package entity

import "sort"

// cellKey ключ ячейки сетки в плоскости XZ
type cellKey struct {
	x, z int
}

// spatialIndex индекс сущностей по ячейкам сетки. Не потокобезопасен:
// вызывается под мьютексом EntityManager.
type spatialIndex struct {
	cells map[cellKey]map[uint64]*Entity
}

func newSpatialIndex() *spatialIndex {
	return &spatialIndex{cells: make(map[cellKey]map[uint64]*Entity)}
}

func keyOf(e *Entity) cellKey {
	return cellKey{x: e.Coordinate.X, z: e.Coordinate.Z}
}

func (si *spatialIndex) insert(e *Entity) {
	key := keyOf(e)
	cell, ok := si.cells[key]
	if !ok {
		cell = make(map[uint64]*Entity)
		si.cells[key] = cell
	}
	cell[e.ID] = e
}

func (si *spatialIndex) remove(e *Entity) {
	key := keyOf(e)
	cell, ok := si.cells[key]
	if !ok {
		return
	}
	delete(cell, e.ID)
	if len(cell) == 0 {
		delete(si.cells, key)
	}
}

// at возвращает сущности ячейки снизу вверх
func (si *spatialIndex) at(x, z int) []*Entity {
	cell := si.cells[cellKey{x: x, z: z}]
	out := make([]*Entity, 0, len(cell))
	for _, e := range cell {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Coordinate.Y != out[j].Coordinate.Y {
			return out[i].Coordinate.Y < out[j].Coordinate.Y
		}
		return out[i].ID < out[j].ID
	})
	return out
}
