package diagnostics

import (
	"math"
	"sync"

	"github.com/annel0/genesys/internal/assets/stream"
	"github.com/annel0/genesys/internal/eventbus"
	"github.com/annel0/genesys/internal/vec"
)

// PlayerState положение и анимация игрока
type PlayerState struct {
	Position  [3]float64 `json:"position"`
	Facing    float64    `json:"facing"`
	Walking   bool       `json:"walking"`
	Animation string     `json:"animation"`
}

// Snapshot состояние отладочной панели на конец тика
type Snapshot struct {
	Tick        uint64         `json:"tick"`
	FPS         float64        `json:"fps"`
	MouseScreen [2]float64     `json:"mouse_screen"`
	MouseWorld  [3]float64     `json:"mouse_world"`
	Projected   bool           `json:"projected"`
	HoveredCell [2]int         `json:"hovered_cell"`
	Hovered     []string       `json:"hovered,omitempty"` // Сигнатуры сущностей в ячейке под курсором
	Player      PlayerState    `json:"player"`
	Entities    map[string]int `json:"entities"`
	Transitions uint64         `json:"transitions"`
	Restarts    uint64         `json:"animation_restarts"`
	Assets      stream.Stats   `json:"assets"`
	EventBus    eventbus.Stats `json:"eventbus"`
	System      SystemInfo     `json:"system"`
}

// HoveredCell ячейка сетки под курсором (x, z)
func HoveredCell(world vec.Vec3Float) [2]int {
	return [2]int{int(math.Floor(world.X)), int(math.Floor(world.Z))}
}

// Store хранит последний опубликованный снимок для HTTP-обработчиков
type Store struct {
	mu     sync.RWMutex
	latest Snapshot
	ok     bool
}

// NewStore создаёт пустое хранилище
func NewStore() *Store {
	return &Store{}
}

// Publish заменяет последний снимок
func (s *Store) Publish(snap Snapshot) {
	s.mu.Lock()
	s.latest = snap
	s.ok = true
	s.mu.Unlock()
}

// Latest возвращает копию последнего снимка; false до первой публикации
func (s *Store) Latest() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.latest
	if snap.Entities != nil {
		entities := make(map[string]int, len(snap.Entities))
		for k, v := range snap.Entities {
			entities[k] = v
		}
		snap.Entities = entities
	}
	return snap, s.ok
}
