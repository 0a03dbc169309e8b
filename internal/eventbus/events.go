package eventbus

// Типы событий песочницы
const (
	TypeEntitySpawned    = "entity.spawned"
	TypeEntityDespawned  = "entity.despawned"
	TypeAnimationChanged = "animation.changed"
	TypeWorldGenerated   = "world.generated"
)

// Источники событий
const (
	SourceWorld    = "world"
	SourceMovement = "movement"
)

// EntityEvent полезная нагрузка entity.spawned / entity.despawned
type EntityEvent struct {
	EntityID  uint64 `json:"entity_id"`
	Signature string `json:"signature"`
	Class     string `json:"class"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Z         int    `json:"z"`
}

// AnimationEvent полезная нагрузка animation.changed
type AnimationEvent struct {
	Tick     uint64 `json:"tick"`
	Previous string `json:"previous,omitempty"`
	Next     string `json:"next"`
}

// WorldEvent полезная нагрузка world.generated
type WorldEvent struct {
	HalfExtent int            `json:"half_extent"`
	Cells      int            `json:"cells"`
	Terrain    map[string]int `json:"terrain"`
	Vegetation map[string]int `json:"vegetation"`
}
