package entity

import "github.com/annel0/genesys/internal/assets"

// Variant закрытый набор подтипов сущностей. Каждый вариант соответствует
// строке таблицы ассетов через пару (класс, идентификатор).
type Variant interface {
	Class() assets.Class
	ID() string
	String() string
	sealed()
}

// Terrain варианты блоков ландшафта
type Terrain uint8

const (
	TerrainGrass Terrain = iota
	TerrainDirt
)

var terrainIDs = [...]string{
	TerrainGrass: "grass",
	TerrainDirt:  "dirt",
}

func (Terrain) Class() assets.Class { return assets.ClassBlock }
func (t Terrain) ID() string        { return terrainIDs[t] }
func (t Terrain) String() string    { return string(ModelSignature(t)) }
func (Terrain) sealed()             {}

// Vegetation варианты растительности
type Vegetation uint8

const (
	VegetationCorn Vegetation = iota
	VegetationBamboo
	VegetationTree
	VegetationGrass
)

var vegetationIDs = [...]string{
	VegetationCorn:   "corn",
	VegetationBamboo: "bamboo",
	VegetationTree:   "tree",
	VegetationGrass:  "grass",
}

func (Vegetation) Class() assets.Class { return assets.ClassVegetation }
func (v Vegetation) ID() string        { return vegetationIDs[v] }
func (v Vegetation) String() string    { return string(ModelSignature(v)) }
func (Vegetation) sealed()             {}

// Character варианты персонажей
type Character uint8

const (
	CharacterPlayer Character = iota
)

// Игрок единственный в своем классе, поэтому идентификатор варианта пуст: сигнатура "player"
var characterIDs = [...]string{
	CharacterPlayer: "",
}

func (Character) Class() assets.Class { return assets.ClassPlayer }
func (c Character) ID() string        { return characterIDs[c] }
func (c Character) String() string    { return string(ModelSignature(c)) }
func (Character) sealed()             {}

// Animation анимации персонажа
type Animation uint8

const (
	AnimationIdle Animation = iota
	AnimationWalk
)

var animationIDs = [...]string{
	AnimationIdle: "idle",
	AnimationWalk: "walk",
}

// ID возвращает идентификатор анимации в таблице ассетов
func (a Animation) ID() string { return animationIDs[a] }

func (a Animation) String() string { return animationIDs[a] }

// ModelSignature сигнатура модели варианта
func ModelSignature(v Variant) assets.Signature {
	return assets.ModelSignature(v.Class(), v.ID())
}

// AnimationSignature сигнатура анимации варианта, вложенная в сигнатуру его модели
func AnimationSignature(v Variant, a Animation) assets.Signature {
	return assets.AnimationSignature(ModelSignature(v), a.ID())
}

// AllVariants перечисляет все варианты всех классов
func AllVariants() []Variant {
	return []Variant{
		TerrainGrass, TerrainDirt,
		VegetationCorn, VegetationBamboo, VegetationTree, VegetationGrass,
		CharacterPlayer,
	}
}
