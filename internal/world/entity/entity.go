package entity

import (
	"github.com/annel0/genesys/internal/assets"
	"github.com/annel0/genesys/internal/vec"
)

// Визуальные поправки при размещении моделей. Это смещения отрисовки, а не игровое состояние.
const (
	BlockScale      = 0.5 // Модели блоков в два раза больше ячейки
	VegetationInset = 0.5 // Растительность утоплена в блок под ней
	CharacterLift   = 0.5 // Персонаж стоит на поверхности блока
)

// Transform данные отрисовки сущности
type Transform struct {
	Translation vec.Vec3Float
	Scale       float64
	Yaw         float64 // Поворот вокруг вертикальной оси, радианы
}

// Entity сущность, материализованная в мире
type Entity struct {
	ID         uint64        // Уникальный идентификатор сущности
	Variant    Variant       // Вариант (определяет модель)
	Coordinate vec.Vec3      // Ячейка сетки
	Model      assets.Handle // Ссылка на модель из реестра
	Transform  Transform     // Данные отрисовки
}

// PlacementTransform вычисляет данные отрисовки варианта в ячейке
func PlacementTransform(v Variant, coord vec.Vec3) Transform {
	translation := coord.ToFloat()
	switch v.(type) {
	case Terrain:
		return Transform{Translation: translation, Scale: BlockScale}
	case Vegetation:
		translation.Y -= VegetationInset
		return Transform{Translation: translation, Scale: 1}
	case Character:
		translation.Y += CharacterLift
		return Transform{Translation: translation, Scale: 1}
	default:
		return Transform{Translation: translation, Scale: 1}
	}
}
