package assets

import "fmt"

// ModelRow строка таблицы моделей: вариант класса → путь
type ModelRow struct {
	Class   Class
	Variant string
	Path    string
}

// Signature возвращает сигнатуру модели строки
func (r ModelRow) Signature() Signature {
	return ModelSignature(r.Class, r.Variant)
}

// AnimationRow строка таблицы анимаций: (класс, вариант, анимация) → путь
type AnimationRow struct {
	Class     Class
	Variant   string
	Animation string
	Path      string
}

// Signature возвращает сигнатуру анимации, вложенную в сигнатуру модели
func (r AnimationRow) Signature() Signature {
	return AnimationSignature(ModelSignature(r.Class, r.Variant), r.Animation)
}

// Table таблица ассетов, загружаемая на старте.
// Новый вариант: одна строка таблицы.
type Table struct {
	Models     []ModelRow
	Animations []AnimationRow
}

// DefaultTable возвращает встроенную таблицу ассетов песочницы
func DefaultTable() Table {
	return Table{
		Models: []ModelRow{
			{Class: ClassBlock, Variant: "grass", Path: "models/block_grass.glb#Scene0"},
			{Class: ClassBlock, Variant: "dirt", Path: "models/block_dirt.glb#Scene0"},
			{Class: ClassVegetation, Variant: "corn", Path: "models/vegetation_corn.glb#Scene0"},
			{Class: ClassVegetation, Variant: "bamboo", Path: "models/vegetation_bamboo.glb#Scene0"},
			{Class: ClassVegetation, Variant: "tree", Path: "models/vegetation_tree.glb#Scene0"},
			{Class: ClassVegetation, Variant: "grass", Path: "models/vegetation_grass.glb#Scene0"},
			{Class: ClassPlayer, Path: "models/player.glb#Scene0"},
		},
		Animations: []AnimationRow{
			{Class: ClassPlayer, Animation: "idle", Path: "models/player.glb#Animation3"},
			{Class: ClassPlayer, Animation: "walk", Path: "models/player.glb#Animation6"},
		},
	}
}

// LoadTable загружает все строки таблицы в реестр. Первая ошибка прерывает загрузку.
func LoadTable(r *Registry, t Table) error {
	for _, row := range t.Models {
		if !KnownClass(row.Class) {
			return fmt.Errorf("неизвестный класс %q в таблице моделей", row.Class)
		}
		if _, err := r.LoadModel(row.Signature(), row.Path); err != nil {
			return err
		}
	}
	for _, row := range t.Animations {
		if !KnownClass(row.Class) {
			return fmt.Errorf("неизвестный класс %q в таблице анимаций", row.Class)
		}
		if _, err := r.LoadAnimation(row.Signature(), row.Path); err != nil {
			return err
		}
	}
	return nil
}
