package assets

// Signature уникальный строковый ключ загружаемого ассета.
// Формат модели: "<класс>_<вариант>", анимации: "<сигнатура модели>_<анимация>".
type Signature string

// Class класс сущности; обязательный префикс сигнатуры, исключающий коллизии между классами
type Class string

const (
	ClassBlock      Class = "block"
	ClassVegetation Class = "vegetation"
	ClassPlayer     Class = "player"
)

// KnownClass проверяет, что класс входит в закрытый набор классов
func KnownClass(c Class) bool {
	switch c {
	case ClassBlock, ClassVegetation, ClassPlayer:
		return true
	default:
		return false
	}
}

// ModelSignature строит сигнатуру модели. Пустой вариант дает сигнатуру из одного класса ("player").
func ModelSignature(class Class, variant string) Signature {
	if variant == "" {
		return Signature(class)
	}
	return Signature(string(class) + "_" + variant)
}

// AnimationSignature строит сигнатуру анимации поверх сигнатуры модели, а не сырого варианта
func AnimationSignature(model Signature, animation string) Signature {
	return Signature(string(model) + "_" + animation)
}

// String возвращает строковое представление сигнатуры
func (s Signature) String() string {
	return string(s)
}
