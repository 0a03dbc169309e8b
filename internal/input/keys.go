package input

import (
	"strings"

	"github.com/annel0/genesys/internal/vec"
)

// Key клавиша клавиатуры
type Key uint8

const (
	KeyUnknown Key = iota
	KeyW
	KeyS
	KeyA
	KeyD
	KeySpace
	KeyShift
	KeyEscape
)

var keyNames = map[Key]string{
	KeyW:      "w",
	KeyS:      "s",
	KeyA:      "a",
	KeyD:      "d",
	KeySpace:  "space",
	KeyShift:  "shift",
	KeyEscape: "escape",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKey разбирает имя клавиши без учета регистра
func ParseKey(name string) (Key, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range keyNames {
		if n == name {
			return k, true
		}
	}
	return KeyUnknown, false
}

// IsMovement сообщает, участвует ли клавиша в перемещении
func IsMovement(k Key) bool {
	switch k {
	case KeyW, KeyS, KeyA, KeyD:
		return true
	}
	return false
}

// KeyEdge событие нажатия или отпускания клавиши
type KeyEdge struct {
	Key     Key
	Pressed bool
}

// Press создает событие нажатия
func Press(k Key) KeyEdge { return KeyEdge{Key: k, Pressed: true} }

// Release создает событие отпускания
func Release(k Key) KeyEdge { return KeyEdge{Key: k, Pressed: false} }

// Frame события устройств ввода, накопленные за один тик.
// Keys применяются по порядку, из Pointer учитывается последнее значение.
type Frame struct {
	Keys    []KeyEdge
	Pointer []vec.Vec2Float
}

// Empty сообщает, что за тик не было событий
func (f Frame) Empty() bool {
	return len(f.Keys) == 0 && len(f.Pointer) == 0
}
