package assets

import "fmt"

// Kind пространство имен ассета
type Kind uint8

const (
	KindModel Kind = iota
	KindAnimation
)

// String возвращает строковое представление вида ассета
func (k Kind) String() string {
	switch k {
	case KindModel:
		return "model"
	case KindAnimation:
		return "animation"
	default:
		return "unknown"
	}
}

// Handle непрозрачная ссылка на ассет. Копирование копирует только ссылку;
// содержимое может быть еще не загружено загрузчиком.
type Handle struct {
	kind Kind
	id   uint64
	path string
}

// NewHandle создает ссылку; вызывается реализациями Loader
func NewHandle(kind Kind, id uint64, path string) Handle {
	return Handle{kind: kind, id: id, path: path}
}

// Kind возвращает вид ассета
func (h Handle) Kind() Kind { return h.kind }

// ID возвращает идентификатор, выданный загрузчиком
func (h Handle) ID() uint64 { return h.id }

// Path возвращает исходный путь ассета
func (h Handle) Path() string { return h.path }

// IsZero проверяет, что ссылка пустая
func (h Handle) IsZero() bool { return h == Handle{} }

func (h Handle) String() string {
	return fmt.Sprintf("%s#%d(%s)", h.kind, h.id, h.path)
}

// Loader загрузчик ассетов: сразу возвращает ссылку, содержимое разрешается асинхронно
type Loader interface {
	Load(kind Kind, path string) Handle
}

// MemoryLoader выдает последовательные ссылки без чтения данных
type MemoryLoader struct {
	nextID uint64
	calls  []string
}

// NewMemoryLoader создает загрузчик без хранилища
func NewMemoryLoader() *MemoryLoader {
	return &MemoryLoader{}
}

// Load выдает новую ссылку на путь
func (l *MemoryLoader) Load(kind Kind, path string) Handle {
	l.nextID++
	l.calls = append(l.calls, path)
	return NewHandle(kind, l.nextID, path)
}

// Calls возвращает пути в порядке вызовов Load
func (l *MemoryLoader) Calls() []string {
	out := make([]string, len(l.calls))
	copy(out, l.calls)
	return out
}
