package assets

import (
	"errors"
	"fmt"
)

// Фатальные ошибки реестра: таблица ассетов и реестр рассинхронизированы
var (
	ErrDuplicateLoad = errors.New("asset already loaded")
	ErrNotLoaded     = errors.New("asset not loaded")
	ErrSealed        = errors.New("asset registry sealed")
)

// LoadError описывает нарушение инварианта реестра для конкретной сигнатуры
type LoadError struct {
	Op        string // "load" или "get"
	Kind      Kind
	Signature Signature
	Err       error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s %s %q: %v", e.Op, e.Kind, string(e.Signature), e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsFatal сообщает, относится ли ошибка к классу нарушений инвариантов реестра
func IsFatal(err error) bool {
	return errors.Is(err, ErrDuplicateLoad) || errors.Is(err, ErrNotLoaded) || errors.Is(err, ErrSealed)
}

// SignatureOf извлекает сигнатуру из цепочки ошибок
func SignatureOf(err error) (Signature, bool) {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Signature, true
	}
	return "", false
}
