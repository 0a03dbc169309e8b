package assets

import "sort"

// Registry хранилище ссылок на модели и анимации по сигнатуре.
// Заполняется один раз на старте (единственный писатель), затем Seal
// выдает Catalog только для чтения. Блокировки не нужны: после Seal данные не меняются.
type Registry struct {
	loader     Loader
	models     map[Signature]Handle
	animations map[Signature]Handle
	sealed     bool
}

// NewRegistry создает пустой реестр поверх загрузчика
func NewRegistry(loader Loader) *Registry {
	return &Registry{
		loader:     loader,
		models:     make(map[Signature]Handle),
		animations: make(map[Signature]Handle),
	}
}

// LoadModel регистрирует модель. Повторная сигнатура: фатальная ошибка ErrDuplicateLoad.
func (r *Registry) LoadModel(sig Signature, source string) (Handle, error) {
	return r.load(KindModel, r.models, sig, source)
}

// LoadAnimation регистрирует анимацию в отдельном от моделей пространстве имен
func (r *Registry) LoadAnimation(sig Signature, source string) (Handle, error) {
	return r.load(KindAnimation, r.animations, sig, source)
}

func (r *Registry) load(kind Kind, ns map[Signature]Handle, sig Signature, source string) (Handle, error) {
	if r.sealed {
		return Handle{}, &LoadError{Op: "load", Kind: kind, Signature: sig, Err: ErrSealed}
	}
	// Проверяем дубликат до обращения к загрузчику
	if _, exists := ns[sig]; exists {
		return Handle{}, &LoadError{Op: "load", Kind: kind, Signature: sig, Err: ErrDuplicateLoad}
	}
	handle := r.loader.Load(kind, source)
	ns[sig] = handle
	return handle, nil
}

// GetModel возвращает ссылку на модель или ErrNotLoaded. Ленивой загрузки нет.
func (r *Registry) GetModel(sig Signature) (Handle, error) {
	return get(KindModel, r.models, sig)
}

// GetAnimation возвращает ссылку на анимацию или ErrNotLoaded
func (r *Registry) GetAnimation(sig Signature) (Handle, error) {
	return get(KindAnimation, r.animations, sig)
}

func get(kind Kind, ns map[Signature]Handle, sig Signature) (Handle, error) {
	handle, exists := ns[sig]
	if !exists {
		return Handle{}, &LoadError{Op: "get", Kind: kind, Signature: sig, Err: ErrNotLoaded}
	}
	return handle, nil
}

// Seal завершает фазу загрузки и возвращает каталог только для чтения
func (r *Registry) Seal() *Catalog {
	r.sealed = true
	return &Catalog{r: r}
}

// Sealed сообщает, завершена ли фаза загрузки
func (r *Registry) Sealed() bool {
	return r.sealed
}

// Len возвращает количество моделей и анимаций
func (r *Registry) Len() (models, animations int) {
	return len(r.models), len(r.animations)
}

// Catalog доступ к реестру только для чтения после фазы загрузки
type Catalog struct {
	r *Registry
}

// GetModel возвращает ссылку на модель или ErrNotLoaded
func (c *Catalog) GetModel(sig Signature) (Handle, error) {
	return c.r.GetModel(sig)
}

// GetAnimation возвращает ссылку на анимацию или ErrNotLoaded
func (c *Catalog) GetAnimation(sig Signature) (Handle, error) {
	return c.r.GetAnimation(sig)
}

// Signatures возвращает отсортированные сигнатуры указанного вида
func (c *Catalog) Signatures(kind Kind) []Signature {
	ns := c.r.models
	if kind == KindAnimation {
		ns = c.r.animations
	}
	out := make([]Signature, 0, len(ns))
	for sig := range ns {
		out = append(out, sig)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
