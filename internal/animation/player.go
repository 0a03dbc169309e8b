// Package animation хранит текущий клип персонажа и не перезапускает его без необходимости.
package animation

import "github.com/annel0/genesys/internal/assets"

// Sink получает уведомления о запуске клипа (рендер, шина событий)
type Sink interface {
	AnimationStarted(previous, next assets.Handle)
}

// SinkFunc адаптер функции к Sink
type SinkFunc func(previous, next assets.Handle)

func (f SinkFunc) AnimationStarted(previous, next assets.Handle) { f(previous, next) }

// Player проигрыватель анимаций одной сущности
type Player struct {
	current  assets.Handle
	restarts uint64
	sink     Sink
}

// NewPlayer создаёт проигрыватель. sink может быть nil.
func NewPlayer(sink Sink) *Player {
	return &Player{sink: sink}
}

// Play запускает клип h. Если h уже играет, ничего не происходит и возвращается false.
func (p *Player) Play(h assets.Handle) bool {
	if h == p.current {
		return false
	}
	previous := p.current
	p.current = h
	p.restarts++
	if p.sink != nil {
		p.sink.AnimationStarted(previous, h)
	}
	return true
}

// Current возвращает играющий клип. false, если ничего не запускалось.
func (p *Player) Current() (assets.Handle, bool) {
	return p.current, !p.current.IsZero()
}

// Restarts количество запусков клипов
func (p *Player) Restarts() uint64 {
	return p.restarts
}
