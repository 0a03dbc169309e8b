package movement

import (
	"github.com/annel0/genesys/internal/input"
	"github.com/annel0/genesys/internal/world/entity"
)

// Phase состояние конечного автомата персонажа
type Phase interface {
	Enter(body *Body)
	Update(body *Body, in input.Snapshot) Phase
	Exit(body *Body)
	Animation() entity.Animation
}

// machine конечный автомат Idle/Walk
type machine struct {
	current     Phase
	transitions uint64
}

func newMachine() *machine {
	return &machine{current: &IdleState{}}
}

// update обновляет состояние и переключает его при необходимости
func (m *machine) update(body *Body, in input.Snapshot) Phase {
	next := m.current.Update(body, in)
	if next != m.current {
		m.current.Exit(body)
		m.current = next
		m.current.Enter(body)
		m.transitions++
	}
	return m.current
}

// === Конкретные состояния ===

// IdleState персонаж стоит на месте
type IdleState struct {
	TicksInState uint64
}

func (s *IdleState) Enter(body *Body) {
	s.TicksInState = 0
}

func (s *IdleState) Update(body *Body, in input.Snapshot) Phase {
	if len(in.Pressed) > 0 {
		return &WalkState{}
	}
	s.TicksInState++
	return s
}

func (s *IdleState) Exit(body *Body) {}

func (s *IdleState) Animation() entity.Animation { return entity.AnimationIdle }

// WalkState персонаж идет, пока удерживается хотя бы одна клавиша перемещения
type WalkState struct {
	TicksInState uint64
}

func (s *WalkState) Enter(body *Body) {
	s.TicksInState = 0
}

func (s *WalkState) Update(body *Body, in input.Snapshot) Phase {
	if len(in.Pressed) == 0 {
		return &IdleState{}
	}
	s.TicksInState++
	return s
}

func (s *WalkState) Exit(body *Body) {}

func (s *WalkState) Animation() entity.Animation { return entity.AnimationWalk }
