// Package movement переводит снимок ввода в поворот, перемещение и анимацию игрока.
package movement

import (
	"fmt"
	"math"

	"github.com/annel0/genesys/internal/assets"
	"github.com/annel0/genesys/internal/input"
	"github.com/annel0/genesys/internal/vec"
	"github.com/annel0/genesys/internal/world/entity"
)

// DefaultSpeed скорость игрока в единицах мира в секунду
const DefaultSpeed = 5.5

// AnimationCatalog источник ссылок на анимации (только чтение)
type AnimationCatalog interface {
	GetAnimation(sig assets.Signature) (assets.Handle, error)
}

// Body изменяемые в тике данные игрока
type Body struct {
	Position  vec.Vec3Float
	Facing    float64 // Поворот вокруг вертикальной оси, радианы
	Animation assets.Handle
}

// State результат тика движения
type State struct {
	Facing    float64
	Delta     vec.Vec3Float
	Walking   bool
	Animation entity.Animation
}

// Controller управляет игроком по снимку ввода
type Controller struct {
	catalog AnimationCatalog
	speed   float64
	fsm     *machine
}

// NewController создаёт контроллер. speed <= 0 заменяется значением по умолчанию.
func NewController(catalog AnimationCatalog, speed float64) *Controller {
	if speed <= 0 {
		speed = DefaultSpeed
	}
	return &Controller{
		catalog: catalog,
		speed:   speed,
		fsm:     newMachine(),
	}
}

// Speed возвращает скорость контроллера
func (c *Controller) Speed() float64 {
	return c.speed
}

// Transitions количество переключений Idle/Walk
func (c *Controller) Transitions() uint64 {
	return c.fsm.transitions
}

// Phase текущее состояние автомата
func (c *Controller) Phase() Phase {
	return c.fsm.current
}

// Facing угол поворота к точке target из from вокруг вертикальной оси.
// Совпадающие точки дают 0.
func Facing(from, target vec.Vec3Float) float64 {
	d := target.Sub(from)
	return math.Atan2(d.X, d.Z)
}

// Forward единичный вектор взгляда для угла facing
func Forward(facing float64) vec.Vec3Float {
	return vec.Vec3Float{X: math.Sin(facing), Z: math.Cos(facing)}
}

// Left единичный вектор влево от взгляда
func Left(facing float64) vec.Vec3Float {
	return vec.Vec3Float{X: math.Cos(facing), Z: -math.Sin(facing)}
}

// Direction направление перемещения для клавиши относительно взгляда
func Direction(k input.Key, facing float64) vec.Vec3Float {
	switch k {
	case input.KeyW:
		return Forward(facing)
	case input.KeyS:
		return Forward(facing).Neg()
	case input.KeyA:
		return Left(facing)
	case input.KeyD:
		return Left(facing).Neg()
	}
	return vec.Vec3Float{}
}

// Tick поворачивает игрока к курсору, перемещает по первой удерживаемой клавише
// и назначает анимацию. Ссылка на анимацию запрашивается у каталога каждый тик.
// Отсутствие анимации в каталоге фатально: тело и автомат при этом не изменяются.
func (c *Controller) Tick(dt float64, in input.Snapshot, body *Body) (State, error) {
	walking := len(in.Pressed) > 0
	anim := animationFor(walking)

	handle, err := c.catalog.GetAnimation(entity.AnimationSignature(entity.CharacterPlayer, anim))
	if err != nil {
		return State{}, fmt.Errorf("анимация игрока %s: %w", anim, err)
	}
	phase := c.fsm.update(body, in)

	state := State{
		Facing:    Facing(body.Position, in.MouseWorld),
		Walking:   walking,
		Animation: phase.Animation(),
	}
	if key, ok := in.First(); ok {
		state.Delta = Direction(key, state.Facing).Mul(dt * c.speed)
	}

	body.Facing = state.Facing
	body.Position = body.Position.Add(state.Delta)
	body.Animation = handle
	return state, nil
}

func animationFor(walking bool) entity.Animation {
	if walking {
		return entity.AnimationWalk
	}
	return entity.AnimationIdle
}
