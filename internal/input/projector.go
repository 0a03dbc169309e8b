package input

import (
	"slices"

	"github.com/annel0/genesys/internal/vec"
)

// DefaultGroundHeight высота плоскости, на которую проецируется курсор
const DefaultGroundHeight = 1.0

// Snapshot неизменяемое состояние ввода за тик
type Snapshot struct {
	MouseScreen vec.Vec2Float
	MouseWorld  vec.Vec3Float
	// Нажатые клавиши перемещения в порядке нажатия
	Pressed []Key
	// Projected сообщает, что MouseWorld пересчитан в этом тике
	Projected bool
}

// First возвращает самую раннюю из удерживаемых клавиш
func (s Snapshot) First() (Key, bool) {
	if len(s.Pressed) == 0 {
		return KeyUnknown, false
	}
	return s.Pressed[0], true
}

// Projector собирает события устройств в снимки ввода
type Projector struct {
	ground     float64
	pressed    []Key
	screen     vec.Vec2Float
	hasPointer bool
	world      vec.Vec3Float
}

// NewProjector создаёт проектор с плоскостью земли на высоте groundHeight
func NewProjector(groundHeight float64) *Projector {
	return &Projector{ground: groundHeight}
}

// GroundHeight возвращает высоту плоскости проекции
func (p *Projector) GroundHeight() float64 {
	return p.ground
}

// Update применяет события кадра и возвращает снимок. cam может быть nil:
// тогда, как и при отсутствии пересечения, мировая координата не меняется.
func (p *Projector) Update(frame Frame, cam Camera) Snapshot {
	for _, edge := range frame.Keys {
		p.applyKey(edge)
	}
	if n := len(frame.Pointer); n > 0 {
		p.screen = frame.Pointer[n-1]
		p.hasPointer = true
	}

	projected := false
	if p.hasPointer && cam != nil {
		if world, ok := p.project(cam); ok {
			p.world = world
			projected = true
		}
	}

	return Snapshot{
		MouseScreen: p.screen,
		MouseWorld:  p.world,
		Pressed:     slices.Clone(p.pressed),
		Projected:   projected,
	}
}

func (p *Projector) applyKey(edge KeyEdge) {
	if !IsMovement(edge.Key) {
		return
	}
	idx := slices.Index(p.pressed, edge.Key)
	if edge.Pressed {
		if idx < 0 {
			p.pressed = append(p.pressed, edge.Key)
		}
		return
	}
	if idx >= 0 {
		p.pressed = slices.Delete(p.pressed, idx, idx+1)
	}
}

func (p *Projector) project(cam Camera) (vec.Vec3Float, bool) {
	ray, ok := cam.ViewportToWorld(p.screen)
	if !ok {
		return vec.Vec3Float{}, false
	}
	point := vec.Vec3Float{Y: p.ground}
	distance, ok := ray.IntersectPlane(point, vec.UnitY)
	if !ok {
		return vec.Vec3Float{}, false
	}
	return ray.At(distance), true
}
