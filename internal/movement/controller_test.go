package movement

import (
	"math"
	"testing"

	"github.com/annel0/genesys/internal/assets"
	"github.com/annel0/genesys/internal/input"
	"github.com/annel0/genesys/internal/vec"
	"github.com/annel0/genesys/internal/world/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultCatalog(t *testing.T) *assets.Catalog {
	t.Helper()
	reg := assets.NewRegistry(assets.NewMemoryLoader())
	require.NoError(t, assets.LoadTable(reg, assets.DefaultTable()))
	return reg.Seal()
}

func snapshot(mouse vec.Vec3Float, keys ...input.Key) input.Snapshot {
	return input.Snapshot{MouseWorld: mouse, Pressed: keys, Projected: true}
}

func TestFacing(t *testing.T) {
	assert.InDelta(t, math.Pi/4, Facing(vec.Vec3Float{}, vec.Vec3Float{X: 1, Y: 1, Z: 1}), 1e-12)
	assert.InDelta(t, 0.0, Facing(vec.Vec3Float{}, vec.Vec3Float{Z: 5}), 1e-12)
	assert.InDelta(t, math.Pi/2, Facing(vec.Vec3Float{X: 1}, vec.Vec3Float{X: 3}), 1e-12)
	assert.Equal(t, 0.0, Facing(vec.Vec3Float{X: 2, Z: 2}, vec.Vec3Float{X: 2, Y: 1, Z: 2}), "Курсор над игроком дает нулевой угол")
}

func TestDirection_Basis(t *testing.T) {
	f := 0.7
	fwd := Direction(input.KeyW, f)
	left := Direction(input.KeyA, f)

	assert.InDelta(t, 1.0, fwd.Length(), 1e-12)
	assert.InDelta(t, 1.0, left.Length(), 1e-12)
	assert.InDelta(t, 0.0, fwd.Dot(left), 1e-12, "Вперед и влево ортогональны")
	assert.Equal(t, fwd.Neg(), Direction(input.KeyS, f))
	assert.Equal(t, left.Neg(), Direction(input.KeyD, f))
	assert.True(t, Direction(input.KeySpace, f).IsZero())

	// Влево это +X, повернутый на угол взгляда
	rotated := vec.UnitX.RotateY(f)
	assert.InDelta(t, rotated.X, left.X, 1e-12)
	assert.InDelta(t, rotated.Z, left.Z, 1e-12)
}

func TestController_Idle(t *testing.T) {
	c := NewController(defaultCatalog(t), 0)
	assert.Equal(t, DefaultSpeed, c.Speed())

	body := &Body{Position: vec.Vec3Float{X: 1, Z: 1}}
	state, err := c.Tick(1.0/60, snapshot(vec.Vec3Float{X: 1, Y: 1, Z: 5}), body)
	require.NoError(t, err)

	assert.False(t, state.Walking)
	assert.True(t, state.Delta.IsZero(), "Без клавиш перемещения нет")
	assert.Equal(t, entity.AnimationIdle, state.Animation)
	assert.Equal(t, vec.Vec3Float{X: 1, Z: 1}, body.Position)
	assert.Equal(t, "models/player.glb#Animation3", body.Animation.Path())
	assert.Equal(t, uint64(0), c.Transitions())
}

func TestController_ForwardMagnitude(t *testing.T) {
	c := NewController(defaultCatalog(t), 2)
	body := &Body{}

	state, err := c.Tick(1, snapshot(vec.Vec3Float{X: 1, Y: 1, Z: 1}, input.KeyW), body)
	require.NoError(t, err)

	assert.True(t, state.Walking)
	assert.InDelta(t, math.Pi/4, state.Facing, 1e-12)
	assert.InDelta(t, 2.0, state.Delta.Length(), 1e-12)
	assert.InDelta(t, 2*math.Sin(math.Pi/4), state.Delta.X, 1e-12)
	assert.InDelta(t, 2*math.Cos(math.Pi/4), state.Delta.Z, 1e-12)
	assert.Equal(t, 0.0, state.Delta.Y)
	assert.Equal(t, state.Delta, body.Position)
	assert.Equal(t, state.Facing, body.Facing)
	assert.Equal(t, "models/player.glb#Animation6", body.Animation.Path())
}

func TestController_FirstKeyWins(t *testing.T) {
	c := NewController(defaultCatalog(t), 1)
	mouse := vec.Vec3Float{Z: 10}

	body := &Body{}
	state, err := c.Tick(1, snapshot(mouse, input.KeyD, input.KeyW), body)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, state.Delta.X, 1e-12, "Первая нажатая клавиша D: вправо, то есть -X")
	assert.InDelta(t, 0.0, state.Delta.Z, 1e-12)

	body = &Body{}
	state, err = c.Tick(1, snapshot(mouse, input.KeyS, input.KeyA), body)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, state.Delta.Z, 1e-12)
	assert.InDelta(t, 0.0, state.Delta.X, 1e-12)
}

func TestController_ScalesByDt(t *testing.T) {
	c := NewController(defaultCatalog(t), DefaultSpeed)
	body := &Body{}
	state, err := c.Tick(0.5, snapshot(vec.Vec3Float{Z: 10}, input.KeyW), body)
	require.NoError(t, err)
	assert.InDelta(t, DefaultSpeed*0.5, state.Delta.Z, 1e-12)
}

func TestController_Transitions(t *testing.T) {
	c := NewController(defaultCatalog(t), 1)
	body := &Body{}
	mouse := vec.Vec3Float{Z: 1}

	steps := []struct {
		keys  []input.Key
		phase entity.Animation
	}{
		{nil, entity.AnimationIdle},
		{[]input.Key{input.KeyW}, entity.AnimationWalk},
		{[]input.Key{input.KeyW, input.KeyA}, entity.AnimationWalk},
		{nil, entity.AnimationIdle},
		{[]input.Key{input.KeyA}, entity.AnimationWalk},
	}
	for i, step := range steps {
		state, err := c.Tick(0.1, snapshot(mouse, step.keys...), body)
		require.NoError(t, err)
		assert.Equal(t, step.phase, state.Animation, "шаг %d", i)
		assert.Equal(t, step.phase, c.Phase().Animation(), "шаг %d", i)
		if len(step.keys) == 0 {
			assert.True(t, state.Delta.IsZero(), "шаг %d: без клавиш смещение нулевое", i)
		}
	}
	assert.Equal(t, uint64(3), c.Transitions())
}

func TestController_MissingAnimationIsFatal(t *testing.T) {
	table := assets.DefaultTable()
	table.Animations = table.Animations[:1] // только idle
	reg := assets.NewRegistry(assets.NewMemoryLoader())
	require.NoError(t, assets.LoadTable(reg, table))

	c := NewController(reg.Seal(), 1)
	body := &Body{}

	_, err := c.Tick(1, snapshot(vec.Vec3Float{Z: 1}), body)
	require.NoError(t, err)

	_, err = c.Tick(1, snapshot(vec.Vec3Float{Z: 1}, input.KeyW), body)
	require.Error(t, err)
	assert.ErrorIs(t, err, assets.ErrNotLoaded)
	assert.True(t, assets.IsFatal(err))
	assert.True(t, body.Position.IsZero(), "При ошибке тело не перемещается")
	assert.Equal(t, entity.AnimationIdle, c.Phase().Animation(), "При ошибке автомат остаётся в покое")
	assert.Equal(t, uint64(0), c.Transitions(), "При ошибке переход не засчитывается")
}
