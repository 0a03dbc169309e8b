package input

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/annel0/genesys/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScript = `
steps:
  - at_tick: 10
    release: [w]
  - at_tick: 0
    pointer: [700, 350]
    press: [w, space]
  - at_tick: 10
    press: [d]
    pointer: [100, 50]
`

func TestParseScript(t *testing.T) {
	s, err := ParseScript([]byte(sampleScript))
	require.NoError(t, err)

	assert.Equal(t, uint64(10), s.LastTick())

	f0 := s.Frame(0)
	assert.Equal(t, []KeyEdge{Press(KeyW), Press(KeySpace)}, f0.Keys)
	assert.Equal(t, []vec.Vec2Float{{X: 700, Y: 350}}, f0.Pointer)

	assert.True(t, s.Frame(5).Empty(), "Тик без шагов пуст")

	f10 := s.Frame(10)
	assert.Equal(t, []KeyEdge{Release(KeyW), Press(KeyD)}, f10.Keys, "Шаги одного тика сохраняют порядок объявления")
}

func TestParseScript_Errors(t *testing.T) {
	_, err := ParseScript([]byte("steps:\n  - at_tick: 1\n    press: [q]\n"))
	assert.Error(t, err, "Неизвестная клавиша")

	_, err = ParseScript([]byte("steps:\n  - at_tick: 1\n    pointer: [1]\n"))
	assert.Error(t, err, "Неполные координаты курсора")

	_, err = ParseScript([]byte("steps: ["))
	assert.Error(t, err)
}

func TestScript_DrivesProjector(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleScript), 0o644))

	s, err := LoadScript(path)
	require.NoError(t, err)

	p := NewProjector(DefaultGroundHeight)
	cam := NewOrthoCamera()
	var snap Snapshot
	for tick := uint64(0); tick <= s.LastTick(); tick++ {
		snap = p.Update(s.Frame(tick), cam)
	}
	assert.Equal(t, []Key{KeyD}, snap.Pressed)
	assert.Equal(t, vec.Vec2Float{X: 100, Y: 50}, snap.MouseScreen)
	assert.True(t, snap.Projected)
}

func TestScript_Nil(t *testing.T) {
	var s *Script
	assert.True(t, s.Frame(3).Empty())
	assert.Equal(t, uint64(0), s.LastTick())
}
