package stream

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/annel0/genesys/internal/assets"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, name string, data []byte) {
	t.Helper()
	full := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, data, 0o644))
}

func writeZstd(t *testing.T, root, name string, data []byte) {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	writeFile(t, root, name, enc.EncodeAll(data, nil))
	require.NoError(t, enc.Close())
}

func waitAll(t *testing.T, s *Streamer) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Wait(ctx))
}

func TestStreamer_LoadResolvesAsync(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "models/block_grass.glb", []byte("glTF-grass"))

	s := New(root, 2)
	defer s.Close()

	h := s.Load(assets.KindModel, "models/block_grass.glb#Scene0")
	assert.False(t, h.IsZero(), "Ссылка выдается сразу")
	assert.Equal(t, "models/block_grass.glb#Scene0", h.Path())

	waitAll(t, s)

	data, done, err := s.Content(h)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, []byte("glTF-grass"), data)
	assert.True(t, s.Ready(h))
}

func TestStreamer_ZstdFallback(t *testing.T) {
	root := t.TempDir()
	writeZstd(t, root, "models/player.glb.zst", []byte("glTF-player"))

	s := New(root, 1)
	defer s.Close()

	scene := s.Load(assets.KindModel, "models/player.glb#Scene0")
	clip := s.Load(assets.KindAnimation, "models/player.glb#Animation3")
	assert.NotEqual(t, scene, clip, "Каждая загрузка получает свою ссылку")

	waitAll(t, s)

	data, _, err := s.Content(clip)
	require.NoError(t, err)
	assert.Equal(t, []byte("glTF-player"), data, "Сжатый файл должен распаковываться")
}

func TestStreamer_MissingFileIsNotFatal(t *testing.T) {
	s := New(t.TempDir(), 1)
	defer s.Close()

	h := s.Load(assets.KindModel, "models/missing.glb#Scene0")
	waitAll(t, s)

	state, ok := s.State(h)
	assert.True(t, ok)
	assert.Equal(t, StateFailed, state)

	_, done, err := s.Content(h)
	assert.True(t, done)
	assert.Error(t, err)
	assert.Equal(t, Stats{Failed: 1}, s.Stats())
}

func TestStreamer_UnknownHandle(t *testing.T) {
	s := New(t.TempDir(), 1)
	defer s.Close()

	_, ok := s.State(assets.NewHandle(assets.KindModel, 42, "x"))
	assert.False(t, ok)
	_, _, err := s.Content(assets.NewHandle(assets.KindModel, 42, "x"))
	assert.Error(t, err)
}

func TestStreamer_WithRegistry(t *testing.T) {
	root := t.TempDir()
	for _, row := range assets.DefaultTable().Models {
		writeFile(t, root, filepath.FromSlash(row.Path[:len(row.Path)-len("#Scene0")]), []byte(row.Signature()))
	}

	s := New(root, 4)
	defer s.Close()

	reg := assets.NewRegistry(s)
	require.NoError(t, assets.LoadTable(reg, assets.DefaultTable()))
	catalog := reg.Seal()

	waitAll(t, s)

	h, err := catalog.GetModel("vegetation_tree")
	require.NoError(t, err)
	data, _, err := s.Content(h)
	require.NoError(t, err)
	assert.Equal(t, "vegetation_tree", string(data))
}
