package tracelog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_WriteReadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace", "run.jsonl.zst")
	rec, err := NewRecorder(path)
	require.NoError(t, err)

	want := []Record{
		{Tick: 0, DT: 1.0 / 60, Animation: "idle", Mouse: [3]float64{1, 1, 1}, Projected: true},
		{Tick: 1, DT: 1.0 / 60, Facing: 0.785, Delta: [3]float64{0.06, 0, 0.06}, Walking: true, Animation: "walk"},
	}
	for _, r := range want {
		require.NoError(t, rec.Write(r))
	}
	assert.Equal(t, uint64(2), rec.Written())
	require.NoError(t, rec.Close())
	require.NoError(t, rec.Close(), "Повторное закрытие безопасно")

	assert.ErrorIs(t, rec.Write(Record{}), os.ErrClosed)

	got, err := ReadAll(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadAll_Errors(t *testing.T) {
	_, err := ReadAll(filepath.Join(t.TempDir(), "missing.jsonl.zst"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "plain.jsonl.zst")
	require.NoError(t, os.WriteFile(path, []byte("{\"tick\":1}\n"), 0o644))
	_, err = ReadAll(path)
	assert.Error(t, err, "Несжатый файл не читается")
}
