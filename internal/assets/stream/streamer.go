// Package stream реализует асинхронный загрузчик ассетов с диска.
// Ссылка выдается сразу, байты читаются фоновыми воркерами; файлы .zst
// прозрачно распаковываются.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/annel0/genesys/internal/assets"
	"github.com/annel0/genesys/internal/logging"
	"github.com/klauspost/compress/zstd"
)

// State состояние разрешения содержимого ссылки
type State int

const (
	StatePending State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type entry struct {
	state State
	data  []byte
	err   error
}

// Stats агрегированное состояние загрузчика
type Stats struct {
	Pending int `json:"pending"`
	Ready   int `json:"ready"`
	Failed  int `json:"failed"`
}

// Streamer асинхронный загрузчик ассетов из каталога root
type Streamer struct {
	root    string
	mu      sync.Mutex
	nextID  uint64
	entries map[uint64]*entry
	sem     chan struct{}
	wg      sync.WaitGroup
	closed  bool
}

var _ assets.Loader = (*Streamer)(nil)

// New создает загрузчик; workers ограничивает число одновременных чтений
func New(root string, workers int) *Streamer {
	if workers <= 0 {
		workers = 4
	}
	return &Streamer{
		root:    root,
		entries: make(map[uint64]*entry),
		sem:     make(chan struct{}, workers),
	}
}

// Load выдает ссылку немедленно и ставит чтение в очередь. Никогда не блокирует вызывающего.
func (s *Streamer) Load(kind assets.Kind, path string) assets.Handle {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	e := &entry{state: StatePending}
	s.entries[id] = e
	closed := s.closed
	if !closed {
		s.wg.Add(1)
	}
	s.mu.Unlock()

	handle := assets.NewHandle(kind, id, path)
	if closed {
		s.finish(e, nil, errors.New("загрузчик закрыт"))
		return handle
	}

	go func() {
		defer s.wg.Done()
		s.sem <- struct{}{}
		defer func() { <-s.sem }()

		data, err := s.read(path)
		if err != nil {
			logging.Warn("Ассет %s не загружен: %v", path, err)
		} else {
			logging.Debug("Ассет %s загружен (%d байт)", path, len(data))
		}
		s.finish(e, data, err)
	}()
	return handle
}

func (s *Streamer) finish(e *entry, data []byte, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		e.state = StateFailed
		e.err = err
		return
	}
	e.state = StateReady
	e.data = data
}

// read читает файл ассета; фрагмент "#Scene0" адресует часть файла и отбрасывается
func (s *Streamer) read(path string) ([]byte, error) {
	file := path
	if idx := strings.IndexByte(file, '#'); idx >= 0 {
		file = file[:idx]
	}
	full := filepath.Join(s.root, filepath.FromSlash(file))

	if strings.HasSuffix(full, ".zst") {
		return readZstd(full)
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, os.ErrNotExist) {
		// Пробуем сжатый вариант рядом с оригиналом
		if compressed, zerr := readZstd(full + ".zst"); zerr == nil {
			return compressed, nil
		}
	}
	return data, err
}

func readZstd(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	defer dec.Close()

	return io.ReadAll(dec)
}

// State возвращает состояние ссылки; ok=false для чужой ссылки
func (s *Streamer) State(h assets.Handle) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[h.ID()]
	if !ok {
		return StatePending, false
	}
	return e.state, true
}

// Ready сообщает, что содержимое ссылки загружено
func (s *Streamer) Ready(h assets.Handle) bool {
	state, ok := s.State(h)
	return ok && state == StateReady
}

// Content возвращает байты ассета. done=false пока чтение не завершено.
func (s *Streamer) Content(h assets.Handle) (data []byte, done bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[h.ID()]
	if !ok {
		return nil, true, fmt.Errorf("неизвестная ссылка %s", h)
	}
	switch e.state {
	case StateReady:
		return e.data, true, nil
	case StateFailed:
		return nil, true, e.err
	default:
		return nil, false, nil
	}
}

// Stats возвращает счетчики по состояниям
func (s *Streamer) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	var st Stats
	for _, e := range s.entries {
		switch e.state {
		case StatePending:
			st.Pending++
		case StateReady:
			st.Ready++
		case StateFailed:
			st.Failed++
		}
	}
	return st
}

// Wait ждет завершения всех поставленных чтений или отмены контекста
func (s *Streamer) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close запрещает новые чтения и дожидается текущих
func (s *Streamer) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wg.Wait()
}
