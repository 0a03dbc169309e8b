// Package tracelog пишет покадровую трассу движения игрока в сжатый JSONL.
package tracelog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Record одна строка трассы: итог тика движения
type Record struct {
	Tick      uint64     `json:"tick"`
	DT        float64    `json:"dt"`
	Facing    float64    `json:"facing"`
	Delta     [3]float64 `json:"delta"`
	Walking   bool       `json:"walking"`
	Animation string     `json:"animation"`
	Mouse     [3]float64 `json:"mouse"`
	Projected bool       `json:"projected"`
}

// Recorder пишет записи в один файл .jsonl.zst
type Recorder struct {
	mu      sync.Mutex
	path    string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
	written uint64
}

// NewRecorder создаёт файл трассы (и каталоги до него)
func NewRecorder(path string) (*Recorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("каталог трассы: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("файл трассы: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Recorder{
		path: path,
		f:    f,
		enc:  enc,
		w:    bufio.NewWriterSize(enc, 64*1024),
	}, nil
}

// Path возвращает путь файла трассы
func (r *Recorder) Path() string {
	return r.path
}

// Written количество записанных строк
func (r *Recorder) Written() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.written
}

// Write добавляет запись
func (r *Recorder) Write(rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w == nil {
		return os.ErrClosed
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := r.w.Write(b); err != nil {
		return err
	}
	if err := r.w.WriteByte('\n'); err != nil {
		return err
	}
	r.written++
	return nil
}

// Close сбрасывает буферы и закрывает файл. Повторный вызов безопасен.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w == nil {
		return nil
	}

	errFlush := r.w.Flush()
	errEnc := r.enc.Close()
	errFile := r.f.Close()
	r.w, r.enc, r.f = nil, nil, nil
	return errors.Join(errFlush, errEnc, errFile)
}

// ReadAll читает все записи трассы
func ReadAll(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var records []Record
	sc := bufio.NewScanner(dec)
	for line := 1; sc.Scan(); line++ {
		var rec Record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("строка %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
