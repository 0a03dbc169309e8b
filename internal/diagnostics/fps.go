package diagnostics

// FPSCounter скользящее среднее частоты кадров по последним size кадрам
type FPSCounter struct {
	window []float64
	next   int
	filled int
	sum    float64
}

// NewFPSCounter создаёт счетчик с окном size кадров
func NewFPSCounter(size int) *FPSCounter {
	if size <= 0 {
		size = 60
	}
	return &FPSCounter{window: make([]float64, size)}
}

// Observe добавляет длительность кадра в секундах
func (f *FPSCounter) Observe(dt float64) {
	if dt <= 0 {
		return
	}
	f.sum -= f.window[f.next]
	f.window[f.next] = dt
	f.sum += dt
	f.next = (f.next + 1) % len(f.window)
	if f.filled < len(f.window) {
		f.filled++
	}
}

// FPS возвращает среднюю частоту кадров; 0 до первого кадра
func (f *FPSCounter) FPS() float64 {
	if f.filled == 0 || f.sum <= 0 {
		return 0
	}
	return float64(f.filled) / f.sum
}
