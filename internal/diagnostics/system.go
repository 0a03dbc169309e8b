package diagnostics

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/annel0/genesys/internal/logging"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// SystemInfo сведения о машине и процессе для отладочной панели
type SystemInfo struct {
	CPUBrand    string    `json:"cpu_brand"`
	CPUCores    int       `json:"cpu_cores"`
	CPUUsage    float64   `json:"cpu_usage"`
	ProcessCPU  float64   `json:"process_cpu"`
	MemUsedMB   float64   `json:"mem_used_mb"`
	MemTotalMB  float64   `json:"mem_total_mb"`
	HeapAllocMB float64   `json:"heap_alloc_mb"`
	Goroutines  int       `json:"goroutines"`
	Uptime      string    `json:"uptime"`
	SampledAt   time.Time `json:"sampled_at"`
}

// SystemSampler периодически снимает SystemInfo. Ошибки gopsutil не фатальны:
// соответствующие поля остаются нулевыми.
type SystemSampler struct {
	start time.Time
	proc  *process.Process
	brand string
	cores int

	mu     sync.RWMutex
	latest SystemInfo
}

// NewSystemSampler создаёт сэмплер и читает неизменные сведения о процессоре
func NewSystemSampler() *SystemSampler {
	s := &SystemSampler{start: time.Now()}

	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		s.brand = infos[0].ModelName
	} else if err != nil {
		logging.Debug("cpu.Info недоступен: %v", err)
	}
	if n, err := cpu.Counts(true); err == nil {
		s.cores = n
	}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		s.proc = proc
	}
	return s
}

// Uptime возвращает время работы процесса
func (s *SystemSampler) Uptime() string {
	return formatUptime(time.Since(s.start))
}

func formatUptime(uptime time.Duration) string {
	days := int(uptime.Hours()) / 24
	hours := int(uptime.Hours()) % 24
	minutes := int(uptime.Minutes()) % 60
	seconds := int(uptime.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dд %dч %dм %dс", days, hours, minutes, seconds)
	} else if hours > 0 {
		return fmt.Sprintf("%dч %dм %dс", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dм %dс", minutes, seconds)
	}
	return fmt.Sprintf("%dс", seconds)
}

// Sample снимает текущие значения и сохраняет их как последние
func (s *SystemSampler) Sample() SystemInfo {
	info := SystemInfo{
		CPUBrand:   s.brand,
		CPUCores:   s.cores,
		Goroutines: runtime.NumGoroutine(),
		Uptime:     s.Uptime(),
		SampledAt:  time.Now(),
	}

	// Интервал 0: загрузка с момента предыдущего вызова, без ожидания
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		info.CPUUsage = percents[0]
	}
	if s.proc != nil {
		if p, err := s.proc.CPUPercent(); err == nil {
			info.ProcessCPU = p
		}
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.MemUsedMB = float64(vm.Used) / 1024 / 1024
		info.MemTotalMB = float64(vm.Total) / 1024 / 1024
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	info.HeapAllocMB = float64(m.HeapAlloc) / 1024 / 1024

	s.mu.Lock()
	s.latest = info
	s.mu.Unlock()
	return info
}

// Latest возвращает последний снимок
func (s *SystemSampler) Latest() SystemInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Run обновляет снимок каждые every до отмены ctx
func (s *SystemSampler) Run(ctx context.Context, every time.Duration) {
	s.Sample()
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Sample()
		case <-ctx.Done():
			return
		}
	}
}
