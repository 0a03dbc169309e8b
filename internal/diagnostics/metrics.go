package diagnostics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics Prometheus-метрики цикла песочницы
type Metrics struct {
	ticks        prometheus.Counter
	tickDuration prometheus.Histogram
	fps          prometheus.Gauge
	entities     *prometheus.GaugeVec
	spawned      *prometheus.CounterVec
	despawned    *prometheus.CounterVec
	animations   *prometheus.CounterVec
}

// NewMetrics создаёт метрики и регистрирует их в reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sandbox",
			Name:      "ticks_total",
			Help:      "Число выполненных тиков.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sandbox",
			Name:      "tick_duration_seconds",
			Help:      "Длительность обработки тика.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.002, 0.005, 0.01, 0.02, 0.05},
		}),
		fps: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sandbox",
			Name:      "fps",
			Help:      "Скользящее среднее частоты кадров.",
		}),
		entities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "sandbox",
			Name:      "entities",
			Help:      "Количество сущностей в мире по классам.",
		}, []string{"class"}),
		spawned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sandbox",
			Name:      "entities_spawned_total",
			Help:      "Созданные сущности по классам.",
		}, []string{"class"}),
		despawned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sandbox",
			Name:      "entities_despawned_total",
			Help:      "Удаленные сущности по классам.",
		}, []string{"class"}),
		animations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sandbox",
			Name:      "animation_changes_total",
			Help:      "Запуски анимаций игрока.",
		}, []string{"animation"}),
	}

	reg.MustRegister(m.ticks, m.tickDuration, m.fps, m.entities, m.spawned, m.despawned, m.animations)
	return m
}

// ObserveTick учитывает выполненный тик
func (m *Metrics) ObserveTick(d time.Duration, fps float64) {
	m.ticks.Inc()
	m.tickDuration.Observe(d.Seconds())
	m.fps.Set(fps)
}

// SetEntities обновляет число сущностей по классам
func (m *Metrics) SetEntities(byClass map[string]int) {
	for class, n := range byClass {
		m.entities.WithLabelValues(class).Set(float64(n))
	}
}

// Spawned учитывает созданную сущность
func (m *Metrics) Spawned(class string) {
	m.spawned.WithLabelValues(class).Inc()
}

// Despawned учитывает удаленную сущность
func (m *Metrics) Despawned(class string) {
	m.despawned.WithLabelValues(class).Inc()
}

// AnimationChanged учитывает запуск анимации
func (m *Metrics) AnimationChanged(animation string) {
	m.animations.WithLabelValues(animation).Inc()
}
