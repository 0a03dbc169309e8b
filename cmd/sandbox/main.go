package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/genesys/internal/app"
	"github.com/annel0/genesys/internal/assets"
	"github.com/annel0/genesys/internal/assets/stream"
	"github.com/annel0/genesys/internal/config"
	"github.com/annel0/genesys/internal/diagnostics"
	"github.com/annel0/genesys/internal/eventbus"
	"github.com/annel0/genesys/internal/input"
	"github.com/annel0/genesys/internal/logging"
	"github.com/annel0/genesys/internal/observability"
	"github.com/annel0/genesys/internal/tracelog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	configPath := flag.String("config", "", "Путь к YAML конфигурации (по умолчанию GENESYS_CONFIG)")
	flag.Parse()

	// Инициализируем систему логирования
	if err := logging.InitDefaultLogger("sandbox"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	logging.Info("🎮 Запуск песочницы Genesys...")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Fatal("❌ Ошибка конфигурации: %v", err)
	}

	// Канал для получения сигналов ОС
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		if sig, ok := assets.SignatureOf(err); ok {
			logging.Fatal("❌ Фатальная ошибка ассета %s: %v", sig, err)
		}
		logging.Fatal("❌ %v", err)
	}
	logging.Info("👋 Песочница остановлена")
}

func run(ctx context.Context, cfg *config.Config) error {
	// === ТЕЛЕМЕТРИЯ ===
	shutdownTelemetry, err := observability.InitTelemetry(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logging.Warn("Ошибка остановки телеметрии: %v", err)
		}
	}()

	// === ИНИЦИАЛИЗАЦИЯ КОМПОНЕНТОВ ===
	streamer := stream.New(cfg.Assets.Root, cfg.Assets.Workers)
	defer streamer.Close()

	bus := eventbus.NewMemoryBus(busCapacity(cfg.World))
	defer bus.Close()
	if _, err := eventbus.StartLoggingListener(bus); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := diagnostics.NewMetrics(registry)
	exporter := eventbus.NewMetricsExporter(bus, registry)
	exporter.Start(time.Second)
	defer exporter.Stop()

	store := diagnostics.NewStore()
	deps := app.Deps{
		Loader:     streamer,
		Bus:        bus,
		Metrics:    metrics,
		Store:      store,
		AssetStats: streamer,
	}

	if cfg.Trace.Path != "" {
		rec, err := tracelog.NewRecorder(cfg.Trace.Path)
		if err != nil {
			return err
		}
		defer func() {
			if err := rec.Close(); err != nil {
				logging.Warn("Ошибка закрытия трассы: %v", err)
			}
			logging.Info("🧾 Трасса записана: %s (%d тиков)", rec.Path(), rec.Written())
		}()
		deps.Trace = rec
	}

	var script *input.Script
	if cfg.Input.Script != "" {
		script, err = input.LoadScript(cfg.Input.Script)
		if err != nil {
			return err
		}
		logging.Info("⌨️ Сценарий ввода %s: последний тик %d", cfg.Input.Script, script.LastTick())
	}

	sandbox := app.New(cfg, deps)
	if err := sandbox.Startup(ctx); err != nil {
		return err
	}

	// === ДИАГНОСТИКА ===
	if cfg.Diagnostics.Enabled {
		sampler := diagnostics.NewSystemSampler()
		go sampler.Run(ctx, cfg.Diagnostics.SampleEvery)

		srv := diagnostics.NewServer(diagnostics.ServerConfig{
			Addr:      cfg.Diagnostics.Addr,
			PushEvery: cfg.Diagnostics.PushEvery,
			Store:     store,
			Sampler:   sampler,
			Registry:  registry,
			Logger:    logging.GetDiagnosticsLogger(),
		})
		srv.SetAssets(sandbox.Catalog())
		if err := srv.Start(); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logging.Error("❌ Ошибка остановки диагностики: %v", err)
			}
		}()
	}

	return loop(ctx, cfg, sandbox, script)
}

// minBusCapacity нижняя граница буфера шины событий
const minBusCapacity = 4096

// busCapacity вмещает события генерации мира целиком: блок и растительность
// на каждую ячейку плюс запас на игрока и первые тики. Иначе спавн-события
// с низким приоритетом отбрасываются при переполнении.
func busCapacity(w config.WorldConfig) int {
	side := 2 * w.HalfExtent
	if n := 2*side*side + 64; n > minBusCapacity {
		return n
	}
	return minBusCapacity
}

// loop выполняет тики с фиксированной частотой до сигнала или loop.max_ticks
func loop(ctx context.Context, cfg *config.Config, sandbox *app.App, script *input.Script) error {
	ticker := time.NewTicker(cfg.Loop.TickInterval())
	defer ticker.Stop()

	logging.Info("✅ Цикл запущен: %d Гц", cfg.Loop.TickRate)
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			logging.Info("📡 Получен сигнал завершения")
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now

			tick := sandbox.Ticks()
			if _, err := sandbox.Tick(ctx, dt, script.Frame(tick)); err != nil {
				return err
			}
			if cfg.Loop.MaxTicks > 0 && sandbox.Ticks() >= cfg.Loop.MaxTicks {
				logging.Info("⏹ Достигнут предел тиков %d", cfg.Loop.MaxTicks)
				return nil
			}
		}
	}
}

