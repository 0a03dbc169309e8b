package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix префикс переменных окружения, переопределяющих YAML
const EnvPrefix = "GENESYS_"

// Config корневая структура конфигурации песочницы.
// Порядок применения: значения по умолчанию -> YAML -> переменные окружения.
type Config struct {
	World       WorldConfig       `yaml:"world" envPrefix:"WORLD_"`
	Loop        LoopConfig        `yaml:"loop" envPrefix:"LOOP_"`
	Player      PlayerConfig      `yaml:"player" envPrefix:"PLAYER_"`
	Input       InputConfig       `yaml:"input" envPrefix:"INPUT_"`
	Assets      AssetsConfig      `yaml:"assets" envPrefix:"ASSETS_"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics" envPrefix:"DIAGNOSTICS_"`
	Telemetry   TelemetryConfig   `yaml:"telemetry" envPrefix:"TELEMETRY_"`
	Trace       TraceConfig       `yaml:"trace" envPrefix:"TRACE_"`
}

type WorldConfig struct {
	HalfExtent int   `yaml:"half_extent" env:"HALF_EXTENT"`
	Seed       int64 `yaml:"seed" env:"SEED"` // 0: случайная раскладка
}

type LoopConfig struct {
	TickRate int    `yaml:"tick_rate" env:"TICK_RATE"`
	MaxTicks uint64 `yaml:"max_ticks" env:"MAX_TICKS"` // 0: до сигнала остановки
}

// TickInterval возвращает длительность одного тика
func (l LoopConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(l.TickRate)
}

type PlayerConfig struct {
	Speed float64 `yaml:"speed" env:"SPEED"`
}

type InputConfig struct {
	GroundHeight float64 `yaml:"ground_height" env:"GROUND_HEIGHT"`
	Script       string  `yaml:"script" env:"SCRIPT"`
}

type AssetsConfig struct {
	Manifest string `yaml:"manifest" env:"MANIFEST"` // пусто: встроенная таблица
	Root     string `yaml:"root" env:"ROOT"`
	Workers  int    `yaml:"workers" env:"WORKERS"`
}

type DiagnosticsConfig struct {
	Enabled     bool          `yaml:"enabled" env:"ENABLED"`
	Addr        string        `yaml:"addr" env:"ADDR"`
	SampleEvery time.Duration `yaml:"sample_every" env:"SAMPLE_EVERY"`
	PushEvery   time.Duration `yaml:"push_every" env:"PUSH_EVERY"`
}

type TelemetryConfig struct {
	Enabled bool   `yaml:"enabled" env:"ENABLED"`
	Service string `yaml:"service" env:"SERVICE"`
}

type TraceConfig struct {
	Path string `yaml:"path" env:"PATH"` // пусто: запись отключена
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		World:  WorldConfig{HalfExtent: 15},
		Loop:   LoopConfig{TickRate: 60},
		Player: PlayerConfig{Speed: 5.5},
		Input:  InputConfig{GroundHeight: 1.0},
		Assets: AssetsConfig{Root: "assets", Workers: 4},
		Diagnostics: DiagnosticsConfig{
			Addr:        ":8089",
			SampleEvery: 2 * time.Second,
			PushEvery:   500 * time.Millisecond,
		},
		Telemetry: TelemetryConfig{Service: "genesys-sandbox"},
	}
}

// Load читает YAML файл конфигурации поверх значений по умолчанию и применяет
// переменные окружения. Если path == "", используется GENESYS_CONFIG;
// если и она не задана, берутся значения по умолчанию.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения конфигурации: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("ошибка разбора конфигурации %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("ошибка чтения переменных окружения: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения, без которых песочница не запустится
func (c *Config) Validate() error {
	var errs []error
	if c.World.HalfExtent <= 0 {
		errs = append(errs, fmt.Errorf("world.half_extent должен быть > 0, получено %d", c.World.HalfExtent))
	}
	if c.Loop.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("loop.tick_rate должен быть > 0, получено %d", c.Loop.TickRate))
	}
	if c.Player.Speed <= 0 {
		errs = append(errs, fmt.Errorf("player.speed должен быть > 0, получено %g", c.Player.Speed))
	}
	if c.Assets.Workers <= 0 {
		errs = append(errs, fmt.Errorf("assets.workers должен быть > 0, получено %d", c.Assets.Workers))
	}
	if c.Diagnostics.Enabled {
		if c.Diagnostics.Addr == "" {
			errs = append(errs, errors.New("diagnostics.addr не задан"))
		}
		if c.Diagnostics.SampleEvery <= 0 || c.Diagnostics.PushEvery <= 0 {
			errs = append(errs, errors.New("интервалы diagnostics должны быть > 0"))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("некорректная конфигурация: %w", errors.Join(errs...))
	}
	return nil
}
