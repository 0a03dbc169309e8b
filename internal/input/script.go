package input

import (
	"fmt"
	"os"
	"sort"

	"github.com/annel0/genesys/internal/vec"
	"gopkg.in/yaml.v3"
)

// ScriptStep события, подаваемые на вход в тике AtTick
type ScriptStep struct {
	AtTick  uint64    `yaml:"at_tick"`
	Press   []string  `yaml:"press,omitempty"`
	Release []string  `yaml:"release,omitempty"`
	Pointer []float64 `yaml:"pointer,omitempty"`
}

// Script заранее записанный ввод для запуска без окна
type Script struct {
	Steps []ScriptStep `yaml:"steps"`

	frames map[uint64]Frame
	last   uint64
}

// LoadScript читает сценарий ввода из YAML файла
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения сценария ввода: %w", err)
	}
	return ParseScript(data)
}

// ParseScript разбирает и проверяет сценарий ввода
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("ошибка разбора сценария ввода: %w", err)
	}
	if err := s.compile(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Script) compile() error {
	sort.SliceStable(s.Steps, func(i, j int) bool {
		return s.Steps[i].AtTick < s.Steps[j].AtTick
	})

	s.frames = make(map[uint64]Frame, len(s.Steps))
	for i, step := range s.Steps {
		frame := s.frames[step.AtTick]

		// В пределах шага сначала нажатия, затем отпускания
		for _, name := range step.Press {
			k, ok := ParseKey(name)
			if !ok {
				return fmt.Errorf("шаг %d: неизвестная клавиша %q", i, name)
			}
			frame.Keys = append(frame.Keys, Press(k))
		}
		for _, name := range step.Release {
			k, ok := ParseKey(name)
			if !ok {
				return fmt.Errorf("шаг %d: неизвестная клавиша %q", i, name)
			}
			frame.Keys = append(frame.Keys, Release(k))
		}
		if step.Pointer != nil {
			if len(step.Pointer) != 2 {
				return fmt.Errorf("шаг %d: pointer должен содержать две координаты, получено %d", i, len(step.Pointer))
			}
			frame.Pointer = append(frame.Pointer, vec.Vec2Float{X: step.Pointer[0], Y: step.Pointer[1]})
		}

		s.frames[step.AtTick] = frame
		if step.AtTick > s.last {
			s.last = step.AtTick
		}
	}
	return nil
}

// Frame возвращает события тика. Тики без шагов дают пустой кадр.
func (s *Script) Frame(tick uint64) Frame {
	if s == nil || s.frames == nil {
		return Frame{}
	}
	return s.frames[tick]
}

// LastTick номер последнего тика, в котором есть события
func (s *Script) LastTick() uint64 {
	if s == nil {
		return 0
	}
	return s.last
}
