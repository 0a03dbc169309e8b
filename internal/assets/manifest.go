package assets

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed manifest.schema.json
var manifestSchemaJSON string

var manifestSchema = jsonschema.MustCompileString("manifest.schema.json", manifestSchemaJSON)

type manifestFile struct {
	Models []struct {
		Class   string `yaml:"class"`
		Variant string `yaml:"variant"`
		Path    string `yaml:"path"`
	} `yaml:"models"`
	Animations []struct {
		Class     string `yaml:"class"`
		Variant   string `yaml:"variant"`
		Animation string `yaml:"animation"`
		Path      string `yaml:"path"`
	} `yaml:"animations"`
}

// LoadManifest читает YAML-манифест ассетов и строит таблицу
func LoadManifest(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, err
	}
	table, err := ParseManifest(data)
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// ParseManifest проверяет манифест по JSON-схеме и строит таблицу
func ParseManifest(data []byte) (Table, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Table{}, fmt.Errorf("ошибка разбора манифеста: %w", err)
	}

	// Валидатор ожидает значения в форме encoding/json
	normalized, err := toJSONValue(raw)
	if err != nil {
		return Table{}, err
	}
	if err := manifestSchema.Validate(normalized); err != nil {
		return Table{}, fmt.Errorf("манифест не соответствует схеме: %w", err)
	}

	var mf manifestFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return Table{}, fmt.Errorf("ошибка разбора манифеста: %w", err)
	}

	table := Table{
		Models:     make([]ModelRow, 0, len(mf.Models)),
		Animations: make([]AnimationRow, 0, len(mf.Animations)),
	}
	for _, m := range mf.Models {
		table.Models = append(table.Models, ModelRow{Class: Class(m.Class), Variant: m.Variant, Path: m.Path})
	}
	for _, a := range mf.Animations {
		table.Animations = append(table.Animations, AnimationRow{
			Class:     Class(a.Class),
			Variant:   a.Variant,
			Animation: a.Animation,
			Path:      a.Path,
		})
	}
	return table, nil
}

func toJSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("ошибка нормализации манифеста: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("ошибка нормализации манифеста: %w", err)
	}
	return out, nil
}
