package dtos

import (
	"fmt"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

type DuaCategory string

const (
	CategoryAll     DuaCategory = "all"
	CategoryIftar   DuaCategory = "iftar"
	CategorySuhoor  DuaCategory = "suhoor"
	CategoryPrayer  DuaCategory = "prayer"
	CategoryMorning DuaCategory = "morning"
	CategoryEvening DuaCategory = "evening"
)

// DuaId is opaque. Catalogs may number their entries or name them, so both
// JSON numbers and strings decode into it.
type DuaId string

func (d *DuaId) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = DuaId(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid dua id %s: %w", data, err)
	}

	*d = DuaId(n.String())
	return nil
}

func (d *DuaId) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("invalid dua id at line %d", node.Line)
	}

	*d = DuaId(node.Value)
	return nil
}

type Dua struct {
	Id       DuaId       `json:"id" yaml:"id" validate:"required"`
	TextAr   string      `json:"textAr" yaml:"textAr" validate:"required"`
	TextEn   string      `json:"textEn,omitempty" yaml:"textEn"`
	Category DuaCategory `json:"category" yaml:"category" validate:"oneof=iftar suhoor prayer morning evening"`
	Source   string      `json:"source" yaml:"source"`
}
