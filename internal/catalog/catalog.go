// Package catalog holds the dua catalog bundled for disconnected mode.
package catalog

import (
	_ "embed"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mdayat/nur-ramadan/internal/dtos"
	"gopkg.in/yaml.v3"
)

//go:embed duas.yaml
var bundled []byte

// Duas decodes and validates the bundled catalog. Each call returns a fresh
// slice.
func Duas(validate *validator.Validate) ([]dtos.Dua, error) {
	return Parse(bundled, validate)
}

func Parse(data []byte, validate *validator.Validate) ([]dtos.Dua, error) {
	var duas []dtos.Dua
	if err := yaml.Unmarshal(data, &duas); err != nil {
		return nil, fmt.Errorf("failed to decode dua catalog: %w", err)
	}

	seen := make(map[dtos.DuaId]bool, len(duas))
	for _, dua := range duas {
		if err := validate.Struct(dua); err != nil {
			return nil, fmt.Errorf("invalid dua %q: %w", dua.Id, err)
		}

		if seen[dua.Id] {
			return nil, fmt.Errorf("duplicate dua id %q", dua.Id)
		}
		seen[dua.Id] = true
	}

	return duas, nil
}
