package docio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

type inputWrapper struct {
	Inputs [][]string `json:"inputs" toml:"inputs" yaml:"inputs"`
}

// LoadInputs reads an input word list: either a bare array of words (each an
// array of symbol names) or a wrapper with an "inputs" key. JSON and YAML
// accept both shapes; TOML has no top-level array, so only the wrapper.
func LoadInputs(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var words [][]string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &words); err != nil {
			var wrapper inputWrapper
			if werr := json.Unmarshal(data, &wrapper); werr != nil {
				return nil, fmt.Errorf("invalid input JSON in %s: %w", path, err)
			}
			words = wrapper.Inputs
		}
	case ".toml":
		var wrapper inputWrapper
		if err := toml.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("invalid input TOML in %s: %w", path, err)
		}
		if wrapper.Inputs == nil {
			return nil, fmt.Errorf("input TOML %s must define 'inputs' as an array of words", path)
		}
		words = wrapper.Inputs
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &words); err != nil {
			var wrapper inputWrapper
			if werr := yaml.Unmarshal(data, &wrapper); werr != nil {
				return nil, fmt.Errorf("invalid input YAML in %s: %w", path, err)
			}
			words = wrapper.Inputs
		}
	default:
		return nil, fmt.Errorf("input file %s must be .json, .toml, or .yaml", path)
	}
	for i, word := range words {
		for j, sym := range word {
			if strings.TrimSpace(sym) == "" {
				return nil, fmt.Errorf("word %d contains an empty symbol at position %d", i, j)
			}
			words[i][j] = norm.NFC.String(sym)
		}
	}
	return words, nil
}
