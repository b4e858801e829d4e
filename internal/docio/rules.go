package docio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/snclab/snc2fst/internal/feature"
	"github.com/snclab/snc2fst/internal/outdsl"
	"github.com/snclab/snc2fst/internal/rule"
)

type wireRule struct {
	ID  string     `json:"id" toml:"id" yaml:"id"`
	Dir string     `json:"dir" toml:"dir" yaml:"dir"`
	INR [][]string `json:"inr" toml:"inr" yaml:"inr"`
	TRM [][]string `json:"trm" toml:"trm" yaml:"trm"`
	CND [][]string `json:"cnd" toml:"cnd" yaml:"cnd"`
	Out string     `json:"out" toml:"out" yaml:"out"`
}

type wireDoc struct {
	ID    string     `json:"id" toml:"id" yaml:"id"`
	Rules []wireRule `json:"rules" toml:"rules" yaml:"rules"`
}

// LoadRules reads and decodes a rules document, parses every Out expression,
// and runs shape validation. Feature-aware validation needs an alphabet and
// is the caller's second step.
func LoadRules(path string) (*rule.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var wire wireDoc
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &wire); err != nil {
			return nil, fmt.Errorf("invalid TOML in %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &wire); err != nil {
			return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
		}
	case ".cue":
		if err := decodeCue(data, path, &wire); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("rules file %s must be .json, .toml, .yaml, or .cue", path)
	}
	return buildDocument(wire)
}

func decodeCue(data []byte, path string, out *wireDoc) error {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return fmt.Errorf("invalid CUE in %s: %w", path, err)
	}
	if err := v.Decode(out); err != nil {
		return fmt.Errorf("invalid CUE in %s: %w", path, err)
	}
	return nil
}

func buildDocument(wire wireDoc) (*rule.Document, error) {
	var errs []rule.ValidationError
	doc := &rule.Document{ID: wire.ID}
	for i, wr := range wire.Rules {
		field := fmt.Sprintf("rules[%d]", i)
		r := rule.Rule{
			ID:  wr.ID,
			Dir: rule.Direction(wr.Dir),
			Out: norm.NFC.String(wr.Out),
		}
		for _, part := range []struct {
			name  string
			pairs [][]string
			dst   *rule.Class
		}{{"inr", wr.INR, &r.INR}, {"trm", wr.TRM, &r.TRM}, {"cnd", wr.CND, &r.CND}} {
			class, classErrs := decodeClass(wr.ID, field+"."+part.name, part.pairs)
			*part.dst = class
			errs = append(errs, classErrs...)
		}
		if strings.TrimSpace(r.Out) != "" {
			ast, err := outdsl.Parse(r.Out)
			if err != nil {
				errs = append(errs, rule.ValidationError{
					RuleID: wr.ID, Field: field + ".out",
					Message: err.Error(), Code: rule.ErrOutInvalid,
				})
			} else {
				r.OutAST = ast
			}
		}
		doc.Rules = append(doc.Rules, r)
	}
	errs = append(errs, rule.ValidateDocument(doc, nil)...)
	if len(errs) > 0 {
		return nil, &rule.SchemaError{Errors: dedupe(errs)}
	}
	return doc, nil
}

func decodeClass(ruleID, field string, pairs [][]string) (rule.Class, []rule.ValidationError) {
	var errs []rule.ValidationError
	class := make(rule.Class, 0, len(pairs))
	for j, pair := range pairs {
		if len(pair) != 2 {
			errs = append(errs, rule.ValidationError{
				RuleID: ruleID, Field: fmt.Sprintf("%s[%d]", field, j),
				Message: fmt.Sprintf("class literal must be a [polarity, feature] pair, got %d elements", len(pair)),
				Code:    rule.ErrClassFeature,
			})
			continue
		}
		polarity, err := feature.ParsePolarity(pair[0])
		if err != nil {
			errs = append(errs, rule.ValidationError{
				RuleID: ruleID, Field: fmt.Sprintf("%s[%d]", field, j),
				Message: err.Error(), Code: rule.ErrClassFeature,
			})
			continue
		}
		class = append(class, rule.Literal{
			Polarity: polarity,
			Feature:  norm.NFC.String(pair[1]),
		})
	}
	return class, errs
}

// dedupe drops duplicate errors produced when decoding and shape validation
// flag the same defect. The first (more specific) error per location wins.
func dedupe(errs []rule.ValidationError) []rule.ValidationError {
	type loc struct{ ruleID, field, code string }
	seen := make(map[loc]bool, len(errs))
	out := errs[:0]
	for _, e := range errs {
		key := loc{e.RuleID, e.Field, e.Code}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}
