package template

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Step is a modifier described by name, as found in recipes and CLI flags.
type Step struct {
	Modifier string         `mapstructure:"modifier" json:"modifier" yaml:"modifier"`
	Params   map[string]any `mapstructure:"params" json:"params,omitempty" yaml:"params,omitempty"`
}

// ParseStep 解析 CLI 简写，如 "paragraph"、"h2"、"table"
func ParseStep(s string) Step {
	s = strings.TrimSpace(strings.ToLower(s))
	if len(s) == 2 && s[0] == 'h' && s[1] >= '0' && s[1] <= '6' {
		return Step{Modifier: KindHeading, Params: map[string]any{"level": int(s[1] - '0')}}
	}
	if s == "title" {
		return Step{Modifier: KindHeading, Params: map[string]any{"level": 0}}
	}
	return Step{Modifier: s}
}

// FromSteps builds a template from named steps. Unknown parameters are ignored.
func FromSteps(steps []Step) (*DynamicTemplate, error) {
	tpl := New()
	for i, step := range steps {
		m, err := modifierFromStep(step)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		tpl.Add(m)
	}
	return tpl, nil
}

func modifierFromStep(step Step) (Modifier, error) {
	kind := step.Modifier
	if !strings.HasPrefix(kind, "add_") {
		kind = "add_" + kind
	}

	var m Modifier
	switch kind {
	case KindParagraph:
		var p Paragraph
		if err := decodeParams(step.Params, &p); err != nil {
			return nil, err
		}
		m = p
	case KindHeading:
		h := Heading{Level: 1}
		if err := decodeParams(step.Params, &h); err != nil {
			return nil, err
		}
		m = h
	case KindPicture:
		var p Picture
		if err := decodeParams(step.Params, &p); err != nil {
			return nil, err
		}
		m = p
	case KindTable:
		var t Table
		if err := decodeParams(step.Params, &t); err != nil {
			return nil, err
		}
		m = t
	case KindPageBreak:
		m = PageBreak{}
	default:
		return nil, fmt.Errorf("unknown modifier: %s", step.Modifier)
	}
	return m, nil
}

func decodeParams(params map[string]any, out any) error {
	if len(params) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("invalid modifier params: %w", err)
	}
	return nil
}
