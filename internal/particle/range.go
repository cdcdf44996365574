// Package particle provides the value syntax shared by backdrop presets.
//
// Numeric preset fields may be written either as a fixed value ("0.03") or as
// a range ("[0.5 1.5]") from which each entity draws its own value at spawn
// time.
package particle

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Range is a closed interval [Min, Max]. A fixed value has Min == Max.
type Range struct {
	Min float64
	Max float64
}

// Fixed returns a degenerate range holding a single value.
func Fixed(v float64) Range {
	return Range{Min: v, Max: v}
}

// ParseRange parses a value string from a preset.
// Supports:
//   - Fixed value: "1500" → {1500, 1500}
//   - Range: "[0.7 0.9]" → {0.7, 0.9}
//   - Single bracketed value: "[3]" → {3, 3}
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, nil
	}

	if strings.HasPrefix(s, "[") {
		if !strings.HasSuffix(s, "]") {
			return Range{}, fmt.Errorf("unterminated range %q", s)
		}
		parts := strings.Fields(strings.TrimSuffix(strings.TrimPrefix(s, "["), "]"))
		switch len(parts) {
		case 1:
			v, err := strconv.ParseFloat(parts[0], 64)
			if err != nil {
				return Range{}, fmt.Errorf("invalid range %q: %w", s, err)
			}
			return Fixed(v), nil
		case 2:
			lo, err := strconv.ParseFloat(parts[0], 64)
			if err != nil {
				return Range{}, fmt.Errorf("invalid range min %q: %w", s, err)
			}
			hi, err := strconv.ParseFloat(parts[1], 64)
			if err != nil {
				return Range{}, fmt.Errorf("invalid range max %q: %w", s, err)
			}
			return Range{Min: lo, Max: hi}, nil
		default:
			return Range{}, fmt.Errorf("range %q must hold one or two values", s)
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Range{}, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return Fixed(v), nil
}

// MustParseRange is ParseRange for literals known to be valid.
func MustParseRange(s string) Range {
	r, err := ParseRange(s)
	if err != nil {
		panic(err)
	}
	return r
}

// Sample draws a uniformly distributed value from the range.
func (r Range) Sample(rng *rand.Rand) float64 {
	return RandomInRange(rng, r.Min, r.Max)
}

// Valid reports whether Min <= Max.
func (r Range) Valid() bool {
	return r.Min <= r.Max
}

// String renders the range in preset syntax.
func (r Range) String() string {
	if r.Min == r.Max {
		return strconv.FormatFloat(r.Min, 'g', -1, 64)
	}
	return fmt.Sprintf("[%s %s]",
		strconv.FormatFloat(r.Min, 'g', -1, 64),
		strconv.FormatFloat(r.Max, 'g', -1, 64))
}

// UnmarshalYAML accepts both scalar numbers and range strings.
func (r *Range) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: range must be a scalar", node.Line)
	}
	parsed, err := ParseRange(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*r = parsed
	return nil
}

// MarshalYAML writes the range back in preset syntax.
func (r Range) MarshalYAML() (interface{}, error) {
	return r.String(), nil
}

// MarshalJSON exposes the range as {"min":..,"max":..} for API consumers.
func (r Range) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	}{r.Min, r.Max})
}

// RandomInRange returns a random value in [min, max] drawn from rng.
// 如果 min == max 直接返回，不消耗随机数
func RandomInRange(rng *rand.Rand, min, max float64) float64 {
	if min == max {
		return min
	}
	if min > max {
		min, max = max, min
	}
	return min + rng.Float64()*(max-min)
}
