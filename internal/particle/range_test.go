package particle

import (
	"math/rand"
	"testing"

	"gopkg.in/yaml.v3"
)

// TestParseRange_FixedValue tests parsing of fixed value format
func TestParseRange_FixedValue(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMin float64
		wantMax float64
	}{
		{"Integer", "1500", 1500, 1500},
		{"Float", "3.14", 3.14, 3.14},
		{"Negative", "-10.5", -10.5, -10.5},
		{"Zero", "0", 0, 0},
		{"Empty", "", 0, 0},
		{"Bracketed", "[3]", 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseRange(tt.input)
			if err != nil {
				t.Fatalf("ParseRange(%q) error: %v", tt.input, err)
			}
			if r.Min != tt.wantMin || r.Max != tt.wantMax {
				t.Errorf("ParseRange(%q) = %+v, want [%v %v]", tt.input, r, tt.wantMin, tt.wantMax)
			}
		})
	}
}

// TestParseRange_Range tests parsing of range format
func TestParseRange_Range(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMin float64
		wantMax float64
	}{
		{"Positive", "[0.7 0.9]", 0.7, 0.9},
		{"Negative", "[-0.25 0.25]", -0.25, 0.25},
		{"ExtraSpaces", "  [ 1   3.5 ]  ", 1, 3.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseRange(tt.input)
			if err != nil {
				t.Fatalf("ParseRange(%q) error: %v", tt.input, err)
			}
			if r.Min != tt.wantMin || r.Max != tt.wantMax {
				t.Errorf("ParseRange(%q) = %+v, want [%v %v]", tt.input, r, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestParseRange_Invalid(t *testing.T) {
	for _, input := range []string{"[1 2", "abc", "[1 2 3]", "[x 2]", "[1 y]"} {
		if _, err := ParseRange(input); err == nil {
			t.Errorf("ParseRange(%q) expected error", input)
		}
	}
}

// TestRandomInRange 测试随机值始终落在区间内
func TestRandomInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		v := RandomInRange(rng, 2, 5)
		if v < 2 || v > 5 {
			t.Fatalf("RandomInRange out of bounds: %v", v)
		}
	}

	// 反向区间会被交换
	for i := 0; i < 100; i++ {
		v := RandomInRange(rng, 5, 2)
		if v < 2 || v > 5 {
			t.Fatalf("RandomInRange(5, 2) out of bounds: %v", v)
		}
	}

	if got := RandomInRange(rng, 4, 4); got != 4 {
		t.Errorf("RandomInRange(4, 4) = %v, want 4", got)
	}
}

func TestRange_SampleDeterministic(t *testing.T) {
	r := MustParseRange("[0 10]")
	a := rand.New(rand.NewSource(42))
	b := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		if x, y := r.Sample(a), r.Sample(b); x != y {
			t.Fatalf("sample %d differs with equal seeds: %v != %v", i, x, y)
		}
	}
}

func TestRange_YAML(t *testing.T) {
	var doc struct {
		Speed  Range `yaml:"speed"`
		Radius Range `yaml:"radius"`
	}
	src := "speed: \"[-0.25 0.25]\"\nradius: 2.5\n"
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	if doc.Speed != (Range{Min: -0.25, Max: 0.25}) {
		t.Errorf("speed = %+v", doc.Speed)
	}
	if doc.Radius != Fixed(2.5) {
		t.Errorf("radius = %+v", doc.Radius)
	}

	if err := yaml.Unmarshal([]byte("speed: \"[1 2\"\n"), &doc); err == nil {
		t.Error("expected error for malformed range")
	}
}

func TestRange_String(t *testing.T) {
	if s := (Range{Min: 1, Max: 3.5}).String(); s != "[1 3.5]" {
		t.Errorf("String() = %q", s)
	}
	if s := Fixed(0.03).String(); s != "0.03" {
		t.Errorf("String() = %q", s)
	}
}
