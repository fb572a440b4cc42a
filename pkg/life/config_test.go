package life

import (
	"errors"
	"testing"
	"time"

	"lifegrid/pkg/grid"
)

func TestFromMap(t *testing.T) {
	c := FromMap(map[string]string{
		"w":         "30",
		"h":         "20",
		"cell_size": "6",
		"spacing":   "0",
		"step_ms":   "250",
		"pattern":   "blinker",
		"seed":      "-9",
		"density":   "0.3",
	})
	want := Config{Width: 30, Height: 20, CellSize: 6, Spacing: 0, StepDurationMs: 250, InitialPattern: "blinker", Seed: -9, Density: 0.3}
	if c != want {
		t.Fatalf("FromMap = %+v, want %+v", c, want)
	}
	if c.StepDuration() != 250*time.Millisecond {
		t.Fatalf("StepDuration = %v", c.StepDuration())
	}
}

func TestFromMapKeepsDefaultsForBadValues(t *testing.T) {
	c := FromMap(map[string]string{
		"w":       "-4",
		"h":       "abc",
		"step_ms": "0",
		"pattern": "spaceship",
		"density": "1.5",
	})
	if c != DefaultConfig() {
		t.Fatalf("FromMap = %+v, want defaults", c)
	}
	if FromMap(nil) != DefaultConfig() {
		t.Fatal("nil map should yield defaults")
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	c := DefaultConfig()
	c.Height = -1
	c.StepDurationMs = 0
	err := c.Validate()
	if !errors.Is(err, grid.ErrInvalidDimension) || !errors.Is(err, ErrInvalidStepDuration) {
		t.Fatalf("Validate err=%v, want both dimension and duration errors", err)
	}
}

func TestParseSeed(t *testing.T) {
	cases := []struct {
		in   string
		want Seed
	}{
		{"", SeedBlankGrid},
		{"blank", SeedBlankGrid},
		{"Random", SeedRandomGrid},
		{" blinker ", SeedBlinker},
		{"glider", SeedGlider},
	}
	for _, tc := range cases {
		got, err := ParseSeed(tc.in)
		if err != nil {
			t.Fatalf("ParseSeed(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseSeed(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
		if tc.in != "" {
			if again, _ := ParseSeed(got.String()); again != got {
				t.Fatalf("String() of %+v does not parse back", got)
			}
		}
	}
	if _, err := ParseSeed("pulsar"); !errors.Is(err, ErrUnknownPattern) {
		t.Fatalf("err=%v, want ErrUnknownPattern", err)
	}
}

func TestPatternRegistry(t *testing.T) {
	names := PatternNames()
	if len(names) < 2 || names[0] != "blinker" || names[1] != "glider" {
		t.Fatalf("PatternNames = %v", names)
	}
	p, err := LookupPattern("glider")
	if err != nil {
		t.Fatal(err)
	}
	if rows, cols := p.Extent(); rows != 4 || cols != 3 {
		t.Fatalf("glider extent = %dx%d, want 4x3", rows, cols)
	}
	if rows, cols := Blinker.Extent(); rows != 6 || cols != 4 {
		t.Fatalf("blinker extent = %dx%d, want 6x4", rows, cols)
	}
}
