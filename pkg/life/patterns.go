package life

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"lifegrid/pkg/grid"
)

// ErrUnknownPattern is returned when a seed or pattern name is not registered.
var ErrUnknownPattern = errors.New("life: unknown pattern")

// Pattern is a named set of live cells stamped onto a grid.
type Pattern struct {
	Name  string
	Cells []grid.Cell
}

// Extent returns the smallest grid size that holds the pattern unshifted.
func (p Pattern) Extent() (rows, cols int) {
	for _, c := range p.Cells {
		rows = max(rows, c.Row+1)
		cols = max(cols, c.Col+1)
	}
	return rows, cols
}

var (
	// Blinker is a vertical period-2 oscillator.
	Blinker = Pattern{Name: "blinker", Cells: []grid.Cell{{Row: 3, Col: 3}, {Row: 4, Col: 3}, {Row: 5, Col: 3}}}
	// Glider travels one cell down and right every four generations.
	Glider = Pattern{Name: "glider", Cells: []grid.Cell{{Row: 1, Col: 2}, {Row: 2, Col: 2}, {Row: 3, Col: 2}, {Row: 3, Col: 1}, {Row: 2, Col: 0}}}
)

var patterns = map[string]Pattern{}

// RegisterPattern adds a pattern under its name.
func RegisterPattern(p Pattern) {
	if p.Name == "" {
		return
	}
	patterns[p.Name] = p
}

// LookupPattern returns the pattern registered under name.
func LookupPattern(name string) (Pattern, error) {
	p, ok := patterns[name]
	if !ok {
		return Pattern{}, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
	}
	return p, nil
}

// PatternNames lists the registered pattern names in sorted order.
func PatternNames() []string {
	names := make([]string, 0, len(patterns))
	for name := range patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SeedKind selects how Reset rebuilds the grid.
type SeedKind int

const (
	// SeedBlank clears every cell.
	SeedBlank SeedKind = iota
	// SeedRandom fills cells independently at the configured density.
	SeedRandom
	// SeedPattern stamps a registered pattern onto a blank grid.
	SeedPattern
)

// Seed describes an initial grid. Pattern is only used with SeedPattern.
type Seed struct {
	Kind    SeedKind
	Pattern string
}

// Built-in seeds.
var (
	SeedBlankGrid  = Seed{Kind: SeedBlank}
	SeedRandomGrid = Seed{Kind: SeedRandom}
	SeedBlinker    = Seed{Kind: SeedPattern, Pattern: Blinker.Name}
	SeedGlider     = Seed{Kind: SeedPattern, Pattern: Glider.Name}
)

// String returns the name accepted by ParseSeed.
func (s Seed) String() string {
	switch s.Kind {
	case SeedBlank:
		return "blank"
	case SeedRandom:
		return "random"
	default:
		return s.Pattern
	}
}

// ParseSeed maps blank, random or a registered pattern name to a Seed.
func ParseSeed(name string) (Seed, error) {
	switch name = strings.ToLower(strings.TrimSpace(name)); name {
	case "", "blank":
		return SeedBlankGrid, nil
	case "random":
		return SeedRandomGrid, nil
	}
	if _, err := LookupPattern(name); err != nil {
		return Seed{}, err
	}
	return Seed{Kind: SeedPattern, Pattern: name}, nil
}

func init() {
	RegisterPattern(Blinker)
	RegisterPattern(Glider)
}
