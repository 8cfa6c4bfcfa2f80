package domain

import (
	"fmt"
	"strings"
)

// PositionCount is the number of numbered applicator markers on every image.
const PositionCount = 5

// Coordinate locates a marker as percentage offsets from the image's top and
// right edges.
type Coordinate struct {
	Top   float64 `json:"top" yaml:"top"`
	Right float64 `json:"right" yaml:"right"`
}

func (c Coordinate) Validate() error {
	if c.Top < 0 || c.Top > 100 || c.Right < 0 || c.Right > 100 {
		return fmt.Errorf("coordinate out of range: top=%.2f right=%.2f", c.Top, c.Right)
	}
	return nil
}

// Positions maps marker numbers 1..PositionCount to coordinates.
type Positions map[int]Coordinate

func (p Positions) Validate() error {
	if len(p) != PositionCount {
		return fmt.Errorf("expected %d positions, got %d", PositionCount, len(p))
	}
	for n := 1; n <= PositionCount; n++ {
		c, ok := p[n]
		if !ok {
			return fmt.Errorf("position %d is missing", n)
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("position %d: %w", n, err)
		}
	}
	return nil
}

func (p Positions) Clone() Positions {
	out := make(Positions, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

type Image struct {
	Side string `yaml:"side"`
	Path string `yaml:"path"`
}

type Exercise struct {
	Name       string    `yaml:"name"`
	Title      string    `yaml:"title"`
	Images     []Image   `yaml:"images"`
	TotalSteps int       `yaml:"total_steps"`
	Defaults   Positions `yaml:"defaults"`
}

func (e Exercise) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("exercise name is required")
	}
	if len(e.Images) == 0 {
		return fmt.Errorf("exercise %q needs at least one image", e.Name)
	}
	if e.TotalSteps < 1 || e.TotalSteps > PositionCount {
		return fmt.Errorf("exercise %q: total steps must be in 1..%d, got %d", e.Name, PositionCount, e.TotalSteps)
	}
	if err := e.Defaults.Validate(); err != nil {
		return fmt.Errorf("exercise %q defaults: %w", e.Name, err)
	}
	return nil
}

// Catalog is the read-only exercise list. Version tags the shipped default
// coordinates; persisted markers saved under another version are stale.
type Catalog struct {
	Version   int        `yaml:"version"`
	Exercises []Exercise `yaml:"exercises"`
}

func (c Catalog) Validate() error {
	if c.Version < 1 {
		return fmt.Errorf("catalog version must be positive")
	}
	if len(c.Exercises) == 0 {
		return fmt.Errorf("catalog has no exercises")
	}
	for _, e := range c.Exercises {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c Catalog) ExerciseCount() int { return len(c.Exercises) }

// Exercise returns exercise i, falling back to exercise 0 for unknown indexes.
func (c Catalog) Exercise(i int) Exercise {
	if i < 0 || i >= len(c.Exercises) {
		i = 0
	}
	if len(c.Exercises) == 0 {
		return Exercise{}
	}
	return c.Exercises[i]
}

// Has reports whether i is a valid exercise index.
func (c Catalog) Has(i int) bool { return i >= 0 && i < len(c.Exercises) }

func (c Catalog) TotalSteps(i int) int { return c.Exercise(i).TotalSteps }

func (c Catalog) ImageCount(i int) int { return len(c.Exercise(i).Images) }

// DefaultPositions returns a copy of exercise i's shipped marker coordinates.
func (c Catalog) DefaultPositions(i int) Positions {
	return c.Exercise(i).Defaults.Clone()
}
