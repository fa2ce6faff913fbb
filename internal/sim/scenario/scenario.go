// Package scenario loads generation scenarios: one YAML document
// describing the level grid, the drill and shape programs, and the size
// distributions they draw from.
package scenario

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/exp/rand"
	"gopkg.in/yaml.v3"

	"minesynth.ai/internal/sim/mine"
	"minesynth.ai/internal/sim/sampling"
)

type Config struct {
	Seed       int64  `yaml:"seed" json:"seed"`
	Levels     int    `yaml:"levels" json:"levels"`
	Dimensions int    `yaml:"dimensions" json:"dimensions"`
	Workers    int    `yaml:"workers" json:"workers"`
	Schema     string `yaml:"schema" json:"schema"`

	Grid   GridSpec   `yaml:"grid" json:"grid"`
	Rooms  RoomsSpec  `yaml:"rooms" json:"rooms"`
	Cell   CellSpec   `yaml:"cell" json:"cell"`
	Drills DrillsSpec `yaml:"drills" json:"drills"`
	Shapes ShapesSpec `yaml:"shapes" json:"shapes"`
}

type GridSpec struct {
	Cols int `yaml:"cols" json:"cols"`
	Rows int `yaml:"rows" json:"rows"`
}

type RoomsSpec struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`

	// Elevator is the [col, row] of room 0, the shaft position shared
	// by every level.
	Elevator []int `yaml:"elevator" json:"elevator"`
}

type CellSpec struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

type DrillsSpec struct {
	Count         int           `yaml:"count" json:"count"`
	SegmentLength float64       `yaml:"segment_length" json:"segment_length"`
	Length        sampling.Spec `yaml:"length" json:"length"`
}

type ShapesSpec struct {
	Count int `yaml:"count" json:"count"`

	// Extents holds exactly three distributions when Count > 0, drawing
	// the x, y and z voxel extents of each shape.
	Extents []sampling.Spec `yaml:"extents" json:"extents"`
}

// Load reads a scenario file. Absent keys keep their defaults; an empty
// path returns the defaults untouched.
func Load(path string) (Config, error) {
	cfg := defaults()
	if strings.TrimSpace(path) == "" {
		cfg.Normalize()
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		Seed:       1,
		Levels:     1,
		Dimensions: 3,
		Schema:     "synthetic_mine",
		Grid:       GridSpec{Cols: 100, Rows: 45},
		Rooms:      RoomsSpec{Min: 10, Max: 20, Elevator: []int{0, 0}},
		Cell:       CellSpec{Width: 4, Height: 3},
		Drills: DrillsSpec{
			Count:         100,
			SegmentLength: 10,
			Length:        sampling.Spec{Dist: "uniform", Params: []float64{10, 30}},
		},
		Shapes: ShapesSpec{
			Count: 3,
			Extents: []sampling.Spec{
				{Dist: "uniform", Params: []float64{10, 30}},
				{Dist: "uniform", Params: []float64{10, 30}},
				{Dist: "uniform", Params: []float64{2, 8}},
			},
		},
	}
}

func (c *Config) Normalize() {
	if c == nil {
		return
	}
	if c.Levels <= 0 {
		c.Levels = 1
	}
	if c.Workers < 0 {
		c.Workers = 0
	}
	if strings.TrimSpace(c.Schema) == "" {
		c.Schema = "synthetic_mine"
	}
	if len(c.Rooms.Elevator) == 0 {
		c.Rooms.Elevator = []int{0, 0}
	}
}

func (c Config) Validate() error {
	c.Normalize()
	if c.Grid.Cols <= 0 || c.Grid.Rows <= 0 {
		return fmt.Errorf("grid must be positive, got %dx%d", c.Grid.Cols, c.Grid.Rows)
	}
	if c.Rooms.Min < 2 {
		return fmt.Errorf("rooms.min must be >= 2, got %d", c.Rooms.Min)
	}
	if c.Rooms.Max < c.Rooms.Min {
		return fmt.Errorf("rooms.max %d must be >= rooms.min %d", c.Rooms.Max, c.Rooms.Min)
	}
	if len(c.Rooms.Elevator) != 2 {
		return fmt.Errorf("rooms.elevator needs [col, row], got %v", c.Rooms.Elevator)
	}
	col, row := c.Rooms.Elevator[0], c.Rooms.Elevator[1]
	if col < 0 || col >= c.Grid.Cols || row < 0 || row >= c.Grid.Rows {
		return fmt.Errorf("rooms.elevator %v is outside the %dx%d grid", c.Rooms.Elevator, c.Grid.Cols, c.Grid.Rows)
	}
	if c.Cell.Width <= 0 || c.Cell.Height <= 0 {
		return fmt.Errorf("cell size must be positive, got %gx%g", c.Cell.Width, c.Cell.Height)
	}
	if c.Dimensions != 2 && c.Dimensions != 3 {
		return fmt.Errorf("dimensions must be 2 or 3, got %d", c.Dimensions)
	}
	if c.Drills.Count < 0 {
		return fmt.Errorf("drills.count must be >= 0, got %d", c.Drills.Count)
	}
	if c.Drills.Count > 0 {
		if c.Drills.SegmentLength <= 0 {
			return fmt.Errorf("drills.segment_length must be positive, got %g", c.Drills.SegmentLength)
		}
		if err := c.Drills.Length.Validate(); err != nil {
			return fmt.Errorf("drills.length: %w", err)
		}
	}
	if c.Shapes.Count < 0 {
		return fmt.Errorf("shapes.count must be >= 0, got %d", c.Shapes.Count)
	}
	if c.Shapes.Count > 0 {
		if c.Dimensions != 3 {
			return fmt.Errorf("shapes need a 3-D scenario, got dimensions %d", c.Dimensions)
		}
		if c.Shapes.Count > c.Drills.Count {
			return fmt.Errorf("shapes.count %d exceeds drills.count %d, shapes seed at drill endpoints", c.Shapes.Count, c.Drills.Count)
		}
		if len(c.Shapes.Extents) != 3 {
			return fmt.Errorf("shapes.extents needs 3 distributions for x, y, z, got %d", len(c.Shapes.Extents))
		}
		for i, s := range c.Shapes.Extents {
			if err := s.Validate(); err != nil {
				return fmt.Errorf("shapes.extents[%d]: %w", i, err)
			}
		}
	}
	return nil
}

// Params compiles the scenario into level parameters. Each sampler gets
// its own source split from the scenario seed, so sampler draws never
// disturb the level stream and worker counts cannot reorder them.
func (c Config) Params() (mine.Params, error) {
	p := mine.Params{
		Cols:          c.Grid.Cols,
		Rows:          c.Grid.Rows,
		MinRooms:      c.Rooms.Min,
		MaxRooms:      c.Rooms.Max,
		Elevator:      mine.Coord{Col: c.Rooms.Elevator[0], Row: c.Rooms.Elevator[1]},
		CellWidth:     c.Cell.Width,
		CellHeight:    c.Cell.Height,
		Drills:        c.Drills.Count,
		SegmentLength: c.Drills.SegmentLength,
		Shapes:        c.Shapes.Count,
		Dims:          c.Dimensions,
		Workers:       c.Workers,
	}

	split := rand.New(rand.NewSource(uint64(c.Seed)))
	if c.Drills.Count > 0 {
		s, err := c.Drills.Length.Compile(rand.NewSource(split.Uint64()))
		if err != nil {
			return mine.Params{}, fmt.Errorf("drills.length: %w", err)
		}
		p.LengthSampler = s
	}
	if c.Shapes.Count > 0 {
		p.ExtentSamplers = make([]mine.Sampler, len(c.Shapes.Extents))
		for i, spec := range c.Shapes.Extents {
			s, err := spec.Compile(rand.NewSource(split.Uint64()))
			if err != nil {
				return mine.Params{}, fmt.Errorf("shapes.extents[%d]: %w", i, err)
			}
			p.ExtentSamplers[i] = s
		}
	}
	return p, nil
}
