package scenario

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"minesynth.ai/internal/sim/sampling"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load empty path: %v", err)
	}
	if cfg.Grid.Cols != 100 || cfg.Grid.Rows != 45 {
		t.Fatalf("default grid = %dx%d, want 100x45", cfg.Grid.Cols, cfg.Grid.Rows)
	}
	if cfg.Rooms.Min != 10 || cfg.Rooms.Max != 20 {
		t.Fatalf("default rooms = [%d, %d], want [10, 20]", cfg.Rooms.Min, cfg.Rooms.Max)
	}
	if cfg.Schema != "synthetic_mine" {
		t.Fatalf("default schema = %q", cfg.Schema)
	}
	if cfg.Dimensions != 3 {
		t.Fatalf("default dimensions = %d", cfg.Dimensions)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadScenarioYAML(t *testing.T) {
	cfg, err := Load("../../../configs/minegen.yaml")
	if err != nil {
		t.Fatalf("load minegen.yaml: %v", err)
	}
	if cfg.Levels != 3 {
		t.Fatalf("levels = %d, want 3", cfg.Levels)
	}
	if cfg.Drills.Length.Dist != "lognorm" {
		t.Fatalf("drill length dist = %q, want lognorm", cfg.Drills.Length.Dist)
	}
	if len(cfg.Shapes.Extents) != 3 {
		t.Fatalf("shape extents = %d, want 3", len(cfg.Shapes.Extents))
	}
	if _, err := cfg.Params(); err != nil {
		t.Fatalf("compile shipped scenario: %v", err)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	doc := "grid:\n  cols: 12\n  rows: 9\nrooms:\n  min: 2\n  max: 3\ndrills:\n  count: 0\nshapes:\n  count: 0\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Grid.Cols != 12 || cfg.Grid.Rows != 9 {
		t.Fatalf("grid = %dx%d, want 12x9", cfg.Grid.Cols, cfg.Grid.Rows)
	}
	if cfg.Cell.Width != 4 || cfg.Cell.Height != 3 {
		t.Fatalf("cell = %gx%g, want defaults 4x3", cfg.Cell.Width, cfg.Cell.Height)
	}
	if cfg.Drills.Count != 0 || cfg.Shapes.Count != 0 {
		t.Fatalf("counts = %d drills, %d shapes, want 0, 0", cfg.Drills.Count, cfg.Shapes.Count)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte("grid: [not: a: mapping"), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero cols", func(c *Config) { c.Grid.Cols = 0 }, "grid"},
		{"one room", func(c *Config) { c.Rooms.Min = 1 }, "rooms.min"},
		{"max below min", func(c *Config) { c.Rooms.Max = c.Rooms.Min - 1 }, "rooms.max"},
		{"elevator arity", func(c *Config) { c.Rooms.Elevator = []int{1, 2, 3} }, "rooms.elevator"},
		{"elevator outside grid", func(c *Config) { c.Rooms.Elevator = []int{100, 0} }, "outside"},
		{"flat cell", func(c *Config) { c.Cell.Height = 0 }, "cell size"},
		{"bad dimensions", func(c *Config) { c.Dimensions = 4 }, "dimensions"},
		{"negative drills", func(c *Config) { c.Drills.Count = -1 }, "drills.count"},
		{"zero segment length", func(c *Config) { c.Drills.SegmentLength = 0 }, "segment_length"},
		{"unknown distribution", func(c *Config) { c.Drills.Length.Dist = "zipf" }, "drills.length"},
		{"shapes in 2-D", func(c *Config) {
			c.Dimensions = 2
			c.Drills.Count = 0
		}, "3-D"},
		{"shapes exceed drills", func(c *Config) { c.Shapes.Count = c.Drills.Count + 1 }, "exceeds"},
		{"extent arity", func(c *Config) { c.Shapes.Extents = c.Shapes.Extents[:2] }, "extents"},
		{"bad extent params", func(c *Config) {
			c.Shapes.Extents[2] = sampling.Spec{Dist: "norm", Params: []float64{1, 2, 3, 4}}
		}, "extents[2]"},
	}
	for _, tc := range cases {
		cfg := defaults()
		tc.mutate(&cfg)
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.wantErr) {
			t.Fatalf("%s: error %q does not mention %q", tc.name, err, tc.wantErr)
		}
	}
}

func TestValidateFlatScenario(t *testing.T) {
	cfg := defaults()
	cfg.Dimensions = 2
	cfg.Shapes.Count = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("2-D scenario with drills should validate: %v", err)
	}
}

func TestParams(t *testing.T) {
	cfg := defaults()
	p, err := cfg.Params()
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	if p.Cols != cfg.Grid.Cols || p.Rows != cfg.Grid.Rows {
		t.Fatalf("grid = %dx%d, want %dx%d", p.Cols, p.Rows, cfg.Grid.Cols, cfg.Grid.Rows)
	}
	if p.Elevator.Col != 0 || p.Elevator.Row != 0 {
		t.Fatalf("elevator = %+v, want origin", p.Elevator)
	}
	if p.Drills != 100 || p.SegmentLength != 10 || p.Shapes != 3 {
		t.Fatalf("program = %d drills, %g segment, %d shapes", p.Drills, p.SegmentLength, p.Shapes)
	}
	if p.LengthSampler == nil {
		t.Fatalf("length sampler not compiled")
	}
	for _, v := range p.LengthSampler.Sample(10) {
		if v < 10 || v > 30 {
			t.Fatalf("drill length %g outside [10, 30]", v)
		}
	}
	if len(p.ExtentSamplers) != 3 {
		t.Fatalf("extent samplers = %d, want 3", len(p.ExtentSamplers))
	}
	for i, s := range p.ExtentSamplers {
		if s == nil {
			t.Fatalf("extent sampler %d not compiled", i)
		}
	}
}

func TestParamsDeterministic(t *testing.T) {
	cfg := defaults()
	a, err := cfg.Params()
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	b, err := cfg.Params()
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	av, bv := a.LengthSampler.Sample(8), b.LengthSampler.Sample(8)
	for i := range av {
		if av[i] != bv[i] {
			t.Fatalf("draw %d: %g vs %g for the same seed", i, av[i], bv[i])
		}
	}
	for j := range a.ExtentSamplers {
		ae, be := a.ExtentSamplers[j].Sample(4), b.ExtentSamplers[j].Sample(4)
		for i := range ae {
			if ae[i] != be[i] {
				t.Fatalf("extent %d draw %d: %g vs %g for the same seed", j, i, ae[i], be[i])
			}
		}
	}
}

func TestParamsWithoutPrograms(t *testing.T) {
	cfg := defaults()
	cfg.Drills = DrillsSpec{}
	cfg.Shapes = ShapesSpec{}
	p, err := cfg.Params()
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	if p.LengthSampler != nil || p.ExtentSamplers != nil {
		t.Fatalf("no samplers expected for an empty program")
	}
}
