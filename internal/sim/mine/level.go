package mine

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"

	"minesynth.ai/internal/geom"
)

// Sampler draws n floating-point values. Implementations need not be
// goroutine-safe: the level draws every sample sequentially before any
// work fans out.
type Sampler interface {
	Sample(n int) []float64
}

// Params configures one mine level.
type Params struct {
	Cols, Rows int

	// MinRooms and MaxRooms bound the uniform room-count draw,
	// inclusive. Room 0 is always the elevator position.
	MinRooms, MaxRooms int
	Elevator           Coord

	CellWidth  float64
	CellHeight float64

	// Drills is the number of bore attempts; a fully enclosed corridor
	// cell swallows its attempt.
	Drills        int
	SegmentLength float64

	Shapes int

	// Dims switches drill and elevator geometry between flat and
	// volumetric. Corridor cells are always built 3-D.
	Dims int

	// Workers caps the shape growth pool; zero means one per CPU.
	Workers int

	// LengthSampler draws drill hole lengths. ExtentSamplers draw the
	// x, y and z voxel extents of geological shapes, one sampler each.
	LengthSampler  Sampler
	ExtentSamplers []Sampler
}

// Level is one generated mine floor: the carved grid, the rooms and
// corridor cells in carving order, the drill holes, and the grown
// shapes.
type Level struct {
	Index int

	Grid     *Grid
	Rooms    []Coord
	Corridor []*Cell
	Drills   []*DrillHole
	Shapes   []*Shape

	// Elevator is set only on the deepest level of a multi-level mine.
	Elevator *Cell

	// Unreached lists rooms whose connection pass exhausted every
	// candidate. Callers log it; generation carries on with a forest.
	Unreached []int

	params   Params
	levels   int
	rng      *rand.Rand
	numRooms int
}

// NewLevel prepares level index of levels total and draws its room
// count. Building is split out so callers can report per-stage
// progress.
func NewLevel(params Params, index, levels int, rng *rand.Rand) *Level {
	return &Level{
		Index:    index,
		params:   params,
		levels:   levels,
		rng:      rng,
		numRooms: params.MinRooms + rng.Intn(params.MaxRooms-params.MinRooms+1),
	}
}

// Build runs the full level pipeline: corridor network, drill holes,
// geological shapes.
func (l *Level) Build(ctx context.Context) error {
	l.BuildNetwork()
	if err := l.PlaceDrills(); err != nil {
		return err
	}
	return l.GrowShapes(ctx)
}

// PlaceDrills bores the configured number of holes from random corridor
// cells. Cells enclosed on all four sides are skipped, so a level can
// end up with fewer holes than asked for.
func (l *Level) PlaceDrills() error {
	p := l.params
	if p.Drills == 0 {
		return nil
	}
	if len(l.Corridor) == 0 {
		return fmt.Errorf("level %d has no corridor cells to drill", l.Index)
	}
	for n := 0; n < p.Drills; n++ {
		cell := l.Corridor[l.rng.Intn(len(l.Corridor))]
		point, normal, ok := cell.RandomWallPoint(l.rng)
		if !ok {
			continue
		}
		d := NewDrillHole(point, normal, cell.Col, cell.Row, p.SegmentLength, p.Dims)
		d.Create(l.rng, p.LengthSampler.Sample(1)[0])
		l.Drills = append(l.Drills, d)
	}
	return nil
}

type shapeTask struct {
	seed    geom.Point
	x, y, z int
	rng     *rand.Rand
}

// GrowShapes seeds the configured number of shapes at distinct random
// drill hole endpoints and grows them on a fixed worker pool. Output
// order follows seed order whatever the worker count.
func (l *Level) GrowShapes(ctx context.Context) error {
	p := l.params
	if p.Shapes == 0 {
		return nil
	}
	if p.Shapes > len(l.Drills) {
		return fmt.Errorf("level %d has %d drill holes, cannot seed %d shapes", l.Index, len(l.Drills), p.Shapes)
	}

	// Extents and per-task sources are drawn sequentially up front so
	// the worker count never changes the generated data.
	perm := l.rng.Perm(len(l.Drills))
	tasks := make([]shapeTask, p.Shapes)
	for i := range tasks {
		tasks[i] = shapeTask{
			seed: l.Drills[perm[i]].Line.P2,
			x:    int(math.Ceil(p.ExtentSamplers[0].Sample(1)[0])),
			y:    int(math.Ceil(p.ExtentSamplers[1].Sample(1)[0])),
			z:    int(math.Ceil(p.ExtentSamplers[2].Sample(1)[0])),
			rng:  rand.New(rand.NewSource(l.rng.Int63())),
		}
	}

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	results := make([]*Shape, len(tasks))
	errs := make([]error, len(tasks))
	taskCh := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for idx := range taskCh {
				t := tasks[idx]
				results[idx], errs[idx] = GrowShape(t.x, t.y, t.z, t.x*t.y*t.z, t.seed, t.rng)
			}
		}()
	}

feed:
	for idx := range tasks {
		select {
		case taskCh <- idx:
		case <-ctx.Done():
			break feed
		}
	}
	close(taskCh)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
	}
	l.Shapes = append(l.Shapes, results...)
	return nil
}
