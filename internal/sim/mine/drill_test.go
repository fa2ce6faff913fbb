package mine

import (
	"math"
	"math/rand"
	"testing"

	"minesynth.ai/internal/geom"
)

func TestDrillCreate(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		d := NewDrillHole(geom.XYZ(5, 5, 0), geom.XYZ(0, 10, 0), 1, 1, 1.5, 3)
		d.Create(rng, 12)
		if math.Abs(d.Line.Length()-12) > 1e-9 {
			t.Fatalf("length: %v", d.Line.Length())
		}
		// Three tilts of at most fifteen degrees leave the wall normal
		// dominant in the hole's direction.
		dir := d.Line.P2.Sub(d.Line.P1)
		if dir.Y <= 0 {
			t.Fatalf("hole flipped against its normal: %+v", dir)
		}
	}
}

func TestDrillCreateFlat(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 100; i++ {
		d := NewDrillHole(geom.XY(0, 0), geom.XY(0, 3), 0, 0, 1, 2)
		d.Create(rng, 5)
		if math.Abs(d.Line.Length()-5) > 1e-9 {
			t.Fatalf("length: %v", d.Line.Length())
		}
		// Only the z rotation applies in 2-D, so the hole stays within
		// the tilt bound of its normal.
		angle := math.Abs(math.Atan2(d.Line.P2.X, d.Line.P2.Y))
		if angle > maxTilt+1e-9 {
			t.Fatalf("tilt beyond the bound: %v rad", angle)
		}
	}
}

func TestDrillSegments(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	d := NewDrillHole(geom.XYZ(0, 0, 0), geom.XYZ(1, 1, 1), 0, 0, 3, 3)
	d.Create(rng, 10)

	segs := d.Segments()
	if len(segs) != 4 {
		t.Fatalf("segment count: got %d want 4", len(segs))
	}
	var sum float64
	for i, s := range segs {
		sum += s.Line.Length()
		// Each segment is a hole in its own right, keeping the parent's
		// normal and origin cell.
		if s.Normal != d.Normal {
			t.Fatalf("segment %d normal %+v, want %+v", i, s.Normal, d.Normal)
		}
		if s.Col != d.Col || s.Row != d.Row {
			t.Fatalf("segment %d anchored at (%d,%d)", i, s.Col, s.Row)
		}
	}
	if math.Abs(sum-10) > 1e-9 {
		t.Fatalf("segment lengths sum to %v", sum)
	}
	if segs[0].Line.P1 != d.Line.P1 {
		t.Fatalf("first segment starts at %+v", segs[0].Line.P1)
	}
	for i := 1; i < len(segs); i++ {
		if segs[i].Line.P1 != segs[i-1].Line.P2 {
			t.Fatalf("segment %d detached from its predecessor", i)
		}
	}
	end := segs[len(segs)-1].Line.P2
	if math.Abs(end.X-d.Line.P2.X) > 1e-9 ||
		math.Abs(end.Y-d.Line.P2.Y) > 1e-9 ||
		math.Abs(end.Z-d.Line.P2.Z) > 1e-9 {
		t.Fatalf("last segment ends at %+v, hole at %+v", end, d.Line.P2)
	}
}

func TestDrillSegmentCounts(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for _, tc := range []struct {
		length float64
		want   int
	}{
		{10, 4},
		{9, 3},
		{3, 1},
		{0.5, 1},
	} {
		d := NewDrillHole(geom.XYZ(0, 0, 0), geom.XYZ(0, 0, -2), 0, 0, 3, 3)
		d.Create(rng, tc.length)
		if got := len(d.Segments()); got != tc.want {
			t.Fatalf("length %v: got %d segments, want %d", tc.length, got, tc.want)
		}
	}
}

func TestDrillSegmentsUncreated(t *testing.T) {
	d := NewDrillHole(geom.XYZ(0, 0, 0), geom.XYZ(1, 0, 0), 0, 0, 3, 3)
	if segs := d.Segments(); segs != nil {
		t.Fatalf("uncreated hole has segments: %v", segs)
	}
}

func TestDrillWKT(t *testing.T) {
	d := NewDrillHole(geom.XYZ(1, 2, 3), geom.XYZ(0, 1, 0), 0, 0, 3, 3)
	if got := d.WKT(); got != "LINESTRINGZ (1 2 3, 1 2 3)" {
		t.Fatalf("wkt: %q", got)
	}
}
