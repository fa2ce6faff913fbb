package geom

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func tetraVolume(a, b, c, d Point) float64 {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ad := d.Sub(a)
	x := ac.Cross(ad)
	return math.Abs(ab.X*x.X+ab.Y*x.Y+ab.Z*x.Z) / 6
}

func triangulationVolume(tri *Triangulation) float64 {
	var sum float64
	for _, s := range tri.Simplices {
		sum += tetraVolume(tri.Points[s.V[0]], tri.Points[s.V[1]], tri.Points[s.V[2]], tri.Points[s.V[3]])
	}
	return sum
}

// checkDelaunay verifies that no point falls strictly inside any
// simplex circumsphere and that the simplices stitch into a solid:
// every facet is shared by at most two of them.
func checkDelaunay(t *testing.T, tri *Triangulation) {
	t.Helper()
	toVec := func(p Point) vec3 { return vec3{p.X, p.Y, p.Z} }
	for si, s := range tri.Simplices {
		center, r2, flat := circumsphere(
			toVec(tri.Points[s.V[0]]), toVec(tri.Points[s.V[1]]),
			toVec(tri.Points[s.V[2]]), toVec(tri.Points[s.V[3]]))
		if flat {
			continue
		}
		for pi, p := range tri.Points {
			d := toVec(p).sub(center)
			if d.dot(d) < r2-1e-4 {
				t.Fatalf("point %d inside circumsphere of simplex %d", pi, si)
			}
		}
	}

	counts := map[[3]int]int{}
	for _, s := range tri.Simplices {
		for _, f := range (tetra{v: s.V}).facets() {
			counts[sortedFacet(f)]++
		}
	}
	for f, c := range counts {
		if c > 2 {
			t.Fatalf("facet %v shared by %d simplices", f, c)
		}
	}
}

func TestDelaunayCube(t *testing.T) {
	tri, err := Delaunay(cubeCorners())
	if err != nil {
		t.Fatalf("delaunay: %v", err)
	}
	if n := len(tri.Simplices); n < 5 || n > 6 {
		t.Fatalf("got %d simplices, want 5 or 6", n)
	}
	for si, s := range tri.Simplices {
		seen := map[int]bool{}
		for _, v := range s.V {
			if v < 0 || v >= len(tri.Points) {
				t.Fatalf("simplex %d references point %d", si, v)
			}
			if seen[v] {
				t.Fatalf("simplex %d repeats point %d", si, v)
			}
			seen[v] = true
		}
	}
	if vol := triangulationVolume(tri); math.Abs(vol-1) > 1e-4 {
		t.Fatalf("simplices fill volume %v of a unit cube", vol)
	}
	checkDelaunay(t, tri)
}

func TestDelaunayMatchesHullVolume(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	pts := make([]Point, 30)
	for i := range pts {
		pts[i] = XYZ(rng.Float64()*10, rng.Float64()*10, rng.Float64()*10)
	}

	tri, err := Delaunay(pts)
	if err != nil {
		t.Fatalf("delaunay: %v", err)
	}
	checkDelaunay(t, tri)

	h, err := ConvexHull(pts)
	if err != nil {
		t.Fatalf("hull: %v", err)
	}
	var centroid Point
	centroid.HasZ = true
	for _, v := range h.Vertices {
		centroid = centroid.Add(h.Points[v])
	}
	centroid = centroid.Div(float64(len(h.Vertices)))
	var hullVol float64
	for _, f := range h.Faces {
		hullVol += tetraVolume(centroid, h.Points[f.A], h.Points[f.B], h.Points[f.C])
	}

	dVol := triangulationVolume(tri)
	if math.Abs(dVol-hullVol) > 1e-6*hullVol {
		t.Fatalf("triangulation volume %v != hull volume %v", dVol, hullVol)
	}
}

func TestDelaunayDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pts := make([]Point, 16)
	for i := range pts {
		pts[i] = XYZ(rng.Float64()*4, rng.Float64()*4, rng.Float64()*4)
	}
	a, err := Delaunay(pts)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, err := Delaunay(pts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(a.Simplices) != len(b.Simplices) {
		t.Fatalf("simplex counts differ: %d vs %d", len(a.Simplices), len(b.Simplices))
	}
	for i := range a.Simplices {
		if a.Simplices[i] != b.Simplices[i] {
			t.Fatalf("simplex %d differs: %v vs %v", i, a.Simplices[i], b.Simplices[i])
		}
	}
}

func TestDelaunayDegenerate(t *testing.T) {
	if _, err := Delaunay([]Point{XYZ(0, 0, 0), XYZ(1, 0, 0), XYZ(0, 1, 0)}); !errors.Is(err, ErrDegenerate) {
		t.Fatalf("three points: err = %v", err)
	}
	if _, err := Delaunay([]Point{XY(0, 0), XY(1, 0), XY(0, 1), XY(1, 1)}); err == nil {
		t.Fatal("2-D points accepted")
	}
}
