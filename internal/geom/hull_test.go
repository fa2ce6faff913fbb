package geom

import (
	"errors"
	"math/rand"
	"testing"
)

func cubeCorners() []Point {
	return []Point{
		XYZ(0, 0, 0), XYZ(1, 0, 0), XYZ(1, 1, 0), XYZ(0, 1, 0),
		XYZ(0, 0, 1), XYZ(1, 0, 1), XYZ(1, 1, 1), XYZ(0, 1, 1),
	}
}

// checkHull verifies the structural hull invariants: every face oriented
// away from the centroid, every input point on or behind every face, and
// a closed surface where each edge joins exactly two faces.
func checkHull(t *testing.T, h *Hull) {
	t.Helper()
	var centroid Point
	centroid.HasZ = true
	for _, v := range h.Vertices {
		centroid = centroid.Add(h.Points[v])
	}
	centroid = centroid.Div(float64(len(h.Vertices)))

	const tol = 1e-6
	for fi, f := range h.Faces {
		a, b, c := h.Points[f.A], h.Points[f.B], h.Points[f.C]
		n := b.Sub(a).Cross(c.Sub(a))
		out := n.X*(a.X-centroid.X) + n.Y*(a.Y-centroid.Y) + n.Z*(a.Z-centroid.Z)
		if out <= 0 {
			t.Fatalf("face %d points inward", fi)
		}
		for pi, p := range h.Points {
			d := n.X*(p.X-a.X) + n.Y*(p.Y-a.Y) + n.Z*(p.Z-a.Z)
			if d > tol {
				t.Fatalf("point %d lies %g outside face %d", pi, d, fi)
			}
		}
	}

	counts := map[[2]int]int{}
	for _, f := range h.Faces {
		for _, e := range [][2]int{{f.A, f.B}, {f.B, f.C}, {f.C, f.A}} {
			if e[0] > e[1] {
				e[0], e[1] = e[1], e[0]
			}
			counts[e]++
		}
	}
	for e, c := range counts {
		if c != 2 {
			t.Fatalf("edge %v appears on %d faces, want 2", e, c)
		}
	}
	if v, eN, fN := len(h.Vertices), len(counts), len(h.Faces); v-eN+fN != 2 {
		t.Fatalf("euler characteristic %d-%d+%d != 2", v, eN, fN)
	}
}

func TestConvexHullCube(t *testing.T) {
	pts := append(cubeCorners(), XYZ(0.5, 0.5, 0.5))
	h, err := ConvexHull(pts)
	if err != nil {
		t.Fatalf("hull: %v", err)
	}
	if len(h.Vertices) != 8 {
		t.Fatalf("got %d vertices, want 8: %v", len(h.Vertices), h.Vertices)
	}
	for i, v := range h.Vertices {
		if v != i {
			t.Fatalf("vertices = %v, want 0..7", h.Vertices)
		}
	}
	if len(h.Faces) != 12 {
		t.Fatalf("got %d faces, want 12", len(h.Faces))
	}
	checkHull(t, h)

	vp := h.VertexPoints()
	if len(vp) != 8 || vp[6] != XYZ(1, 1, 1) {
		t.Fatalf("vertex points = %v", vp)
	}
}

func TestConvexHullTetrahedron(t *testing.T) {
	pts := []Point{XYZ(0, 0, 0), XYZ(4, 0, 0), XYZ(0, 4, 0), XYZ(0, 0, 4)}
	h, err := ConvexHull(pts)
	if err != nil {
		t.Fatalf("hull: %v", err)
	}
	if len(h.Vertices) != 4 || len(h.Faces) != 4 {
		t.Fatalf("got %d vertices / %d faces, want 4 / 4", len(h.Vertices), len(h.Faces))
	}
	checkHull(t, h)
}

func TestConvexHullRandomCloud(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	pts := make([]Point, 40)
	for i := range pts {
		pts[i] = XYZ(rng.Float64()*10, rng.Float64()*10, rng.Float64()*10)
	}
	h, err := ConvexHull(pts)
	if err != nil {
		t.Fatalf("hull: %v", err)
	}
	if len(h.Vertices) < 4 {
		t.Fatalf("only %d vertices", len(h.Vertices))
	}
	checkHull(t, h)
}

func TestConvexHullDegenerate(t *testing.T) {
	if _, err := ConvexHull([]Point{XYZ(0, 0, 0), XYZ(1, 0, 0), XYZ(0, 1, 0)}); !errors.Is(err, ErrDegenerate) {
		t.Fatalf("three points: err = %v", err)
	}
	same := []Point{XYZ(2, 2, 2), XYZ(2, 2, 2), XYZ(2, 2, 2), XYZ(2, 2, 2)}
	if _, err := ConvexHull(same); !errors.Is(err, ErrDegenerate) {
		t.Fatalf("coincident points: err = %v", err)
	}
	flat := []Point{XY(0, 0), XY(1, 0), XY(0, 1), XY(1, 1)}
	if _, err := ConvexHull(flat); err == nil {
		t.Fatal("2-D points accepted")
	}
}
