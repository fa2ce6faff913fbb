package mine

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"minesynth.ai/internal/geom"
)

func TestCellCorners(t *testing.T) {
	c := NewCell(CellSpec{Col: 2, Row: 3, Level: 1, Height: 4, Width: 10, Padding: 2})
	if got, want := c.Center(), geom.XYZ(20, 30, -8); got != want {
		t.Fatalf("center: got %+v want %+v", got, want)
	}
	wantFloor := [4]geom.Point{
		geom.XYZ(15, 25, -8),
		geom.XYZ(15, 35, -8),
		geom.XYZ(25, 25, -8),
		geom.XYZ(25, 35, -8),
	}
	if c.floor != wantFloor {
		t.Fatalf("floor: got %+v", c.floor)
	}
	for i, p := range wantFloor {
		p.Z += 4
		if c.ceiling[i] != p {
			t.Fatalf("ceiling %d: got %+v want %+v", i, c.ceiling[i], p)
		}
	}
}

func TestCellDefaultPadding(t *testing.T) {
	c := NewCell(CellSpec{Level: 2, Height: 3, Width: 6})
	if got := c.Center(); got != geom.XYZ(0, 0, -150) {
		t.Fatalf("center: got %+v", got)
	}
}

func TestCellFlat(t *testing.T) {
	c := NewCell(CellSpec{Col: 1, Row: 1, Height: 3, Width: 4, Dims: 2})
	if c.Center().HasZ {
		t.Fatal("2-D cell grew a z axis")
	}
	if c.ceiling != c.floor {
		t.Fatalf("flat cell ceiling differs from floor: %+v vs %+v", c.ceiling, c.floor)
	}
	if !strings.HasPrefix(c.WKT(), "POLYHEDRALSURFACE((") {
		t.Fatalf("flat wkt tag: %q", c.WKT())
	}
}

func TestCellSetNeighbors(t *testing.T) {
	c := NewCell(CellSpec{Col: 5, Row: 5, Height: 1, Width: 1})
	c.SetNeighbors([]Coord{{6, 5}, {4, 5}, {5, 4}, {5, 6}})
	for dir, want := range map[Direction]Coord3{
		East:  {6, 5, 0},
		West:  {4, 5, 0},
		North: {5, 4, 0},
		South: {5, 6, 0},
	} {
		got, ok := c.Neighbor(dir)
		if !ok || got != want {
			t.Fatalf("%s: got %+v ok=%v want %+v", dir, got, ok, want)
		}
	}
	if !c.Exposed(Up) || !c.Exposed(Down) {
		t.Fatal("planar neighbors must leave up and down exposed")
	}
}

func TestCellSetNeighborsColumnWins(t *testing.T) {
	// A diagonal coordinate classifies by column first.
	c := NewCell(CellSpec{Col: 5, Row: 5, Height: 1, Width: 1})
	c.SetNeighbors([]Coord{{6, 4}})
	if _, ok := c.Neighbor(East); !ok {
		t.Fatal("diagonal neighbor should land in the east slot")
	}
	if !c.Exposed(North) {
		t.Fatal("north must stay exposed")
	}
}

func TestCellSetNeighbors3D(t *testing.T) {
	c := NewCell(CellSpec{Col: 5, Row: 5, Level: 5, Height: 1, Width: 1, Padding: 1})
	c.SetNeighbors3D([]Coord3{{5, 5, 6}, {5, 5, 4}})
	if got, ok := c.Neighbor(Down); !ok || got != (Coord3{5, 5, 6}) {
		t.Fatalf("down: got %+v ok=%v", got, ok)
	}
	if got, ok := c.Neighbor(Up); !ok || got != (Coord3{5, 5, 4}) {
		t.Fatalf("up: got %+v ok=%v", got, ok)
	}
}

func TestCellWallWindings(t *testing.T) {
	c := NewCell(CellSpec{Height: 3, Width: 2})
	p1, p2, p3, p4 := geom.XYZ(-1, -1, 0), geom.XYZ(-1, 1, 0), geom.XYZ(1, -1, 0), geom.XYZ(1, 1, 0)
	up := func(p geom.Point) geom.Point { p.Z += 3; return p }

	cases := []struct {
		dir  Direction
		want [2][3]geom.Point
	}{
		{North, [2][3]geom.Point{{p3, p1, up(p1)}, {up(p1), up(p3), p3}}},
		{South, [2][3]geom.Point{{p2, p4, up(p4)}, {up(p4), up(p2), p2}}},
		{West, [2][3]geom.Point{{p1, p2, up(p2)}, {up(p2), up(p1), p1}}},
		{East, [2][3]geom.Point{{p4, p3, up(p3)}, {up(p3), up(p4), p4}}},
		{Down, [2][3]geom.Point{{p1, p3, p2}, {p2, p3, p4}}},
		{Up, [2][3]geom.Point{{up(p1), up(p3), up(p2)}, {up(p2), up(p3), up(p4)}}},
	}
	for _, tc := range cases {
		t1, t2 := c.Wall(tc.dir)
		got := [2][3]geom.Point{{t1.P1, t1.P2, t1.P3}, {t2.P1, t2.P2, t2.P3}}
		if got != tc.want {
			t.Fatalf("%s wall: got %+v want %+v", tc.dir, got, tc.want)
		}
	}
}

func TestCellTrianglesExposure(t *testing.T) {
	c := NewCell(CellSpec{Height: 1, Width: 1})
	if got := len(c.Triangles()); got != 12 {
		t.Fatalf("free-standing cell: got %d triangles", got)
	}

	c.SetNeighbors([]Coord{{1, 0}, {-1, 0}, {0, 1}, {0, -1}})
	if got := len(c.Triangles()); got != 4 {
		t.Fatalf("enclosed cell: got %d triangles, want ceiling and floor only", got)
	}

	c = NewCell(CellSpec{Height: 1, Width: 1})
	c.SetNeighbors([]Coord{{1, 0}, {-1, 0}, {0, 1}})
	if got := len(c.Triangles()); got != 6 {
		t.Fatalf("one open wall: got %d triangles", got)
	}
}

func TestCellRandomWallPoint(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	c := NewCell(CellSpec{Height: 2, Width: 2})
	c.SetNeighbors([]Coord{{1, 0}, {-1, 0}, {0, 1}})
	for i := 0; i < 50; i++ {
		p, n, ok := c.RandomWallPoint(rng)
		if !ok {
			t.Fatal("open north wall not found")
		}
		if math.Abs(p.Y+1) > 1e-9 {
			t.Fatalf("point off the north wall plane: %+v", p)
		}
		if p.X < -1-1e-9 || p.X > 1+1e-9 || p.Z < -1e-9 || p.Z > 2+1e-9 {
			t.Fatalf("point outside the wall: %+v", p)
		}
		if n.Y <= 0 {
			t.Fatalf("north wall normal should point across the cell: %+v", n)
		}
	}

	c.SetNeighbors([]Coord{{0, -1}})
	if _, _, ok := c.RandomWallPoint(rng); ok {
		t.Fatal("enclosed cell offered a wall point")
	}
}

func TestCellAsBlock(t *testing.T) {
	c := NewCell(CellSpec{Height: 2, Width: 2})
	b := c.AsBlock(2)
	if got := b.Corner(0); got != geom.XYZ(-1, -1, -1) {
		t.Fatalf("corner 0: %+v", got)
	}
	if got := b.Corner(6); got != geom.XYZ(1, 1, 1) {
		t.Fatalf("corner 6: %+v", got)
	}
}

func TestCellTranslate(t *testing.T) {
	c := NewCell(CellSpec{Height: 1, Width: 2})
	c.Translate(geom.XYZ(10, 20, 30))
	if got := c.Center(); got != geom.XYZ(10, 20, 30) {
		t.Fatalf("center: %+v", got)
	}
	if got := c.floor[0]; got != geom.XYZ(9, 19, 30) {
		t.Fatalf("floor corner: %+v", got)
	}
	if got := c.ceiling[0]; got != geom.XYZ(9, 19, 31) {
		t.Fatalf("ceiling corner: %+v", got)
	}
}

func TestCellWKT(t *testing.T) {
	c := NewCell(CellSpec{Height: 1, Width: 2})
	got := c.WKT()
	if !strings.HasPrefix(got, "POLYHEDRALSURFACEZ(((") || !strings.HasSuffix(got, ")))") {
		t.Fatalf("framing: %q", got)
	}
	if n := strings.Count(got, "(("); n != 12 {
		t.Fatalf("ring count: got %d want 12", n)
	}
}

func TestCellCollectVertices(t *testing.T) {
	// Off the origin: the spatial hash maps mirrored corner pairs of an
	// origin-centered cell to the same key.
	c := NewCell(CellSpec{Col: 3, Row: 2, Height: 2, Width: 2})
	set := geom.NewVertexSet()
	c.CollectVertices(set)
	// Twelve exposed triangles reuse the cell's eight corners.
	if set.Len() != 8 {
		t.Fatalf("vertices: got %d want 8", set.Len())
	}
}
