// Package mine builds synthetic underground mine levels: a corridor
// network over a cell grid, drill holes through exposed corridor walls,
// and voxel-grown ore bodies meshed as convex hulls.
package mine

import (
	"fmt"
	"math/rand"
	"strings"

	"minesynth.ai/internal/geom"
)

// CellType tags what occupies a grid cell. Corridor and Block share a
// tag on purpose: corridors live on the level grid, blocks inside grown
// shapes, and context tells them apart.
type CellType int

const (
	CellEmpty CellType = iota
	CellCorridor
	CellDrill
	CellEndpoint
)

// CellBlock aliases CellCorridor for cells inside geological shapes.
const CellBlock = CellCorridor

// Direction indexes the six neighbor slots of a cell.
type Direction int

const (
	North Direction = iota
	South
	West
	East
	Up
	Down
)

var directionNames = [...]string{"north", "south", "west", "east", "up", "down"}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// wallOrder is the emission order for cell geometry.
var wallOrder = [6]Direction{North, South, West, East, Up, Down}

// horizontal lists the four directions a drill hole can start from.
var horizontal = [4]Direction{North, South, West, East}

// Coord is a planar grid position.
type Coord struct {
	Col, Row int
}

// Coord3 adds the level to a grid position.
type Coord3 struct {
	Col, Row, Level int
}

// CellSpec carries the knobs for building one cell. Zero Padding means
// the default level-depth multiplier of 25; zero Dims means 3.
type CellSpec struct {
	Col, Row int
	Height   float64
	Width    float64
	Level    int
	Padding  float64
	Dims     int
	Type     CellType
}

// Cell is one cuboid of mine working: four floor corners, their ceiling
// counterparts, and up to six neighbor links. A missing neighbor means
// the matching face is exposed rock.
type Cell struct {
	Col, Row, Level int
	Width, Height   float64
	Type            CellType

	dims      int
	center    geom.Point
	floor     [4]geom.Point
	ceiling   [4]geom.Point
	neighbors [6]*Coord3
}

func NewCell(spec CellSpec) *Cell {
	padding := spec.Padding
	if padding == 0 {
		padding = 25
	}
	dims := spec.Dims
	if dims == 0 {
		dims = 3
	}
	c := &Cell{
		Col: spec.Col, Row: spec.Row, Level: spec.Level,
		Width: spec.Width, Height: spec.Height,
		Type: spec.Type,
		dims: dims,
	}
	c.center = c.centerPoint(padding)

	half := c.Width / 2
	cx, cy := c.center.X, c.center.Y
	mk := func(x, y float64) geom.Point {
		if c.dims == 3 {
			return geom.XYZ(x, y, c.center.Z)
		}
		return geom.XY(x, y)
	}
	c.floor = [4]geom.Point{
		mk(cx-half, cy-half),
		mk(cx-half, cy+half),
		mk(cx+half, cy-half),
		mk(cx+half, cy+half),
	}
	for i, p := range c.floor {
		if c.dims == 3 {
			p.Z += c.Height
		}
		c.ceiling[i] = p
	}
	return c
}

// centerPoint derives the rendered center from the grid position: level
// depth pushes the cell down by height*padding per level.
func (c *Cell) centerPoint(padding float64) geom.Point {
	px := float64(c.Col) * c.Width
	py := float64(c.Row) * c.Width
	if c.dims == 3 {
		return geom.XYZ(px, py, -float64(c.Level)*c.Height*padding)
	}
	return geom.XY(px, py)
}

// Center returns the cell's rendered center point.
func (c *Cell) Center() geom.Point { return c.center }

// Floor returns the four floor corners in winding order.
func (c *Cell) Floor() [4]geom.Point { return c.floor }

// SetNeighbors classifies planar neighbors into the four horizontal
// slots. A column difference wins over a row difference; up and down are
// never filled from planar coordinates.
func (c *Cell) SetNeighbors(coords []Coord) {
	for _, n := range coords {
		switch {
		case n.Col > c.Col:
			c.neighbors[East] = &Coord3{n.Col, n.Row, c.Level}
		case n.Col < c.Col:
			c.neighbors[West] = &Coord3{n.Col, n.Row, c.Level}
		case n.Row < c.Row:
			c.neighbors[North] = &Coord3{n.Col, n.Row, c.Level}
		case n.Row > c.Row:
			c.neighbors[South] = &Coord3{n.Col, n.Row, c.Level}
		}
	}
}

// SetNeighbors3D classifies volumetric neighbors. Deeper levels fill the
// down slot, shallower levels up.
func (c *Cell) SetNeighbors3D(coords []Coord3) {
	for _, n := range coords {
		coord := n
		switch {
		case n.Col > c.Col:
			c.neighbors[East] = &coord
		case n.Col < c.Col:
			c.neighbors[West] = &coord
		case n.Row < c.Row:
			c.neighbors[North] = &coord
		case n.Row > c.Row:
			c.neighbors[South] = &coord
		case n.Level > c.Level:
			c.neighbors[Down] = &coord
		case n.Level < c.Level:
			c.neighbors[Up] = &coord
		}
	}
}

// Neighbor returns the linked coordinate behind the face toward dir.
func (c *Cell) Neighbor(dir Direction) (Coord3, bool) {
	if c.neighbors[dir] == nil {
		return Coord3{}, false
	}
	return *c.neighbors[dir], true
}

// Exposed reports whether the face toward dir has no neighbor behind it.
func (c *Cell) Exposed(dir Direction) bool { return c.neighbors[dir] == nil }

// Wall returns the two triangles of the face toward dir, wound the way
// the downstream mesh consumers expect.
func (c *Cell) Wall(dir Direction) (*geom.Triangle, *geom.Triangle) {
	p1, p2, p3, p4 := c.floor[0], c.floor[1], c.floor[2], c.floor[3]
	c1, c2, c3, c4 := c.ceiling[0], c.ceiling[1], c.ceiling[2], c.ceiling[3]
	switch dir {
	case North:
		return geom.NewTriangle(p3, p1, c1), geom.NewTriangle(c1, c3, p3)
	case South:
		return geom.NewTriangle(p2, p4, c4), geom.NewTriangle(c4, c2, p2)
	case West:
		return geom.NewTriangle(p1, p2, c2), geom.NewTriangle(c2, c1, p1)
	case East:
		return geom.NewTriangle(p4, p3, c3), geom.NewTriangle(c3, c4, p4)
	case Down:
		return geom.NewTriangle(p1, p3, p2), geom.NewTriangle(p2, p3, p4)
	case Up:
		return geom.NewTriangle(c1, c3, c2), geom.NewTriangle(c2, c3, c4)
	}
	panic(fmt.Sprintf("mine: unknown wall direction %d", int(dir)))
}

// Triangles lists both triangles of every exposed face, in wall order.
func (c *Cell) Triangles() []*geom.Triangle {
	var out []*geom.Triangle
	for _, dir := range wallOrder {
		if c.neighbors[dir] == nil {
			t1, t2 := c.Wall(dir)
			out = append(out, t1, t2)
		}
	}
	return out
}

// Coords renders the exposed faces as a comma-separated list of WKT
// rings.
func (c *Cell) Coords() string {
	var b strings.Builder
	for i, t := range c.Triangles() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString("((")
		b.WriteString(t.Coords())
		b.WriteString("))")
	}
	return b.String()
}

// WKT renders the cell's exposed faces as one polyhedral surface.
func (c *Cell) WKT() string {
	if c.dims == 3 {
		return "POLYHEDRALSURFACEZ(" + c.Coords() + ")"
	}
	return "POLYHEDRALSURFACE(" + c.Coords() + ")"
}

// RandomWallPoint picks a point on one exposed horizontal wall along
// with that wall's non-normalized surface normal. ok is false when every
// horizontal side has a neighbor; an enclosed cell simply cannot seed a
// drill hole.
func (c *Cell) RandomWallPoint(rng *rand.Rand) (point, normal geom.Point, ok bool) {
	dirs := horizontal
	rng.Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })
	for _, dir := range dirs {
		if c.neighbors[dir] != nil {
			continue
		}
		t1, t2 := c.Wall(dir)
		t := t1
		if rng.Intn(2) == 1 {
			t = t2
		}
		return t.RandomPoint(rng), t.Normal(), true
	}
	return geom.Point{}, geom.Point{}, false
}

// AsBlock renders the cell as a solid cube of the given size centered on
// the cell's center point.
func (c *Cell) AsBlock(size float64) *geom.Hexahedron {
	corner := c.center
	corner.X -= size / 2
	corner.Y -= size / 2
	if corner.HasZ {
		corner.Z -= size / 2
	}
	return geom.NewHexahedron(corner, size, size, size)
}

// Translate moves the cell by origin, applied once when its shape is
// positioned in world space.
func (c *Cell) Translate(origin geom.Point) {
	move := func(p *geom.Point) {
		p.X += origin.X
		p.Y += origin.Y
		if c.dims == 3 {
			p.Z += origin.Z
		}
	}
	move(&c.center)
	for i := range c.floor {
		move(&c.floor[i])
	}
	for i := range c.ceiling {
		move(&c.ceiling[i])
	}
}

// CollectVertices adds the corners of every exposed triangle to set,
// preserving first-seen order.
func (c *Cell) CollectVertices(set *geom.VertexSet) {
	for _, t := range c.Triangles() {
		set.Add(t.P1)
		set.Add(t.P2)
		set.Add(t.P3)
	}
}
