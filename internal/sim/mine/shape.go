package mine

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"minesynth.ai/internal/geom"
)

// shapeCubeSize is the edge length of one grown voxel; all three axes
// stride by it during growth.
const shapeCubeSize = 5

// Shape is one voxel-grown ore body: a cloud of cube blocks around a
// seed point, meshed as the tetrahedralization of its convex hull.
type Shape struct {
	XSize, YSize, ZSize int

	// Seed anchors the body in world space, raised half the z extent so
	// the grown volume brackets the drill end it was planted on.
	Seed geom.Point

	// Blocks lists every grown voxel in growth order, shape-local.
	Blocks []Coord3

	hull *geom.Hull
	tri  *geom.Triangulation
}

// occupancy is a dense voxel bitmap for one growing shape.
type occupancy struct {
	x, y, z int
	bits    []bool
}

func newOccupancy(x, y, z int) *occupancy {
	return &occupancy{x: x, y: y, z: z, bits: make([]bool, x*y*z)}
}

func (o *occupancy) in(c Coord3) bool {
	return c.Col >= 0 && c.Col < o.x && c.Row >= 0 && c.Row < o.y && c.Level >= 0 && c.Level < o.z
}

func (o *occupancy) idx(c Coord3) int { return (c.Col*o.y+c.Row)*o.z + c.Level }
func (o *occupancy) set(c Coord3)     { o.bits[o.idx(c)] = true }
func (o *occupancy) at(c Coord3) bool { return o.bits[o.idx(c)] }

// GrowShape grows a body of at most maxBlocks cube voxels inside the
// given extents, anchored at seed. Growth walks x in cube-size strides,
// widening a random band around a fixed y/z pivot per slab, and stops
// the moment the block budget runs out.
func GrowShape(xsize, ysize, zsize, maxBlocks int, seed geom.Point, rng *rand.Rand) (*Shape, error) {
	if xsize < 1 || ysize < 1 || zsize < 1 {
		return nil, fmt.Errorf("shape extents %dx%dx%d must be positive", xsize, ysize, zsize)
	}
	if maxBlocks < 1 {
		return nil, fmt.Errorf("shape block budget %d must be positive", maxBlocks)
	}
	if !seed.HasZ {
		return nil, errors.New("shape seed must be a 3-D point")
	}
	seed.Z += float64(zsize) / 2 * shapeCubeSize

	s := &Shape{XSize: xsize, YSize: ysize, ZSize: zsize, Seed: seed}
	occ := newOccupancy(xsize, ysize, zsize)

	pivotY := rng.Intn(ysize)
	pivotZ := rng.Intn(zsize)
	budget := maxBlocks
grow:
	for i := 0; i < xsize; i += shapeCubeSize {
		yMin := rng.Intn(pivotY + 1)
		yMax := pivotY + 1 + rng.Intn(ysize-pivotY)
		for j := yMin; j < yMax; j += shapeCubeSize {
			zMin := rng.Intn(pivotZ + 1)
			zMax := pivotZ + 1 + rng.Intn(zsize-pivotZ)
			for k := zMin; k < zMax; k += shapeCubeSize {
				b := Coord3{Col: i, Row: j, Level: k}
				occ.set(b)
				s.Blocks = append(s.Blocks, b)
				budget--
				if budget <= 0 {
					break grow
				}
			}
		}
	}

	// Voxels touching at least one other voxel contribute their exposed
	// corners to the hull; isolated ones only appear in the block model.
	set := geom.NewVertexSet()
	for _, b := range s.Blocks {
		neighbors := blockNeighbors(occ, b)
		if len(neighbors) == 0 {
			continue
		}
		cell := s.blockCell(b)
		cell.SetNeighbors3D(neighbors)
		cell.CollectVertices(set)
	}

	hull, err := geom.ConvexHull(set.Points())
	if err != nil {
		return nil, fmt.Errorf("hull: %w", err)
	}
	tri, err := geom.Delaunay(hull.VertexPoints())
	if err != nil {
		return nil, fmt.Errorf("surface mesh: %w", err)
	}
	s.hull, s.tri = hull, tri
	return s, nil
}

// blockNeighbors lists the occupied voxels one growth stride from b
// along each axis.
func blockNeighbors(occ *occupancy, b Coord3) []Coord3 {
	probes := [6]Coord3{
		{b.Col, b.Row - shapeCubeSize, b.Level},
		{b.Col - shapeCubeSize, b.Row, b.Level},
		{b.Col + shapeCubeSize, b.Row, b.Level},
		{b.Col, b.Row + shapeCubeSize, b.Level},
		{b.Col, b.Row, b.Level - shapeCubeSize},
		{b.Col, b.Row, b.Level + shapeCubeSize},
	}
	var out []Coord3
	for _, p := range probes {
		if occ.in(p) && occ.at(p) {
			out = append(out, p)
		}
	}
	return out
}

// blockCell builds the world-space cell for one grown voxel.
func (s *Shape) blockCell(b Coord3) *Cell {
	cell := NewCell(CellSpec{
		Col: b.Col, Row: b.Row, Level: b.Level,
		Height:  shapeCubeSize,
		Width:   shapeCubeSize,
		Padding: 1,
		Type:    CellBlock,
	})
	cell.Translate(s.Seed)
	return cell
}

// Hull returns the convex hull fitted over the shape's exposed corners.
func (s *Shape) Hull() *geom.Hull { return s.hull }

// Triangulation returns the tetrahedral mesh over the hull vertices.
func (s *Shape) Triangulation() *geom.Triangulation { return s.tri }

// WKT renders the shape's surface mesh, one ring per tetrahedron face.
func (s *Shape) WKT() string {
	var b strings.Builder
	b.WriteString("POLYHEDRALSURFACEZ(\n")
	for i, sx := range s.tri.Simplices {
		if i > 0 {
			b.WriteString(",\n")
		}
		p0 := s.tri.Points[sx.V[0]].Coords()
		p1 := s.tri.Points[sx.V[1]].Coords()
		p2 := s.tri.Points[sx.V[2]].Coords()
		b.WriteString("((")
		b.WriteString(p0)
		b.WriteByte(',')
		b.WriteString(p1)
		b.WriteByte(',')
		b.WriteString(p2)
		b.WriteByte(',')
		b.WriteString(p0)
		b.WriteString("))")
	}
	b.WriteString("\n)")
	return b.String()
}

// BlockWKTs renders every grown voxel as a solid cube for the block
// model, isolated voxels included.
func (s *Shape) BlockWKTs() []string {
	out := make([]string, len(s.Blocks))
	for i, b := range s.Blocks {
		out[i] = s.blockCell(b).AsBlock(shapeCubeSize).WKT()
	}
	return out
}
