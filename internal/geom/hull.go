package geom

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrDegenerate is returned when a point set has no 3-D volume.
var ErrDegenerate = errors.New("geom: degenerate point set")

// HullFace is one triangular facet, indexing into Hull.Points.
type HullFace struct {
	A, B, C int
}

// Hull is the convex hull of a 3-D point set. Points keeps the full
// input; Vertices lists the indexes of the points that ended up on the
// hull, in ascending order.
type Hull struct {
	Points   []Point
	Vertices []int
	Faces    []HullFace
}

// VertexPoints returns the points on the hull, in Vertices order.
func (h *Hull) VertexPoints() []Point {
	out := make([]Point, len(h.Vertices))
	for i, v := range h.Vertices {
		out[i] = h.Points[v]
	}
	return out
}

const hullEps = 1e-9

// jitter derives a deterministic sub-micro offset from an index. Grown
// shapes produce lattice points that are exactly coplanar and collinear
// everywhere; the offset breaks those ties so the incremental hull never
// sees a degenerate face. The hash matches the splitmix64 finalizer.
func jitter(i, axis int) float64 {
	x := uint64(i)*0x9e3779b97f4a7c15 + uint64(axis)*0xbf58476d1ce4e5b9
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return (float64(x>>11)/float64(1<<53) - 0.5) * 1e-7
}

type vec3 struct{ x, y, z float64 }

func (a vec3) sub(b vec3) vec3   { return vec3{a.x - b.x, a.y - b.y, a.z - b.z} }
func (a vec3) cross(b vec3) vec3 { return vec3{a.y*b.z - a.z*b.y, a.z*b.x - a.x*b.z, a.x*b.y - a.y*b.x} }
func (a vec3) dot(b vec3) float64 {
	return a.x*b.x + a.y*b.y + a.z*b.z
}
func (a vec3) norm() float64 { return math.Sqrt(a.dot(a)) }

func jittered(points []Point) ([]vec3, error) {
	vs := make([]vec3, len(points))
	for i, p := range points {
		if !p.HasZ {
			return nil, fmt.Errorf("geom: hull point %d is 2-D", i)
		}
		vs[i] = vec3{p.X + jitter(i, 0), p.Y + jitter(i, 1), p.Z + jitter(i, 2)}
	}
	return vs, nil
}

// ConvexHull computes the convex hull of at least four non-coplanar 3-D
// points. Input points that fall inside the hull, or on the interior of a
// facet, do not appear in Vertices.
func ConvexHull(points []Point) (*Hull, error) {
	if len(points) < 4 {
		return nil, fmt.Errorf("%w: %d points", ErrDegenerate, len(points))
	}
	vs, err := jittered(points)
	if err != nil {
		return nil, err
	}

	i0, i1, i2, i3, err := seedTetra(vs)
	if err != nil {
		return nil, err
	}

	// Interior reference point: the hull only grows, so the seed
	// centroid stays inside it.
	interior := vec3{
		(vs[i0].x + vs[i1].x + vs[i2].x + vs[i3].x) / 4,
		(vs[i0].y + vs[i1].y + vs[i2].y + vs[i3].y) / 4,
		(vs[i0].z + vs[i1].z + vs[i2].z + vs[i3].z) / 4,
	}

	faces := []HullFace{
		orientFace(vs, interior, HullFace{i0, i1, i2}),
		orientFace(vs, interior, HullFace{i0, i1, i3}),
		orientFace(vs, interior, HullFace{i0, i2, i3}),
		orientFace(vs, interior, HullFace{i1, i2, i3}),
	}

	seeded := map[int]bool{i0: true, i1: true, i2: true, i3: true}
	for i := range vs {
		if seeded[i] {
			continue
		}
		faces = addToHull(vs, interior, faces, i)
	}

	h := &Hull{Points: points, Faces: faces}
	h.Vertices = collectVertices(faces)
	return h, nil
}

// seedTetra picks four points spanning a volume: the two most distant on
// x as a start, then the farthest from their line, then the farthest from
// their plane.
func seedTetra(vs []vec3) (int, int, int, int, error) {
	i0, i1 := 0, 0
	best := -1.0
	for i, v := range vs {
		d := v.sub(vs[0]).norm()
		if d > best {
			best, i1 = d, i
		}
	}
	if best <= hullEps {
		return 0, 0, 0, 0, fmt.Errorf("%w: all points coincide", ErrDegenerate)
	}

	i2, best := 0, -1.0
	dir := vs[i1].sub(vs[i0])
	for i, v := range vs {
		d := dir.cross(v.sub(vs[i0])).norm()
		if d > best {
			best, i2 = d, i
		}
	}
	if best <= hullEps {
		return 0, 0, 0, 0, fmt.Errorf("%w: all points collinear", ErrDegenerate)
	}

	normal := dir.cross(vs[i2].sub(vs[i0]))
	i3, best := 0, -1.0
	for i, v := range vs {
		d := math.Abs(normal.dot(v.sub(vs[i0])))
		if d > best {
			best, i3 = d, i
		}
	}
	if best <= hullEps {
		return 0, 0, 0, 0, fmt.Errorf("%w: all points coplanar", ErrDegenerate)
	}
	return i0, i1, i2, i3, nil
}

func faceNormal(vs []vec3, f HullFace) vec3 {
	return vs[f.B].sub(vs[f.A]).cross(vs[f.C].sub(vs[f.A]))
}

// orientFace flips the face if needed so its normal points away from the
// interior reference point.
func orientFace(vs []vec3, interior vec3, f HullFace) HullFace {
	if faceNormal(vs, f).dot(interior.sub(vs[f.A])) > 0 {
		f.B, f.C = f.C, f.B
	}
	return f
}

func faceSees(vs []vec3, f HullFace, p int) bool {
	n := faceNormal(vs, f)
	return n.dot(vs[p].sub(vs[f.A])) > hullEps*n.norm()
}

type hullEdge struct{ a, b int }

// addToHull folds point p into the hull: faces that see p are torn out
// and replaced by a fan from the horizon edges to p. A point inside the
// hull leaves it unchanged.
func addToHull(vs []vec3, interior vec3, faces []HullFace, p int) []HullFace {
	var kept, torn []HullFace
	counts := map[hullEdge]int{}
	for _, f := range faces {
		if !faceSees(vs, f, p) {
			kept = append(kept, f)
			continue
		}
		torn = append(torn, f)
		for _, e := range faceEdges(f) {
			counts[e.undirected()]++
		}
	}
	if len(torn) == 0 {
		return faces
	}

	// Edges shared by two torn faces are interior to the hole; the ones
	// counted once form the horizon ring, each becoming a new facet.
	for _, f := range torn {
		for _, e := range faceEdges(f) {
			if counts[e.undirected()] == 1 {
				kept = append(kept, orientFace(vs, interior, HullFace{e.a, e.b, p}))
			}
		}
	}
	return kept
}

func faceEdges(f HullFace) [3]hullEdge {
	return [3]hullEdge{{f.A, f.B}, {f.B, f.C}, {f.C, f.A}}
}

func (e hullEdge) undirected() hullEdge {
	if e.a > e.b {
		e.a, e.b = e.b, e.a
	}
	return e
}

func collectVertices(faces []HullFace) []int {
	seen := map[int]bool{}
	for _, f := range faces {
		seen[f.A] = true
		seen[f.B] = true
		seen[f.C] = true
	}
	out := make([]int, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}
