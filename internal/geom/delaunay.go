package geom

import (
	"fmt"
	"math"
)

// Simplex is one tetrahedron of a triangulation, indexing into
// Triangulation.Points. The first three vertices are the cavity facet the
// simplex was built from; mesh emitters use them as a triangular face.
type Simplex struct {
	V [4]int
}

// Triangulation is a Delaunay tetrahedralization of a 3-D point set,
// built with Bowyer-Watson insertion.
type Triangulation struct {
	Points    []Point
	Simplices []Simplex
}

type tetra struct {
	v [4]int

	// Cached circumsphere.
	center vec3
	r2     float64
	flat   bool
}

// Delaunay triangulates at least four non-coplanar 3-D points.
func Delaunay(points []Point) (*Triangulation, error) {
	n := len(points)
	if n < 4 {
		return nil, fmt.Errorf("%w: %d points", ErrDegenerate, n)
	}
	vs, err := jittered(points)
	if err != nil {
		return nil, err
	}

	vs = append(vs, superTetra(vs)...)
	tetras := []tetra{newTetra(vs, [4]int{n, n + 1, n + 2, n + 3})}

	for p := 0; p < n; p++ {
		var bad, kept []tetra
		for _, t := range tetras {
			if t.contains(vs[p]) {
				bad = append(bad, t)
			} else {
				kept = append(kept, t)
			}
		}

		// Facets seen by exactly one bad tetrahedron bound the cavity.
		counts := map[[3]int]int{}
		for _, t := range bad {
			for _, f := range t.facets() {
				counts[sortedFacet(f)]++
			}
		}
		for _, t := range bad {
			for _, f := range t.facets() {
				if counts[sortedFacet(f)] == 1 {
					kept = append(kept, newTetra(vs, [4]int{f[0], f[1], f[2], p}))
				}
			}
		}
		tetras = kept
	}

	tri := &Triangulation{Points: points}
	for _, t := range tetras {
		if t.v[0] >= n || t.v[1] >= n || t.v[2] >= n || t.v[3] >= n {
			continue
		}
		tri.Simplices = append(tri.Simplices, Simplex{V: t.v})
	}
	if len(tri.Simplices) == 0 {
		return nil, fmt.Errorf("%w: no interior simplices", ErrDegenerate)
	}
	return tri, nil
}

// superTetra returns four synthetic vertices whose tetrahedron encloses
// every input point with a wide margin.
func superTetra(vs []vec3) []vec3 {
	lo := vs[0]
	hi := vs[0]
	for _, v := range vs[1:] {
		lo.x = math.Min(lo.x, v.x)
		lo.y = math.Min(lo.y, v.y)
		lo.z = math.Min(lo.z, v.z)
		hi.x = math.Max(hi.x, v.x)
		hi.y = math.Max(hi.y, v.y)
		hi.z = math.Max(hi.z, v.z)
	}
	c := vec3{(lo.x + hi.x) / 2, (lo.y + hi.y) / 2, (lo.z + hi.z) / 2}
	k := 100 * (math.Max(hi.x-lo.x, math.Max(hi.y-lo.y, hi.z-lo.z)) + 1)
	return []vec3{
		{c.x + k, c.y + k, c.z + k},
		{c.x + k, c.y - k, c.z - k},
		{c.x - k, c.y + k, c.z - k},
		{c.x - k, c.y - k, c.z + k},
	}
}

func newTetra(vs []vec3, v [4]int) tetra {
	t := tetra{v: v}
	t.center, t.r2, t.flat = circumsphere(vs[v[0]], vs[v[1]], vs[v[2]], vs[v[3]])
	return t
}

// contains reports whether p falls inside the circumsphere. A flat
// tetrahedron contains everything, so it is always torn out.
func (t tetra) contains(p vec3) bool {
	if t.flat {
		return true
	}
	d := p.sub(t.center)
	return d.dot(d) < t.r2
}

func (t tetra) facets() [4][3]int {
	return [4][3]int{
		{t.v[0], t.v[1], t.v[2]},
		{t.v[0], t.v[1], t.v[3]},
		{t.v[0], t.v[2], t.v[3]},
		{t.v[1], t.v[2], t.v[3]},
	}
}

func sortedFacet(f [3]int) [3]int {
	if f[0] > f[1] {
		f[0], f[1] = f[1], f[0]
	}
	if f[1] > f[2] {
		f[1], f[2] = f[2], f[1]
	}
	if f[0] > f[1] {
		f[0], f[1] = f[1], f[0]
	}
	return f
}

// circumsphere solves 2(b-a)·u = |b|²-|a|² (and the c, d analogues) for
// the center u with Cramer's rule.
func circumsphere(a, b, c, d vec3) (center vec3, r2 float64, flat bool) {
	ab := b.sub(a)
	ac := c.sub(a)
	ad := d.sub(a)

	det := ab.dot(ac.cross(ad)) * 2
	if math.Abs(det) < 1e-12 {
		return vec3{}, 0, true
	}

	abLen := ab.dot(ab)
	acLen := ac.dot(ac)
	adLen := ad.dot(ad)

	ux := abLen*(ac.y*ad.z-ac.z*ad.y) + acLen*(ad.y*ab.z-ad.z*ab.y) + adLen*(ab.y*ac.z-ab.z*ac.y)
	uy := abLen*(ac.z*ad.x-ac.x*ad.z) + acLen*(ad.z*ab.x-ad.x*ab.z) + adLen*(ab.z*ac.x-ab.x*ac.z)
	uz := abLen*(ac.x*ad.y-ac.y*ad.x) + acLen*(ad.x*ab.y-ad.y*ab.x) + adLen*(ab.x*ac.y-ab.y*ac.x)

	off := vec3{ux / det, uy / det, uz / det}
	center = vec3{a.x + off.x, a.y + off.y, a.z + off.z}
	return center, off.dot(off), false
}
