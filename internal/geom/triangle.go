package geom

import (
	"math"
	"math/rand"
)

// Triangle is an ordered triple of corners. The surface normal is
// computed on first use and cached; it is the raw cross product
// (P2-P1) x (P3-P1), not normalized.
type Triangle struct {
	P1, P2, P3 Point

	normal   Point
	hasCache bool
}

func NewTriangle(p1, p2, p3 Point) *Triangle {
	return &Triangle{P1: p1, P2: p2, P3: p3}
}

func (t *Triangle) Normal() Point {
	if !t.hasCache {
		t.normal = t.P2.Sub(t.P1).Cross(t.P3.Sub(t.P1))
		t.hasCache = true
	}
	return t.normal
}

// RandomPoint draws a point uniformly distributed over the triangle's
// area: with a,b ~ U(0,1) the point is (1-sqrt(a))*P1 +
// sqrt(a)*(1-b)*P2 + sqrt(a)*b*P3.
func (t *Triangle) RandomPoint(rng *rand.Rand) Point {
	a := rng.Float64()
	b := rng.Float64()
	sa := math.Sqrt(a)
	return t.P1.Mul(1 - sa).
		Add(t.P2.Mul(sa * (1 - b))).
		Add(t.P3.Mul(sa * b))
}

// Subdivide splits the triangle into six smaller ones that share a
// randomly chosen interior pivot. When preserveShape is false the pivot
// is displaced along the normal by a distance drawn from U(0, 0.25),
// giving the surface some relief.
func (t *Triangle) Subdivide(preserveShape bool, rng *rand.Rand) []*Triangle {
	pivot := t.RandomPoint(rng)
	if !preserveShape {
		l := Line{P1: pivot, P2: pivot.Add(t.Normal())}
		l.SetLength(rng.Float64() * 0.25)
		pivot = l.P2
	}

	m12 := t.P1.Add(t.P2).Div(2)
	m23 := t.P2.Add(t.P3).Div(2)
	m13 := t.P1.Add(t.P3).Div(2)

	return []*Triangle{
		NewTriangle(t.P1, m12, pivot),
		NewTriangle(m12, t.P2, pivot),
		NewTriangle(t.P2, m23, pivot),
		NewTriangle(m23, t.P3, pivot),
		NewTriangle(t.P3, m13, pivot),
		NewTriangle(m13, t.P1, pivot),
	}
}

// Coords lists the corners with the first one repeated, closing the ring.
func (t *Triangle) Coords() string {
	return t.P1.Coords() + ", " + t.P2.Coords() + ", " +
		t.P3.Coords() + ", " + t.P1.Coords()
}

func (t *Triangle) WKT() string {
	return "POLYGONZ ((" + t.Coords() + "))"
}
