package geom

// Spatial hash primes, one per axis.
const (
	hashPrimeX = 73856093
	hashPrimeY = 19349663
	hashPrimeZ = 83492791
)

// Point is a 2-D or 3-D coordinate. The zero value is the 2-D origin;
// use XY and XYZ to construct. Binary operations require both operands
// to carry the same dimensionality and panic otherwise: silently mixing
// 2-D and 3-D points corrupts geometry far from the call site.
type Point struct {
	X, Y, Z float64
	HasZ    bool
}

func XY(x, y float64) Point {
	return Point{X: x, Y: y}
}

func XYZ(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z, HasZ: true}
}

func (p Point) assertDims(q Point) {
	if p.HasZ != q.HasZ {
		panic("geom: mixed 2-D/3-D point operands")
	}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	p.assertDims(q)
	p.X += q.X
	p.Y += q.Y
	if p.HasZ {
		p.Z += q.Z
	}
	return p
}

// Sub returns the componentwise difference p-q.
func (p Point) Sub(q Point) Point {
	p.assertDims(q)
	p.X -= q.X
	p.Y -= q.Y
	if p.HasZ {
		p.Z -= q.Z
	}
	return p
}

// Mul scales every component by s.
func (p Point) Mul(s float64) Point {
	p.X *= s
	p.Y *= s
	if p.HasZ {
		p.Z *= s
	}
	return p
}

// Div divides every component by s.
func (p Point) Div(s float64) Point {
	p.X /= s
	p.Y /= s
	if p.HasZ {
		p.Z /= s
	}
	return p
}

// Cross returns the cross product p x q. Both operands must be 3-D.
func (p Point) Cross(q Point) Point {
	if !p.HasZ || !q.HasZ {
		panic("geom: cross product needs 3-D operands")
	}
	return XYZ(
		p.Y*q.Z-p.Z*q.Y,
		p.Z*q.X-p.X*q.Z,
		p.X*q.Y-p.Y*q.X,
	)
}

// UniqueID is a spatial hash of the truncated coordinates. Points whose
// components truncate to the same integers collide; vertex deduplication
// relies on exactly that.
func (p Point) UniqueID() int64 {
	id := int64(hashPrimeX*p.X) ^ int64(hashPrimeY*p.Y)
	if p.HasZ {
		id ^= int64(hashPrimeZ * p.Z)
	}
	return id
}

func (p Point) Coords() string {
	if p.HasZ {
		return ftoa(p.X) + " " + ftoa(p.Y) + " " + ftoa(p.Z)
	}
	return ftoa(p.X) + " " + ftoa(p.Y)
}

func (p Point) WKT() string {
	if p.HasZ {
		return "POINTZ (" + p.Coords() + ")"
	}
	return "POINT (" + p.Coords() + ")"
}
