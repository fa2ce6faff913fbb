package geom

import "math"

// Line is an ordered segment from P1 to P2. Mutating operations
// (SetLength, Rotate) move P2 and leave P1 fixed.
type Line struct {
	P1, P2 Point
}

// Length is the euclidean distance between the endpoints. A missing z
// axis contributes zero.
func (l Line) Length() float64 {
	dx := l.P2.X - l.P1.X
	dy := l.P2.Y - l.P1.Y
	dz := 0.0
	if l.P1.HasZ && l.P2.HasZ {
		dz = l.P2.Z - l.P1.Z
	}
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// SetLength rescales the segment to the given length, keeping its
// direction. A degenerate segment (P1 == P2) divides by a substituted
// length of 1 instead of 0, so the result stays defined: P2 does not move.
func (l *Line) SetLength(length float64) {
	cur := l.Length()
	if cur == 0.0 {
		cur = 1.0
	}
	d := l.P2.Sub(l.P1)
	l.P2 = l.P1.Add(d.Mul(length / cur))
}

func (l Line) offset() (x, y, z float64) {
	x = l.P2.X - l.P1.X
	y = l.P2.Y - l.P1.Y
	if l.P1.HasZ && l.P2.HasZ {
		z = l.P2.Z - l.P1.Z
	}
	return x, y, z
}

// Rotate turns P2 about P1 around the x, then y, then z axis. The steps
// are applied in sequence, each reading the offset left by the previous
// one; they are not composed into a single rotation. A zero angle skips
// its step. Rotations about x or y require a 3-D segment.
func (l *Line) Rotate(xAngle, yAngle, zAngle float64) {
	if (xAngle != 0 || yAngle != 0) && !l.P1.HasZ {
		panic("geom: rotation about the x or y axis needs a 3-D line")
	}
	if xAngle != 0 {
		_, y, z := l.offset()
		sin, cos := math.Sincos(xAngle)
		l.P2.Y = l.P1.Y + (y*cos - z*sin)
		l.P2.Z = l.P1.Z + (y*sin + z*cos)
	}
	if yAngle != 0 {
		x, _, z := l.offset()
		sin, cos := math.Sincos(yAngle)
		l.P2.X = l.P1.X + (x*cos + z*sin)
		l.P2.Z = l.P1.Z + (z*cos - x*sin)
	}
	if zAngle != 0 {
		x, y, _ := l.offset()
		sin, cos := math.Sincos(zAngle)
		l.P2.X = l.P1.X + (x*cos - y*sin)
		l.P2.Y = l.P1.Y + (x*sin + y*cos)
	}
}

func (l Line) Coords() string {
	return l.P1.Coords() + ", " + l.P2.Coords()
}

func (l Line) WKT() string {
	if l.P1.HasZ {
		return "LINESTRINGZ (" + l.Coords() + ")"
	}
	return "LINESTRING (" + l.Coords() + ")"
}
