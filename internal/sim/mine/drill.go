package mine

import (
	"math"
	"math/rand"

	"minesynth.ai/internal/geom"
)

// maxTilt bounds each tilt axis to fifteen degrees either way.
const maxTilt = 15 * math.Pi / 180

// DrillHole is one bore through a corridor wall: a tilted line of
// sampled length starting at a point on an exposed wall.
type DrillHole struct {
	// Col and Row name the corridor cell the hole starts in; the map
	// renderer counts holes per cell through them.
	Col, Row int

	Line   geom.Line
	Normal geom.Point
	Length float64

	segmentSize float64
	dims        int
}

// NewDrillHole anchors a hole at a wall point with that wall's surface
// normal. The hole has no geometry until Create runs.
func NewDrillHole(point, normal geom.Point, col, row int, segmentSize float64, dims int) *DrillHole {
	return &DrillHole{
		Col: col, Row: row,
		Line:        geom.Line{P1: point, P2: point},
		Normal:      normal,
		Length:      -1,
		segmentSize: segmentSize,
		dims:        dims,
	}
}

// Create points the hole along its wall normal, tilts every axis a few
// degrees so holes are not boring straight, and cuts it to length.
func (d *DrillHole) Create(rng *rand.Rand, length float64) {
	d.Line.P2.X += d.Normal.X
	d.Line.P2.Y += d.Normal.Y
	if d.dims == 3 {
		d.Line.P2.Z += d.Normal.Z
	}

	var xAngle, yAngle float64
	if d.dims == 3 {
		xAngle = tilt(rng)
		yAngle = tilt(rng)
	}
	zAngle := tilt(rng)
	d.Line.Rotate(xAngle, yAngle, zAngle)

	d.Length = length
	d.Line.SetLength(length)
}

func tilt(rng *rand.Rand) float64 {
	return -maxTilt + rng.Float64()*2*maxTilt
}

// Segments cuts the hole into intervals of the configured size, each a
// hole of its own sharing the normal and origin cell; the last one
// keeps whatever length remains. A hole of non-positive length has no
// segments.
func (d *DrillHole) Segments() []*DrillHole {
	if d.segmentSize <= 0 && d.Length > 0 {
		panic("mine: drill segment size must be positive")
	}
	var out []*DrillHole
	p1 := d.Line.P1
	for depth := 0.0; depth < d.Length; depth += d.segmentSize {
		length := d.segmentSize
		if depth+d.segmentSize > d.Length {
			length = d.Length - depth
		}
		seg := NewDrillHole(p1, d.Normal, d.Col, d.Row, 0, d.dims)
		seg.Length = length
		seg.Line.P2 = d.Line.P2
		seg.Line.SetLength(length)
		out = append(out, seg)
		p1 = seg.Line.P2
	}
	return out
}

// WKT renders the hole's center line.
func (d *DrillHole) WKT() string { return d.Line.WKT() }
