// Package geom is the small vector kernel the generator is built on:
// 2-D/3-D points, segments, triangles and cuboids, plus the convex hull
// and Delaunay triangulation used to mesh grown shapes.
//
// WKT output follows the PostGIS dialect with a Z suffix on the tag
// (POINTZ, LINESTRINGZ, POLYHEDRALSURFACEZ) for 3-D geometries.
package geom

import "strconv"

// Geometry is the closed set of shapes the exporters know how to write.
// Coords returns the textual coordinate body, WKT the tagged form.
type Geometry interface {
	Coords() string
	WKT() string
}

var (
	_ Geometry = Point{}
	_ Geometry = Line{}
	_ Geometry = (*Triangle)(nil)
	_ Geometry = (*Hexahedron)(nil)
)

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
