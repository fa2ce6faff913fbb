// Package preview writes 2-D GeoJSON plans of generated levels: room
// markers, corridor cell footprints and drill traces, ready for a web
// map.
package preview

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"minesynth.ai/internal/sim/mine"
)

// Collection projects one level onto the horizontal plane.
func Collection(lv *mine.Level) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	if lv.Grid != nil {
		for i, room := range lv.Rooms {
			center := lv.Grid.At(room.Col, room.Row).Center()
			f := geojson.NewFeature(orb.Point{center.X, center.Y})
			f.Properties["kind"] = "room"
			f.Properties["index"] = i
			f.Properties["col"] = room.Col
			f.Properties["row"] = room.Row
			fc.Append(f)
		}
	}

	for _, cell := range lv.Corridor {
		floor := cell.Floor()
		ring := make(orb.Ring, 0, len(floor)+1)
		for _, p := range floor {
			ring = append(ring, orb.Point{p.X, p.Y})
		}
		ring = append(ring, ring[0])
		f := geojson.NewFeature(orb.Polygon{ring})
		f.Properties["kind"] = "corridor"
		f.Properties["col"] = cell.Col
		f.Properties["row"] = cell.Row
		fc.Append(f)
	}

	for _, d := range lv.Drills {
		f := geojson.NewFeature(orb.LineString{
			{d.Line.P1.X, d.Line.P1.Y},
			{d.Line.P2.X, d.Line.P2.Y},
		})
		f.Properties["kind"] = "drill"
		f.Properties["col"] = d.Col
		f.Properties["row"] = d.Row
		f.Properties["length"] = d.Length
		fc.Append(f)
	}

	return fc
}

// Write renders the level plan to plan.level_<NN>.geojson under dir.
func Write(dir string, lv *mine.Level) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	raw, err := Collection(lv).MarshalJSON()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("plan.level_%02d.geojson", lv.Index))
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
