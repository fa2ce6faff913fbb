// Package dump writes PostGIS load scripts for generated mine levels,
// one file per table. The same statements back the direct database
// loader, so file and wire output never drift apart.
package dump

import (
	"bytes"
	"fmt"
	"strings"

	"minesynth.ai/internal/sim/mine"
)

// Statement is the SQL batch for one level table: the DDL statements
// and a single multi-row INSERT. Insert is empty when the level has no
// rows for the table; the DDL is still emitted so downstream schemas
// stay complete.
type Statement struct {
	Table   string
	Creates []string
	Insert  string
	Rows    int
}

// File renders the statement exactly as it appears in a dump file.
func (s Statement) File() []byte {
	var b bytes.Buffer
	for _, c := range s.Creates {
		b.WriteString(c)
		b.WriteByte('\n')
	}
	if s.Insert != "" {
		b.WriteString(s.Insert)
		b.WriteByte('\n')
	}
	return b.Bytes()
}

// Statements builds the per-table SQL for one level, in the fixed
// export order.
func Statements(schema string, lv *mine.Level) []Statement {
	return []Statement{
		mineworking(schema, lv),
		drillholes(schema, lv),
		multilineDrillholes(schema, lv),
		segments(schema, lv),
		geologicalShapes(schema, lv),
		blockmodel(schema, lv),
	}
}

// Tables lists the exported table names in dump order.
func Tables() []string {
	return []string{
		"mineworking",
		"drillholes",
		"multiline_drillholes",
		"segments",
		"geological_shapes",
		"blockmodel",
	}
}

func ddl(schema, table string) []string {
	return []string{
		fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s;", schema),
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s.%s(id bigserial, geom geometry(GeometryZ));", schema, table),
	}
}

func insertHead(schema, table string) string {
	return fmt.Sprintf("INSERT INTO %s.%s(geom) VALUES\n", schema, table)
}

// mineworking renders the whole level map as one polyhedral surface:
// every corridor cell's exposed faces in carving order, then the
// elevator shaft when the level has one.
func mineworking(schema string, lv *mine.Level) Statement {
	st := Statement{Table: "mineworking", Creates: ddl(schema, "mineworking")}
	cells := lv.Corridor
	if lv.Elevator != nil {
		cells = append(append([]*mine.Cell(nil), cells...), lv.Elevator)
	}
	if len(cells) == 0 {
		return st
	}
	var b strings.Builder
	b.WriteString(insertHead(schema, "mineworking"))
	b.WriteString("('POLYHEDRALSURFACEZ(\n")
	for i, cell := range cells {
		b.WriteString(cell.Coords())
		if i < len(cells)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString(")');")
	st.Insert = b.String()
	st.Rows = 1
	return st
}

func drillholes(schema string, lv *mine.Level) Statement {
	st := Statement{Table: "drillholes", Creates: ddl(schema, "drillholes")}
	if len(lv.Drills) == 0 {
		return st
	}
	var b strings.Builder
	b.WriteString(insertHead(schema, "drillholes"))
	for i, d := range lv.Drills {
		b.WriteString("('")
		b.WriteString(d.WKT())
		b.WriteString("')")
		if i < len(lv.Drills)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString(";")
	st.Insert = b.String()
	st.Rows = len(lv.Drills)
	return st
}

// multilineDrillholes renders every hole into a single geometry, handy
// when all holes need to be drawn together.
func multilineDrillholes(schema string, lv *mine.Level) Statement {
	st := Statement{Table: "multiline_drillholes", Creates: ddl(schema, "multiline_drillholes")}
	if len(lv.Drills) == 0 {
		return st
	}
	var b strings.Builder
	b.WriteString(insertHead(schema, "multiline_drillholes"))
	b.WriteString("('MULTILINESTRINGZ(\n")
	for i, d := range lv.Drills {
		b.WriteString(strings.TrimPrefix(d.WKT(), "LINESTRINGZ"))
		if i < len(lv.Drills)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString(")');")
	st.Insert = b.String()
	st.Rows = 1
	return st
}

func segments(schema string, lv *mine.Level) Statement {
	st := Statement{Table: "segments", Creates: ddl(schema, "segments")}
	var rows []string
	for _, d := range lv.Drills {
		for _, seg := range d.Segments() {
			rows = append(rows, seg.WKT())
		}
	}
	if len(rows) == 0 {
		return st
	}
	var b strings.Builder
	b.WriteString(insertHead(schema, "segments"))
	for i, wkt := range rows {
		b.WriteString("('")
		b.WriteString(wkt)
		b.WriteString("')")
		if i < len(rows)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString(";")
	st.Insert = b.String()
	st.Rows = len(rows)
	return st
}

func geologicalShapes(schema string, lv *mine.Level) Statement {
	st := Statement{Table: "geological_shapes", Creates: ddl(schema, "geological_shapes")}
	if len(lv.Shapes) == 0 {
		return st
	}
	var b strings.Builder
	b.WriteString(insertHead(schema, "geological_shapes"))
	for i, s := range lv.Shapes {
		b.WriteString("('")
		b.WriteString(s.WKT())
		b.WriteString("')")
		if i < len(lv.Shapes)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString(";")
	st.Insert = b.String()
	st.Rows = len(lv.Shapes)
	return st
}

// blockmodel renders one cuboid row per occupied voxel, grouped by
// shape.
func blockmodel(schema string, lv *mine.Level) Statement {
	st := Statement{Table: "blockmodel", Creates: ddl(schema, "blockmodel")}
	total := 0
	for _, s := range lv.Shapes {
		total += len(s.Blocks)
	}
	if total == 0 {
		return st
	}
	var b strings.Builder
	b.WriteString(insertHead(schema, "blockmodel"))
	for i, s := range lv.Shapes {
		wkts := s.BlockWKTs()
		for j, w := range wkts {
			b.WriteString("('")
			b.WriteString(w)
			b.WriteString("')")
			if j < len(wkts)-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}
		if i < len(lv.Shapes)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString(";")
	st.Insert = b.String()
	st.Rows = total
	return st
}
