package dump

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"minesynth.ai/internal/sim/mine"
)

// Writer persists the per-table load scripts of each level under one
// output directory.
type Writer struct {
	dir      string
	compress bool
}

// Export records one written dump file.
type Export struct {
	Table string
	Path  string
	Rows  int
	Bytes int64
}

func NewWriter(dir string, compress bool) *Writer {
	return &Writer{dir: dir, compress: compress}
}

// WriteLevel writes the six table files for lv, named
// <table>.level_<NN>.dump, with a .zst suffix when compression is on.
func (w *Writer) WriteLevel(schema string, lv *mine.Level) ([]Export, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, err
	}
	statements := Statements(schema, lv)
	exports := make([]Export, 0, len(statements))
	for _, st := range statements {
		name := fmt.Sprintf("%s.level_%02d.dump", st.Table, lv.Index)
		if w.compress {
			name += ".zst"
		}
		path := filepath.Join(w.dir, name)
		if err := w.writeFile(path, st.File()); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		fi, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		exports = append(exports, Export{Table: st.Table, Path: path, Rows: st.Rows, Bytes: fi.Size()})
	}
	return exports, nil
}

func (w *Writer) writeFile(path string, body []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if !w.compress {
		_, werr := f.Write(body)
		cerr := f.Close()
		if werr != nil {
			return werr
		}
		return cerr
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	_, werr := enc.Write(body)
	eerr := enc.Close()
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	if eerr != nil {
		return eerr
	}
	return cerr
}
