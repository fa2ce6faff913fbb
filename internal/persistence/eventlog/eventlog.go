// Package eventlog appends run progress events to a zstd-compressed
// JSONL file, one line per event. It exposes the same publish surface
// as the websocket feed so the CLI can fan events to both.
package eventlog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"minesynth.ai/internal/observerproto"
)

// Logger writes one JSON line per event. Methods on a nil Logger are
// no-ops, so an unconfigured event log costs nothing. Write failures
// are swallowed; the log is advisory and never fails a run.
type Logger struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// New opens (or appends to) the event log at path, creating parent
// directories as needed.
func New(path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Logger{f: f, enc: enc, w: bufio.NewWriterSize(enc, 128*1024)}, nil
}

func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.w != nil {
		_ = l.w.Flush()
	}
	var err error
	if l.enc != nil {
		err = l.enc.Close()
		l.enc = nil
	}
	if l.f != nil {
		_ = l.f.Close()
		l.f = nil
	}
	l.w = nil
	return err
}

func (l *Logger) PublishRunStarted(ev observerproto.RunStartedMsg) {
	if l == nil {
		return
	}
	ev.Type = observerproto.TypeRunStarted
	ev.ProtocolVersion = observerproto.Version
	l.append(ev)
}

func (l *Logger) PublishLevelStarted(ev observerproto.LevelStartedMsg) {
	if l == nil {
		return
	}
	ev.Type = observerproto.TypeLevelStarted
	ev.ProtocolVersion = observerproto.Version
	l.append(ev)
}

func (l *Logger) PublishStage(ev observerproto.StageMsg) {
	if l == nil {
		return
	}
	ev.Type = observerproto.TypeStage
	ev.ProtocolVersion = observerproto.Version
	l.append(ev)
}

func (l *Logger) PublishExport(ev observerproto.ExportMsg) {
	if l == nil {
		return
	}
	ev.Type = observerproto.TypeExport
	ev.ProtocolVersion = observerproto.Version
	l.append(ev)
}

func (l *Logger) PublishLevelCompleted(ev observerproto.LevelCompletedMsg) {
	if l == nil {
		return
	}
	ev.Type = observerproto.TypeLevelCompleted
	ev.ProtocolVersion = observerproto.Version
	l.append(ev)
}

func (l *Logger) PublishRunCompleted(ev observerproto.RunCompletedMsg) {
	if l == nil {
		return
	}
	ev.Type = observerproto.TypeRunCompleted
	ev.ProtocolVersion = observerproto.Version
	l.append(ev)
}

func (l *Logger) append(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.w == nil {
		return
	}
	_, _ = l.w.Write(b)
	_ = l.w.WriteByte('\n')
	_ = l.w.Flush()
}
