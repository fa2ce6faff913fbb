// Package observer serves a read-only progress feed for generation
// runs: a loopback-only websocket with a SUBSCRIBE handshake plus a
// bootstrap summary endpoint. Publishing never blocks the generator;
// slow observers lose events.
package observer

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"minesynth.ai/internal/observerproto"
	"minesynth.ai/internal/persistence/dump"
)

type Server struct {
	log *log.Logger

	upgrader websocket.Upgrader
	nextID   atomic.Uint64

	mu         sync.Mutex
	subs       map[uint64]chan []byte
	run        *observerproto.RunStartedMsg
	levelsDone int
}

func NewServer(logger *log.Logger) *Server {
	return &Server{
		log:  logger,
		subs: make(map[uint64]chan []byte),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 4 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // endpoints are loopback-only
		},
	}
}

func (s *Server) BootstrapHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}

		resp := observerproto.BootstrapResponse{
			ProtocolVersion: observerproto.Version,
			Tables:          dump.Tables(),
		}
		s.mu.Lock()
		if s.run != nil {
			resp.RunID = s.run.RunID
			resp.Seed = s.run.Seed
			resp.Levels = s.run.Levels
			resp.Dimensions = s.run.Dimensions
			resp.Schema = s.run.Schema
		}
		resp.LevelsDone = s.levelsDone
		s.mu.Unlock()

		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(resp)
	}
}

func (s *Server) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}

		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		// Handshake: must send SUBSCRIBE first.
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var sub observerproto.SubscribeMsg
		if err := json.Unmarshal(msg, &sub); err != nil {
			_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad subscribe"), time.Now().Add(time.Second))
			return
		}
		if sub.Type != observerproto.TypeSubscribe || sub.ProtocolVersion != observerproto.Version {
			_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected SUBSCRIBE"), time.Now().Add(time.Second))
			return
		}

		id := s.nextID.Add(1)
		out := make(chan []byte, 64)

		// Register under the same lock that fans events out, and replay
		// the active run's start event so late observers attach mid-run.
		s.mu.Lock()
		if s.run != nil {
			if b, err := json.Marshal(s.run); err == nil {
				out <- b // fresh buffer, cannot block
			}
		}
		s.subs[id] = out
		s.mu.Unlock()
		s.log.Printf("observer %d subscribed", id)
		defer func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			s.log.Printf("observer %d left", id)
		}()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		writeErr := make(chan error, 1)
		go func() {
			for {
				select {
				case <-ctx.Done():
					writeErr <- ctx.Err()
					return
				case b := <-out:
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						writeErr <- err
						return
					}
				}
			}
		}()

		// Reader loop: re-sent SUBSCRIBEs are keepalives, nothing to update.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		cancel()
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))

		// Best-effort wait for the writer to stop so it doesn't outlive conn.
		select {
		case <-writeErr:
		case <-time.After(500 * time.Millisecond):
		}
	}
}

// PublishRunStarted announces a new run. The event is kept as the
// replay message for subscribers that attach later.
func (s *Server) PublishRunStarted(ev observerproto.RunStartedMsg) {
	if s == nil {
		return
	}
	ev.Type = observerproto.TypeRunStarted
	ev.ProtocolVersion = observerproto.Version
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}
	s.mu.Lock()
	run := ev
	s.run = &run
	s.levelsDone = 0
	s.fanOut(b)
	s.mu.Unlock()
}

func (s *Server) PublishLevelStarted(ev observerproto.LevelStartedMsg) {
	if s == nil {
		return
	}
	ev.Type = observerproto.TypeLevelStarted
	ev.ProtocolVersion = observerproto.Version
	s.publish(ev)
}

func (s *Server) PublishStage(ev observerproto.StageMsg) {
	if s == nil {
		return
	}
	ev.Type = observerproto.TypeStage
	ev.ProtocolVersion = observerproto.Version
	s.publish(ev)
}

func (s *Server) PublishExport(ev observerproto.ExportMsg) {
	if s == nil {
		return
	}
	ev.Type = observerproto.TypeExport
	ev.ProtocolVersion = observerproto.Version
	s.publish(ev)
}

func (s *Server) PublishLevelCompleted(ev observerproto.LevelCompletedMsg) {
	if s == nil {
		return
	}
	ev.Type = observerproto.TypeLevelCompleted
	ev.ProtocolVersion = observerproto.Version
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.levelsDone++
	s.fanOut(b)
	s.mu.Unlock()
}

func (s *Server) PublishRunCompleted(ev observerproto.RunCompletedMsg) {
	if s == nil {
		return
	}
	ev.Type = observerproto.TypeRunCompleted
	ev.ProtocolVersion = observerproto.Version
	s.publish(ev)
}

func (s *Server) publish(v any) {
	if s == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.fanOut(b)
	s.mu.Unlock()
}

// fanOut delivers to every subscriber without blocking. Callers hold mu.
func (s *Server) fanOut(b []byte) {
	for _, ch := range s.subs {
		select {
		case ch <- b:
		default:
			// Slow observer: drop the event rather than stall the run.
		}
	}
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
