package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Odeneho-Calculus/kalx-go/internal/errors"
	"github.com/Odeneho-Calculus/kalx-go/pkg/reactive"
	"github.com/Odeneho-Calculus/kalx-go/pkg/runtime"
	"github.com/Odeneho-Calculus/kalx-go/pkg/telemetry"
	"github.com/Odeneho-Calculus/kalx-go/pkg/vdom"
)

const (
	// writeWait is the deadline for one outbound write.
	writeWait = 10 * time.Second

	// pongWait is how long a connection may stay silent.
	pongWait = 60 * time.Second

	// pingPeriod must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize bounds inbound event frames.
	maxMessageSize = 64 * 1024

	// sendBuffer is the outbound frame queue size per session.
	sendBuffer = 32
)

// Frame is the wire envelope in both directions.
type Frame struct {
	Type  string   `json:"type"`
	Ops   []WireOp `json:"ops,omitempty"`
	Node  uint64   `json:"node,omitempty"`
	Event string   `json:"event,omitempty"`
	Value string   `json:"value,omitempty"`
}

// Event carries client event details into server-side handlers. Handlers
// may be func(), func(Event), or func(Event) error.
type Event struct {
	// Name is the event name ("click", "input", ...).
	Name string

	// Value is the control value at dispatch time, for input-ish events.
	Value string
}

// Session is one connected client: a websocket connection, a wire
// backend, and the mounted instance driving it.
type Session struct {
	id      uint64
	conn    *websocket.Conn
	backend *WireBackend
	inst    *runtime.Instance

	send    chan []byte
	logger  *slog.Logger
	metrics *telemetry.Metrics
	tracer  *telemetry.Tracer

	closeOnce sync.Once
	done      chan struct{}
}

var sessionIDs struct {
	mu   sync.Mutex
	next uint64
}

func nextSessionID() uint64 {
	sessionIDs.mu.Lock()
	defer sessionIDs.mu.Unlock()
	sessionIDs.next++
	return sessionIDs.next
}

// NewSession mounts render on a fresh wire backend and queues the initial
// build as the first frame. Run must be called to start pumping.
func NewSession(conn *websocket.Conn, render func() *vdom.VNode, logger *slog.Logger, metrics *telemetry.Metrics, tracer *telemetry.Tracer) *Session {
	if logger == nil {
		logger = slog.Default()
	}

	id := nextSessionID()
	s := &Session{
		id:      id,
		conn:    conn,
		backend: NewWireBackend(),
		send:    make(chan []byte, sendBuffer),
		logger:  logger.With("session", id),
		metrics: metrics,
		tracer:  tracer,
		done:    make(chan struct{}),
	}

	s.inst = runtime.Mount(s.backend, render,
		runtime.WithMetrics(metrics),
		runtime.WithTracer(tracer))

	s.queueOps(s.backend.Flush())
	return s
}

// ID returns the session identifier.
func (s *Session) ID() uint64 {
	return s.id
}

// Run pumps the connection until it closes. Blocks.
func (s *Session) Run() {
	s.metrics.SessionStarted()
	defer s.metrics.SessionEnded()

	go s.writePump()
	s.readLoop()
}

// Close tears down the session and its reactive scope.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.inst.Dispose()
		s.conn.Close()
	})
}

// queueOps encodes ops as a patch frame and queues it for sending. Ops
// produced after Close are dropped; the write pump is already gone.
func (s *Session) queueOps(ops []WireOp) {
	if len(ops) == 0 {
		return
	}

	select {
	case <-s.done:
		s.logger.Debug("dropping ops",
			"count", len(ops),
			"error", errors.New(errors.CodeSessionClosed, ""))
		return
	default:
	}

	payload, err := json.Marshal(Frame{Type: "patches", Ops: ops})
	if err != nil {
		s.logger.Error("frame encode failed", "error", err)
		return
	}

	select {
	case s.send <- payload:
	default:
		// A client that cannot keep up gets disconnected rather than
		// growing an unbounded queue.
		s.logger.Warn("send queue full, closing session")
		go s.Close()
	}
}

func (s *Session) readLoop() {
	defer s.Close()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(msg, &frame); err != nil {
			s.logger.Error("frame decode error",
				"error", errors.FromError(errors.CodeSessionProtocol, err))
			continue
		}

		switch frame.Type {
		case "event":
			s.dispatch(frame)
		case "ping":
			// Application-level ping, nothing to do.
		default:
			s.logger.Warn("unknown frame type", "type", frame.Type)
		}
	}
}

// dispatch runs the handler for a client event. The handler runs inside a
// batch so multi-cell writes render once, then deferred effects flush, and
// whatever the render loop recorded goes out as one frame.
func (s *Session) dispatch(frame Frame) {
	_, end := s.tracer.StartEvent(context.Background(), frame.Event)

	handler := s.backend.HandlerFor(frame.Node, frame.Event)
	if handler == nil {
		s.logger.Warn("event for unknown handler",
			"node", frame.Node, "event", frame.Event)
		end(errors.Newf(errors.CodeSessionProtocol,
			"no handler for node %d event %q", frame.Node, frame.Event))
		return
	}

	event := Event{Name: frame.Event, Value: frame.Value}

	var err error
	reactive.Batch(func() {
		err = invoke(handler, event)
	})
	s.inst.Flush()

	if err != nil {
		s.logger.Error("event handler failed", "event", frame.Event, "error", err)
	}

	s.queueOps(s.backend.Flush())
	end(err)
}

// invoke calls a handler in one of the supported shapes.
func invoke(handler any, event Event) error {
	switch h := handler.(type) {
	case func():
		h()
		return nil
	case func(Event):
		h(event)
		return nil
	case func(Event) error:
		return h(event)
	default:
		return errors.Newf(errors.CodeSessionProtocol,
			"unsupported handler type %T", handler)
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case payload := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				s.logger.Error("write error", "error", err)
				s.Close()
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.Close()
				return
			}

		case <-s.done:
			return
		}
	}
}
