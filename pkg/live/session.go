package live

import (
	"bytes"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/navkit-dev/navkit"
	"github.com/navkit-dev/navkit/pkg/dom"
	"github.com/navkit-dev/navkit/pkg/protocol"
)

const (
	// writeWait bounds a single frame write.
	writeWait = 10 * time.Second

	// pongWait is how long a connection may stay silent before the
	// reader gives up. pingPeriod must be shorter.
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second

	// maxMessageSize bounds inbound client frames. Event frames are
	// tiny; anything larger is hostile.
	maxMessageSize = 4096

	// taskBacklog is the event-loop queue depth per session.
	taskBacklog = 64
)

// Session is one live page: a server-side document mirror, the page
// controller bound to it, and the WebSocket carrying events in and
// patches out. All document access happens on the session's event
// goroutine; the reader and timers post work into it.
type Session struct {
	ID   string
	Path string

	doc  *dom.MemoryDocument
	ctrl *navkit.Controller
	rec  *Recorder

	conn  *websocket.Conn
	sched *dom.TimerScheduler
	log   *slog.Logger

	tasks chan func()
	done  chan struct{}

	onClose func(*Session)
}

// newSession builds a session around already-parsed page HTML. The
// controller is not initialized until run starts the event loop.
func newSession(conn *websocket.Conn, pageHTML []byte, location, path string, cfg *navkit.Config, log *slog.Logger) (*Session, error) {
	s := &Session{
		ID:    uuid.NewString(),
		Path:  path,
		conn:  conn,
		tasks: make(chan func(), taskBacklog),
		done:  make(chan struct{}),
	}
	s.log = log.With("session", s.ID, "path", path)
	s.sched = dom.NewTimerScheduler(s.post)

	doc, err := dom.Parse(bytes.NewReader(pageHTML), dom.WithLocation(location), dom.WithScheduler(s.sched))
	if err != nil {
		return nil, err
	}
	s.doc = doc
	s.rec = NewRecorder()
	doc.Observe(s.rec)
	s.ctrl = navkit.New(doc)

	if cfg != nil {
		c := *cfg
		s.ctrl.Init(&c)
	} else {
		s.ctrl.Init(nil)
	}
	s.ctrl.InitDemoBlocks()
	s.ctrl.StampYear()
	return s, nil
}

// Document exposes the session's mirror, mainly for tests.
func (s *Session) Document() *dom.MemoryDocument { return s.doc }

// Controller exposes the page controller, mainly for tests.
func (s *Session) Controller() *navkit.Controller { return s.ctrl }

// post schedules fn on the event goroutine. Work posted after the
// session closed is dropped.
func (s *Session) post(fn func()) {
	select {
	case s.tasks <- fn:
	case <-s.done:
	}
}

// run owns the event goroutine. It applies the initial patch backlog,
// then serves tasks until the connection dies.
func (s *Session) run() {
	defer s.teardown()

	go s.readLoop()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	// Mutations from Init are already buffered; ship them first.
	if err := s.flush(); err != nil {
		s.log.Debug("live: initial flush failed", "error", err)
		return
	}

	for {
		select {
		case fn := <-s.tasks:
			fn()
			if err := s.flush(); err != nil {
				s.log.Debug("live: flush failed", "error", err)
				return
			}
		case <-ping.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

// readLoop decodes client frames and posts them to the event
// goroutine. Runs on its own goroutine; exits on any read error.
func (s *Session) readLoop() {
	defer s.close()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		kind, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("live: read error", "error", err)
			}
			return
		}
		if kind != websocket.BinaryMessage || len(data) == 0 {
			continue
		}
		if data[0] == protocol.FramePing {
			s.post(s.sendPong)
			continue
		}
		ev, err := protocol.DecodeEventFrame(protocol.NewDecoder(data))
		if err != nil {
			s.log.Warn("live: bad event frame", "error", err)
			continue
		}
		s.post(func() { s.dispatch(ev) })
	}
}

// dispatch delivers a decoded client event into the document mirror.
// Stale UIDs are ignored; the client may race a node removal.
func (s *Session) dispatch(f *protocol.EventFrame) {
	name := f.EventName()
	if name == "" {
		return
	}
	target := s.doc.ElementByUID(f.UID)
	if target == nil {
		s.log.Debug("live: event for unknown element", "uid", f.UID, "event", name)
		return
	}
	s.doc.Dispatch(&dom.Event{
		Type:     name,
		Target:   target,
		Key:      f.Key,
		ShiftKey: f.Shift,
	})
}

// flush ships buffered patches, if any, as one binary frame.
func (s *Session) flush() error {
	frame := s.rec.NextFrame()
	if frame == nil {
		return nil
	}
	enc := protocol.NewEncoder()
	frame.Encode(enc)
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.BinaryMessage, enc.Bytes())
}

func (s *Session) sendPong() {
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = s.conn.WriteMessage(websocket.BinaryMessage, []byte{protocol.FramePong})
}

// close signals shutdown. Idempotent.
func (s *Session) close() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

func (s *Session) teardown() {
	s.close()
	s.sched.CancelAll()
	s.ctrl.Destroy()
	_ = s.conn.Close()
	if s.onClose != nil {
		s.onClose(s)
	}
	s.log.Debug("live: session closed")
}
