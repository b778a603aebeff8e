package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	herrors "github.com/vango-dev/hydra/internal/errors"
	"github.com/vango-dev/hydra/pkg/controller"
	"github.com/vango-dev/hydra/pkg/dom"
	"github.com/vango-dev/hydra/pkg/protocol"
	"github.com/vango-dev/hydra/pkg/reconcile"
	"github.com/vango-dev/hydra/pkg/render"
	"github.com/vango-dev/hydra/pkg/state"
)

const tracerName = "github.com/vango-dev/hydra/pkg/server"

// Session is one page hydrated on the server and replicated to a client.
//
// The session parses the page it served, hydrates the app against it and
// runs the engine on a state.Loop. Client event frames are dispatched on
// the loop; the DOM mutations they cause are sent back as batches.
type Session struct {
	id      string
	conn    *websocket.Conn
	cfg     *Config
	logger  *slog.Logger
	metrics *metrics
	tracer  trace.Tracer

	doc       *dom.Document
	root      *reconcile.Root
	services  *controller.Services
	collector *protocol.Collector
	loop      *state.Loop

	writeMu   sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
}

// newSession hydrates page and prepares a session on conn. The caller
// owns conn until Run.
func newSession(id string, page []byte, conn *websocket.Conn, cfg *Config, m *metrics) (*Session, error) {
	logger := cfg.Logger.With("session", id)

	doc, err := dom.ParseDocument(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	containerID := cfg.Page.ContainerID
	if containerID == "" {
		containerID = render.DefaultContainerID
	}
	container := doc.GetElementByID(containerID)
	if container == nil {
		return nil, herrors.New("E102").WithDetailf("page has no #%s element", containerID)
	}

	services := controller.NewServices()
	if cfg.Services != nil {
		services = cfg.Services()
	}

	collector := protocol.NewCollector(doc, container)
	root, err := reconcile.HydrateElement(doc, container, cfg.App(),
		reconcile.WithLogger(logger),
		reconcile.WithServices(services),
		reconcile.WithHooks(cfg.Hooks),
		reconcile.WithMaxCascade(cfg.MaxCascade),
	)
	if err != nil {
		collector.Close()
		_ = services.Close()
		return nil, err
	}

	s := &Session{
		id:        id,
		conn:      conn,
		cfg:       cfg,
		logger:    logger,
		metrics:   m,
		tracer:    otel.Tracer(tracerName),
		doc:       doc,
		root:      root,
		services:  services,
		collector: collector,
		loop:      state.NewLoop(root.Scheduler().Queue(), logger),
		done:      make(chan struct{}),
	}
	s.loop.OnError = func(err error) {
		s.logger.Error("flush failed", "error", err)
		s.sendError(protocol.NewError(protocol.CodeInternal, err))
	}
	return s, nil
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Done is closed when the session has been torn down.
func (s *Session) Done() <-chan struct{} { return s.done }

// Close stops the session. Run returns once teardown is complete.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.writeMu.Lock()
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(s.cfg.WriteTimeout))
		s.writeMu.Unlock()
		_ = s.conn.Close()
	})
}

// Run serves the session until the client disconnects or ctx is done.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer close(s.done)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = s.loop.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		s.heartbeat(ctx)
	}()

	// Hydration repairs travel as the first batch.
	s.loop.Post(s.sendPending)

	go func() {
		<-ctx.Done()
		s.Close()
	}()
	err := s.readLoop(ctx)

	cancel()
	wg.Wait()
	s.teardown()
	return err
}

func (s *Session) readLoop(ctx context.Context) error {
	wait := 2 * s.cfg.PingInterval
	s.conn.SetReadLimit(s.cfg.MaxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(wait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(wait))
	})

	for {
		mt, data, err := s.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(wait))

		if mt != websocket.BinaryMessage {
			s.metrics.frame("in", "invalid")
			s.sendError(protocol.NewError(protocol.CodeInvalidFrame, errors.New("expected a binary message")))
			continue
		}
		frame, err := protocol.DecodeFrame(data)
		if err != nil {
			s.metrics.frame("in", "invalid")
			s.sendError(protocol.NewError(protocol.CodeInvalidFrame, err))
			continue
		}
		s.metrics.frame("in", frame.Type.String())
		if frame.Type != protocol.FrameEvent {
			s.sendError(protocol.NewError(protocol.CodeInvalidFrame, fmt.Errorf("unexpected %s frame", frame.Type)))
			continue
		}
		ev, err := protocol.DecodeEvent(frame.Payload)
		if err != nil {
			s.sendError(protocol.NewError(protocol.CodeInvalidEvent, err))
			continue
		}
		if !s.loop.Post(func() { s.handleEvent(ctx, ev) }) {
			return nil
		}
	}
}

// handleEvent runs on the loop goroutine.
func (s *Session) handleEvent(ctx context.Context, ev *protocol.Event) {
	_, span := s.tracer.Start(ctx, "hydra.event", trace.WithAttributes(
		attribute.String("hydra.session", s.id),
		attribute.String("hydra.event.type", ev.Type),
		attribute.Int64("hydra.event.target", int64(ev.Target)),
	))
	defer span.End()

	target := s.doc.NodeByID(ev.Target)
	if target == nil || !s.doc.Contains(target) {
		span.SetStatus(codes.Error, "node not found")
		s.sendError(protocol.NewError(protocol.CodeNodeNotFound, fmt.Errorf("event %d: no node %d", ev.Seq, ev.Target)))
		return
	}

	var detail any
	if ev.Value != "" {
		detail = ev.Value
	}
	if _, err := s.root.Dispatch(target, dom.NewEvent(ev.Type, detail)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warn("event failed", "type", ev.Type, "target", ev.Target, "error", err)
		s.sendError(protocol.NewError(protocol.CodeDispatchFailed, err))
	}
	s.sendPending()
}

// sendPending writes the collected mutations, if any.
func (s *Session) sendPending() {
	b := s.collector.Take()
	if b == nil {
		return
	}
	if err := s.write(protocol.NewFrame(protocol.FrameMutations, protocol.EncodeBatch(b))); err != nil {
		s.logger.Debug("send batch failed", "seq", b.Seq, "error", err)
	}
}

func (s *Session) sendError(em *protocol.ErrorMessage) {
	if err := s.write(protocol.NewFrame(protocol.FrameError, protocol.EncodeErrorMessage(em))); err != nil {
		s.logger.Debug("send error failed", "error", err)
	}
}

func (s *Session) write(f *protocol.Frame) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.BinaryMessage, f.Encode()); err != nil {
		return err
	}
	s.metrics.frame("out", f.Type.String())
	return nil
}

func (s *Session) heartbeat(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.writeMu.Lock()
			err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.cfg.WriteTimeout))
			s.writeMu.Unlock()
			if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
				s.logger.Debug("ping failed", "error", err)
				return
			}
		}
	}
}

// teardown runs after the loop has stopped, so it owns the engine.
func (s *Session) teardown() {
	s.root.Unmount()
	s.collector.Close()
	if err := s.services.Close(); err != nil {
		s.logger.Warn("closing services", "error", err)
	}
}
