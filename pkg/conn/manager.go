// Package conn keeps a websocket to the table server alive, queues
// outbound frames while it is down and delivers inbound frames in
// coalesced, ordered batches.
package conn

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/decred/slog"
	"github.com/gorilla/websocket"
	"github.com/vctt94/pokertablesync/pkg/protocol"
	"github.com/vctt94/pokertablesync/pkg/statemachine"
)

// Status is the connection state reported to listeners.
type Status int

const (
	StatusIdle Status = iota
	StatusConnecting
	StatusOpen
	StatusReconnecting
	// StatusUnavailable is terminal: the retry ceiling was reached.
	StatusUnavailable
	StatusClosed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusConnecting:
		return "connecting"
	case StatusOpen:
		return "open"
	case StatusReconnecting:
		return "reconnecting"
	case StatusUnavailable:
		return "unavailable"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Manager owns one websocket and its send queue.
type Manager struct {
	cfg Config
	log slog.Logger

	mtx       sync.Mutex
	status    Status
	started   bool
	closed    bool
	reconnect bool
	attempt   int
	ws        *websocket.Conn
	stopWrite chan struct{}
	queue     []protocol.Frame

	token       string
	authSent    bool
	authPending *protocol.Frame
	authTimer   *time.Timer

	onBatch  func([]protocol.Frame)
	onStatus func(Status)

	batch  *batcher
	wake   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// New returns an idle manager. Call Connect to start it.
func New(cfg Config) *Manager {
	cfg = cfg.withDefaults()
	m := &Manager{
		cfg:  cfg,
		log:  cfg.Log,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	m.batch = newBatcher(cfg.CoalesceWindow, cfg.LargeBatch, m.deliver)
	return m
}

// OnInboundBatch sets the consumer of inbound batches.
func (m *Manager) OnInboundBatch(h func([]protocol.Frame)) {
	m.mtx.Lock()
	m.onBatch = h
	m.mtx.Unlock()
}

// OnStatus sets the listener for status changes.
func (m *Manager) OnStatus(h func(Status)) {
	m.mtx.Lock()
	m.onStatus = h
	m.mtx.Unlock()
}

// Status returns the current connection status.
func (m *Manager) Status() Status {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.status
}

// Attempt returns the number of consecutive failed attempts.
func (m *Manager) Attempt() int {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.attempt
}

// Done is closed once the manager stopped for good, either because it was
// closed or because it became unavailable.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// Connect starts the connection lifecycle. Calling it again, or after
// Close, does nothing.
func (m *Manager) Connect(ctx context.Context) {
	m.mtx.Lock()
	if m.started || m.closed {
		m.mtx.Unlock()
		return
	}
	m.started = true
	m.reconnect = true
	m.ctx, m.cancel = context.WithCancel(ctx)
	m.mtx.Unlock()

	go func() {
		defer close(m.done)
		statemachine.NewStateMachine(m, stateDial).Run()
	}()
}

// Authenticate sends the AUTH frame once the socket is open. An empty token
// means spectating and nothing is sent.
func (m *Manager) Authenticate(token string) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if m.closed {
		return
	}
	m.token = token
	m.authSent = false
	m.authenticateLocked()
}

// authenticateLocked must be called with mtx held.
func (m *Manager) authenticateLocked() {
	if m.token == "" || m.authSent || m.closed {
		return
	}
	switch m.status {
	case StatusOpen:
		f := protocol.Auth(m.token)
		m.authPending = &f
		m.authSent = true
		m.signal()
	case StatusConnecting, StatusReconnecting:
		if m.authTimer == nil {
			m.authTimer = time.AfterFunc(m.cfg.AuthRetryInterval, m.retryAuth)
		}
	}
}

func (m *Manager) retryAuth() {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.authTimer = nil
	m.authenticateLocked()
}

// Send queues f for transmission. It never blocks. Frames are written in
// the order they were sent, after any pending AUTH frame.
func (m *Manager) Send(f protocol.Frame) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if m.closed {
		m.log.Debugf("Dropping %s frame sent after close", f.Type)
		return
	}
	m.queue = append(m.queue, f)
	if m.status == StatusOpen {
		m.signal()
	} else {
		m.log.Debugf("Queued %s frame while %s (%d pending)", f.Type, m.status, len(m.queue))
	}
}

// Close tears the manager down: reconnection is disabled, timers are
// cancelled, an open socket is closed and listeners are dropped.
func (m *Manager) Close() {
	m.mtx.Lock()
	if m.closed {
		m.mtx.Unlock()
		return
	}
	m.closed = true
	m.reconnect = false
	if m.authTimer != nil {
		m.authTimer.Stop()
		m.authTimer = nil
	}
	m.status = StatusClosed
	m.queue = nil
	ws, cancel, started := m.ws, m.cancel, m.started
	m.mtx.Unlock()

	m.batch.stop()
	if cancel != nil {
		cancel()
	}
	if ws != nil {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		if err := ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
			m.log.Debugf("Unable to send close frame: %v", err)
		}
		ws.Close()
	}

	m.mtx.Lock()
	m.onBatch = nil
	m.onStatus = nil
	m.mtx.Unlock()

	if !started {
		close(m.done)
	}
	m.log.Debugf("Connection manager closed")
}

func (m *Manager) signal() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// setStatus records s and notifies the listener outside the lock. A closed
// manager keeps StatusClosed.
func (m *Manager) setStatus(s Status) {
	m.mtx.Lock()
	if m.closed || m.status == s {
		m.mtx.Unlock()
		return
	}
	m.status = s
	cb := m.onStatus
	m.mtx.Unlock()
	if cb != nil {
		cb(s)
	}
}

func (m *Manager) deliver(batch []protocol.Frame) {
	m.mtx.Lock()
	cb, closed := m.onBatch, m.closed
	m.mtx.Unlock()
	if closed || cb == nil {
		return
	}
	cb(batch)
}

func stateDial(m *Manager) statemachine.StateFn[Manager] {
	// Redials keep reporting StatusReconnecting until a socket opens.
	m.mtx.Lock()
	first := m.attempt == 0
	m.mtx.Unlock()
	if first {
		m.setStatus(StatusConnecting)
	} else {
		m.setStatus(StatusReconnecting)
	}
	ws, _, err := m.cfg.Dialer.DialContext(m.ctx, m.cfg.URL, m.cfg.Header)
	if err != nil {
		if m.ctx.Err() != nil {
			return nil
		}
		m.log.Warnf("Unable to connect to %s: %v", m.cfg.URL, err)
		return stateBackoff
	}

	m.mtx.Lock()
	if m.closed {
		m.mtx.Unlock()
		ws.Close()
		return nil
	}
	m.ws = ws
	m.stopWrite = make(chan struct{})
	m.status = StatusOpen
	m.attempt = 0
	m.authSent = false
	m.authenticateLocked()
	stop, cb := m.stopWrite, m.onStatus
	pending := len(m.queue)
	m.mtx.Unlock()

	m.log.Infof("Connected to %s (%d queued frames)", m.cfg.URL, pending)
	if cb != nil {
		cb(StatusOpen)
	}
	go m.writePump(ws, stop)
	m.signal()
	return stateConnected
}

func stateConnected(m *Manager) statemachine.StateFn[Manager] {
	m.mtx.Lock()
	ws, stop := m.ws, m.stopWrite
	m.mtx.Unlock()

	err := m.readPump(ws)
	close(stop)
	ws.Close()

	m.mtx.Lock()
	if m.ws == ws {
		m.ws = nil
	}
	m.mtx.Unlock()

	if m.ctx.Err() != nil {
		return nil
	}
	m.log.Infof("Connection lost: %v", err)
	return stateBackoff
}

func stateBackoff(m *Manager) statemachine.StateFn[Manager] {
	m.mtx.Lock()
	if m.closed || !m.reconnect {
		m.mtx.Unlock()
		return nil
	}
	if m.attempt >= m.cfg.MaxAttempts {
		m.status = StatusUnavailable
		cb := m.onStatus
		m.mtx.Unlock()
		m.log.Errorf("Giving up on %s after %d attempts", m.cfg.URL, m.cfg.MaxAttempts)
		if cb != nil {
			cb(StatusUnavailable)
		}
		return nil
	}
	delay := Backoff(m.attempt, m.cfg.BaseDelay, m.cfg.MaxDelay)
	m.attempt++
	attempt := m.attempt
	m.mtx.Unlock()

	m.setStatus(StatusReconnecting)
	m.log.Infof("Reconnecting in %s (attempt %d of %d)", delay, attempt, m.cfg.MaxAttempts)

	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-m.ctx.Done():
		return nil
	case <-t.C:
		return stateDial
	}
}

func (m *Manager) readPump(ws *websocket.Conn) error {
	pongWait := 2 * m.cfg.Heartbeat
	ws.SetReadLimit(maxMessageSize)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, b, err := ws.ReadMessage()
		if err != nil {
			return err
		}
		ws.SetReadDeadline(time.Now().Add(pongWait))

		f, err := protocol.ParseFrame(b)
		if err != nil {
			m.log.Warnf("Dropping unparsable message: %v", err)
			m.log.Debugf("Dropped message: %s", spew.Sdump(string(b)))
			continue
		}
		m.batch.add(f)
	}
}

// writePump is the only writer of data frames on ws.
func (m *Manager) writePump(ws *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(m.cfg.Heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-m.wake:
			if err := m.flush(ws); err != nil {
				m.log.Warnf("Write failed: %v", err)
				ws.Close()
				return
			}
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				m.log.Debugf("Ping failed: %v", err)
				ws.Close()
				return
			}
		}
	}
}

// flush writes the pending AUTH frame and then the queue. A frame that
// fails to write goes back to the front of the queue.
func (m *Manager) flush(ws *websocket.Conn) error {
	for {
		m.mtx.Lock()
		if m.ws != ws || m.closed {
			m.mtx.Unlock()
			return nil
		}
		var f protocol.Frame
		auth := m.authPending != nil
		switch {
		case auth:
			f = *m.authPending
			m.authPending = nil
		case len(m.queue) > 0:
			f = m.queue[0]
			m.queue = m.queue[1:]
		default:
			m.mtx.Unlock()
			return nil
		}
		m.mtx.Unlock()

		b, err := json.Marshal(f)
		if err != nil {
			m.log.Errorf("Dropping unencodable %s frame: %v", f.Type, err)
			continue
		}
		ws.SetWriteDeadline(time.Now().Add(writeWait))
		if err := ws.WriteMessage(websocket.TextMessage, b); err != nil {
			if !auth {
				m.mtx.Lock()
				if !m.closed {
					m.queue = append([]protocol.Frame{f}, m.queue...)
				}
				m.mtx.Unlock()
			}
			return err
		}
		m.log.Tracef("Sent %s frame", f.Type)
	}
}
