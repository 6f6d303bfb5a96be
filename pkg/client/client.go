package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/decred/slog"
	"github.com/vctt94/pokertablesync/pkg/conn"
	"github.com/vctt94/pokertablesync/pkg/dispatch"
	"github.com/vctt94/pokertablesync/pkg/protocol"
	"github.com/vctt94/pokertablesync/pkg/table"
)

const maxChatHistory = 200

// SessionConfig configures a Session.
type SessionConfig struct {
	TableID int64
	// AccessToken may be empty to spectate.
	AccessToken string
	Conn        conn.Config
	// Fetcher, when set, is used to show the table before the socket
	// confirms the subscription.
	Fetcher       TableFetcher
	Notifications *NotificationManager

	Log         slog.Logger
	DispatchLog slog.Logger
}

// View is what the presentation layer renders.
type View struct {
	TableID         int64
	State           *table.GameState
	Chats           []dispatch.ChatMessage
	Status          conn.Status
	ConnectionReady bool
}

// Session is the client side of one table subscription. It owns the
// connection and the table state; every state change goes through one
// serialized apply path.
type Session struct {
	sync.RWMutex
	tableID int64
	token   string
	log     slog.Logger
	mgr     *conn.Manager
	disp    *dispatch.Dispatcher
	ntfns   *NotificationManager
	fetcher TableFetcher
	// ownNtfns is set when ntfns was created for this session only.
	ownNtfns bool

	// applyMtx serializes reducer applications and the notifications
	// they produce.
	applyMtx sync.Mutex
	state    *table.GameState
	live     bool
	chats    []dispatch.ChatMessage
	status   conn.Status
	closed   bool

	ctx        context.Context
	cancelFunc context.CancelFunc
}

// NewSession creates a session for cfg.TableID. Start connects it.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.TableID <= 0 {
		return nil, fmt.Errorf("invalid table id %d", cfg.TableID)
	}
	if cfg.Conn.URL == "" {
		return nil, errors.New("websocket url is not configured")
	}
	if cfg.Log == nil {
		cfg.Log = slog.Disabled
	}

	ctx, cancel := context.WithCancel(context.Background())
	ntfns, own := cfg.Notifications, cfg.Notifications == nil
	if own {
		ntfns = NewNotificationManager()
		ntfns.UpdateChatConfig(ChatNotificationsConfig{
			MaxLength:             1024,
			EmitInterval:          DefaultChatEmitInterval,
			CancelEmissionChannel: ctx.Done(),
		})
	}

	s := &Session{
		tableID:    cfg.TableID,
		token:      cfg.AccessToken,
		log:        cfg.Log,
		mgr:        conn.New(cfg.Conn),
		disp:       dispatch.New(cfg.DispatchLog),
		ntfns:      ntfns,
		ownNtfns:   own,
		fetcher:    cfg.Fetcher,
		state:      table.NewGameState(),
		ctx:        ctx,
		cancelFunc: cancel,
	}
	s.mgr.OnInboundBatch(s.handleBatch)
	s.mgr.OnStatus(s.handleStatus)
	return s, nil
}

// Notifications returns the manager used to register listeners.
func (s *Session) Notifications() *NotificationManager {
	return s.ntfns
}

// TableID returns the subscribed table.
func (s *Session) TableID() int64 {
	return s.tableID
}

// Start connects and authenticates. The session is closed when ctx is
// done.
func (s *Session) Start(ctx context.Context) {
	context.AfterFunc(ctx, s.Close)
	if s.fetcher != nil {
		go s.preload()
	}
	s.mgr.Connect(s.ctx)
	s.mgr.Authenticate(s.token)
	s.log.Infof("Joining table %d", s.tableID)
}

// Done is closed when the connection stopped for good.
func (s *Session) Done() <-chan struct{} {
	return s.mgr.Done()
}

// State returns the current table state.
func (s *Session) State() *table.GameState {
	s.RLock()
	defer s.RUnlock()
	return s.state
}

// View returns a snapshot for rendering.
func (s *Session) View() View {
	s.RLock()
	defer s.RUnlock()
	return View{
		TableID:         s.tableID,
		State:           s.state,
		Chats:           append([]dispatch.ChatMessage(nil), s.chats...),
		Status:          s.status,
		ConnectionReady: s.status == conn.StatusOpen,
	}
}

// Close tears the subscription down. Nothing received afterwards reaches
// the state or the listeners.
func (s *Session) Close() {
	s.Lock()
	if s.closed {
		s.Unlock()
		return
	}
	s.closed = true
	s.Unlock()

	// Pending chat emission stops before the socket goes away, and the
	// listeners are dropped last.
	s.cancelFunc()
	s.mgr.Close()
	if s.ownNtfns {
		s.ntfns.unregisterAll()
	}
	s.log.Infof("Left table %d", s.tableID)
}

func (s *Session) isClosed() bool {
	s.RLock()
	defer s.RUnlock()
	return s.closed
}

func (s *Session) preload() {
	ctx, cancel := context.WithTimeout(s.ctx, 15*time.Second)
	defer cancel()
	t, err := s.fetcher.FetchTable(ctx, s.tableID)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.log.Warnf("Unable to preload table %d: %v", s.tableID, err)
		}
		return
	}
	s.apply(false, dispatch.Preload(t))
}

// apply reduces events onto the current state and notifies listeners when
// it changed. A preload is skipped once a live snapshot was applied.
func (s *Session) apply(live bool, evs ...table.Event) {
	if len(evs) == 0 {
		return
	}
	s.applyMtx.Lock()
	defer s.applyMtx.Unlock()

	s.Lock()
	if s.closed || (!live && s.live) {
		s.Unlock()
		return
	}
	prev := s.state
	next := table.ReduceAll(prev, evs...)
	s.state = next
	if live {
		for _, ev := range evs {
			if ev.Kind() == table.KindTableSnapshot {
				s.live = true
				break
			}
		}
	}
	s.Unlock()

	if next != prev {
		s.ntfns.notifyStateUpdated(next)
	}
}

func (s *Session) handleBatch(frames []protocol.Frame) {
	if s.isClosed() {
		return
	}
	s.log.Tracef("Processing batch of %d frames", len(frames))

	var evs []table.Event
	var subscribe bool
	for _, f := range frames {
		res := s.disp.Dispatch(f)
		evs = append(evs, res.Events...)
		subscribe = subscribe || res.Subscribe
		if res.Chat != nil {
			s.addChat(*res.Chat)
		}
		if res.ServerError != "" {
			s.serverError(res.ServerError)
		}
	}
	s.apply(true, evs...)
	if subscribe {
		s.subscribe()
	}
}

func (s *Session) handleStatus(st conn.Status) {
	s.Lock()
	if s.closed {
		s.Unlock()
		return
	}
	s.status = st
	s.Unlock()

	switch st {
	case conn.StatusReconnecting:
		s.log.Infof("Reconnecting to table %d", s.tableID)
	case conn.StatusUnavailable:
		s.log.Errorf("Table %d is unavailable", s.tableID)
	}
	s.ntfns.notifyConnStatus(st)

	// Without credentials there is no AUTH reply to wait for.
	if st == conn.StatusOpen && s.token == "" {
		s.subscribe()
	}
}

func (s *Session) addChat(msg dispatch.ChatMessage) {
	s.Lock()
	if s.closed {
		s.Unlock()
		return
	}
	s.chats = append(s.chats, msg)
	if len(s.chats) > maxChatHistory {
		s.chats = s.chats[len(s.chats)-maxChatHistory:]
	}
	s.Unlock()
	s.ntfns.addChat(msg)
}

func (s *Session) serverError(msg string) {
	if s.token != "" {
		s.log.Warnf("Server error on table %d: %s", s.tableID, msg)
	}
	s.ntfns.notifyServerError(msg, time.Now())
}

func (s *Session) subscribe() {
	s.log.Debugf("Subscribing to table %d", s.tableID)
	s.mgr.Send(protocol.Subscribe(s.tableID))
}
