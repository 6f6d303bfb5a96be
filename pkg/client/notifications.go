package client

import (
	"fmt"
	"sync"
	"time"

	"github.com/vctt94/pokertablesync/pkg/conn"
	"github.com/vctt94/pokertablesync/pkg/dispatch"
	"github.com/vctt94/pokertablesync/pkg/table"
)

// Following are the notification types. Add new types at the bottom of this
// list, then add a notifyX() to NotificationManager and initialize a new
// container in NewNotificationManager().

const onStateUpdatedNtfnType = "onStateUpdated"

// OnStateUpdatedNtfn is called with every new table state. The state must
// be treated as read only.
type OnStateUpdatedNtfn func(*table.GameState)

func (_ OnStateUpdatedNtfn) typ() string { return onStateUpdatedNtfnType }

const onChatMessagesNtfnType = "onChatMessages"

// OnChatMessagesNtfn is called with the chat lines received within one emit
// interval.
type OnChatMessagesNtfn func([]dispatch.ChatMessage)

func (_ OnChatMessagesNtfn) typ() string { return onChatMessagesNtfnType }

const onConnStatusNtfnType = "onConnStatus"

// OnConnStatusNtfn is the handler for connection status changes.
type OnConnStatusNtfn func(conn.Status)

func (_ OnConnStatusNtfn) typ() string { return onConnStatusNtfnType }

const onServerErrorNtfnType = "onServerError"

// OnServerErrorNtfn is the handler for errors reported by the server.
type OnServerErrorNtfn func(string, time.Time)

func (_ OnServerErrorNtfn) typ() string { return onServerErrorNtfnType }

// ChatNotificationsConfig is the configuration for how chat notifications
// are emitted.
type ChatNotificationsConfig struct {
	// MaxLength is the max length of messages emitted. Zero disables
	// clipping.
	MaxLength int

	// EmitInterval is the interval to wait for additional messages before
	// emitting a notification. Messages received within this interval
	// are delivered together.
	EmitInterval time.Duration

	// CancelEmissionChannel may be set to a Context.Done() channel to
	// cancel emission of notifications.
	CancelEmissionChannel <-chan struct{}
}

func (cfg *ChatNotificationsConfig) clip(msg string) string {
	if cfg.MaxLength <= 0 {
		return msg
	}
	r := []rune(msg)
	if len(r) <= cfg.MaxLength {
		return msg
	}
	return string(r[:cfg.MaxLength])
}

// The following is used only in tests.

const onTestNtfnType = "testNtfnType"

type onTestNtfn func()

func (_ onTestNtfn) typ() string { return onTestNtfnType }

// Following is the generic notification code.

type NotificationRegistration struct {
	unreg func() bool
}

func (reg NotificationRegistration) Unregister() bool {
	return reg.unreg()
}

type NotificationHandler interface {
	typ() string
}

type handler[T any] struct {
	handler T
	async   bool
}

type handlersFor[T any] struct {
	mtx      sync.Mutex
	next     uint
	handlers map[uint]handler[T]
}

func (hn *handlersFor[T]) register(h T, async bool) NotificationRegistration {
	var id uint

	hn.mtx.Lock()
	id, hn.next = hn.next, hn.next+1
	if hn.handlers == nil {
		hn.handlers = make(map[uint]handler[T])
	}
	hn.handlers[id] = handler[T]{handler: h, async: async}
	registered := true
	hn.mtx.Unlock()

	return NotificationRegistration{
		unreg: func() bool {
			hn.mtx.Lock()
			res := registered
			if registered {
				delete(hn.handlers, id)
				registered = false
			}
			hn.mtx.Unlock()
			return res
		},
	}
}

func (hn *handlersFor[T]) visit(f func(T)) {
	hn.mtx.Lock()
	for _, h := range hn.handlers {
		if h.async {
			go f(h.handler)
		} else {
			f(h.handler)
		}
	}
	hn.mtx.Unlock()
}

func (hn *handlersFor[T]) Register(v interface{}, async bool) NotificationRegistration {
	if h, ok := v.(T); !ok {
		panic("wrong type")
	} else {
		return hn.register(h, async)
	}
}

func (hn *handlersFor[T]) AnyRegistered() bool {
	hn.mtx.Lock()
	res := len(hn.handlers) > 0
	hn.mtx.Unlock()
	return res
}

func (hn *handlersFor[T]) unregisterAll() {
	hn.mtx.Lock()
	hn.handlers = nil
	hn.mtx.Unlock()
}

type handlersRegistry interface {
	Register(v interface{}, async bool) NotificationRegistration
	AnyRegistered() bool
	unregisterAll()
}

type NotificationManager struct {
	handlers map[string]handlersRegistry

	chatMtx     sync.Mutex
	chatConfig  ChatNotificationsConfig
	chatPending []dispatch.ChatMessage
	chatTimer   *time.Timer
}

// UpdateChatConfig updates the config used to emit chat notifications.
func (nmgr *NotificationManager) UpdateChatConfig(cfg ChatNotificationsConfig) {
	nmgr.chatMtx.Lock()
	nmgr.chatConfig = cfg
	nmgr.chatMtx.Unlock()
}

func (nmgr *NotificationManager) register(handler NotificationHandler, async bool) NotificationRegistration {
	handlers := nmgr.handlers[handler.typ()]
	if handlers == nil {
		panic(fmt.Sprintf("forgot to init the handler type %T "+
			"in NewNotificationManager", handler))
	}

	return handlers.Register(handler, async)
}

// Register registers a callback notification function that is called
// asynchronously to the event (i.e. in a separate goroutine).
func (nmgr *NotificationManager) Register(handler NotificationHandler) NotificationRegistration {
	return nmgr.register(handler, true)
}

// RegisterSync registers a callback notification function that is called
// synchronously to the event. This callback SHOULD return as soon as possible,
// otherwise the session might hang.
//
// Synchronous callbacks observe states in the order they were produced,
// which asynchronous ones do not guarantee.
func (nmgr *NotificationManager) RegisterSync(handler NotificationHandler) NotificationRegistration {
	return nmgr.register(handler, false)
}

// AnyRegistered returns true if there are any handlers registered for the given
// handler type.
func (nmgr *NotificationManager) AnyRegistered(handler NotificationHandler) bool {
	return nmgr.handlers[handler.typ()].AnyRegistered()
}

// unregisterAll drops every handler and any chat batch still pending.
func (nmgr *NotificationManager) unregisterAll() {
	nmgr.chatMtx.Lock()
	nmgr.chatPending = nil
	nmgr.chatMtx.Unlock()
	for _, h := range nmgr.handlers {
		h.unregisterAll()
	}
}

func (nmgr *NotificationManager) waitAndEmitChat(c <-chan time.Time, cancel <-chan struct{}) {
	select {
	case <-c:
	case <-cancel:
		nmgr.chatMtx.Lock()
		nmgr.chatPending = nil
		nmgr.chatMtx.Unlock()
		return
	}

	nmgr.chatMtx.Lock()
	msgs := nmgr.chatPending
	nmgr.chatPending = nil
	nmgr.chatMtx.Unlock()

	// The timer may fire together with the cancellation.
	select {
	case <-cancel:
		return
	default:
	}
	if len(msgs) == 0 {
		return
	}
	nmgr.handlers[onChatMessagesNtfnType].(*handlersFor[OnChatMessagesNtfn]).
		visit(func(h OnChatMessagesNtfn) { h(msgs) })
}

func (nmgr *NotificationManager) addChat(msg dispatch.ChatMessage) {
	nmgr.chatMtx.Lock()

	cfg := &nmgr.chatConfig
	msg.Message = cfg.clip(msg.Message)
	nmgr.chatPending = append(nmgr.chatPending, msg)

	// The first message starts the timer to emit the batch. Other
	// messages will get batched.
	if len(nmgr.chatPending) == 1 {
		nmgr.chatTimer.Reset(cfg.EmitInterval)
		c, cancel := nmgr.chatTimer.C, cfg.CancelEmissionChannel
		go nmgr.waitAndEmitChat(c, cancel)
	}

	nmgr.chatMtx.Unlock()
}

// Following are the notifyX() calls (one for each type of notification).

func (nmgr *NotificationManager) notifyTest() {
	nmgr.handlers[onTestNtfnType].(*handlersFor[onTestNtfn]).
		visit(func(h onTestNtfn) { h() })
}

func (nmgr *NotificationManager) notifyStateUpdated(s *table.GameState) {
	nmgr.handlers[onStateUpdatedNtfnType].(*handlersFor[OnStateUpdatedNtfn]).
		visit(func(h OnStateUpdatedNtfn) { h(s) })
}

func (nmgr *NotificationManager) notifyConnStatus(st conn.Status) {
	nmgr.handlers[onConnStatusNtfnType].(*handlersFor[OnConnStatusNtfn]).
		visit(func(h OnConnStatusNtfn) { h(st) })
}

func (nmgr *NotificationManager) notifyServerError(msg string, ts time.Time) {
	nmgr.handlers[onServerErrorNtfnType].(*handlersFor[OnServerErrorNtfn]).
		visit(func(h OnServerErrorNtfn) { h(msg, ts) })
}

func NewNotificationManager() *NotificationManager {
	nmgr := &NotificationManager{
		chatConfig: ChatNotificationsConfig{
			MaxLength:    1024,
			EmitInterval: DefaultChatEmitInterval,
		},
		chatTimer: time.NewTimer(time.Hour * 24),
		handlers: map[string]handlersRegistry{
			onTestNtfnType:         &handlersFor[onTestNtfn]{},
			onStateUpdatedNtfnType: &handlersFor[OnStateUpdatedNtfn]{},
			onChatMessagesNtfnType: &handlersFor[OnChatMessagesNtfn]{},
			onConnStatusNtfnType:   &handlersFor[OnConnStatusNtfn]{},
			onServerErrorNtfnType:  &handlersFor[OnServerErrorNtfn]{},
		},
	}
	if !nmgr.chatTimer.Stop() {
		<-nmgr.chatTimer.C
	}

	return nmgr
}
