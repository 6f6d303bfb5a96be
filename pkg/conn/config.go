package conn

import (
	"net/http"
	"time"

	"github.com/decred/slog"
	"github.com/gorilla/websocket"
)

const (
	DefaultBaseDelay         = time.Second
	DefaultMaxDelay          = 30 * time.Second
	DefaultMaxAttempts       = 10
	DefaultCoalesceWindow    = 50 * time.Millisecond
	DefaultLargeBatch        = 5
	DefaultAuthRetryInterval = 100 * time.Millisecond
	DefaultHeartbeat         = 30 * time.Second

	writeWait      = 10 * time.Second
	maxMessageSize = 65536
)

// Config holds the settings of a Manager. Zero values take the defaults.
type Config struct {
	URL    string
	Header http.Header

	// Reconnect backoff: min(BaseDelay*2^attempt, MaxDelay), giving up
	// after MaxAttempts consecutive failures.
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	MaxAttempts int

	// Inbound frames arriving within CoalesceWindow are delivered as one
	// batch. Batches above LargeBatch yield the processor first.
	CoalesceWindow time.Duration
	LargeBatch     int

	AuthRetryInterval time.Duration

	// Heartbeat is the ping period. The peer must answer within twice
	// this period.
	Heartbeat time.Duration

	Dialer *websocket.Dialer
	Log    slog.Logger
}

func (c Config) withDefaults() Config {
	if c.BaseDelay <= 0 {
		c.BaseDelay = DefaultBaseDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = DefaultMaxDelay
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.CoalesceWindow <= 0 {
		c.CoalesceWindow = DefaultCoalesceWindow
	}
	if c.LargeBatch <= 0 {
		c.LargeBatch = DefaultLargeBatch
	}
	if c.AuthRetryInterval <= 0 {
		c.AuthRetryInterval = DefaultAuthRetryInterval
	}
	if c.Heartbeat <= 0 {
		c.Heartbeat = DefaultHeartbeat
	}
	if c.Dialer == nil {
		c.Dialer = websocket.DefaultDialer
	}
	if c.Log == nil {
		c.Log = slog.Disabled
	}
	return c
}

// Backoff returns the delay before retry number attempt+1.
func Backoff(attempt int, base, max time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt >= 62 {
		return max
	}
	d := base << uint(attempt)
	if d <= 0 || d>>uint(attempt) != base || d > max {
		return max
	}
	return d
}
