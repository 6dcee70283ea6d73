package live

import (
	"net/http"
	"time"
)

// Config holds the live server's network configuration.
type Config struct {
	// Address is the listen address (e.g. ":8080").
	// Default: ":8080".
	Address string

	// ReadTimeout is the maximum time to wait for a client message.
	// Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a message.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// HeartbeatInterval is the time between WebSocket pings.
	// Default: 30 seconds.
	HeartbeatInterval time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration

	// MaxMessageSize caps incoming WebSocket messages.
	// Default: 64KB.
	MaxMessageSize int64

	// SendBuffer is the per-client outbound queue length. A client that
	// falls this far behind is disconnected.
	// Default: 64.
	SendBuffer int

	// ReadBufferSize and WriteBufferSize size the WebSocket buffers.
	// Default: 4096 each.
	ReadBufferSize  int
	WriteBufferSize int

	// CheckOrigin validates the WebSocket upgrade origin.
	// Default: same-origin only.
	CheckOrigin func(*http.Request) bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":8080",
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		MaxMessageSize:    64 * 1024,
		SendBuffer:        64,
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	if c == nil {
		return DefaultConfig()
	}
	out := *c
	defaults := DefaultConfig()
	if out.Address == "" {
		out.Address = defaults.Address
	}
	if out.ReadTimeout == 0 {
		out.ReadTimeout = defaults.ReadTimeout
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = defaults.WriteTimeout
	}
	if out.HeartbeatInterval == 0 {
		out.HeartbeatInterval = defaults.HeartbeatInterval
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if out.MaxMessageSize == 0 {
		out.MaxMessageSize = defaults.MaxMessageSize
	}
	if out.SendBuffer == 0 {
		out.SendBuffer = defaults.SendBuffer
	}
	if out.ReadBufferSize == 0 {
		out.ReadBufferSize = defaults.ReadBufferSize
	}
	if out.WriteBufferSize == 0 {
		out.WriteBufferSize = defaults.WriteBufferSize
	}
	return &out
}
