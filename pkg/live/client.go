package live

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bindkit-dev/bindkit/pkg/wire"
)

// client is one WebSocket connection. Outbound frames go through send;
// the write pump owns all writes to the connection.
type client struct {
	server *Server
	conn   *websocket.Conn
	send   chan []byte

	done      chan struct{}
	closeOnce sync.Once
}

// close tears the connection down. Safe to call from any goroutine.
func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
		c.server.remove(c)
	})
}

// readPump reads frames until the connection fails or closes.
func (c *client) readPump() {
	defer c.close()

	cfg := c.server.cfg
	c.conn.SetReadLimit(cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.server.logger.Error("read error", "error", err)
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))

		frame, err := wire.DecodeFrame(msg)
		if err != nil {
			c.server.logger.Error("frame decode error", "error", err)
			continue
		}

		switch frame.Type {
		case wire.FrameEvent:
			c.handleEventFrame(frame.Payload)
		case wire.FrameControl, wire.FrameHello:
			// Nothing to do: liveness runs on ping/pong.
		default:
			c.server.logger.Warn("unexpected frame type", "type", frame.Type)
		}
	}
}

// handleEventFrame decodes a host event and hands it to the application.
func (c *client) handleEventFrame(payload []byte) {
	ev, err := wire.DecodeEvent(payload)
	if err != nil {
		c.server.logger.Error("event decode error", "error", err)
		return
	}
	if c.server.onEvent == nil {
		c.server.logger.Warn("event dropped, no handler registered",
			"region", ev.Region, "key", ev.Key, "event", ev.Name)
		return
	}
	c.server.onEvent(ev)
}

// writePump delivers queued frames and heartbeats.
func (c *client) writePump() {
	cfg := c.server.cfg
	ticker := time.NewTicker(cfg.HeartbeatInterval)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
