package web

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/games/snake/engine"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 1 << 10
	sendQueueSize  = 64
	inboxSize      = 16
)

// client plays one game over one WebSocket connection.
//
// The play loop is the only goroutine that touches the game. The read pump
// forwards decoded messages to it and the write pump drains the send queue.
type client struct {
	ws     *websocket.Conn
	game   *snake.Game
	theme  snake.Theme
	logger *log.Logger

	send       chan []byte
	inbox      chan InputMessage
	readerDone chan struct{}
	stopped    chan struct{}

	frame core.InputFrame
}

func newClient(ws *websocket.Conn, game *snake.Game, theme snake.Theme, logger *log.Logger) *client {
	return &client{
		ws:         ws,
		game:       game,
		theme:      theme,
		logger:     logger,
		send:       make(chan []byte, sendQueueSize),
		inbox:      make(chan InputMessage, inboxSize),
		readerDone: make(chan struct{}),
		stopped:    make(chan struct{}),
		frame:      core.NewInputFrame(),
	}
}

// enqueue queues a frame without blocking; a full queue drops it.
func (c *client) enqueue(f Frame) {
	b, err := json.Marshal(f)
	if err != nil {
		c.logger.Error("cannot encode frame", "type", f.Type, "error", err)
		return
	}
	select {
	case c.send <- b:
	default:
		c.logger.Debug("send queue full, frame dropped", "type", f.Type)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) readPump() {
	defer close(c.readerDone)

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Debug("read failed", "error", err)
			}
			return
		}
		// Malformed payloads reach the play loop as an empty message and
		// are answered with an error frame there.
		var msg InputMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			msg = InputMessage{}
		}
		select {
		case c.inbox <- msg:
		case <-c.stopped:
			return
		}
	}
}

// run drives the game until the connection or the server goes away.
func (c *client) run(ctx context.Context) {
	defer func() {
		close(c.stopped)
		close(c.send)
	}()

	ticker := time.NewTicker(c.game.TickInterval())
	defer ticker.Stop()

	snap := c.game.Snapshot()
	c.enqueue(Frame{
		Type:      FrameHello,
		Width:     snap.Width,
		Height:    snap.Height,
		HighScore: snap.HighScore,
		TopScores: scoreRows(snap.TopScores),
		Theme:     themeColors(c.theme),
	})
	c.enqueue(snapshotFrame(c.game))

	for {
		select {
		case <-ctx.Done():
			c.abandon()
			return
		case <-c.readerDone:
			c.abandon()
			return
		case msg := <-c.inbox:
			c.apply(msg)
		case <-ticker.C:
			c.game.Step(c.frame)
			c.frame.Clear()
			c.enqueue(snapshotFrame(c.game))
		}
	}
}

// apply queues a control message for the next tick. Initials are entered
// immediately.
func (c *client) apply(msg InputMessage) {
	if msg.Type == MsgFinish {
		c.finish(msg.Initials)
		return
	}
	action, err := actionFor(msg)
	if err != nil {
		c.logger.Debug("rejected message", "type", msg.Type, "error", err)
		c.enqueueError(err.Error())
		return
	}
	c.frame.Set(action)
}

func (c *client) finish(initials string) {
	res, err := c.game.Finish(initials)
	switch {
	case errors.Is(err, engine.ErrInvalidInitials):
		c.enqueueError("initials must be 3 characters")
		return
	case err != nil:
		c.enqueueError(err.Error())
		return
	}

	c.enqueue(Frame{
		Type:      FrameSaved,
		Rank:      res.Rank,
		Score:     c.game.Snapshot().Score,
		TopScores: scoreRows(c.game.Snapshot().TopScores),
	})
	if res.SaveErr != nil && !errors.Is(res.SaveErr, engine.ErrNoStore) {
		c.enqueueError("high score not saved")
	}
	c.enqueue(snapshotFrame(c.game))
}

// abandon ends a running game when its player leaves so the run is recorded.
func (c *client) abandon() {
	if c.game.Phase() != engine.StatePlaying {
		return
	}
	frame := core.NewInputFrame()
	frame.Set(core.ActionBack)
	c.game.Step(frame)
}

func (c *client) enqueueError(msg string) {
	c.enqueue(Frame{Type: FrameError, Error: msg})
}
