package in

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"bodysense/internal/modules/session/dto"
	sessionin "bodysense/internal/modules/session/port/in"
	"bodysense/internal/platform/clock"
	"bodysense/internal/platform/logging"
)

const (
	pingInterval  = 30 * time.Second
	readDeadline  = 60 * time.Second
	writeDeadline = 10 * time.Second
	sendBuffer    = 64
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub serves one session to any number of websocket clients. Run is the
// only goroutine that touches the session or the client set: it ticks,
// applies client commands in arrival order and broadcasts the results.
type Hub struct {
	usecase  sessionin.Usecase
	clock    clock.Clock
	interval time.Duration
	logger   *logging.Logger

	register   chan *client
	unregister chan *client
	commands   chan command
	done       chan struct{}

	clients      map[*client]struct{}
	lastSnapshot []byte
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

type command struct {
	client *client
	raw    []byte
}

func NewHub(usecase sessionin.Usecase, clk clock.Clock, interval time.Duration, logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Hub{
		usecase:    usecase,
		clock:      clk,
		interval:   interval,
		logger:     logger.WithComponent("hub"),
		register:   make(chan *client),
		unregister: make(chan *client),
		commands:   make(chan command, sendBuffer),
		done:       make(chan struct{}),
		clients:    make(map[*client]struct{}),
	}
}

func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.handleWebSocket)
	mux.HandleFunc("GET /snapshot", h.handleSnapshot)
	return mux
}

// Run blocks until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	ticker := h.clock.NewTicker(h.interval)
	defer ticker.Stop()
	defer func() {
		for c := range h.clients {
			delete(h.clients, c)
			close(c.send)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.logger.Debug("client connected", "clients", len(h.clients))
			if frame, err := h.frame(TypeSnapshot, h.usecase.Snapshot(ctx)); err == nil {
				h.sendTo(c, frame)
			}
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.logger.Debug("client disconnected", "clients", len(h.clients))
			}
		case cmd := <-h.commands:
			h.apply(ctx, cmd)
		case <-ticker.Chan():
			out := h.usecase.Tick(ctx)
			for _, tr := range out.Transitions {
				h.broadcast(TypeTransition, tr)
			}
			h.broadcastSnapshot(out.Snapshot)
		}
	}
}

func (h *Hub) apply(ctx context.Context, cmd command) {
	msg := Message{}
	if err := json.Unmarshal(cmd.raw, &msg); err != nil {
		h.reject(cmd.client, ErrInvalidMessage, "message is not valid JSON")
		return
	}
	var result dto.Result
	switch msg.Type {
	case TypeStart:
		result = h.usecase.Start(ctx)
	case TypeTogglePause:
		result = h.usecase.TogglePause(ctx)
	case TypeSkipAutoStart:
		result = h.usecase.SkipAutoStart(ctx)
	case TypeReset:
		result = h.usecase.Reset(ctx)
	case TypeChangeExercise:
		input := dto.ChangeExerciseInput{}
		if err := json.Unmarshal(msg.Payload, &input); err != nil {
			h.reject(cmd.client, ErrInvalidMessage, "changeExercise needs {\"index\": n}")
			return
		}
		result = h.usecase.ChangeExercise(ctx, input)
	case TypeChangeImageSide:
		input := dto.ChangeImageSideInput{}
		if err := json.Unmarshal(msg.Payload, &input); err != nil {
			h.reject(cmd.client, ErrInvalidMessage, "changeImageSide needs {\"side\": n}")
			return
		}
		result = h.usecase.ChangeImageSide(ctx, input)
	default:
		h.reject(cmd.client, ErrUnknownType, fmt.Sprintf("unknown message type %q", msg.Type))
		return
	}
	h.logger.Debug("command", "type", msg.Type, "applied", result.Applied)
	h.broadcastSnapshot(result.Snapshot)
}

func (h *Hub) reject(c *client, code, message string) {
	frame, err := h.frame(TypeError, ErrorPayload{Code: code, Message: message})
	if err != nil {
		return
	}
	h.sendTo(c, frame)
}

// broadcastSnapshot skips snapshots identical to the last one sent.
func (h *Hub) broadcastSnapshot(snap dto.Snapshot) {
	payload, err := json.Marshal(snap)
	if err != nil {
		h.logger.Error("encode snapshot", "error", err.Error())
		return
	}
	if bytes.Equal(payload, h.lastSnapshot) {
		return
	}
	h.lastSnapshot = payload
	h.broadcast(TypeSnapshot, json.RawMessage(payload))
}

func (h *Hub) broadcast(msgType string, payload any) {
	frame, err := h.frame(msgType, payload)
	if err != nil {
		h.logger.Error("encode frame", "type", msgType, "error", err.Error())
		return
	}
	for c := range h.clients {
		h.sendTo(c, frame)
	}
}

// sendTo never blocks the loop; a client that cannot keep up misses frames.
func (h *Hub) sendTo(c *client, frame []byte) {
	select {
	case c.send <- frame:
	default:
		h.logger.Warn("client send buffer full, dropping frame")
	}
}

func (h *Hub) frame(msgType string, payload any) ([]byte, error) {
	msg, err := NewMessage(msgType, payload, h.clock.Now())
	if err != nil {
		return nil, err
	}
	return json.Marshal(msg)
}

func (h *Hub) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.usecase.Snapshot(r.Context())); err != nil {
		h.logger.Warn("write snapshot response", "error", err.Error())
	}
}

func (h *Hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	select {
	case <-h.done:
		http.Error(w, "session host stopped", http.StatusServiceUnavailable)
		return
	default:
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err.Error())
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}
	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	})
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed", "error", err.Error())
			}
			return
		}
		select {
		case h.commands <- command{client: c, raw: raw}:
		case <-h.done:
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ping := time.NewTicker(pingInterval)
	defer func() {
		ping.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ping.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
