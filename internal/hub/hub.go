package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"artfoundation/internal/model"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

type PaymentStatusEvent struct {
	Type           string     `json:"type"`
	PaymentID      string     `json:"payment_id"`
	RegistrationID string     `json:"registration_id,omitempty"`
	Status         string     `json:"status"`
	PaymentDate    *time.Time `json:"payment_date,omitempty"`
}

// Hub fans payment status changes out to every connected websocket client.
// Connections are owned by the Run loop.
type Hub struct {
	upgrader   websocket.Upgrader
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	count      atomic.Int64
	log        *zerolog.Logger
}

func New(log *zerolog.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		log:        log,
	}
}

func (h *Hub) Clients() int {
	return int(h.count.Load())
}

func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for client := range h.clients {
				h.drop(client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			h.count.Store(int64(len(h.clients)))
			h.log.Debug().Int("clients", len(h.clients)).Msg("websocket client connected")

		case client := <-h.unregister:
			if h.clients[client] {
				h.drop(client)
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				_ = client.SetWriteDeadline(time.Now().Add(writeWait))
				if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
					h.log.Debug().Err(err).Msg("dropping websocket client after failed write")
					h.drop(client)
				}
			}

		case <-ticker.C:
			for client := range h.clients {
				if err := client.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					h.drop(client)
				}
			}
		}
	}
}

func (h *Hub) drop(client *websocket.Conn) {
	delete(h.clients, client)
	h.count.Store(int64(len(h.clients)))
	_ = client.Close()
}

// PaymentStatusChanged never blocks the caller; events are dropped when the
// broadcast buffer is full.
func (h *Hub) PaymentStatusChanged(p *model.Payment) {
	data, err := json.Marshal(PaymentStatusEvent{
		Type:           "payment_status",
		PaymentID:      p.PaymentID,
		RegistrationID: p.RegistrationID,
		Status:         p.PaymentStatus,
		PaymentDate:    p.PaymentDate,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("failed to encode payment status event")
		return
	}

	select {
	case h.broadcast <- data:
	default:
		h.log.Warn().Str("payment_id", p.PaymentID).Msg("broadcast buffer full, payment status event dropped")
	}
}

func (h *Hub) ServeWS(c *ginext.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	select {
	case h.register <- conn:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go func() {
		defer func() {
			select {
			case h.unregister <- conn:
			case <-h.done:
			}
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					h.log.Debug().Err(err).Msg("websocket closed unexpectedly")
				}
				return
			}
		}
	}()
}
