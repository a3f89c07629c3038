package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go-cart-catalog/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Event actions pushed to dashboard clients.
const (
	ActionProductCreated = "product_created"
	ActionProductUpdated = "product_updated"
	ActionProductDeleted = "product_deleted"
	ActionProductAdded   = "product_added_to_cart"
	ActionProductRemoved = "product_removed_from_cart"
	ActionRestocked      = "product_restocked"
)

// Event is the stock_update payload every client receives.
type Event struct {
	Type    string        `json:"type"`
	Action  string        `json:"action"`
	Product *ProductState `json:"product,omitempty"`
	CartID  uint          `json:"cart_id,omitempty"`
	Message string        `json:"message"`
}

type ProductState struct {
	ID       uint            `json:"id"`
	Name     string          `json:"name"`
	OldStock int             `json:"old_stock"`
	NewStock int             `json:"new_stock"`
	Price    decimal.Decimal `json:"price"`
}

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
	log        *logger.Logger
	// done is closed once Run stops reading the channels above.
	done chan struct{}
}

func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte),
		log:        log,
		done:       make(chan struct{}),
	}
}

// Run serves register, unregister and broadcast until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.Clients {
				conn.Close()
				delete(h.Clients, conn)
			}
			h.mutex.Unlock()
			return

		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			h.log.Debug(ctx, "websocket client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Publish queues event for broadcast without waiting on the hub loop.
func (h *Hub) Publish(ctx context.Context, event Event) {
	if event.Type == "" {
		event.Type = "stock_update"
	}
	msg, err := json.Marshal(event)
	if err != nil {
		h.log.Error(ctx, "encode websocket event", err)
		return
	}
	go func() {
		select {
		case h.Broadcast <- msg:
		case <-h.done:
		case <-time.After(5 * time.Second):
			h.log.Warn(context.Background(), "websocket broadcast dropped")
		}
	}()
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

// register hands c to the hub loop; false once the hub has stopped.
func (h *Hub) register(c *websocket.Conn) bool {
	select {
	case h.Register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregister(c *websocket.Conn) {
	select {
	case h.Unregister <- c:
	case <-h.done:
	}
}

// Upgrade rejects plain HTTP requests on the websocket route.
func Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return c.SendStatus(fiber.StatusUpgradeRequired)
}

// Handler keeps a client registered until it stops reading.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		if !h.register(c) {
			return
		}
		defer h.unregister(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	})
}
