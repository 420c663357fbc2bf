package ws

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// Conn is the part of *websocket.Conn the hub writes to
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one websocket connection. Writes are serialized because the
// session stream and hub notifications share the connection.
type Client struct {
	conn    Conn
	mu      sync.Mutex
	storeID string
}

func NewClient(conn Conn) *Client {
	return &Client{conn: conn}
}

// Send writes one text frame
func (c *Client) Send(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

// SetStore changes the store whose notifications the client receives
func (c *Client) SetStore(storeID string) {
	c.mu.Lock()
	c.storeID = storeID
	c.mu.Unlock()
}

func (c *Client) Store() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.storeID
}

type storeMessage struct {
	storeID string
	data    []byte
}

type Hub struct {
	Clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	toStore    chan storeMessage
	done       chan struct{}
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		toStore:    make(chan storeMessage, 64),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mutex.Lock()
			h.Clients[client] = true
			h.mutex.Unlock()
			log.Println("New WS Client Connected")

		case client := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				client.conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.toStore:
			h.deliver(message.storeID, message.data)

		case <-h.done:
			return
		}
	}
}

func (h *Hub) deliver(storeID string, message []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for client := range h.Clients {
		if client.Store() != storeID {
			continue
		}
		if err := client.Send(message); err != nil {
			client.conn.Close()
			delete(h.Clients, client)
		}
	}
}

// Join registers c. After Stop it returns without registering.
func (h *Hub) Join(c *Client) {
	select {
	case h.Register <- c:
	case <-h.done:
	}
}

// Leave unregisters and closes c. After Stop the connection is closed
// directly so callers never block on a hub that no longer runs.
func (h *Hub) Leave(c *Client) {
	select {
	case h.Unregister <- c:
	case <-h.done:
		c.conn.Close()
	}
}

// SendToStore queues message for every client scoped to storeID
func (h *Hub) SendToStore(storeID string, message []byte) {
	select {
	case h.toStore <- storeMessage{storeID: storeID, data: message}:
	case <-h.done:
	}
}

// Count returns the number of registered clients
func (h *Hub) Count() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

// Stop ends Run
func (h *Hub) Stop() {
	close(h.done)
}
