// Package hub fans real-time events out to connected dashboard clients over
// WebSocket. Every event goes to every client; there is no per-user routing.
package hub

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Event names pushed to dashboard clients.
const (
	EventNewReport          = "new_report"
	EventReportUpdate       = "report_update"
	EventEmergencyAlert     = "emergency_alert"
	EventThreatLevelChange  = "threat_level_change"
	EventSystemNotification = "system_notification"
)

// Envelope is the wire format for every pushed event.
type Envelope struct {
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

// Hub maintains the set of active clients and broadcasts events to them.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	clientCount  atomic.Int64
	totalSent    atomic.Int64
	totalDropped atomic.Int64

	log  *zap.SugaredLogger
	done chan struct{}
	stop chan struct{}
}

func New(logger *zap.SugaredLogger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 16),
		unregister: make(chan *Client, 16),
		broadcast:  make(chan []byte, 256),
		log:        logger,
		done:       make(chan struct{}),
		stop:       make(chan struct{}),
	}
}

// Run is the hub's main loop. It owns the clients map; all mutation happens
// here.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			for client := range h.clients {
				close(client.send)
			}
			h.clients = make(map[*Client]bool)
			h.clientCount.Store(0)
			return

		case client := <-h.register:
			h.clients[client] = true
			h.clientCount.Store(int64(len(h.clients)))
			h.log.Infof("dashboard client connected (total: %d)", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.clientCount.Store(int64(len(h.clients)))
				h.log.Infof("dashboard client disconnected (total: %d)", len(h.clients))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
					h.totalSent.Add(1)
				default:
					// Slow client, drop it rather than block the loop.
					delete(h.clients, client)
					close(client.send)
					h.clientCount.Store(int64(len(h.clients)))
					h.totalDropped.Add(1)
					h.log.Warnf("dropped slow dashboard client")
				}
			}
		}
	}
}

// Publish wraps data in an event envelope and queues it for broadcast.
// Events are dropped when the broadcast queue is full.
func (h *Hub) Publish(event string, data interface{}) {
	payload, err := json.Marshal(Envelope{
		Event:     event,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		h.log.Errorf("failed to marshal %s event: %v", event, err)
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		h.totalDropped.Add(1)
		h.log.Warnf("broadcast queue full, dropped %s event", event)
	}
}

// Stats reports lifetime delivery counters.
func (h *Hub) Stats() (sent, dropped int64) {
	return h.totalSent.Load(), h.totalDropped.Load()
}

// ClientCount reports the number of attached clients.
func (h *Hub) ClientCount() int {
	return int(h.clientCount.Load())
}

// Shutdown stops the run loop and closes every client send channel.
func (h *Hub) Shutdown(timeout time.Duration) error {
	close(h.stop)
	select {
	case <-h.done:
		return nil
	case <-time.After(timeout):
		return errShutdownTimeout
	}
}
