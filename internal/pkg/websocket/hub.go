package websocket

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// Event names pushed to subscribers.
const (
	EventCourseUpdated = "courseUpdated"
)

// courseUpdatedEvent is pushed to a course group on every successful
// reservation.
type courseUpdatedEvent struct {
	Event          string `json:"event"`
	CourseID       string `json:"courseId"`
	SeatsAvailable int    `json:"seatsAvailable"`
}

// globalEvent is pushed to every connected client regardless of group.
type globalEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// StatisticsFunc supplies the payload for an on-demand statistics push.
type StatisticsFunc func() (interface{}, error)

// Hub maintains the set of connected clients and their course subscriber
// groups, and fans change events out to them. Delivery is best-effort,
// at-most-once per subscriber per publish; a client whose send buffer is full
// is dropped.
//
// The registry is shared process-wide state mutated on connect, join and
// disconnect, so every access goes through the mutex.
type Hub struct {
	// All connected clients, targets of global publishes
	clients map[*Client]bool

	// Clients organized by course code
	groups map[string]map[*Client]bool

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for concurrent access to the registry
	mu sync.RWMutex

	// statistics supplies the courseStatisticsUpdate payload on client request
	statistics StatisticsFunc

	// Logger for Hub operations
	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		groups:     make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// SetStatisticsFunc installs the statistics supplier used to answer client
// statistics requests. Must be called before Run.
func (h *Hub) SetStatisticsFunc(fn StatisticsFunc) {
	h.statistics = fn
}

// Run starts the hub, handling client registrations and disconnects.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

// registerClient adds a new connection to the hub. The client joins a course
// group later, via a join message.
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true

	h.logger.Info().
		Int("clientCount", len(h.clients)).
		Msg("Client registered")
}

// unregisterClient removes a client from the hub and from its course group.
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}

	delete(h.clients, client)
	h.leaveGroupLocked(client)
	close(client.send)

	h.logger.Info().
		Int("clientCount", len(h.clients)).
		Msg("Client unregistered")
}

// JoinCourse subscribes the client to a course group, leaving any previous
// group first. A client belongs to at most one group at a time.
func (h *Hub) JoinCourse(client *Client, courseCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}

	h.leaveGroupLocked(client)

	if _, ok := h.groups[courseCode]; !ok {
		h.groups[courseCode] = make(map[*Client]bool)
	}
	h.groups[courseCode][client] = true
	client.courseCode = courseCode

	h.logger.Debug().
		Str("courseCode", courseCode).
		Int("groupSize", len(h.groups[courseCode])).
		Msg("Client joined course group")
}

// leaveGroupLocked removes the client from its current group. Caller holds mu.
func (h *Hub) leaveGroupLocked(client *Client) {
	if client.courseCode == "" {
		return
	}

	if group, ok := h.groups[client.courseCode]; ok {
		delete(group, client)
		if len(group) == 0 {
			delete(h.groups, client.courseCode)
		}
	}
	client.courseCode = ""
}

// PublishCourseUpdate delivers the new seat count to every subscriber of the
// course group, at most once each.
func (h *Hub) PublishCourseUpdate(courseCode string, seatsAvailable int) {
	data, err := json.Marshal(courseUpdatedEvent{
		Event:          EventCourseUpdated,
		CourseID:       courseCode,
		SeatsAvailable: seatsAvailable,
	})
	if err != nil {
		h.logger.Error().Err(err).Str("courseCode", courseCode).Msg("Failed to marshal course update")
		return
	}

	h.mu.RLock()
	group, ok := h.groups[courseCode]
	if !ok {
		h.mu.RUnlock()
		h.logger.Debug().Str("courseCode", courseCode).Msg("No subscribers for course update")
		return
	}

	subscribers := len(group)
	slow := h.sendToAll(group, data)
	h.mu.RUnlock()

	h.dropSlow(slow)

	h.logger.Debug().
		Str("courseCode", courseCode).
		Int("subscribers", subscribers).
		Msg("Course update published")
}

// PublishGlobal delivers a named event to every connected client.
func (h *Hub) PublishGlobal(event string, payload interface{}) {
	data, err := json.Marshal(globalEvent{Event: event, Data: payload})
	if err != nil {
		h.logger.Error().Err(err).Str("event", event).Msg("Failed to marshal global event")
		return
	}

	h.mu.RLock()
	slow := h.sendToAll(h.clients, data)
	h.mu.RUnlock()

	h.dropSlow(slow)
}

// sendToAll pushes data to each client's send buffer without blocking and
// returns the clients whose buffers were full. Caller holds mu (read).
func (h *Hub) sendToAll(clients map[*Client]bool, data []byte) []*Client {
	var slow []*Client
	for client := range clients {
		select {
		case client.send <- data:
		default:
			slow = append(slow, client)
		}
	}
	return slow
}

// dropSlow disconnects clients that could not keep up.
func (h *Hub) dropSlow(clients []*Client) {
	for _, client := range clients {
		h.logger.Warn().Msg("Dropping slow subscriber")
		go func(c *Client) { h.unregister <- c }(client)
	}
}

// sendStatistics answers one client's statistics request.
func (h *Hub) sendStatistics(client *Client) {
	if h.statistics == nil {
		return
	}

	payload, err := h.statistics()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to compute statistics for subscriber")
		return
	}

	data, err := json.Marshal(globalEvent{Event: "courseStatisticsUpdate", Data: payload})
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal statistics event")
		return
	}

	select {
	case client.send <- data:
	default:
		h.dropSlow([]*Client{client})
	}
}

// GroupSize returns the number of subscribers in a course group.
func (h *Hub) GroupSize(courseCode string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if group, ok := h.groups[courseCode]; ok {
		return len(group)
	}
	return 0
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
