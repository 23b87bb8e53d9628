package presence

import (
	"sync"
	"time"
)

// Connection is one live websocket attachment for a user.
type Connection struct {
	ID          string
	UserID      string
	Role        string
	ConnectedAt time.Time
}

// Registry tracks which users currently hold a live connection. It replaces
// a process-wide singleton map: main owns the instance and hands it to the
// handler, so lifecycle (register on connect, deregister on disconnect) is
// explicit and testable.
type Registry struct {
	mu          sync.RWMutex
	connections map[string]Connection // connection id -> connection
	byUser      map[string]int        // user id -> live connection count
}

func NewRegistry() *Registry {
	return &Registry{
		connections: make(map[string]Connection),
		byUser:      make(map[string]int),
	}
}

// Register records a new connection.
func (r *Registry) Register(conn Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connections[conn.ID] = conn
	r.byUser[conn.UserID]++
}

// Deregister drops a connection by id. Unknown ids are a no-op, so a
// handler can defer this unconditionally.
func (r *Registry) Deregister(connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.connections[connectionID]
	if !ok {
		return
	}
	delete(r.connections, connectionID)

	if r.byUser[conn.UserID] <= 1 {
		delete(r.byUser, conn.UserID)
	} else {
		r.byUser[conn.UserID]--
	}
}

// IsOnline reports whether the user has at least one live connection.
func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byUser[userID] > 0
}

// OnlineUsers returns the ids of all users with a live connection.
func (r *Registry) OnlineUsers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]string, 0, len(r.byUser))
	for userID := range r.byUser {
		users = append(users, userID)
	}
	return users
}

// Count returns the number of live connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.connections)
}
