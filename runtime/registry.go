package runtime

import (
	"direct-chat/contract"
	"direct-chat/domain"
	"sync"
)

// Registry tracks which users hold a live connection.
// A user has at most one connection, the most recent one wins.
type Registry struct {
	mu          sync.RWMutex
	connections map[domain.UserID]contract.Connection
}

func NewRegistry() *Registry {
	return &Registry{connections: make(map[domain.UserID]contract.Connection)}
}

// Connect records conn as the live connection of userID and returns
// the connection it replaced, if any. The caller owns closing it.
func (r *Registry) Connect(userID domain.UserID, conn contract.Connection) contract.Connection {
	r.mu.Lock()
	defer r.mu.Unlock()

	replaced := r.connections[userID]
	r.connections[userID] = conn
	if replaced == conn {
		return nil
	}
	return replaced
}

// Disconnect removes the entry only while conn is still the current one,
// so a late disconnect of a replaced connection cannot evict its successor.
func (r *Registry) Disconnect(userID domain.UserID, conn contract.Connection) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.connections[userID]
	if !ok || current != conn {
		return false
	}
	delete(r.connections, userID)
	return true
}

func (r *Registry) Lookup(userID domain.UserID) (contract.Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.connections[userID]
	return conn, ok
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.connections)
}

// Online lists the users currently connected, in no particular order.
func (r *Registry) Online() []domain.UserID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]domain.UserID, 0, len(r.connections))
	for userID := range r.connections {
		users = append(users, userID)
	}
	return users
}
