package session

import (
	"fmt"
	"sync"

	"github.com/benbeisheim/chessmate-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

// Conn is the part of a websocket connection a game writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// LockedConn serializes writes to a socket, which accepts one writer at a time.
// Every writer of a socket must go through the same LockedConn. Close is not
// serialized and may interrupt a blocked write.
type LockedConn struct {
	conn Conn
	mu   sync.Mutex
}

// NewLockedConn wraps conn. A conn that is already a *LockedConn is returned as is.
func NewLockedConn(conn Conn) *LockedConn {
	if locked, ok := conn.(*LockedConn); ok {
		return locked
	}
	return &LockedConn{conn: conn}
}

func (l *LockedConn) WriteJSON(v interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn.WriteJSON(v)
}

func (l *LockedConn) WriteMessage(messageType int, data []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn.WriteMessage(messageType, data)
}

func (l *LockedConn) Close() error {
	return l.conn.Close()
}

// wraps reports whether conn is l or the socket l guards.
func (l *LockedConn) wraps(conn Conn) bool {
	return Conn(l) == conn || l.conn == conn
}

// Connections holds the live sockets of one game, keyed by player id. Sockets
// are stored behind a LockedConn so broadcasts from different goroutines never
// write to one socket at the same time.
type Connections struct {
	connections map[string]*LockedConn
	mu          sync.RWMutex
}

func NewConnections() *Connections {
	return &Connections{
		connections: make(map[string]*LockedConn),
	}
}

// Register adds conn for playerID. A second socket for the same player is closed and
// rejected; the existing one is kept. It reports whether conn was registered.
func (c *Connections) Register(playerID string, conn Conn) bool {
	locked := NewLockedConn(conn)

	c.mu.Lock()
	if _, exists := c.connections[playerID]; exists {
		c.mu.Unlock()
		locked.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
		)
		locked.Close()
		return false
	}
	c.connections[playerID] = locked
	c.mu.Unlock()

	log.Debugw("registered connection", "player", playerID, "conn", fmt.Sprintf("%p", conn))
	return true
}

// Unregister removes playerID's socket if it is still conn, given either as the
// registered socket or its LockedConn.
func (c *Connections) Unregister(playerID string, conn Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if current, exists := c.connections[playerID]; exists && current.wraps(conn) {
		delete(c.connections, playerID)
		log.Debugw("unregistered connection", "player", playerID)
	}
}

func (c *Connections) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.connections)
}

// Broadcast sends msg to every socket and drops the ones that fail.
func (c *Connections) Broadcast(msg ws.Message) {
	c.mu.RLock()
	active := make(map[string]*LockedConn, len(c.connections))
	for playerID, conn := range c.connections {
		active[playerID] = conn
	}
	c.mu.RUnlock()

	for playerID, conn := range active {
		if err := conn.WriteJSON(msg); err != nil {
			log.Warnw("failed to send message", "player", playerID, "type", msg.Type, "error", err)
			c.Unregister(playerID, conn)
		}
	}
}
