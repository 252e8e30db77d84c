// Package realtime keeps the per-board and per-user rooms and fans events out
// to every connection currently subscribed. The room table is in-process and
// ephemeral: it holds no authoritative state and is rebuilt by clients
// rejoining after a restart. Delivery is at-most-once with no replay; a client
// that missed events re-fetches canonical state on its next join.
package realtime

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"
)

// ErrAccessDenied is returned by JoinBoard when the guard rejects the user.
var ErrAccessDenied = errors.New("access denied")

// AccessGuard decides whether a user may subscribe to a board room. It is
// consulted on every join attempt, never cached, since membership can be
// revoked between requests.
type AccessGuard interface {
	CanAccessBoard(ctx context.Context, boardID, userID int64) (bool, error)
}

// Conn is one registered client connection. Events() feeds the transport
// writer; the hub never writes to the socket itself.
type Conn struct {
	id     string
	userID int64
	send   chan Event

	mu     sync.Mutex
	boards map[int64]struct{}
}

func (c *Conn) ID() string { return c.id }

func (c *Conn) UserID() int64 { return c.userID }

func (c *Conn) Events() <-chan Event { return c.send }

func (c *Conn) inBoard(boardID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.boards[boardID]
	return ok
}

// Hub is the single in-process broadcaster. It is constructed once at startup
// and injected into every mutation handler; there is no package-level instance.
type Hub struct {
	guard  AccessGuard
	buffer int

	mu     sync.Mutex
	conns  map[string]*Conn
	boards map[int64]map[string]*Conn
	users  map[int64]map[string]*Conn
}

func NewHub(guard AccessGuard, sendBuffer int) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = 64
	}
	return &Hub{
		guard:  guard,
		buffer: sendBuffer,
		conns:  make(map[string]*Conn),
		boards: make(map[int64]map[string]*Conn),
		users:  make(map[int64]map[string]*Conn),
	}
}

// Register creates a connection for an authenticated user and subscribes it to
// the user's identity room.
func (h *Hub) Register(userID int64) *Conn {
	conn := &Conn{
		id:     uuid.New().String(),
		userID: userID,
		send:   make(chan Event, h.buffer),
		boards: make(map[int64]struct{}),
	}

	h.mu.Lock()
	h.conns[conn.id] = conn
	room, ok := h.users[userID]
	if !ok {
		room = make(map[string]*Conn)
		h.users[userID] = room
	}
	room[conn.id] = conn
	h.mu.Unlock()

	return conn
}

// Unregister drops the connection from every room and closes its event channel.
func (h *Hub) Unregister(conn *Conn) {
	h.mu.Lock()
	if _, ok := h.conns[conn.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.conns, conn.id)
	for boardID := range conn.boards {
		h.removeFromBoardLocked(boardID, conn)
	}
	if room, ok := h.users[conn.userID]; ok {
		delete(room, conn.id)
		if len(room) == 0 {
			delete(h.users, conn.userID)
		}
	}
	close(conn.send)
	h.mu.Unlock()
}

// JoinBoard subscribes the connection to a board room. The guard runs first,
// on every attempt; on denial the requester alone gets a directed
// access_denied plus kicked_from_board and no room membership is created.
//
// The guard is consulted again after the room insert: a revocation that
// commits during the first guard query fires its eviction before the
// connection is in the room, so without the re-check the revoked user would
// slip in and keep receiving board events.
func (h *Hub) JoinBoard(ctx context.Context, conn *Conn, boardID int64) error {
	ok, err := h.guard.CanAccessBoard(ctx, boardID, conn.userID)
	if err != nil {
		return err
	}
	if !ok {
		h.denyJoin(conn, boardID)
		return ErrAccessDenied
	}

	h.mu.Lock()
	if _, still := h.conns[conn.id]; still {
		room, ok := h.boards[boardID]
		if !ok {
			room = make(map[string]*Conn)
			h.boards[boardID] = room
		}
		room[conn.id] = conn
		conn.mu.Lock()
		conn.boards[boardID] = struct{}{}
		conn.mu.Unlock()
	}
	h.mu.Unlock()

	ok, err = h.guard.CanAccessBoard(ctx, boardID, conn.userID)
	if err != nil {
		h.LeaveBoard(conn, boardID)
		return err
	}
	if !ok {
		h.LeaveBoard(conn, boardID)
		h.denyJoin(conn, boardID)
		return ErrAccessDenied
	}

	return nil
}

func (h *Hub) denyJoin(conn *Conn, boardID int64) {
	h.sendTo(conn, Event{Name: EventAccessDenied, Data: AccessDeniedPayload{BoardID: boardID}})
	h.sendTo(conn, Event{Name: EventKickedFromBoard, Data: KickedFromBoardPayload{BoardID: boardID}})
}

func (h *Hub) LeaveBoard(conn *Conn, boardID int64) {
	h.mu.Lock()
	h.removeFromBoardLocked(boardID, conn)
	h.mu.Unlock()
}

// EvictUser forces every connection of one user out of a board room. Used on
// membership revocation so no further board events leak to the removed user.
func (h *Hub) EvictUser(boardID, userID int64) {
	h.mu.Lock()
	if room, ok := h.boards[boardID]; ok {
		for _, conn := range room {
			if conn.userID == userID {
				h.removeFromBoardLocked(boardID, conn)
			}
		}
	}
	h.mu.Unlock()
}

// EmitToBoard delivers the event to every connection in the board room.
// Best-effort: a connection whose buffer is full drops the event. The send is
// non-blocking, so holding the lock keeps per-room FIFO without stalling
// other emitters on a slow reader.
func (h *Hub) EmitToBoard(boardID int64, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conn := range h.boards[boardID] {
		h.sendLocked(conn, ev)
	}
}

// EmitToUser delivers the event to every connection of one user.
func (h *Hub) EmitToUser(userID int64, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conn := range h.users[userID] {
		h.sendLocked(conn, ev)
	}
}

func (h *Hub) removeFromBoardLocked(boardID int64, conn *Conn) {
	if room, ok := h.boards[boardID]; ok {
		delete(room, conn.id)
		if len(room) == 0 {
			delete(h.boards, boardID)
		}
	}
	conn.mu.Lock()
	delete(conn.boards, boardID)
	conn.mu.Unlock()
}

func (h *Hub) sendTo(conn *Conn, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sendLocked(conn, ev)
}

// sendLocked requires h.mu; Unregister closes conn.send under the same lock,
// so a registered connection's channel is always open here.
func (h *Hub) sendLocked(conn *Conn, ev Event) {
	if _, ok := h.conns[conn.id]; !ok {
		return
	}
	select {
	case conn.send <- ev:
	default:
		log.Printf("[REALTIME] dropping %s for connection %s: send buffer full", ev.Name, conn.id)
	}
}
