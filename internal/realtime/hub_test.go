package realtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allowGuard grants access to every (board, user) pair except those denied.
type allowGuard struct {
	denied map[[2]int64]bool
}

func (g *allowGuard) CanAccessBoard(_ context.Context, boardID, userID int64) (bool, error) {
	return !g.denied[[2]int64{boardID, userID}], nil
}

func newTestHub(denied ...[2]int64) *Hub {
	g := &allowGuard{denied: make(map[[2]int64]bool)}
	for _, d := range denied {
		g.denied[d] = true
	}
	return NewHub(g, 16)
}

func drain(c *Conn) []Event {
	var evs []Event
	for {
		select {
		case ev := <-c.Events():
			evs = append(evs, ev)
		default:
			return evs
		}
	}
}

func TestEmitToBoardReachesOnlySubscribers(t *testing.T) {
	hub := newTestHub()
	ctx := context.Background()

	member := hub.Register(1)
	outsider := hub.Register(2)
	require.NoError(t, hub.JoinBoard(ctx, member, 10))

	hub.EmitToBoard(10, Event{Name: EventCardCreated})

	got := drain(member)
	require.Len(t, got, 1)
	assert.Equal(t, EventCardCreated, got[0].Name)
	assert.Empty(t, drain(outsider))
}

func TestJoinBoardDeniedIsDirected(t *testing.T) {
	hub := newTestHub([2]int64{10, 2})
	ctx := context.Background()

	member := hub.Register(1)
	require.NoError(t, hub.JoinBoard(ctx, member, 10))

	intruder := hub.Register(2)
	err := hub.JoinBoard(ctx, intruder, 10)
	require.ErrorIs(t, err, ErrAccessDenied)

	// The intruder gets the directed notices and nothing else, ever.
	got := drain(intruder)
	require.Len(t, got, 2)
	assert.Equal(t, EventAccessDenied, got[0].Name)
	assert.Equal(t, EventKickedFromBoard, got[1].Name)

	hub.EmitToBoard(10, Event{Name: EventCardCreated})
	assert.Empty(t, drain(intruder))
	assert.Len(t, drain(member), 1)

	// And no directed noise leaked into the board room.
	assert.False(t, intruder.inBoard(10))
}

// revokingGuard grants access once, then reports the membership revoked —
// the revocation commits while the join is in flight.
type revokingGuard struct {
	calls int
}

func (g *revokingGuard) CanAccessBoard(context.Context, int64, int64) (bool, error) {
	g.calls++
	return g.calls == 1, nil
}

func TestJoinBoardRescindsWhenRevokedMidJoin(t *testing.T) {
	hub := NewHub(&revokingGuard{}, 16)

	conn := hub.Register(2)
	err := hub.JoinBoard(context.Background(), conn, 10)
	require.ErrorIs(t, err, ErrAccessDenied)
	assert.False(t, conn.inBoard(10))

	got := drain(conn)
	require.Len(t, got, 2)
	assert.Equal(t, EventAccessDenied, got[0].Name)
	assert.Equal(t, EventKickedFromBoard, got[1].Name)

	hub.EmitToBoard(10, Event{Name: EventCardUpdated})
	assert.Empty(t, drain(conn))
}

// evictingGuard evicts the joining user during its own check, the way a
// RemoveMember commit runs EvictUser while the guard query is in flight.
type evictingGuard struct {
	hub *Hub
}

func (g *evictingGuard) CanAccessBoard(_ context.Context, boardID, userID int64) (bool, error) {
	g.hub.EvictUser(boardID, userID)
	return true, nil
}

func TestJoinBoardDoesNotOutraceEviction(t *testing.T) {
	g := &evictingGuard{}
	hub := NewHub(g, 16)
	g.hub = hub

	conn := hub.Register(2)
	hub.JoinBoard(context.Background(), conn, 10)

	// However the join and the eviction interleave, no board event may reach
	// the evicted user afterwards.
	hub.EmitToBoard(10, Event{Name: EventCardUpdated})
	assert.Empty(t, drain(conn))
}

func TestEmitToUserReachesAllConnections(t *testing.T) {
	hub := newTestHub()

	first := hub.Register(7)
	second := hub.Register(7)
	other := hub.Register(8)

	hub.EmitToUser(7, Event{Name: EventNewNotification})

	assert.Len(t, drain(first), 1)
	assert.Len(t, drain(second), 1)
	assert.Empty(t, drain(other))
}

func TestEvictUserStopsBoardDelivery(t *testing.T) {
	hub := newTestHub()
	ctx := context.Background()

	evictee := hub.Register(2)
	require.NoError(t, hub.JoinBoard(ctx, evictee, 10))
	stayer := hub.Register(1)
	require.NoError(t, hub.JoinBoard(ctx, stayer, 10))

	hub.EvictUser(10, 2)
	hub.EmitToBoard(10, Event{Name: EventCardUpdated})

	assert.Empty(t, drain(evictee))
	assert.Len(t, drain(stayer), 1)
	// The evicted user's identity room still works for direct notices.
	hub.EmitToUser(2, Event{Name: EventKickedFromBoard})
	assert.Len(t, drain(evictee), 1)
}

func TestUnregisterCleansAllRooms(t *testing.T) {
	hub := newTestHub()
	ctx := context.Background()

	conn := hub.Register(1)
	require.NoError(t, hub.JoinBoard(ctx, conn, 10))
	require.NoError(t, hub.JoinBoard(ctx, conn, 11))

	hub.Unregister(conn)

	// Emissions after unregister never panic and deliver nothing.
	hub.EmitToBoard(10, Event{Name: EventCardCreated})
	hub.EmitToBoard(11, Event{Name: EventCardCreated})
	hub.EmitToUser(1, Event{Name: EventNewNotification})

	_, open := <-conn.Events()
	assert.False(t, open)
}

func TestLeaveBoardStopsDelivery(t *testing.T) {
	hub := newTestHub()
	ctx := context.Background()

	conn := hub.Register(1)
	require.NoError(t, hub.JoinBoard(ctx, conn, 10))
	hub.LeaveBoard(conn, 10)

	hub.EmitToBoard(10, Event{Name: EventCardCreated})
	assert.Empty(t, drain(conn))
}

func TestFullBufferDropsNotBlocks(t *testing.T) {
	g := &allowGuard{denied: map[[2]int64]bool{}}
	hub := NewHub(g, 1)
	ctx := context.Background()

	conn := hub.Register(1)
	require.NoError(t, hub.JoinBoard(ctx, conn, 10))

	hub.EmitToBoard(10, Event{Name: EventCardCreated})
	hub.EmitToBoard(10, Event{Name: EventCardUpdated})

	// Second event dropped: at-most-once, best-effort.
	got := drain(conn)
	require.Len(t, got, 1)
	assert.Equal(t, EventCardCreated, got[0].Name)
}
