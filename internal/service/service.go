// Package service implements the mutation handlers. Every mutating operation
// follows the same shape: validate, resolve the owning board, persist inside a
// transaction, re-read the canonical row, broadcast to the board room, return
// the canonical payload. Broadcasts happen strictly after commit; a rolled
// back write is never announced.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/boardsync/boardsync/internal/realtime"
	"github.com/boardsync/boardsync/internal/repository"
)

var (
	ErrValidation = errors.New("validation error")
	ErrForbidden  = errors.New("forbidden")
	// ErrNotFound re-exported so handlers map one sentinel.
	ErrNotFound = repository.ErrNotFound
)

// Broadcaster is the hub surface the handlers need; satisfied by realtime.Hub.
type Broadcaster interface {
	EmitToBoard(boardID int64, ev realtime.Event)
	EmitToUser(userID int64, ev realtime.Event)
	EvictUser(boardID, userID int64)
}

type Service struct {
	repo  repository.Repository
	hub   Broadcaster
	blobs BlobStore

	// Per-board locks serialize the read-compute-write of card moves and
	// column moves so concurrent reorders cannot interleave and break the
	// ordering invariants.
	mu         sync.Mutex
	boardLocks map[int64]*sync.Mutex
}

func New(repo repository.Repository, hub Broadcaster) *Service {
	return &Service{
		repo:       repo,
		hub:        hub,
		boardLocks: make(map[int64]*sync.Mutex),
	}
}

func (svc *Service) boardLock(boardID int64) *sync.Mutex {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	l, ok := svc.boardLocks[boardID]
	if !ok {
		l = &sync.Mutex{}
		svc.boardLocks[boardID] = l
	}
	return l
}

// audit stamps the acting user on the context for the persistence layer.
func audit(ctx context.Context, actorID int64) context.Context {
	return repository.WithAuditUser(ctx, actorID)
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Boards

func (svc *Service) CreateBoard(ctx context.Context, actorID int64, title string) (*repository.Board, error) {
	if title == "" {
		return nil, validationErr("title is required")
	}
	return svc.repo.CreateBoard(audit(ctx, actorID), title, actorID)
}

func (svc *Service) GetBoard(ctx context.Context, actorID, boardID int64) (*repository.Board, error) {
	ok, err := svc.repo.CanAccessBoard(ctx, boardID, actorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}
	return svc.repo.GetBoard(ctx, boardID)
}

func (svc *Service) GetBoards(ctx context.Context, actorID int64) ([]repository.Board, error) {
	return svc.repo.GetBoardsForUser(ctx, actorID)
}

func (svc *Service) DeleteBoard(ctx context.Context, actorID, boardID int64) error {
	board, err := svc.repo.GetBoard(ctx, boardID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil // idempotent
	}
	if err != nil {
		return err
	}
	if board.OwnerID != actorID {
		return ErrForbidden
	}
	return svc.repo.DeleteBoard(audit(ctx, actorID), boardID)
}

// Membership

func (svc *Service) AddMember(ctx context.Context, actorID, boardID, userID int64) (*repository.User, error) {
	board, err := svc.repo.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if board.OwnerID != actorID {
		return nil, ErrForbidden
	}
	member, err := svc.repo.AddMember(audit(ctx, actorID), boardID, userID)
	if err != nil {
		return nil, err
	}

	svc.hub.EmitToBoard(boardID, realtime.Event{
		Name: realtime.EventMemberAdded,
		Data: realtime.MemberAddedPayload{Member: member},
	})
	svc.notify(ctx, userID,
		fmt.Sprintf("You were added to the board %q", board.Title),
		fmt.Sprintf("/boards/%d", boardID))
	return member, nil
}

// RemoveMember removes userID from the board. The owner may remove anyone;
// a member may only remove themself. On success the board room learns about
// the removal, the removed user gets a direct kicked_from_board, and every
// active connection of that user is forced out of the room so no further
// board events leak to them.
func (svc *Service) RemoveMember(ctx context.Context, actorID, boardID, userID int64) error {
	board, err := svc.repo.GetBoard(ctx, boardID)
	if err != nil {
		return err
	}
	if actorID != board.OwnerID && actorID != userID {
		return ErrForbidden
	}
	if err := svc.repo.RemoveMember(audit(ctx, actorID), boardID, userID); err != nil {
		return err
	}

	svc.hub.EmitToBoard(boardID, realtime.Event{
		Name: realtime.EventMemberRemoved,
		Data: realtime.MemberRemovedPayload{UserID: userID},
	})
	svc.hub.EmitToUser(userID, realtime.Event{
		Name: realtime.EventKickedFromBoard,
		Data: realtime.KickedFromBoardPayload{BoardID: boardID},
	})
	svc.hub.EvictUser(boardID, userID)
	return nil
}

// Notifications

func (svc *Service) Notifications(ctx context.Context, actorID int64) ([]repository.Notification, error) {
	return svc.repo.NotificationsForUser(ctx, actorID)
}

func (svc *Service) MarkNotificationRead(ctx context.Context, actorID, id int64) error {
	owner, err := svc.repo.OwnerForNotification(ctx, id)
	if err != nil {
		return err
	}
	if owner != actorID {
		return ErrForbidden
	}
	return svc.repo.MarkNotificationRead(audit(ctx, actorID), id)
}

// notify persists a notification and pushes it to the user room. Best-effort:
// a failure is logged by the caller's layer, never rolls back the mutation
// that triggered it.
func (svc *Service) notify(ctx context.Context, userID int64, content, link string) {
	n, err := svc.repo.CreateNotification(ctx, userID, content, link)
	if err != nil {
		return
	}
	svc.hub.EmitToUser(userID, realtime.Event{Name: realtime.EventNewNotification, Data: n})
}
