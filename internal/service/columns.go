package service

import (
	"context"
	"errors"

	"github.com/boardsync/boardsync/internal/realtime"
	"github.com/boardsync/boardsync/internal/repository"
)

func (svc *Service) CreateColumn(ctx context.Context, actorID, boardID int64, title string) (*repository.Column, error) {
	if title == "" {
		return nil, validationErr("title is required")
	}
	if err := svc.requireBoard(ctx, actorID, boardID); err != nil {
		return nil, err
	}

	lock := svc.boardLock(boardID)
	lock.Lock()
	column, err := svc.repo.CreateColumn(audit(ctx, actorID), boardID, title)
	lock.Unlock()
	if err != nil {
		return nil, err
	}

	svc.hub.EmitToBoard(boardID, realtime.Event{Name: realtime.EventColumnCreated, Data: column})
	return column, nil
}

func (svc *Service) RenameColumn(ctx context.Context, actorID, columnID int64, title string) (*repository.Column, error) {
	if title == "" {
		return nil, validationErr("title is required")
	}
	boardID, err := svc.repo.BoardIDForColumn(ctx, columnID)
	if err != nil {
		return nil, err
	}
	if err := svc.requireBoard(ctx, actorID, boardID); err != nil {
		return nil, err
	}

	column, err := svc.repo.RenameColumn(audit(ctx, actorID), columnID, title)
	if err != nil {
		return nil, err
	}

	svc.hub.EmitToBoard(boardID, realtime.Event{Name: realtime.EventColumnUpdated, Data: column})
	return column, nil
}

// MoveColumn shifts the dense order_index range in one transaction. The
// per-board lock serializes concurrent moves so two racing requests cannot
// both read the same pre-move indices. A position past the last index is
// clamped so the board's indices stay exactly 0..n-1.
func (svc *Service) MoveColumn(ctx context.Context, actorID, columnID int64, newPos int) (*repository.Column, error) {
	if newPos < 0 {
		return nil, validationErr("position must be >= 0")
	}
	boardID, err := svc.repo.BoardIDForColumn(ctx, columnID)
	if err != nil {
		return nil, err
	}
	if err := svc.requireBoard(ctx, actorID, boardID); err != nil {
		return nil, err
	}

	lock := svc.boardLock(boardID)
	lock.Lock()
	columns, err := svc.repo.ColumnsForBoard(ctx, boardID)
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	if last := len(columns) - 1; newPos > last {
		newPos = last
	}
	column, err := svc.repo.MoveColumn(audit(ctx, actorID), columnID, newPos)
	lock.Unlock()
	if err != nil {
		return nil, err
	}

	svc.hub.EmitToBoard(boardID, realtime.Event{Name: realtime.EventColumnMoved, Data: column})
	return column, nil
}

func (svc *Service) DeleteColumn(ctx context.Context, actorID, columnID int64) error {
	// Resolve the room before the row disappears.
	boardID, err := svc.repo.BoardIDForColumn(ctx, columnID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil // idempotent
	}
	if err != nil {
		return err
	}
	if err := svc.requireBoard(ctx, actorID, boardID); err != nil {
		return err
	}

	lock := svc.boardLock(boardID)
	lock.Lock()
	err = svc.repo.DeleteColumn(audit(ctx, actorID), columnID)
	lock.Unlock()
	if err != nil {
		return err
	}

	svc.hub.EmitToBoard(boardID, realtime.Event{
		Name: realtime.EventColumnDeleted,
		Data: realtime.ColumnDeletedPayload{ColumnID: columnID},
	})
	return nil
}

func (svc *Service) Columns(ctx context.Context, actorID, boardID int64) ([]repository.Column, error) {
	if err := svc.requireBoard(ctx, actorID, boardID); err != nil {
		return nil, err
	}
	return svc.repo.ColumnsForBoard(ctx, boardID)
}

// requireBoard is the REST-side access guard: owner or member, checked on
// every mutation, mirroring the channel-level check on join.
func (svc *Service) requireBoard(ctx context.Context, actorID, boardID int64) error {
	ok, err := svc.repo.CanAccessBoard(ctx, boardID, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}
