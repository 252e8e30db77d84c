package service

import (
	"context"
	"errors"

	"github.com/boardsync/boardsync/internal/realtime"
	"github.com/boardsync/boardsync/internal/repository"
)

func (svc *Service) CreateLabel(ctx context.Context, actorID, boardID int64, title, color string) (*repository.Label, error) {
	if title == "" || color == "" {
		return nil, validationErr("title and color are required")
	}
	if err := svc.requireBoard(ctx, actorID, boardID); err != nil {
		return nil, err
	}
	return svc.repo.CreateLabel(audit(ctx, actorID), boardID, title, color)
}

// ToggleLabel attaches or detaches the label on the card. The added event
// carries the full label payload so a client that has never seen the label
// can render it from the event alone; the removed event only needs the ids.
func (svc *Service) ToggleLabel(ctx context.Context, actorID, cardID, labelID int64) (attached bool, err error) {
	boardID, err := svc.repo.BoardIDForCard(ctx, cardID)
	if err != nil {
		return false, err
	}
	if err := svc.requireBoard(ctx, actorID, boardID); err != nil {
		return false, err
	}
	label, err := svc.repo.GetLabel(ctx, labelID)
	if err != nil {
		return false, err
	}
	if label.BoardID != boardID {
		return false, validationErr("label belongs to another board")
	}

	attached, err = svc.repo.ToggleCardLabel(audit(ctx, actorID), cardID, labelID)
	if err != nil {
		return false, err
	}

	if attached {
		svc.hub.EmitToBoard(boardID, realtime.Event{
			Name: realtime.EventCardLabelAdded,
			Data: realtime.CardLabelAddedPayload{CardID: cardID, Label: label},
		})
	} else {
		svc.hub.EmitToBoard(boardID, realtime.Event{
			Name: realtime.EventCardLabelRemoved,
			Data: realtime.CardLabelRemovedPayload{CardID: cardID, LabelID: labelID},
		})
	}
	return attached, nil
}

func (svc *Service) DeleteLabel(ctx context.Context, actorID, labelID int64) error {
	boardID, err := svc.repo.BoardIDForLabel(ctx, labelID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil // idempotent
	}
	if err != nil {
		return err
	}
	if err := svc.requireBoard(ctx, actorID, boardID); err != nil {
		return err
	}
	if err := svc.repo.DeleteLabel(audit(ctx, actorID), labelID); err != nil {
		return err
	}

	svc.hub.EmitToBoard(boardID, realtime.Event{
		Name: realtime.EventLabelDeleted,
		Data: realtime.LabelDeletedPayload{LabelID: labelID},
	})
	return nil
}
