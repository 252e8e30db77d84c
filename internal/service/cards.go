package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/boardsync/boardsync/internal/rank"
	"github.com/boardsync/boardsync/internal/realtime"
	"github.com/boardsync/boardsync/internal/repository"
)

type CreateCardInput struct {
	ColumnID    int64               `json:"columnId"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    repository.Priority `json:"priority"`
}

// MoveCardInput names the destination column and the neighbors the card lands
// between; the server computes the rank from their stored positions.
type MoveCardInput struct {
	ColumnID   int64  `json:"columnId"`
	PrevCardID *int64 `json:"prevCardId,omitempty"`
	NextCardID *int64 `json:"nextCardId,omitempty"`
}

func (svc *Service) CreateCard(ctx context.Context, actorID int64, in CreateCardInput) (*repository.Card, error) {
	if in.Title == "" {
		return nil, validationErr("title is required")
	}
	if in.Priority == "" {
		in.Priority = repository.PriorityMedium
	}
	if !in.Priority.Valid() {
		return nil, validationErr("priority must be one of low, medium, high")
	}
	boardID, err := svc.repo.BoardIDForColumn(ctx, in.ColumnID)
	if err != nil {
		return nil, err
	}
	if err := svc.requireBoard(ctx, actorID, boardID); err != nil {
		return nil, err
	}

	lock := svc.boardLock(boardID)
	lock.Lock()
	var prev *float64
	cards, err := svc.repo.CardsInColumn(ctx, in.ColumnID)
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	if len(cards) > 0 {
		prev = &cards[len(cards)-1].RankPosition
	}
	card, err := svc.repo.CreateCard(audit(ctx, actorID), in.ColumnID, in.Title, in.Description, in.Priority, rank.Between(prev, nil))
	lock.Unlock()
	if err != nil {
		return nil, err
	}

	svc.hub.EmitToBoard(boardID, realtime.Event{Name: realtime.EventCardCreated, Data: card})
	return card, nil
}

func (svc *Service) Cards(ctx context.Context, actorID, columnID int64) ([]repository.Card, error) {
	boardID, err := svc.repo.BoardIDForColumn(ctx, columnID)
	if err != nil {
		return nil, err
	}
	if err := svc.requireBoard(ctx, actorID, boardID); err != nil {
		return nil, err
	}
	return svc.repo.CardsInColumn(ctx, columnID)
}

func (svc *Service) GetCard(ctx context.Context, actorID, cardID int64) (*repository.Card, error) {
	boardID, err := svc.repo.BoardIDForCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if err := svc.requireBoard(ctx, actorID, boardID); err != nil {
		return nil, err
	}
	return svc.repo.GetCard(ctx, cardID)
}

func (svc *Service) UpdateCard(ctx context.Context, actorID, cardID int64, patch repository.CardPatch) (*repository.Card, error) {
	if patch.Title.IsCleared() {
		return nil, validationErr("title cannot be cleared")
	}
	if v, ok := patch.Title.Get(); ok && v == "" {
		return nil, validationErr("title cannot be empty")
	}
	if v, ok := patch.Priority.Get(); ok && !v.Valid() {
		return nil, validationErr("priority must be one of low, medium, high")
	}
	if patch.Priority.IsCleared() {
		return nil, validationErr("priority cannot be cleared")
	}
	boardID, err := svc.repo.BoardIDForCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if err := svc.requireBoard(ctx, actorID, boardID); err != nil {
		return nil, err
	}

	newAssignee := int64(0)
	if v, ok := patch.AssigneeID.Get(); ok {
		newAssignee = v
	}

	card, err := svc.repo.UpdateCard(audit(ctx, actorID), cardID, patch)
	if err != nil {
		return nil, err
	}

	svc.hub.EmitToBoard(boardID, realtime.Event{Name: realtime.EventCardUpdated, Data: card})
	if newAssignee != 0 && newAssignee != actorID {
		svc.notify(ctx, newAssignee,
			"You were assigned a card: "+card.Title,
			boardLink(boardID))
	}
	return card, nil
}

// MoveCard re-ranks the card inside the destination column. The per-board
// lock covers the neighbor reads and the write, so two concurrent moves on
// one board serialize instead of computing ranks from the same snapshot.
func (svc *Service) MoveCard(ctx context.Context, actorID, cardID int64, in MoveCardInput) (*repository.Card, error) {
	boardID, err := svc.repo.BoardIDForCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if err := svc.requireBoard(ctx, actorID, boardID); err != nil {
		return nil, err
	}

	destBoard, err := svc.repo.BoardIDForColumn(ctx, in.ColumnID)
	if err != nil {
		return nil, err
	}
	if destBoard != boardID {
		return nil, validationErr("destination column belongs to another board")
	}

	lock := svc.boardLock(boardID)
	lock.Lock()
	defer lock.Unlock()

	prev, err := svc.neighborRank(ctx, in.PrevCardID, in.ColumnID)
	if err != nil {
		return nil, err
	}
	next, err := svc.neighborRank(ctx, in.NextCardID, in.ColumnID)
	if err != nil {
		return nil, err
	}

	card, err := svc.repo.MoveCard(audit(ctx, actorID), cardID, in.ColumnID, rank.Between(prev, next))
	if err != nil {
		return nil, err
	}

	svc.hub.EmitToBoard(boardID, realtime.Event{
		Name: realtime.EventCardMoved,
		Data: realtime.CardMovedPayload{
			CardID:          card.ID,
			NewColumnID:     card.ColumnID,
			NewRankPosition: card.RankPosition,
		},
	})
	return card, nil
}

func (svc *Service) neighborRank(ctx context.Context, cardID *int64, columnID int64) (*float64, error) {
	if cardID == nil {
		return nil, nil
	}
	card, err := svc.repo.GetCard(ctx, *cardID)
	if err != nil {
		return nil, err
	}
	if card.ColumnID != columnID {
		return nil, validationErr("neighbor card is not in the destination column")
	}
	return &card.RankPosition, nil
}

func (svc *Service) DeleteCard(ctx context.Context, actorID, cardID int64) error {
	boardID, err := svc.repo.BoardIDForCard(ctx, cardID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil // idempotent
	}
	if err != nil {
		return err
	}
	if err := svc.requireBoard(ctx, actorID, boardID); err != nil {
		return err
	}
	if err := svc.repo.DeleteCard(audit(ctx, actorID), cardID); err != nil {
		return err
	}

	svc.hub.EmitToBoard(boardID, realtime.Event{
		Name: realtime.EventCardDeleted,
		Data: realtime.CardDeletedPayload{CardID: cardID},
	})
	return nil
}

func (svc *Service) AddComment(ctx context.Context, actorID, cardID int64, content string) (*repository.CardComment, error) {
	if content == "" {
		return nil, validationErr("content is required")
	}
	boardID, err := svc.repo.BoardIDForCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if err := svc.requireBoard(ctx, actorID, boardID); err != nil {
		return nil, err
	}

	comment, err := svc.repo.AddCardComment(audit(ctx, actorID), cardID, actorID, content)
	if err != nil {
		return nil, err
	}

	svc.hub.EmitToBoard(boardID, realtime.Event{
		Name: realtime.EventCommentAdded,
		Data: realtime.CommentAddedPayload{CardID: cardID, Comment: comment},
	})
	return comment, nil
}

func (svc *Service) AddChecklistItem(ctx context.Context, actorID, cardID int64, text string) (*repository.Card, error) {
	if text == "" {
		return nil, validationErr("text is required")
	}
	boardID, err := svc.repo.BoardIDForCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if err := svc.requireBoard(ctx, actorID, boardID); err != nil {
		return nil, err
	}
	if _, err := svc.repo.AddChecklistItem(audit(ctx, actorID), cardID, text); err != nil {
		return nil, err
	}

	card, err := svc.repo.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	svc.hub.EmitToBoard(boardID, realtime.Event{Name: realtime.EventCardUpdated, Data: card})
	return card, nil
}

func (svc *Service) ToggleChecklistItem(ctx context.Context, actorID, itemID int64) (*repository.Card, error) {
	boardID, err := svc.repo.BoardIDForChecklistItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := svc.requireBoard(ctx, actorID, boardID); err != nil {
		return nil, err
	}
	item, err := svc.repo.ToggleChecklistItem(audit(ctx, actorID), itemID)
	if err != nil {
		return nil, err
	}

	card, err := svc.repo.GetCard(ctx, item.CardID)
	if err != nil {
		return nil, err
	}
	svc.hub.EmitToBoard(boardID, realtime.Event{Name: realtime.EventCardUpdated, Data: card})
	return card, nil
}

func boardLink(boardID int64) string {
	return "/boards/" + strconv.FormatInt(boardID, 10)
}
