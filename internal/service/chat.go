package service

import (
	"context"

	"github.com/boardsync/boardsync/internal/realtime"
	"github.com/boardsync/boardsync/internal/repository"
)

func (svc *Service) PostChatMessage(ctx context.Context, actorID, boardID int64, content string) (*repository.ChatMessage, error) {
	if content == "" {
		return nil, validationErr("content is required")
	}
	if err := svc.requireBoard(ctx, actorID, boardID); err != nil {
		return nil, err
	}

	msg, err := svc.repo.AddChatMessage(audit(ctx, actorID), boardID, actorID, content)
	if err != nil {
		return nil, err
	}

	svc.hub.EmitToBoard(boardID, realtime.Event{Name: realtime.EventChatMessage, Data: msg})
	return msg, nil
}

func (svc *Service) PinChatMessage(ctx context.Context, actorID, messageID int64, pinned bool) (*repository.ChatMessage, error) {
	boardID, err := svc.repo.BoardIDForChatMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if err := svc.requireBoard(ctx, actorID, boardID); err != nil {
		return nil, err
	}

	msg, err := svc.repo.PinChatMessage(audit(ctx, actorID), messageID, pinned)
	if err != nil {
		return nil, err
	}

	svc.hub.EmitToBoard(boardID, realtime.Event{
		Name: realtime.EventChatPinned,
		Data: realtime.ChatPinnedPayload{MessageID: msg.ID, Pinned: msg.Pinned},
	})
	return msg, nil
}

func (svc *Service) ChatMessages(ctx context.Context, actorID, boardID int64, limit, offset int) ([]repository.ChatMessage, error) {
	if err := svc.requireBoard(ctx, actorID, boardID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	return svc.repo.ChatMessagesForBoard(ctx, boardID, limit, offset)
}
