package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a referenced row does not exist. Deletes treat
// it as an idempotent no-op at the service layer; updates and moves surface it.
var ErrNotFound = errors.New("not found")

type auditKey struct{}

// WithAuditUser stamps the acting user on the context. The postgres
// implementation sets it as a transaction-local session variable so external
// audit triggers can attribute writes.
func WithAuditUser(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, auditKey{}, userID)
}

func AuditUser(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(auditKey{}).(int64)
	return id, ok
}

type Repository interface {
	// Users
	GetUser(ctx context.Context, id int64) (*User, error)

	// Boards and membership
	CreateBoard(ctx context.Context, title string, ownerID int64) (*Board, error)
	GetBoard(ctx context.Context, id int64) (*Board, error)
	GetBoardsForUser(ctx context.Context, userID int64) ([]Board, error)
	DeleteBoard(ctx context.Context, id int64) error
	AddMember(ctx context.Context, boardID, userID int64) (*User, error)
	RemoveMember(ctx context.Context, boardID, userID int64) error
	CanAccessBoard(ctx context.Context, boardID, userID int64) (bool, error)

	// Columns
	CreateColumn(ctx context.Context, boardID int64, title string) (*Column, error)
	GetColumn(ctx context.Context, id int64) (*Column, error)
	ColumnsForBoard(ctx context.Context, boardID int64) ([]Column, error)
	RenameColumn(ctx context.Context, id int64, title string) (*Column, error)
	MoveColumn(ctx context.Context, id int64, newPos int) (*Column, error)
	DeleteColumn(ctx context.Context, id int64) error

	// Cards
	CreateCard(ctx context.Context, columnID int64, title, description string, priority Priority, rank float64) (*Card, error)
	GetCard(ctx context.Context, id int64) (*Card, error)
	CardsInColumn(ctx context.Context, columnID int64) ([]Card, error)
	UpdateCard(ctx context.Context, id int64, patch CardPatch) (*Card, error)
	MoveCard(ctx context.Context, id, columnID int64, rank float64) (*Card, error)
	DeleteCard(ctx context.Context, id int64) error

	// Checklist and comments
	AddChecklistItem(ctx context.Context, cardID int64, text string) (*ChecklistItem, error)
	ToggleChecklistItem(ctx context.Context, id int64) (*ChecklistItem, error)
	AddCardComment(ctx context.Context, cardID, authorID int64, content string) (*CardComment, error)

	// Labels
	CreateLabel(ctx context.Context, boardID int64, title, color string) (*Label, error)
	GetLabel(ctx context.Context, id int64) (*Label, error)
	DeleteLabel(ctx context.Context, id int64) error
	// ToggleCardLabel attaches the label when the pair is absent and detaches
	// it otherwise; attached reports the resulting state.
	ToggleCardLabel(ctx context.Context, cardID, labelID int64) (attached bool, err error)

	// Attachments
	AddAttachment(ctx context.Context, cardID int64, fileName, storedName, mimeType string) (*Attachment, error)
	GetAttachment(ctx context.Context, id int64) (*Attachment, error)
	DeleteAttachment(ctx context.Context, id int64) error

	// Chat
	AddChatMessage(ctx context.Context, boardID, authorID int64, content string) (*ChatMessage, error)
	PinChatMessage(ctx context.Context, id int64, pinned bool) (*ChatMessage, error)
	ChatMessagesForBoard(ctx context.Context, boardID int64, limit, offset int) ([]ChatMessage, error)

	// Notifications
	CreateNotification(ctx context.Context, userID int64, content, resourceLink string) (*Notification, error)
	NotificationsForUser(ctx context.Context, userID int64) ([]Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) error

	// Board resolution for broadcast targeting; resolved before deletes so the
	// room is still known once the row is gone.
	BoardIDForColumn(ctx context.Context, columnID int64) (int64, error)
	BoardIDForCard(ctx context.Context, cardID int64) (int64, error)
	BoardIDForChecklistItem(ctx context.Context, itemID int64) (int64, error)
	BoardIDForLabel(ctx context.Context, labelID int64) (int64, error)
	BoardIDForAttachment(ctx context.Context, attachmentID int64) (int64, error)
	BoardIDForChatMessage(ctx context.Context, messageID int64) (int64, error)
	OwnerForNotification(ctx context.Context, id int64) (int64, error)
}
