package realtime

import "github.com/boardsync/boardsync/internal/repository"

// Event names on the wire. Each name has exactly one payload shape so handlers
// construct broadcasts with compile-time checked structs instead of ad hoc maps.
const (
	EventCardCreated       = "card_created"
	EventCardUpdated       = "card_updated"
	EventCardMoved         = "card_moved"
	EventCardDeleted       = "card_deleted"
	EventColumnCreated     = "column_created"
	EventColumnUpdated     = "column_updated"
	EventColumnMoved       = "column_moved"
	EventColumnDeleted     = "column_deleted"
	EventCardLabelAdded    = "card_label_added"
	EventCardLabelRemoved  = "card_label_removed"
	EventLabelDeleted      = "label_deleted"
	EventAttachmentAdded   = "attachment_added"
	EventAttachmentRemoved = "attachment_removed"
	EventCommentAdded      = "comment_added"
	EventMemberAdded       = "member_added"
	EventMemberRemoved     = "member_removed"
	EventKickedFromBoard   = "kicked_from_board"
	EventChatMessage       = "chat_message"
	EventChatPinned        = "chat_message_pinned"
	EventNewNotification   = "new_notification"
	EventAccessDenied      = "access_denied"
)

// Event is the envelope delivered to subscribed connections.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

type CardMovedPayload struct {
	CardID          int64   `json:"cardId"`
	NewColumnID     int64   `json:"newColumnId"`
	NewRankPosition float64 `json:"newRankPosition"`
}

type CardDeletedPayload struct {
	CardID int64 `json:"cardId"`
}

type ColumnDeletedPayload struct {
	ColumnID int64 `json:"columnId"`
}

// CardLabelAddedPayload carries the full label so a client that has never seen
// it can render it from this event alone.
type CardLabelAddedPayload struct {
	CardID int64             `json:"cardId"`
	Label  *repository.Label `json:"label"`
}

type CardLabelRemovedPayload struct {
	CardID  int64 `json:"cardId"`
	LabelID int64 `json:"labelId"`
}

// LabelDeletedPayload announces a label removed from the board entirely;
// clients detach it from every card they hold.
type LabelDeletedPayload struct {
	LabelID int64 `json:"labelId"`
}

type AttachmentAddedPayload struct {
	CardID     int64                  `json:"cardId"`
	Attachment *repository.Attachment `json:"attachment"`
}

type AttachmentRemovedPayload struct {
	CardID       int64 `json:"cardId"`
	AttachmentID int64 `json:"attachmentId"`
}

type CommentAddedPayload struct {
	CardID  int64                   `json:"cardId"`
	Comment *repository.CardComment `json:"comment"`
}

type MemberAddedPayload struct {
	Member *repository.User `json:"member"`
}

type MemberRemovedPayload struct {
	UserID int64 `json:"userId"`
}

type KickedFromBoardPayload struct {
	BoardID int64 `json:"boardId"`
}

type ChatPinnedPayload struct {
	MessageID int64 `json:"messageId"`
	Pinned    bool  `json:"pinned"`
}

type AccessDeniedPayload struct {
	BoardID int64 `json:"boardId"`
}
