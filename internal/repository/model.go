package repository

import "time"

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Board struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	OwnerID   int64     `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}

type Column struct {
	ID         int64  `json:"id"`
	BoardID    int64  `json:"boardId"`
	Title      string `json:"title"`
	OrderIndex int    `json:"orderIndex"`
}

// Priority is a closed enum; anything else is rejected before persistence.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Card struct {
	ID           int64           `json:"id"`
	ColumnID     int64           `json:"columnId"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	RankPosition float64         `json:"rankPosition"`
	Priority     Priority        `json:"priority"`
	DueDate      *time.Time      `json:"dueDate,omitempty"`
	AssigneeID   *int64          `json:"assigneeId,omitempty"`
	Checklist    []ChecklistItem `json:"checklist"`
	Comments     []CardComment   `json:"comments"`
	Labels       []Label         `json:"labels"`
	Attachments  []Attachment    `json:"attachments"`
}

type ChecklistItem struct {
	ID        int64  `json:"id"`
	CardID    int64  `json:"cardId"`
	Text      string `json:"text"`
	IsChecked bool   `json:"isChecked"`
}

type CardComment struct {
	ID        int64     `json:"id"`
	CardID    int64     `json:"cardId"`
	AuthorID  int64     `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type Label struct {
	ID      int64  `json:"id"`
	BoardID int64  `json:"boardId"`
	Title   string `json:"title"`
	Color   string `json:"color"`
}

type Attachment struct {
	ID         int64     `json:"id"`
	CardID     int64     `json:"cardId"`
	FileName   string    `json:"fileName"`
	StoredName string    `json:"storedName"`
	MimeType   string    `json:"mimeType"`
	CreatedAt  time.Time `json:"createdAt"`
}

type ChatMessage struct {
	ID        int64     `json:"id"`
	BoardID   int64     `json:"boardId"`
	AuthorID  int64     `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Pinned    bool      `json:"pinned"`
}

type Notification struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	Content      string    `json:"content"`
	ResourceLink string    `json:"resourceLink"`
	IsRead       bool      `json:"isRead"`
	CreatedAt    time.Time `json:"createdAt"`
}
