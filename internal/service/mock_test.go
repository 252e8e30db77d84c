package service

import (
	"context"
	"sort"
	"sync"

	"github.com/boardsync/boardsync/internal/realtime"
	"github.com/boardsync/boardsync/internal/repository"
)

// fakeRepo is an in-memory Repository for handler tests. Ordering semantics
// (dense column indices, rank-sorted cards) mirror the SQL implementation.
type fakeRepo struct {
	mu sync.Mutex

	nextID    int64
	users     map[int64]*repository.User
	boards    map[int64]*repository.Board
	members   map[int64]map[int64]bool // boardID -> userID set
	columns   map[int64]*repository.Column
	cards     map[int64]*repository.Card
	checklist map[int64]*repository.ChecklistItem
	comments  map[int64]*repository.CardComment
	labels    map[int64]*repository.Label
	cardLabel map[[2]int64]bool // (cardID, labelID)
	attach    map[int64]*repository.Attachment
	chat      map[int64]*repository.ChatMessage
	notifs    map[int64]*repository.Notification
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:     make(map[int64]*repository.User),
		boards:    make(map[int64]*repository.Board),
		members:   make(map[int64]map[int64]bool),
		columns:   make(map[int64]*repository.Column),
		cards:     make(map[int64]*repository.Card),
		checklist: make(map[int64]*repository.ChecklistItem),
		comments:  make(map[int64]*repository.CardComment),
		labels:    make(map[int64]*repository.Label),
		cardLabel: make(map[[2]int64]bool),
		attach:    make(map[int64]*repository.Attachment),
		chat:      make(map[int64]*repository.ChatMessage),
		notifs:    make(map[int64]*repository.Notification),
	}
}

func (f *fakeRepo) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeRepo) addUser(name string) *repository.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := &repository.User{ID: f.id(), Name: name, Email: name + "@example.com"}
	f.users[u.ID] = u
	return u
}

func (f *fakeRepo) GetUser(_ context.Context, id int64) (*repository.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) CreateBoard(_ context.Context, title string, ownerID int64) (*repository.Board, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := &repository.Board{ID: f.id(), Title: title, OwnerID: ownerID}
	f.boards[b.ID] = b
	f.members[b.ID] = make(map[int64]bool)
	cp := *b
	return &cp, nil
}

func (f *fakeRepo) GetBoard(_ context.Context, id int64) (*repository.Board, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.boards[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeRepo) GetBoardsForUser(_ context.Context, userID int64) ([]repository.Board, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []repository.Board{}
	for _, b := range f.boards {
		if b.OwnerID == userID || f.members[b.ID][userID] {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) DeleteBoard(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.boards, id)
	delete(f.members, id)
	return nil
}

func (f *fakeRepo) AddMember(ctx context.Context, boardID, userID int64) (*repository.User, error) {
	f.mu.Lock()
	if _, ok := f.boards[boardID]; !ok {
		f.mu.Unlock()
		return nil, repository.ErrNotFound
	}
	f.members[boardID][userID] = true
	f.mu.Unlock()
	return f.GetUser(ctx, userID)
}

func (f *fakeRepo) RemoveMember(_ context.Context, boardID, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.members[boardID], userID)
	return nil
}

func (f *fakeRepo) CanAccessBoard(_ context.Context, boardID, userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.boards[boardID]
	if !ok {
		return false, nil
	}
	return b.OwnerID == userID || f.members[boardID][userID], nil
}

func (f *fakeRepo) CreateColumn(_ context.Context, boardID int64, title string) (*repository.Column, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, col := range f.columns {
		if col.BoardID == boardID {
			n++
		}
	}
	col := &repository.Column{ID: f.id(), BoardID: boardID, Title: title, OrderIndex: n}
	f.columns[col.ID] = col
	cp := *col
	return &cp, nil
}

func (f *fakeRepo) GetColumn(_ context.Context, id int64) (*repository.Column, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	col, ok := f.columns[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *col
	return &cp, nil
}

func (f *fakeRepo) ColumnsForBoard(_ context.Context, boardID int64) ([]repository.Column, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []repository.Column{}
	for _, col := range f.columns {
		if col.BoardID == boardID {
			out = append(out, *col)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (f *fakeRepo) RenameColumn(_ context.Context, id int64, title string) (*repository.Column, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	col, ok := f.columns[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	col.Title = title
	cp := *col
	return &cp, nil
}

func (f *fakeRepo) MoveColumn(_ context.Context, id int64, newPos int) (*repository.Column, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	col, ok := f.columns[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	n := 0
	for _, other := range f.columns {
		if other.BoardID == col.BoardID {
			n++
		}
	}
	if newPos > n-1 {
		newPos = n - 1
	}
	oldPos := col.OrderIndex
	for _, other := range f.columns {
		if other.BoardID != col.BoardID || other.ID == id {
			continue
		}
		if newPos > oldPos && other.OrderIndex > oldPos && other.OrderIndex <= newPos {
			other.OrderIndex--
		}
		if newPos < oldPos && other.OrderIndex >= newPos && other.OrderIndex < oldPos {
			other.OrderIndex++
		}
	}
	col.OrderIndex = newPos
	cp := *col
	return &cp, nil
}

func (f *fakeRepo) DeleteColumn(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	col, ok := f.columns[id]
	if !ok {
		return nil
	}
	for cardID, card := range f.cards {
		if card.ColumnID == id {
			delete(f.cards, cardID)
		}
	}
	for _, other := range f.columns {
		if other.BoardID == col.BoardID && other.OrderIndex > col.OrderIndex {
			other.OrderIndex--
		}
	}
	delete(f.columns, id)
	return nil
}

func (f *fakeRepo) CreateCard(_ context.Context, columnID int64, title, description string, priority repository.Priority, rankPos float64) (*repository.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.columns[columnID]; !ok {
		return nil, repository.ErrNotFound
	}
	card := &repository.Card{
		ID: f.id(), ColumnID: columnID, Title: title, Description: description,
		Priority: priority, RankPosition: rankPos,
	}
	f.cards[card.ID] = card
	return f.cardCopy(card), nil
}

func (f *fakeRepo) cardCopy(card *repository.Card) *repository.Card {
	cp := *card
	cp.Checklist = []repository.ChecklistItem{}
	for _, item := range f.checklist {
		if item.CardID == card.ID {
			cp.Checklist = append(cp.Checklist, *item)
		}
	}
	cp.Comments = []repository.CardComment{}
	for _, comment := range f.comments {
		if comment.CardID == card.ID {
			cp.Comments = append(cp.Comments, *comment)
		}
	}
	cp.Labels = []repository.Label{}
	for pair := range f.cardLabel {
		if pair[0] == card.ID {
			cp.Labels = append(cp.Labels, *f.labels[pair[1]])
		}
	}
	cp.Attachments = []repository.Attachment{}
	for _, att := range f.attach {
		if att.CardID == card.ID {
			cp.Attachments = append(cp.Attachments, *att)
		}
	}
	return &cp
}

func (f *fakeRepo) GetCard(_ context.Context, id int64) (*repository.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	card, ok := f.cards[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return f.cardCopy(card), nil
}

func (f *fakeRepo) CardsInColumn(_ context.Context, columnID int64) ([]repository.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []repository.Card{}
	for _, card := range f.cards {
		if card.ColumnID == columnID {
			out = append(out, *f.cardCopy(card))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RankPosition != out[j].RankPosition {
			return out[i].RankPosition < out[j].RankPosition
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeRepo) UpdateCard(_ context.Context, id int64, patch repository.CardPatch) (*repository.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	card, ok := f.cards[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if v, ok := patch.Title.Get(); ok {
		card.Title = v
	}
	if v, ok := patch.Description.Get(); ok {
		card.Description = v
	} else if patch.Description.IsCleared() {
		card.Description = ""
	}
	if v, ok := patch.Priority.Get(); ok {
		card.Priority = v
	}
	if v, ok := patch.DueDate.Get(); ok {
		due := v
		card.DueDate = &due
	} else if patch.DueDate.IsCleared() {
		card.DueDate = nil
	}
	if v, ok := patch.AssigneeID.Get(); ok {
		assignee := v
		card.AssigneeID = &assignee
	} else if patch.AssigneeID.IsCleared() {
		card.AssigneeID = nil
	}
	return f.cardCopy(card), nil
}

func (f *fakeRepo) MoveCard(_ context.Context, id, columnID int64, rankPos float64) (*repository.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	card, ok := f.cards[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	card.ColumnID = columnID
	card.RankPosition = rankPos
	return f.cardCopy(card), nil
}

func (f *fakeRepo) DeleteCard(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.cards, id)
	return nil
}

func (f *fakeRepo) AddChecklistItem(_ context.Context, cardID int64, text string) (*repository.ChecklistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item := &repository.ChecklistItem{ID: f.id(), CardID: cardID, Text: text}
	f.checklist[item.ID] = item
	cp := *item
	return &cp, nil
}

func (f *fakeRepo) ToggleChecklistItem(_ context.Context, id int64) (*repository.ChecklistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.checklist[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	item.IsChecked = !item.IsChecked
	cp := *item
	return &cp, nil
}

func (f *fakeRepo) AddCardComment(_ context.Context, cardID, authorID int64, content string) (*repository.CardComment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment := &repository.CardComment{ID: f.id(), CardID: cardID, AuthorID: authorID, Content: content}
	f.comments[comment.ID] = comment
	cp := *comment
	return &cp, nil
}

func (f *fakeRepo) CreateLabel(_ context.Context, boardID int64, title, color string) (*repository.Label, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	label := &repository.Label{ID: f.id(), BoardID: boardID, Title: title, Color: color}
	f.labels[label.ID] = label
	cp := *label
	return &cp, nil
}

func (f *fakeRepo) GetLabel(_ context.Context, id int64) (*repository.Label, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	label, ok := f.labels[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *label
	return &cp, nil
}

func (f *fakeRepo) DeleteLabel(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.labels, id)
	for pair := range f.cardLabel {
		if pair[1] == id {
			delete(f.cardLabel, pair)
		}
	}
	return nil
}

func (f *fakeRepo) ToggleCardLabel(_ context.Context, cardID, labelID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pair := [2]int64{cardID, labelID}
	if f.cardLabel[pair] {
		delete(f.cardLabel, pair)
		return false, nil
	}
	f.cardLabel[pair] = true
	return true, nil
}

func (f *fakeRepo) AddAttachment(_ context.Context, cardID int64, fileName, storedName, mimeType string) (*repository.Attachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	att := &repository.Attachment{ID: f.id(), CardID: cardID, FileName: fileName, StoredName: storedName, MimeType: mimeType}
	f.attach[att.ID] = att
	cp := *att
	return &cp, nil
}

func (f *fakeRepo) GetAttachment(_ context.Context, id int64) (*repository.Attachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	att, ok := f.attach[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *att
	return &cp, nil
}

func (f *fakeRepo) DeleteAttachment(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.attach, id)
	return nil
}

func (f *fakeRepo) AddChatMessage(_ context.Context, boardID, authorID int64, content string) (*repository.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg := &repository.ChatMessage{ID: f.id(), BoardID: boardID, AuthorID: authorID, Content: content}
	f.chat[msg.ID] = msg
	cp := *msg
	return &cp, nil
}

func (f *fakeRepo) PinChatMessage(_ context.Context, id int64, pinned bool) (*repository.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg, ok := f.chat[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	msg.Pinned = pinned
	cp := *msg
	return &cp, nil
}

func (f *fakeRepo) ChatMessagesForBoard(_ context.Context, boardID int64, limit, offset int) ([]repository.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []repository.ChatMessage{}
	for _, msg := range f.chat {
		if msg.BoardID == boardID {
			out = append(out, *msg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) CreateNotification(_ context.Context, userID int64, content, resourceLink string) (*repository.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := &repository.Notification{ID: f.id(), UserID: userID, Content: content, ResourceLink: resourceLink}
	f.notifs[n.ID] = n
	cp := *n
	return &cp, nil
}

func (f *fakeRepo) NotificationsForUser(_ context.Context, userID int64) ([]repository.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []repository.Notification{}
	for _, n := range f.notifs {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeRepo) MarkNotificationRead(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notifs[id]
	if !ok {
		return repository.ErrNotFound
	}
	n.IsRead = true
	return nil
}

func (f *fakeRepo) BoardIDForColumn(_ context.Context, columnID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	col, ok := f.columns[columnID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return col.BoardID, nil
}

func (f *fakeRepo) BoardIDForCard(ctx context.Context, cardID int64) (int64, error) {
	f.mu.Lock()
	card, ok := f.cards[cardID]
	if !ok {
		f.mu.Unlock()
		return 0, repository.ErrNotFound
	}
	columnID := card.ColumnID
	f.mu.Unlock()
	return f.BoardIDForColumn(ctx, columnID)
}

func (f *fakeRepo) BoardIDForChecklistItem(ctx context.Context, itemID int64) (int64, error) {
	f.mu.Lock()
	item, ok := f.checklist[itemID]
	if !ok {
		f.mu.Unlock()
		return 0, repository.ErrNotFound
	}
	cardID := item.CardID
	f.mu.Unlock()
	return f.BoardIDForCard(ctx, cardID)
}

func (f *fakeRepo) BoardIDForLabel(_ context.Context, labelID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	label, ok := f.labels[labelID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return label.BoardID, nil
}

func (f *fakeRepo) BoardIDForAttachment(ctx context.Context, attachmentID int64) (int64, error) {
	f.mu.Lock()
	att, ok := f.attach[attachmentID]
	if !ok {
		f.mu.Unlock()
		return 0, repository.ErrNotFound
	}
	cardID := att.CardID
	f.mu.Unlock()
	return f.BoardIDForCard(ctx, cardID)
}

func (f *fakeRepo) BoardIDForChatMessage(_ context.Context, messageID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg, ok := f.chat[messageID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return msg.BoardID, nil
}

func (f *fakeRepo) OwnerForNotification(_ context.Context, id int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notifs[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return n.UserID, nil
}

// recordingHub captures broadcasts for assertions.
type recordingHub struct {
	mu       sync.Mutex
	board   []boardEmit
	user    []userEmit
	evicted [][2]int64 // (boardID, userID)
}

type boardEmit struct {
	boardID int64
	ev      realtime.Event
}

type userEmit struct {
	userID int64
	ev     realtime.Event
}

func (r *recordingHub) EmitToBoard(boardID int64, ev realtime.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.board = append(r.board, boardEmit{boardID, ev})
}

func (r *recordingHub) EmitToUser(userID int64, ev realtime.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.user = append(r.user, userEmit{userID, ev})
}

func (r *recordingHub) EvictUser(boardID, userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evicted = append(r.evicted, [2]int64{boardID, userID})
}

func (r *recordingHub) boardEvents(name string) []boardEmit {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []boardEmit
	for _, e := range r.board {
		if e.ev.Name == name {
			out = append(out, e)
		}
	}
	return out
}

func (r *recordingHub) userEvents(name string) []userEmit {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []userEmit
	for _, e := range r.user {
		if e.ev.Name == name {
			out = append(out, e)
		}
	}
	return out
}
