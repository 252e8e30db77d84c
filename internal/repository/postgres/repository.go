package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/boardsync/boardsync/config"
	"github.com/boardsync/boardsync/internal/repository"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"

	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

type postgresRepository struct {
	db *sql.DB
}

func New(conf config.Postgres) (*postgresRepository, error) {
	url := fmt.Sprintf(
		"postgresql://%v:%v@%v:%v/%v?sslmode=disable", conf.User, conf.Pass, conf.Host, conf.Port, conf.DB)

	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %v", err)
	}
	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("db.Ping: %v", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres.WithInstance: %v", err)
	}
	migrations := fmt.Sprintf("file://%v", conf.Migrations)
	m, err := migrate.NewWithDatabaseInstance(migrations, conf.DB, driver)
	if err != nil {
		return nil, fmt.Errorf("migrate.NewWithDatabaseInstance: %v", err)
	}
	log.Println("applying migrations...")
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Println("nothing to migrate")
		} else {
			return nil, fmt.Errorf("error when migrating: %v", err)
		}
	} else {
		log.Println("migrated successfully!")
	}

	return &postgresRepository{
		db: db,
	}, nil
}

// withTx runs fn inside a transaction. When an acting user is stamped on the
// context it is exposed as a transaction-local session variable for the audit
// triggers. Rollback on any error, so a failed mutation is never partially
// applied and the caller never broadcasts it.
func (pr *postgresRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := pr.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db.BeginTx: %v", err)
	}
	if uid, ok := repository.AuditUser(ctx); ok {
		if _, err := tx.ExecContext(ctx, "SELECT set_config('app.current_user_id', $1, true)", fmt.Sprint(uid)); err != nil {
			tx.Rollback()
			return fmt.Errorf("set_config: %v", err)
		}
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx.Commit: %v", err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

// Users

func (pr *postgresRepository) GetUser(ctx context.Context, id int64) (*repository.User, error) {
	user := &repository.User{}
	err := pr.db.QueryRowContext(ctx, "SELECT id, name, email FROM users WHERE id = $1", id).Scan(
		&user.ID, &user.Name, &user.Email)
	if err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

// Boards and membership

func (pr *postgresRepository) CreateBoard(ctx context.Context, title string, ownerID int64) (*repository.Board, error) {
	var boardID int64
	err := pr.withTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx,
			"INSERT INTO boards (title, owner_id) VALUES ($1, $2) RETURNING id", title, ownerID).Scan(&boardID)
	})
	if err != nil {
		return nil, err
	}
	return pr.GetBoard(ctx, boardID)
}

func (pr *postgresRepository) GetBoard(ctx context.Context, id int64) (*repository.Board, error) {
	board := &repository.Board{}
	err := pr.db.QueryRowContext(ctx,
		"SELECT id, title, owner_id, created_at FROM boards WHERE id = $1", id).Scan(
		&board.ID, &board.Title, &board.OwnerID, &board.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return board, nil
}

func (pr *postgresRepository) GetBoardsForUser(ctx context.Context, userID int64) ([]repository.Board, error) {
	rows, err := pr.db.QueryContext(ctx, `
		SELECT DISTINCT b.id, b.title, b.owner_id, b.created_at
		FROM boards b
		LEFT JOIN board_members m ON m.board_id = b.id
		WHERE b.owner_id = $1 OR m.user_id = $1
		ORDER BY b.created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	boards := []repository.Board{}
	for rows.Next() {
		board := repository.Board{}
		if err := rows.Scan(&board.ID, &board.Title, &board.OwnerID, &board.CreatedAt); err != nil {
			return nil, err
		}
		boards = append(boards, board)
	}
	return boards, rows.Err()
}

func (pr *postgresRepository) DeleteBoard(ctx context.Context, id int64) error {
	_, err := pr.db.ExecContext(ctx, "DELETE FROM boards WHERE id = $1", id)
	return err
}

func (pr *postgresRepository) AddMember(ctx context.Context, boardID, userID int64) (*repository.User, error) {
	err := pr.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO board_members (board_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING", boardID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pr.GetUser(ctx, userID)
}

func (pr *postgresRepository) RemoveMember(ctx context.Context, boardID, userID int64) error {
	return pr.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"DELETE FROM board_members WHERE board_id = $1 AND user_id = $2", boardID, userID)
		return err
	})
}

func (pr *postgresRepository) CanAccessBoard(ctx context.Context, boardID, userID int64) (bool, error) {
	var ok bool
	err := pr.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM boards WHERE id = $1 AND owner_id = $2
			UNION
			SELECT 1 FROM board_members WHERE board_id = $1 AND user_id = $2
		)`, boardID, userID).Scan(&ok)
	if err != nil {
		return false, err
	}
	return ok, nil
}

// Columns. order_index is dense per board: creation appends at the end, moves
// shift the affected range, deletion closes the gap — all inside one
// transaction so the set of indices is always exactly 0..n-1.

func (pr *postgresRepository) CreateColumn(ctx context.Context, boardID int64, title string) (*repository.Column, error) {
	var columnID int64
	err := pr.withTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, `
			INSERT INTO columns (board_id, title, order_index)
			VALUES ($1, $2, (SELECT COUNT(*) FROM columns WHERE board_id = $1))
			RETURNING id`, boardID, title).Scan(&columnID)
	})
	if err != nil {
		return nil, err
	}
	return pr.GetColumn(ctx, columnID)
}

func (pr *postgresRepository) GetColumn(ctx context.Context, id int64) (*repository.Column, error) {
	column := &repository.Column{}
	err := pr.db.QueryRowContext(ctx,
		"SELECT id, board_id, title, order_index FROM columns WHERE id = $1", id).Scan(
		&column.ID, &column.BoardID, &column.Title, &column.OrderIndex)
	if err != nil {
		return nil, notFound(err)
	}
	return column, nil
}

func (pr *postgresRepository) ColumnsForBoard(ctx context.Context, boardID int64) ([]repository.Column, error) {
	rows, err := pr.db.QueryContext(ctx,
		"SELECT id, board_id, title, order_index FROM columns WHERE board_id = $1 ORDER BY order_index", boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := []repository.Column{}
	for rows.Next() {
		column := repository.Column{}
		if err := rows.Scan(&column.ID, &column.BoardID, &column.Title, &column.OrderIndex); err != nil {
			return nil, err
		}
		columns = append(columns, column)
	}
	return columns, rows.Err()
}

func (pr *postgresRepository) RenameColumn(ctx context.Context, id int64, title string) (*repository.Column, error) {
	err := pr.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "UPDATE columns SET title = $1 WHERE id = $2", title, id)
		if err != nil {
			return err
		}
		return requireRow(res)
	})
	if err != nil {
		return nil, err
	}
	return pr.GetColumn(ctx, id)
}

func (pr *postgresRepository) MoveColumn(ctx context.Context, id int64, newPos int) (*repository.Column, error) {
	err := pr.withTx(ctx, func(tx *sql.Tx) error {
		var boardID int64
		var oldPos int
		err := tx.QueryRowContext(ctx,
			"SELECT board_id, order_index FROM columns WHERE id = $1 FOR UPDATE", id).Scan(&boardID, &oldPos)
		if err != nil {
			return notFound(err)
		}
		var count int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM columns WHERE board_id = $1", boardID).Scan(&count); err != nil {
			return err
		}
		// Keep order_index dense: a position past the end means "last".
		if newPos > count-1 {
			newPos = count - 1
		}
		if newPos == oldPos {
			return nil
		}
		if newPos > oldPos {
			_, err = tx.ExecContext(ctx, `
				UPDATE columns SET order_index = order_index - 1
				WHERE board_id = $1 AND order_index > $2 AND order_index <= $3`, boardID, oldPos, newPos)
		} else {
			_, err = tx.ExecContext(ctx, `
				UPDATE columns SET order_index = order_index + 1
				WHERE board_id = $1 AND order_index >= $3 AND order_index < $2`, boardID, oldPos, newPos)
		}
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, "UPDATE columns SET order_index = $1 WHERE id = $2", newPos, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pr.GetColumn(ctx, id)
}

func (pr *postgresRepository) DeleteColumn(ctx context.Context, id int64) error {
	return pr.withTx(ctx, func(tx *sql.Tx) error {
		var boardID int64
		var pos int
		err := tx.QueryRowContext(ctx,
			"SELECT board_id, order_index FROM columns WHERE id = $1 FOR UPDATE", id).Scan(&boardID, &pos)
		if errors.Is(err, sql.ErrNoRows) {
			return nil // idempotent
		}
		if err != nil {
			return err
		}
		// Cards cascade via FK.
		if _, err := tx.ExecContext(ctx, "DELETE FROM columns WHERE id = $1", id); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			"UPDATE columns SET order_index = order_index - 1 WHERE board_id = $1 AND order_index > $2", boardID, pos)
		return err
	})
}

// Cards

func (pr *postgresRepository) CreateCard(ctx context.Context, columnID int64, title, description string, priority repository.Priority, rankPos float64) (*repository.Card, error) {
	var cardID int64
	err := pr.withTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, `
			INSERT INTO cards (column_id, title, description, priority, rank_position)
			VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			columnID, title, description, priority, rankPos).Scan(&cardID)
	})
	if err != nil {
		return nil, err
	}
	return pr.GetCard(ctx, cardID)
}

func (pr *postgresRepository) GetCard(ctx context.Context, id int64) (*repository.Card, error) {
	card := &repository.Card{}
	err := pr.db.QueryRowContext(ctx, `
		SELECT id, column_id, title, description, rank_position, priority, due_date, assignee_id
		FROM cards WHERE id = $1`, id).Scan(
		&card.ID, &card.ColumnID, &card.Title, &card.Description,
		&card.RankPosition, &card.Priority, &card.DueDate, &card.AssigneeID)
	if err != nil {
		return nil, notFound(err)
	}
	if err := pr.loadCardRelations(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

func (pr *postgresRepository) loadCardRelations(ctx context.Context, card *repository.Card) error {
	card.Checklist = []repository.ChecklistItem{}
	rows, err := pr.db.QueryContext(ctx,
		"SELECT id, card_id, text, is_checked FROM checklist_items WHERE card_id = $1 ORDER BY id", card.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		item := repository.ChecklistItem{}
		if err := rows.Scan(&item.ID, &item.CardID, &item.Text, &item.IsChecked); err != nil {
			rows.Close()
			return err
		}
		card.Checklist = append(card.Checklist, item)
	}
	rows.Close()

	card.Comments = []repository.CardComment{}
	rows, err = pr.db.QueryContext(ctx,
		"SELECT id, card_id, author_id, content, created_at FROM card_comments WHERE card_id = $1 ORDER BY created_at, id", card.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		comment := repository.CardComment{}
		if err := rows.Scan(&comment.ID, &comment.CardID, &comment.AuthorID, &comment.Content, &comment.CreatedAt); err != nil {
			rows.Close()
			return err
		}
		card.Comments = append(card.Comments, comment)
	}
	rows.Close()

	card.Labels = []repository.Label{}
	rows, err = pr.db.QueryContext(ctx, `
		SELECT l.id, l.board_id, l.title, l.color
		FROM labels l JOIN card_labels cl ON cl.label_id = l.id
		WHERE cl.card_id = $1 ORDER BY l.id`, card.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		label := repository.Label{}
		if err := rows.Scan(&label.ID, &label.BoardID, &label.Title, &label.Color); err != nil {
			rows.Close()
			return err
		}
		card.Labels = append(card.Labels, label)
	}
	rows.Close()

	card.Attachments = []repository.Attachment{}
	rows, err = pr.db.QueryContext(ctx, `
		SELECT id, card_id, file_name, stored_name, mime_type, created_at
		FROM attachments WHERE card_id = $1 ORDER BY id`, card.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		att := repository.Attachment{}
		if err := rows.Scan(&att.ID, &att.CardID, &att.FileName, &att.StoredName, &att.MimeType, &att.CreatedAt); err != nil {
			return err
		}
		card.Attachments = append(card.Attachments, att)
	}
	return rows.Err()
}

func (pr *postgresRepository) CardsInColumn(ctx context.Context, columnID int64) ([]repository.Card, error) {
	rows, err := pr.db.QueryContext(ctx, `
		SELECT id, column_id, title, description, rank_position, priority, due_date, assignee_id
		FROM cards WHERE column_id = $1 ORDER BY rank_position, id`, columnID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := []repository.Card{}
	for rows.Next() {
		card := repository.Card{}
		if err := rows.Scan(&card.ID, &card.ColumnID, &card.Title, &card.Description,
			&card.RankPosition, &card.Priority, &card.DueDate, &card.AssigneeID); err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

func (pr *postgresRepository) UpdateCard(ctx context.Context, id int64, patch repository.CardPatch) (*repository.Card, error) {
	err := pr.withTx(ctx, func(tx *sql.Tx) error {
		set := []string{}
		args := []any{}
		arg := func(v any) string {
			args = append(args, v)
			return fmt.Sprintf("$%d", len(args))
		}

		if v, ok := patch.Title.Get(); ok {
			set = append(set, "title = "+arg(v))
		}
		if v, ok := patch.Description.Get(); ok {
			set = append(set, "description = "+arg(v))
		} else if patch.Description.IsCleared() {
			set = append(set, "description = ''")
		}
		if v, ok := patch.Priority.Get(); ok {
			set = append(set, "priority = "+arg(string(v)))
		}
		if v, ok := patch.DueDate.Get(); ok {
			set = append(set, "due_date = "+arg(v))
		} else if patch.DueDate.IsCleared() {
			set = append(set, "due_date = NULL")
		}
		if v, ok := patch.AssigneeID.Get(); ok {
			set = append(set, "assignee_id = "+arg(v))
		} else if patch.AssigneeID.IsCleared() {
			set = append(set, "assignee_id = NULL")
		}

		if len(set) == 0 {
			// Nothing to change; still verify the card exists.
			var exists bool
			if err := tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM cards WHERE id = $1)", id).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return repository.ErrNotFound
			}
			return nil
		}

		query := "UPDATE cards SET "
		for i, s := range set {
			if i > 0 {
				query += ", "
			}
			query += s
		}
		query += " WHERE id = " + arg(id)
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		return requireRow(res)
	})
	if err != nil {
		return nil, err
	}
	return pr.GetCard(ctx, id)
}

func (pr *postgresRepository) MoveCard(ctx context.Context, id, columnID int64, rankPos float64) (*repository.Card, error) {
	err := pr.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE cards SET column_id = $1, rank_position = $2 WHERE id = $3", columnID, rankPos, id)
		if err != nil {
			return err
		}
		return requireRow(res)
	})
	if err != nil {
		return nil, err
	}
	return pr.GetCard(ctx, id)
}

func (pr *postgresRepository) DeleteCard(ctx context.Context, id int64) error {
	// Attachments, checklist, comments and label links cascade via FK.
	_, err := pr.db.ExecContext(ctx, "DELETE FROM cards WHERE id = $1", id)
	return err
}

// Checklist and comments

func (pr *postgresRepository) AddChecklistItem(ctx context.Context, cardID int64, text string) (*repository.ChecklistItem, error) {
	item := &repository.ChecklistItem{}
	err := pr.db.QueryRowContext(ctx, `
		INSERT INTO checklist_items (card_id, text) VALUES ($1, $2)
		RETURNING id, card_id, text, is_checked`, cardID, text).Scan(
		&item.ID, &item.CardID, &item.Text, &item.IsChecked)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (pr *postgresRepository) ToggleChecklistItem(ctx context.Context, id int64) (*repository.ChecklistItem, error) {
	item := &repository.ChecklistItem{}
	err := pr.db.QueryRowContext(ctx, `
		UPDATE checklist_items SET is_checked = NOT is_checked WHERE id = $1
		RETURNING id, card_id, text, is_checked`, id).Scan(
		&item.ID, &item.CardID, &item.Text, &item.IsChecked)
	if err != nil {
		return nil, notFound(err)
	}
	return item, nil
}

func (pr *postgresRepository) AddCardComment(ctx context.Context, cardID, authorID int64, content string) (*repository.CardComment, error) {
	comment := &repository.CardComment{}
	err := pr.db.QueryRowContext(ctx, `
		INSERT INTO card_comments (card_id, author_id, content) VALUES ($1, $2, $3)
		RETURNING id, card_id, author_id, content, created_at`, cardID, authorID, content).Scan(
		&comment.ID, &comment.CardID, &comment.AuthorID, &comment.Content, &comment.CreatedAt)
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// Labels

func (pr *postgresRepository) CreateLabel(ctx context.Context, boardID int64, title, color string) (*repository.Label, error) {
	label := &repository.Label{}
	err := pr.db.QueryRowContext(ctx, `
		INSERT INTO labels (board_id, title, color) VALUES ($1, $2, $3)
		RETURNING id, board_id, title, color`, boardID, title, color).Scan(
		&label.ID, &label.BoardID, &label.Title, &label.Color)
	if err != nil {
		return nil, err
	}
	return label, nil
}

func (pr *postgresRepository) GetLabel(ctx context.Context, id int64) (*repository.Label, error) {
	label := &repository.Label{}
	err := pr.db.QueryRowContext(ctx,
		"SELECT id, board_id, title, color FROM labels WHERE id = $1", id).Scan(
		&label.ID, &label.BoardID, &label.Title, &label.Color)
	if err != nil {
		return nil, notFound(err)
	}
	return label, nil
}

func (pr *postgresRepository) DeleteLabel(ctx context.Context, id int64) error {
	_, err := pr.db.ExecContext(ctx, "DELETE FROM labels WHERE id = $1", id)
	return err
}

func (pr *postgresRepository) ToggleCardLabel(ctx context.Context, cardID, labelID int64) (bool, error) {
	var attached bool
	err := pr.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"DELETE FROM card_labels WHERE card_id = $1 AND label_id = $2", cardID, labelID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n > 0 {
			attached = false
			return nil
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO card_labels (card_id, label_id) VALUES ($1, $2)", cardID, labelID)
		attached = err == nil
		return err
	})
	return attached, err
}

// Attachments

func (pr *postgresRepository) AddAttachment(ctx context.Context, cardID int64, fileName, storedName, mimeType string) (*repository.Attachment, error) {
	att := &repository.Attachment{}
	err := pr.db.QueryRowContext(ctx, `
		INSERT INTO attachments (card_id, file_name, stored_name, mime_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, card_id, file_name, stored_name, mime_type, created_at`,
		cardID, fileName, storedName, mimeType).Scan(
		&att.ID, &att.CardID, &att.FileName, &att.StoredName, &att.MimeType, &att.CreatedAt)
	if err != nil {
		return nil, err
	}
	return att, nil
}

func (pr *postgresRepository) GetAttachment(ctx context.Context, id int64) (*repository.Attachment, error) {
	att := &repository.Attachment{}
	err := pr.db.QueryRowContext(ctx, `
		SELECT id, card_id, file_name, stored_name, mime_type, created_at
		FROM attachments WHERE id = $1`, id).Scan(
		&att.ID, &att.CardID, &att.FileName, &att.StoredName, &att.MimeType, &att.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return att, nil
}

func (pr *postgresRepository) DeleteAttachment(ctx context.Context, id int64) error {
	_, err := pr.db.ExecContext(ctx, "DELETE FROM attachments WHERE id = $1", id)
	return err
}

// Chat

func (pr *postgresRepository) AddChatMessage(ctx context.Context, boardID, authorID int64, content string) (*repository.ChatMessage, error) {
	msg := &repository.ChatMessage{}
	err := pr.db.QueryRowContext(ctx, `
		INSERT INTO chat_messages (board_id, author_id, content) VALUES ($1, $2, $3)
		RETURNING id, board_id, author_id, content, created_at, pinned`, boardID, authorID, content).Scan(
		&msg.ID, &msg.BoardID, &msg.AuthorID, &msg.Content, &msg.CreatedAt, &msg.Pinned)
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (pr *postgresRepository) PinChatMessage(ctx context.Context, id int64, pinned bool) (*repository.ChatMessage, error) {
	msg := &repository.ChatMessage{}
	err := pr.db.QueryRowContext(ctx, `
		UPDATE chat_messages SET pinned = $1 WHERE id = $2
		RETURNING id, board_id, author_id, content, created_at, pinned`, pinned, id).Scan(
		&msg.ID, &msg.BoardID, &msg.AuthorID, &msg.Content, &msg.CreatedAt, &msg.Pinned)
	if err != nil {
		return nil, notFound(err)
	}
	return msg, nil
}

func (pr *postgresRepository) ChatMessagesForBoard(ctx context.Context, boardID int64, limit, offset int) ([]repository.ChatMessage, error) {
	rows, err := pr.db.QueryContext(ctx, `
		SELECT id, board_id, author_id, content, created_at, pinned
		FROM chat_messages WHERE board_id = $1 ORDER BY created_at, id LIMIT $2 OFFSET $3`,
		boardID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []repository.ChatMessage{}
	for rows.Next() {
		msg := repository.ChatMessage{}
		if err := rows.Scan(&msg.ID, &msg.BoardID, &msg.AuthorID, &msg.Content, &msg.CreatedAt, &msg.Pinned); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// Notifications

func (pr *postgresRepository) CreateNotification(ctx context.Context, userID int64, content, resourceLink string) (*repository.Notification, error) {
	n := &repository.Notification{}
	err := pr.db.QueryRowContext(ctx, `
		INSERT INTO notifications (user_id, content, resource_link) VALUES ($1, $2, $3)
		RETURNING id, user_id, content, resource_link, is_read, created_at`, userID, content, resourceLink).Scan(
		&n.ID, &n.UserID, &n.Content, &n.ResourceLink, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (pr *postgresRepository) NotificationsForUser(ctx context.Context, userID int64) ([]repository.Notification, error) {
	rows, err := pr.db.QueryContext(ctx, `
		SELECT id, user_id, content, resource_link, is_read, created_at
		FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []repository.Notification{}
	for rows.Next() {
		n := repository.Notification{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.Content, &n.ResourceLink, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (pr *postgresRepository) MarkNotificationRead(ctx context.Context, id int64) error {
	res, err := pr.db.ExecContext(ctx, "UPDATE notifications SET is_read = TRUE WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Board resolution

func (pr *postgresRepository) BoardIDForColumn(ctx context.Context, columnID int64) (int64, error) {
	var boardID int64
	err := pr.db.QueryRowContext(ctx, "SELECT board_id FROM columns WHERE id = $1", columnID).Scan(&boardID)
	if err != nil {
		return 0, notFound(err)
	}
	return boardID, nil
}

func (pr *postgresRepository) BoardIDForCard(ctx context.Context, cardID int64) (int64, error) {
	var boardID int64
	err := pr.db.QueryRowContext(ctx, `
		SELECT c.board_id FROM columns c JOIN cards ca ON ca.column_id = c.id
		WHERE ca.id = $1`, cardID).Scan(&boardID)
	if err != nil {
		return 0, notFound(err)
	}
	return boardID, nil
}

func (pr *postgresRepository) BoardIDForChecklistItem(ctx context.Context, itemID int64) (int64, error) {
	var boardID int64
	err := pr.db.QueryRowContext(ctx, `
		SELECT c.board_id FROM columns c
		JOIN cards ca ON ca.column_id = c.id
		JOIN checklist_items ci ON ci.card_id = ca.id
		WHERE ci.id = $1`, itemID).Scan(&boardID)
	if err != nil {
		return 0, notFound(err)
	}
	return boardID, nil
}

func (pr *postgresRepository) BoardIDForLabel(ctx context.Context, labelID int64) (int64, error) {
	var boardID int64
	err := pr.db.QueryRowContext(ctx, "SELECT board_id FROM labels WHERE id = $1", labelID).Scan(&boardID)
	if err != nil {
		return 0, notFound(err)
	}
	return boardID, nil
}

func (pr *postgresRepository) BoardIDForAttachment(ctx context.Context, attachmentID int64) (int64, error) {
	var boardID int64
	err := pr.db.QueryRowContext(ctx, `
		SELECT c.board_id FROM columns c
		JOIN cards ca ON ca.column_id = c.id
		JOIN attachments a ON a.card_id = ca.id
		WHERE a.id = $1`, attachmentID).Scan(&boardID)
	if err != nil {
		return 0, notFound(err)
	}
	return boardID, nil
}

func (pr *postgresRepository) BoardIDForChatMessage(ctx context.Context, messageID int64) (int64, error) {
	var boardID int64
	err := pr.db.QueryRowContext(ctx, "SELECT board_id FROM chat_messages WHERE id = $1", messageID).Scan(&boardID)
	if err != nil {
		return 0, notFound(err)
	}
	return boardID, nil
}

func (pr *postgresRepository) OwnerForNotification(ctx context.Context, id int64) (int64, error) {
	var userID int64
	err := pr.db.QueryRowContext(ctx, "SELECT user_id FROM notifications WHERE id = $1", id).Scan(&userID)
	if err != nil {
		return 0, notFound(err)
	}
	return userID, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
