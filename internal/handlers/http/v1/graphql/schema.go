package graphql

import (
	"time"

	"github.com/graphql-go/graphql"
)

var DateTime = graphql.NewScalar(
	graphql.ScalarConfig{
		Name:        "DateTime",
		Description: "DateTime scalar type",
		Serialize: func(value interface{}) interface{} {
			switch v := value.(type) {
			case time.Time:
				return v.Format(time.RFC3339)
			case *time.Time:
				if v == nil {
					return nil
				}
				return v.Format(time.RFC3339)
			default:
				return nil
			}
		},
	},
)

func (gh *gqlHandler) initSchema() error {
	boardType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "Board",
			Fields: graphql.Fields{
				"id":        &graphql.Field{Type: graphql.ID},
				"title":     &graphql.Field{Type: graphql.String},
				"ownerId":   &graphql.Field{Type: graphql.ID},
				"createdAt": &graphql.Field{Type: DateTime},
			},
		},
	)

	columnType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "Column",
			Fields: graphql.Fields{
				"id":         &graphql.Field{Type: graphql.ID},
				"boardId":    &graphql.Field{Type: graphql.ID},
				"title":      &graphql.Field{Type: graphql.String},
				"orderIndex": &graphql.Field{Type: graphql.Int},
			},
		},
	)

	labelType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "Label",
			Fields: graphql.Fields{
				"id":      &graphql.Field{Type: graphql.ID},
				"boardId": &graphql.Field{Type: graphql.ID},
				"title":   &graphql.Field{Type: graphql.String},
				"color":   &graphql.Field{Type: graphql.String},
			},
		},
	)

	checklistItemType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "ChecklistItem",
			Fields: graphql.Fields{
				"id":        &graphql.Field{Type: graphql.ID},
				"cardId":    &graphql.Field{Type: graphql.ID},
				"text":      &graphql.Field{Type: graphql.String},
				"isChecked": &graphql.Field{Type: graphql.Boolean},
			},
		},
	)

	commentType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "Comment",
			Fields: graphql.Fields{
				"id":        &graphql.Field{Type: graphql.ID},
				"cardId":    &graphql.Field{Type: graphql.ID},
				"authorId":  &graphql.Field{Type: graphql.ID},
				"content":   &graphql.Field{Type: graphql.String},
				"createdAt": &graphql.Field{Type: DateTime},
			},
		},
	)

	attachmentType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "Attachment",
			Fields: graphql.Fields{
				"id":        &graphql.Field{Type: graphql.ID},
				"cardId":    &graphql.Field{Type: graphql.ID},
				"fileName":  &graphql.Field{Type: graphql.String},
				"mimeType":  &graphql.Field{Type: graphql.String},
				"createdAt": &graphql.Field{Type: DateTime},
			},
		},
	)

	cardType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "Card",
			Fields: graphql.Fields{
				"id":           &graphql.Field{Type: graphql.ID},
				"columnId":     &graphql.Field{Type: graphql.ID},
				"title":        &graphql.Field{Type: graphql.String},
				"description":  &graphql.Field{Type: graphql.String},
				"rankPosition": &graphql.Field{Type: graphql.Float},
				"priority":     &graphql.Field{Type: graphql.String},
				"dueDate":      &graphql.Field{Type: DateTime},
				"assigneeId":   &graphql.Field{Type: graphql.ID},
				"checklist":    &graphql.Field{Type: graphql.NewList(checklistItemType)},
				"comments":     &graphql.Field{Type: graphql.NewList(commentType)},
				"labels":       &graphql.Field{Type: graphql.NewList(labelType)},
				"attachments":  &graphql.Field{Type: graphql.NewList(attachmentType)},
			},
		},
	)

	chatMessageType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "ChatMessage",
			Fields: graphql.Fields{
				"id":        &graphql.Field{Type: graphql.ID},
				"boardId":   &graphql.Field{Type: graphql.ID},
				"authorId":  &graphql.Field{Type: graphql.ID},
				"content":   &graphql.Field{Type: graphql.String},
				"createdAt": &graphql.Field{Type: DateTime},
				"pinned":    &graphql.Field{Type: graphql.Boolean},
			},
		},
	)

	queryType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "Query",
			Fields: graphql.Fields{
				"board":        getBoardQuery(gh, boardType),
				"boards":       getBoardsQuery(gh, boardType),
				"columns":      getColumnsQuery(gh, columnType),
				"card":         getCardQuery(gh, cardType),
				"cards":        getCardsQuery(gh, cardType),
				"chatMessages": getChatMessagesQuery(gh, chatMessageType),
			},
		},
	)

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
	if err != nil {
		return err
	}
	gh.schema = schema

	return nil
}
