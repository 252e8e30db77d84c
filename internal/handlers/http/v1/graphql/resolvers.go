package graphql

import (
	"strconv"

	"github.com/graphql-go/graphql"
)

func argID(p graphql.ResolveParams, name string) (int64, error) {
	raw, _ := p.Args[name].(string)
	return strconv.ParseInt(raw, 10, 64)
}

func getBoardQuery(gh *gqlHandler, boardType *graphql.Object) *graphql.Field {
	return &graphql.Field{
		Type: boardType,
		Args: graphql.FieldConfigArgument{
			"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			id, err := argID(p, "id")
			if err != nil {
				return nil, err
			}
			return gh.svc.GetBoard(p.Context, userFrom(p.Context), id)
		},
	}
}

func getBoardsQuery(gh *gqlHandler, boardType *graphql.Object) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewList(boardType),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return gh.svc.GetBoards(p.Context, userFrom(p.Context))
		},
	}
}

func getColumnsQuery(gh *gqlHandler, columnType *graphql.Object) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewList(columnType),
		Args: graphql.FieldConfigArgument{
			"boardId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			boardID, err := argID(p, "boardId")
			if err != nil {
				return nil, err
			}
			return gh.svc.Columns(p.Context, userFrom(p.Context), boardID)
		},
	}
}

func getCardQuery(gh *gqlHandler, cardType *graphql.Object) *graphql.Field {
	return &graphql.Field{
		Type: cardType,
		Args: graphql.FieldConfigArgument{
			"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			id, err := argID(p, "id")
			if err != nil {
				return nil, err
			}
			return gh.svc.GetCard(p.Context, userFrom(p.Context), id)
		},
	}
}

func getCardsQuery(gh *gqlHandler, cardType *graphql.Object) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewList(cardType),
		Args: graphql.FieldConfigArgument{
			"columnId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			columnID, err := argID(p, "columnId")
			if err != nil {
				return nil, err
			}
			return gh.svc.Cards(p.Context, userFrom(p.Context), columnID)
		},
	}
}

func getChatMessagesQuery(gh *gqlHandler, chatMessageType *graphql.Object) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewList(chatMessageType),
		Args: graphql.FieldConfigArgument{
			"boardId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			"limit":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 100},
			"offset":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			boardID, err := argID(p, "boardId")
			if err != nil {
				return nil, err
			}
			limit, _ := p.Args["limit"].(int)
			offset, _ := p.Args["offset"].(int)
			return gh.svc.ChatMessages(p.Context, userFrom(p.Context), boardID, limit, offset)
		},
	}
}
