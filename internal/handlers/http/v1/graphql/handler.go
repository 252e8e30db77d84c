// Package graphql exposes the read-only snapshot queries. Clients re-derive
// canonical board state through these after (re)joining a room; all mutations
// go through the REST surface so they follow the persist-then-broadcast path.
package graphql

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/boardsync/boardsync/internal/service"
	"github.com/graphql-go/graphql"
)

type userKey struct{}

// WithUser stamps the authenticated principal on the request context; the
// resolvers read it back so every query is scoped to the caller's access.
func WithUser(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

func userFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(userKey{}).(int64)
	return id
}

type gqlHandler struct {
	svc *service.Service

	schema graphql.Schema
}

func New(svc *service.Service) (*gqlHandler, error) {
	gh := &gqlHandler{
		svc: svc,
	}

	if err := gh.initSchema(); err != nil {
		return nil, err
	}

	return gh, nil
}

func (gh *gqlHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var queryJSON struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}

	if err := json.NewDecoder(r.Body).Decode(&queryJSON); err != nil {
		log.Println("[GRAPHQL]", err)
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}

	res := graphql.Do(graphql.Params{
		Context:        r.Context(),
		Schema:         gh.schema,
		RequestString:  queryJSON.Query,
		VariableValues: queryJSON.Variables,
	})
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
