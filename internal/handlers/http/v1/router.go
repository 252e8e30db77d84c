package v1

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/boardsync/boardsync/config"
	gql "github.com/boardsync/boardsync/internal/handlers/http/v1/graphql"
	"github.com/boardsync/boardsync/internal/realtime"
	"github.com/boardsync/boardsync/internal/service"
)

type handler struct {
	svc *service.Service
	hub *realtime.Hub
}

func New(svc *service.Service, hub *realtime.Hub, conf config.Auth) (*gin.Engine, error) {
	var (
		router = gin.New()
		h      = &handler{svc: svc, hub: hub}
	)

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300 * time.Second,
	}))

	gqlHandler, err := gql.New(svc)
	if err != nil {
		return nil, err
	}

	apiGroup := router.Group("/api/v1")
	{
		apiGroup.Use(gin.Logger())

		apiGroup.GET("/ping", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		authGroup := apiGroup.Group("")
		{
			authGroup.Use(requireAuth(conf.JWTSecret))

			authGroup.GET("/realtime", h.realtime)
			authGroup.POST("/graphql", gin.WrapH(gqlHandler))

			authGroup.POST("/boards", h.createBoard)
			authGroup.GET("/boards", h.listBoards)
			authGroup.GET("/boards/:id", h.getBoard)
			authGroup.DELETE("/boards/:id", h.deleteBoard)
			authGroup.POST("/boards/:id/members", h.addMember)
			authGroup.DELETE("/boards/:id/members/:userId", h.removeMember)
			authGroup.POST("/boards/:id/chat", h.postChat)
			authGroup.GET("/boards/:id/chat", h.listChat)
			authGroup.PATCH("/chat/:id/pin", h.pinChat)

			authGroup.POST("/columns", h.createColumn)
			authGroup.PATCH("/columns/:id", h.renameColumn)
			authGroup.PATCH("/columns/:id/move", h.moveColumn)
			authGroup.DELETE("/columns/:id", h.deleteColumn)

			authGroup.POST("/cards", h.createCard)
			authGroup.PUT("/cards/:id", h.updateCard)
			authGroup.PATCH("/cards/:id/move", h.moveCard)
			authGroup.DELETE("/cards/:id", h.deleteCard)
			authGroup.POST("/cards/:id/comments", h.addComment)
			authGroup.POST("/cards/:id/checklist", h.addChecklistItem)
			authGroup.PATCH("/checklist/:id/toggle", h.toggleChecklistItem)

			authGroup.POST("/labels", h.createLabel)
			authGroup.POST("/labels/toggle", h.toggleLabel)
			authGroup.DELETE("/labels/:id", h.deleteLabel)

			authGroup.POST("/attachments", h.addAttachment)
			authGroup.GET("/attachments/:id/url", h.attachmentURL)
			authGroup.DELETE("/attachments/:id", h.deleteAttachment)

			authGroup.GET("/notifications", h.listNotifications)
			authGroup.PATCH("/notifications/:id/read", h.markNotificationRead)
		}
	}

	return router, nil
}

// realtime upgrades to a websocket and hands the connection to the hub; the
// handler blocks for the lifetime of the socket.
func (h *handler) realtime(c *gin.Context) {
	h.hub.ServeConn(c.Writer, c.Request, principal(c))
}
