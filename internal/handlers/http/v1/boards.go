package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handler) createBoard(c *gin.Context) {
	var in struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request body"})
		return
	}
	board, err := h.svc.CreateBoard(c.Request.Context(), principal(c), in.Title)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, board)
}

func (h *handler) listBoards(c *gin.Context) {
	boards, err := h.svc.GetBoards(c.Request.Context(), principal(c))
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, boards)
}

func (h *handler) getBoard(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	board, err := h.svc.GetBoard(c.Request.Context(), principal(c), id)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *handler) deleteBoard(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteBoard(c.Request.Context(), principal(c), id); err != nil {
		abortErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) addMember(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in struct {
		UserID int64 `json:"userId"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request body"})
		return
	}
	member, err := h.svc.AddMember(c.Request.Context(), principal(c), id, in.UserID)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

func (h *handler) removeMember(c *gin.Context) {
	boardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	if err := h.svc.RemoveMember(c.Request.Context(), principal(c), boardID, userID); err != nil {
		abortErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) listNotifications(c *gin.Context) {
	notifications, err := h.svc.Notifications(c.Request.Context(), principal(c))
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func (h *handler) markNotificationRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.MarkNotificationRead(c.Request.Context(), principal(c), id); err != nil {
		abortErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
