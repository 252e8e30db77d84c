package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handler) createColumn(c *gin.Context) {
	var in struct {
		BoardID int64  `json:"boardId"`
		Title   string `json:"title"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request body"})
		return
	}
	column, err := h.svc.CreateColumn(c.Request.Context(), principal(c), in.BoardID, in.Title)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, column)
}

func (h *handler) renameColumn(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request body"})
		return
	}
	column, err := h.svc.RenameColumn(c.Request.Context(), principal(c), id, in.Title)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, column)
}

func (h *handler) moveColumn(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in struct {
		Position int `json:"position"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request body"})
		return
	}
	column, err := h.svc.MoveColumn(c.Request.Context(), principal(c), id, in.Position)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, column)
}

func (h *handler) deleteColumn(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteColumn(c.Request.Context(), principal(c), id); err != nil {
		abortErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
