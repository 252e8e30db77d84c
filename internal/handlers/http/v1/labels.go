package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handler) createLabel(c *gin.Context) {
	var in struct {
		BoardID int64  `json:"boardId"`
		Title   string `json:"title"`
		Color   string `json:"color"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request body"})
		return
	}
	label, err := h.svc.CreateLabel(c.Request.Context(), principal(c), in.BoardID, in.Title, in.Color)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, label)
}

func (h *handler) toggleLabel(c *gin.Context) {
	var in struct {
		CardID  int64 `json:"cardId"`
		LabelID int64 `json:"labelId"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request body"})
		return
	}
	attached, err := h.svc.ToggleLabel(c.Request.Context(), principal(c), in.CardID, in.LabelID)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attached": attached})
}

func (h *handler) deleteLabel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteLabel(c.Request.Context(), principal(c), id); err != nil {
		abortErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
