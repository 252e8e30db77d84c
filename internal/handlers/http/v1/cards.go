package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/boardsync/boardsync/internal/repository"
	"github.com/boardsync/boardsync/internal/service"
)

func (h *handler) createCard(c *gin.Context) {
	var in service.CreateCardInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request body"})
		return
	}
	card, err := h.svc.CreateCard(c.Request.Context(), principal(c), in)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, card)
}

func (h *handler) updateCard(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var patch repository.CardPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request body"})
		return
	}
	card, err := h.svc.UpdateCard(c.Request.Context(), principal(c), id, patch)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *handler) moveCard(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in service.MoveCardInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request body"})
		return
	}
	card, err := h.svc.MoveCard(c.Request.Context(), principal(c), id, in)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *handler) deleteCard(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteCard(c.Request.Context(), principal(c), id); err != nil {
		abortErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) addComment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request body"})
		return
	}
	comment, err := h.svc.AddComment(c.Request.Context(), principal(c), id, in.Content)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *handler) addChecklistItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request body"})
		return
	}
	card, err := h.svc.AddChecklistItem(c.Request.Context(), principal(c), id, in.Text)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, card)
}

func (h *handler) toggleChecklistItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	card, err := h.svc.ToggleChecklistItem(c.Request.Context(), principal(c), id)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}
