package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h *handler) postChat(c *gin.Context) {
	boardID, ok := pathID(c, "id")
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
	msg, err := h.svc.PostChatMessage(c.Request.Context(), principal(c), boardID, in.Content)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *handler) pinChat(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in struct {
		Pinned bool `json:"pinned"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request body"})
		return
	}
	msg, err := h.svc.PinChatMessage(c.Request.Context(), principal(c), id, in.Pinned)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *handler) listChat(c *gin.Context) {
	boardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	messages, err := h.svc.ChatMessages(c.Request.Context(), principal(c), boardID, limit, offset)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}
