package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h *handler) addAttachment(c *gin.Context) {
	cardID, err := strconv.ParseInt(c.PostForm("cardId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad cardId"})
		return
	}
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}
	defer file.Close()

	att, err := h.svc.AddAttachment(c.Request.Context(), principal(c), cardID,
		file, header.Size, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, att)
}

func (h *handler) attachmentURL(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	url, err := h.svc.AttachmentURL(c.Request.Context(), principal(c), id)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url.String()})
}

func (h *handler) deleteAttachment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteAttachment(c.Request.Context(), principal(c), id); err != nil {
		abortErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
