package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gatescore-service/internal/answerkey"
	"gatescore-service/internal/service"
)

type AnswerKeyHandler struct {
	Service *service.AnswerKeyService
}

func NewAnswerKeyHandler(s *service.AnswerKeyService) *AnswerKeyHandler {
	return &AnswerKeyHandler{Service: s}
}

// UploadKey replaces a slot's answer key from an uploaded CSV. The upload
// is all-or-nothing: any invalid row rejects the batch and keeps the
// previous key in place.
func (h *AnswerKeyHandler) UploadKey(c *gin.Context) {
	slotID := c.PostForm("slot_id")
	file, _, err := c.Request.FormFile("file")
	if slotID == "" || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file and slot_id are required"})
		return
	}
	defer file.Close()

	created, err := h.Service.Replace(context.Background(), slotID, file)
	if err != nil {
		var rowErrs answerkey.RowErrors
		var formatErr *answerkey.FormatError
		switch {
		case errors.Is(err, service.ErrSlotNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Slot not found"})
		case errors.As(err, &rowErrs):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Error in processing answer key", "errors": rowErrs})
		case errors.As(err, &formatErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": formatErr.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"created": created})
}

func (h *AnswerKeyHandler) GetKey(c *gin.Context) {
	slotID := c.Query("slot_id")
	if slotID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slot_id is required"})
		return
	}

	entries, err := h.Service.GetBySlot(context.Background(), slotID)
	if err != nil {
		if errors.Is(err, service.ErrNoAnswerKey) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No answer key found for the given slot"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}
