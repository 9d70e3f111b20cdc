package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"gatescore-service/internal/models"
	"gatescore-service/internal/service"
)

type SlotHandler struct {
	Service *service.SlotService
}

func NewSlotHandler(s *service.SlotService) *SlotHandler {
	return &SlotHandler{Service: s}
}

func (h *SlotHandler) CreateSlot(c *gin.Context) {
	var slot models.Slot
	if err := c.ShouldBindJSON(&slot); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if slot.Department == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "department is required"})
		return
	}
	if err := h.Service.CreateSlot(context.Background(), &slot); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, slot)
}

func (h *SlotHandler) ListSlots(c *gin.Context) {
	slots, err := h.Service.ListSlots(context.Background())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(slots) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No slots available"})
		return
	}
	c.JSON(http.StatusOK, slots)
}

func (h *SlotHandler) UpdateSlot(c *gin.Context) {
	id := c.Param("id")
	var update map[string]any
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.UpdateSlot(context.Background(), id, update); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Slot not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "slot updated"})
}
