package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gatescore-service/internal/fetcher"
	"gatescore-service/internal/service"
)

type PredictHandler struct {
	Service *service.PredictService
}

func NewPredictHandler(s *service.PredictService) *PredictHandler {
	return &PredictHandler{Service: s}
}

type predictRequest struct {
	URL        string `json:"url"`
	Department string `json:"department"`
	Shift      string `json:"shift"`
}

func (h *PredictHandler) Predict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.URL == "" || req.Department == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url and department are required"})
		return
	}
	userID := c.GetHeader("X-User-ID")

	result, err := h.Service.Predict(context.Background(), userID, req.Department, req.Shift, req.URL)
	if err != nil {
		var fetchErr *fetcher.FetchError
		switch {
		case errors.Is(err, service.ErrSlotNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No slot found for the given department"})
		case errors.Is(err, service.ErrNoAnswerKey):
			c.JSON(http.StatusNotFound, gin.H{"error": "No answer key found for this slot"})
		case errors.As(err, &fetchErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to fetch response sheet", "detail": fetchErr.Error()})
		case errors.Is(err, fetcher.ErrInvalidResponseFormat):
			c.JSON(http.StatusBadRequest, gin.H{"error": fetcher.ErrInvalidResponseFormat.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
