package handlers

import (
	"net/http"

	"github.com/ArowuTest/callops-backend/internal/models"
	"github.com/ArowuTest/callops-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// CallHandler handles call-record HTTP requests
type CallHandler struct {
	callService services.CallService
}

// NewCallHandler creates a new CallHandler
func NewCallHandler(callService services.CallService) *CallHandler {
	return &CallHandler{
		callService: callService,
	}
}

// StartCall handles POST /calls
func (h *CallHandler) StartCall(c *gin.Context) {
	var req struct {
		Number string `json:"number" binding:"required"`
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	call, err := h.callService.StartCall(c, req.Number, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, call)
}

// CompleteCall handles PUT /calls/:id/complete
func (h *CallHandler) CompleteCall(c *gin.Context) {
	var req struct {
		Outcome models.CallOutcome `json:"outcome" binding:"required"`
		Notes   string             `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	call, err := h.callService.CompleteCall(c, c.Param("id"), req.Outcome, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, call)
}

// DeleteCall handles DELETE /calls/:id
func (h *CallHandler) DeleteCall(c *gin.Context) {
	if err := h.callService.DeleteCall(c, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "call deleted"})
}

// GetCallsForNumber handles GET /calls/number/:number
func (h *CallHandler) GetCallsForNumber(c *gin.Context) {
	calls, err := h.callService.GetCallsForNumber(c, c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, calls)
}

// GetCallsForUser handles GET /calls/user/:userId
func (h *CallHandler) GetCallsForUser(c *gin.Context) {
	calls, err := h.callService.GetCallsForUser(c, c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, calls)
}
