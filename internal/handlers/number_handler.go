package handlers

import (
	"net/http"
	"strconv"

	"github.com/ArowuTest/callops-backend/internal/models"
	"github.com/ArowuTest/callops-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// NumberHandler handles phone-number pool HTTP requests
type NumberHandler struct {
	numberService     services.NumberService
	allocationService services.AllocationService
	bulkService       services.BulkService
}

// NewNumberHandler creates a new NumberHandler
func NewNumberHandler(numberService services.NumberService, allocationService services.AllocationService, bulkService services.BulkService) *NumberHandler {
	return &NumberHandler{
		numberService:     numberService,
		allocationService: allocationService,
		bulkService:       bulkService,
	}
}

// CreateNumber handles POST /numbers
func (h *NumberHandler) CreateNumber(c *gin.Context) {
	var req models.CreateNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entity, err := h.numberService.CreateNumber(c, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entity)
}

// BulkCreate handles POST /numbers/bulk
func (h *NumberHandler) BulkCreate(c *gin.Context) {
	var req struct {
		Rows []models.NumberRow `json:"rows"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.bulkService.BulkCreate(c, req.Rows)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// AssignNumbers handles POST /numbers/assign
func (h *NumberHandler) AssignNumbers(c *gin.Context) {
	var req models.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.allocationService.AssignNumbers(c, req.UserID, req.Count, req.AreaCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// QuickAssign handles POST /numbers/assign/quick
func (h *NumberHandler) QuickAssign(c *gin.Context) {
	var req struct {
		UserID   string `json:"userId" binding:"required"`
		AreaCode string `json:"areaCode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	number, err := h.allocationService.QuickAssign(c, req.UserID, req.AreaCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, number)
}

// ListAvailableAreaCodes handles GET /numbers/area-codes
func (h *NumberHandler) ListAvailableAreaCodes(c *gin.Context) {
	counts, err := h.numberService.ListAvailableAreaCodes(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// GetStats handles GET /numbers/stats
func (h *NumberHandler) GetStats(c *gin.Context) {
	stats, err := h.numberService.Stats(c, c.Query("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetNumber handles GET /numbers/:number
func (h *NumberHandler) GetNumber(c *gin.Context) {
	entity, err := h.numberService.GetNumber(c, c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity)
}

// UpdateNumber handles PUT /numbers/:number
func (h *NumberHandler) UpdateNumber(c *gin.Context) {
	var req struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entity, err := h.numberService.UpdateNumber(c, c.Param("number"), req.Name, req.Address)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity)
}

// ResetNumber handles PUT /numbers/:number/reset
func (h *NumberHandler) ResetNumber(c *gin.Context) {
	entity, err := h.numberService.ResetNumber(c, c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity)
}

// DeleteNumber handles DELETE /numbers/:number
func (h *NumberHandler) DeleteNumber(c *gin.Context) {
	if err := h.numberService.DeleteNumber(c, c.Param("number")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "number deleted"})
}

// BulkDeleteByAreaCode handles DELETE /numbers/area-code/:areaCode
func (h *NumberHandler) BulkDeleteByAreaCode(c *gin.Context) {
	force, _ := strconv.ParseBool(c.DefaultQuery("force", "false"))

	result, err := h.numberService.BulkDeleteByAreaCode(c, c.Param("areaCode"), force)
	if err != nil {
		respondError(c, err)
		return
	}

	// Partial success is success with a breakdown; only a run that deleted
	// nothing surfaces as a conflict.
	if result.Outcome == models.BulkDeleteFailed {
		c.JSON(http.StatusConflict, result)
		return
	}
	c.JSON(http.StatusOK, result)
}
