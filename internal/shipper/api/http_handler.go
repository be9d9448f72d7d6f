package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/e-commerce-order-api/internal/platform/logger"
	"github.com/ridloal/e-commerce-order-api/internal/shipper/domain"
	"github.com/ridloal/e-commerce-order-api/internal/shipper/repository"
	"github.com/ridloal/e-commerce-order-api/internal/shipper/service"
)

type ShipperHandler struct {
	shipperService service.ShipperService
}

func NewShipperHandler(ss service.ShipperService) *ShipperHandler {
	return &ShipperHandler{shipperService: ss}
}

func (h *ShipperHandler) RegisterRoutes(router *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	shipperRoutes := router.Group("/shippers")
	{
		shipperRoutes.GET("", h.ListShippers)
		shipperRoutes.GET("/:id", h.GetShipper)
		shipperRoutes.POST("", adminOnly, h.CreateShipper)
		shipperRoutes.PUT("/:id", adminOnly, h.UpdateShipper)
		shipperRoutes.DELETE("/:id", adminOnly, h.DeleteShipper)
	}
}

func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id parameter"})
		return 0, false
	}
	return id, true
}

func (h *ShipperHandler) ListShippers(c *gin.Context) {
	shippers, err := h.shipperService.ListShippers(c.Request.Context())
	if err != nil {
		logger.Error("ListShippers Hdl: service error", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list shippers"})
		return
	}
	c.JSON(http.StatusOK, shippers)
}

func (h *ShipperHandler) GetShipper(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	shipper, err := h.shipperService.GetShipper(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrShipperNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shipper not found"})
			return
		}
		logger.Error("GetShipper Hdl: service error", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get shipper"})
		return
	}
	c.JSON(http.StatusOK, shipper)
}

func (h *ShipperHandler) CreateShipper(c *gin.Context) {
	var req domain.UpsertShipperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	shipper, err := h.shipperService.CreateShipper(c.Request.Context(), req)
	if err != nil {
		logger.Error("CreateShipper Hdl: service error", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create shipper"})
		return
	}
	c.JSON(http.StatusCreated, shipper)
}

func (h *ShipperHandler) UpdateShipper(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req domain.UpsertShipperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	shipper, err := h.shipperService.UpdateShipper(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, repository.ErrShipperNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shipper not found"})
			return
		}
		logger.Error("UpdateShipper Hdl: service error", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update shipper"})
		return
	}
	c.JSON(http.StatusOK, shipper)
}

func (h *ShipperHandler) DeleteShipper(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	err := h.shipperService.DeleteShipper(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrShipperNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shipper not found"})
			return
		}
		if errors.Is(err, repository.ErrShipperConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Shipper is referenced by existing orders"})
			return
		}
		logger.Error("DeleteShipper Hdl: service error", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete shipper"})
		return
	}
	c.Status(http.StatusNoContent)
}
