package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/e-commerce-order-api/internal/customer/domain"
	"github.com/ridloal/e-commerce-order-api/internal/customer/repository"
	"github.com/ridloal/e-commerce-order-api/internal/customer/service"
	"github.com/ridloal/e-commerce-order-api/internal/platform/logger"
)

type CustomerHandler struct {
	customerService service.CustomerService
}

func NewCustomerHandler(cs service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: cs}
}

func (h *CustomerHandler) RegisterRoutes(router *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	customerRoutes := router.Group("/customers")
	{
		customerRoutes.GET("", h.ListCustomers)
		customerRoutes.GET("/:id", h.GetCustomer)
		customerRoutes.POST("", adminOnly, h.CreateCustomer)
		customerRoutes.PUT("/:id", adminOnly, h.UpdateCustomer)
		customerRoutes.DELETE("/:id", adminOnly, h.DeleteCustomer)
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

func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	customers, err := h.customerService.ListCustomers(c.Request.Context())
	if err != nil {
		logger.Error("ListCustomers Hdl: service error", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list customers"})
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
			return
		}
		logger.Error("GetCustomer Hdl: service error", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get customer"})
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req domain.UpsertCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	customer, err := h.customerService.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		logger.Error("CreateCustomer Hdl: service error", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create customer"})
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req domain.UpsertCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
			return
		}
		logger.Error("UpdateCustomer Hdl: service error", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update customer"})
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	err := h.customerService.DeleteCustomer(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
			return
		}
		if errors.Is(err, repository.ErrCustomerConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Customer is referenced by existing orders"})
			return
		}
		logger.Error("DeleteCustomer Hdl: service error", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete customer"})
		return
	}
	c.Status(http.StatusNoContent)
}
