package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/e-commerce-order-api/internal/order/domain"
	"github.com/ridloal/e-commerce-order-api/internal/order/repository"
	"github.com/ridloal/e-commerce-order-api/internal/order/service"
	"github.com/ridloal/e-commerce-order-api/internal/platform/logger"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(os service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: os}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup, authRequired, adminOnly gin.HandlerFunc) {
	orderRoutes := router.Group("/orders")
	{
		orderRoutes.POST("", authRequired, h.PlaceOrder)
		orderRoutes.GET("", h.ListOrders)
		orderRoutes.GET("/:id", h.GetOrder)
		orderRoutes.GET("/customer/:customer_id", h.ListOrdersByCustomer)
		orderRoutes.DELETE("/:id", adminOnly, h.DeleteOrder)

		reports := orderRoutes.Group("/reports")
		{
			reports.GET("/with-customer-info", h.OrdersWithCustomerInfo)
			reports.GET("/days-without-orders", h.DaysWithoutOrders)
			reports.GET("/second-highest-order-days", h.SecondHighestOrderDays)
			reports.GET("/customer-ranking", h.CustomerRanking)
			reports.GET("/order-totals", h.OrderTotals)
			reports.GET("/total-by-country", h.TotalAmountByCountry)
			reports.GET("/total-greater-than", h.OrdersWithTotalGreaterThan)
			reports.GET("/above-average", h.OrdersAboveAverage)
		}
	}
}

// PlaceOrder memetakan failure engine ke status HTTP:
// validation 400, not-found 404, stok kurang 409, sisanya 500.
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req domain.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	resp, err := h.orderService.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		var stockErr *service.InsufficientStockError
		switch {
		case errors.Is(err, service.ErrInvalidOrderRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrCustomerNotFound),
			errors.Is(err, service.ErrShipperNotFound),
			errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.As(err, &stockErr):
			c.JSON(http.StatusConflict, gin.H{
				"error":      stockErr.Error(),
				"product_id": stockErr.ProductID,
				"requested":  stockErr.Requested,
				"available":  stockErr.Available,
			})
		default:
			logger.Error("PlaceOrder Hdl: unhandled service error", err, nil)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id parameter"})
		return
	}
	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		logger.Error("GetOrder Hdl: service error", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get order"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	orders, err := h.orderService.ListOrders(c.Request.Context(), limit, offset)
	if err != nil {
		logger.Error("ListOrders Hdl: service error", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) ListOrdersByCustomer(c *gin.Context) {
	customerID, err := strconv.ParseInt(c.Param("customer_id"), 10, 64)
	if err != nil || customerID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer_id parameter"})
		return
	}
	orders, err := h.orderService.ListOrdersByCustomer(c.Request.Context(), customerID)
	if err != nil {
		logger.Error("ListOrdersByCustomer Hdl: service error", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id parameter"})
		return
	}
	if err := h.orderService.DeleteOrder(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		logger.Error("DeleteOrder Hdl: service error", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete order"})
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Reports ---

func (h *OrderHandler) OrdersWithCustomerInfo(c *gin.Context) {
	infos, err := h.orderService.OrdersWithCustomerInfo(c.Request.Context())
	if err != nil {
		logger.Error("OrdersWithCustomerInfo Hdl: service error", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run report"})
		return
	}
	c.JSON(http.StatusOK, infos)
}

func (h *OrderHandler) DaysWithoutOrders(c *gin.Context) {
	year, err1 := strconv.Atoi(c.Query("year"))
	month, err2 := strconv.Atoi(c.Query("month"))
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year and month query parameters are required"})
		return
	}
	days, err := h.orderService.DaysWithoutOrdersForMonth(c.Request.Context(), year, month)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrderRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("DaysWithoutOrders Hdl: service error", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run report"})
		return
	}
	c.JSON(http.StatusOK, days)
}

func (h *OrderHandler) SecondHighestOrderDays(c *gin.Context) {
	days, err := h.orderService.SecondHighestOrderDayPerMonth(c.Request.Context())
	if err != nil {
		logger.Error("SecondHighestOrderDays Hdl: service error", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run report"})
		return
	}
	c.JSON(http.StatusOK, days)
}

func (h *OrderHandler) CustomerRanking(c *gin.Context) {
	ranks, err := h.orderService.CustomerRankingByYear(c.Request.Context())
	if err != nil {
		logger.Error("CustomerRanking Hdl: service error", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run report"})
		return
	}
	c.JSON(http.StatusOK, ranks)
}

func (h *OrderHandler) OrderTotals(c *gin.Context) {
	totals, err := h.orderService.OrderTotals(c.Request.Context())
	if err != nil {
		logger.Error("OrderTotals Hdl: service error", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run report"})
		return
	}
	c.JSON(http.StatusOK, totals)
}

func (h *OrderHandler) TotalAmountByCountry(c *gin.Context) {
	sales, err := h.orderService.TotalAmountByCountry(c.Request.Context())
	if err != nil {
		logger.Error("TotalAmountByCountry Hdl: service error", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run report"})
		return
	}
	c.JSON(http.StatusOK, sales)
}

func (h *OrderHandler) OrdersWithTotalGreaterThan(c *gin.Context) {
	threshold, err := strconv.ParseInt(c.DefaultQuery("threshold", "1000"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid threshold parameter"})
		return
	}
	summaries, err := h.orderService.OrdersWithTotalAmountGreaterThan(c.Request.Context(), threshold)
	if err != nil {
		logger.Error("OrdersWithTotalGreaterThan Hdl: service error", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run report"})
		return
	}
	c.JSON(http.StatusOK, summaries)
}

func (h *OrderHandler) OrdersAboveAverage(c *gin.Context) {
	summaries, err := h.orderService.OrdersAboveAverage(c.Request.Context())
	if err != nil {
		logger.Error("OrdersAboveAverage Hdl: service error", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run report"})
		return
	}
	c.JSON(http.StatusOK, summaries)
}
