package controller

import (
	"net/http"

	"github.com/acehadwer/storefront-backend/internal/app/model"
	"github.com/acehadwer/storefront-backend/internal/app/service"
	apperrors "github.com/acehadwer/storefront-backend/internal/errors"
	"github.com/acehadwer/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `form:"status" json:"status" binding:"required"`
}

// GetOrders returns user's orders
// GET /api/v1/orders
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(userID)
	if err != nil {
		respondError(c, err, "get orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrderByID returns one of the user's orders
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrderByID(userID, orderID)
	if err != nil {
		respondError(c, err, "get order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// ListAllOrders is the admin order list, optionally filtered by status
// GET /api/v1/admin/orders?status=pending&page=1&page_size=50
func (ctrl *OrderController) ListAllOrders(c *gin.Context) {
	orders, err := ctrl.orderService.ListOrders(service.OrderListOptions{
		Status:   c.Query("status"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 0),
	})
	if err != nil {
		respondError(c, err, "list orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// UpdateOrderStatus PUT /api/v1/admin/orders/:id/status
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBind(&req); err != nil {
		apperrors.FieldError(c, "status", "Status is required.")
		return
	}

	order, result, err := ctrl.orderService.UpdateOrderStatus(orderID, req.Status)
	if err != nil {
		respondError(c, err, "update order")
		return
	}

	adminID, _ := middleware.GetUserID(c)
	log.Info("Order status changed", map[string]interface{}{
		"order_id": orderID,
		"status":   req.Status,
		"admin_id": adminID,
	})

	c.JSON(http.StatusOK, gin.H{
		"order":  order,
		"result": result,
	})
}

// GetOrderStats GET /api/v1/admin/orders/stats
func (ctrl *OrderController) GetOrderStats(c *gin.Context) {
	stats, err := ctrl.orderService.GetStats()
	if err != nil {
		respondError(c, err, "order stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
