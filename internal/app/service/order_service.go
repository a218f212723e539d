package service

import (
	"errors"

	"github.com/acehadwer/storefront-backend/internal/app/model"
	"github.com/acehadwer/storefront-backend/internal/app/repository"
	"github.com/acehadwer/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
)

const (
	defaultOrderPageSize = 50
	maxOrderPageSize     = 200
)

type OrderListOptions struct {
	Status   string
	Page     int
	PageSize int
}

type OrderService interface {
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByID(userID, orderID uint) (*model.Order, error)
	ListOrders(opts OrderListOptions) ([]model.Order, error)
	UpdateOrderStatus(orderID uint, status model.OrderStatus) (*model.Order, *Result, error)
	GetStats() (*repository.OrderStats, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
}

func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderService{orderRepo: orderRepo}
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	logger.Debug("Fetching user orders", map[string]interface{}{
		"user_id": userID,
	})

	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, unavailableError("Failed to load your orders. Please try again.", err)
	}

	logger.Info("User orders fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
	})
	return orders, nil
}

func (s *orderService) findOrder(orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order not found", map[string]interface{}{
				"order_id": orderID,
			})
			return nil, notFoundError(ErrOrderNotFound, "Order not found.")
		}
		logger.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, unavailableError("Failed to load order. Please try again.", err)
	}
	return order, nil
}

// GetOrderByID hides other users' orders behind a not-found.
func (s *orderService) GetOrderByID(userID, orderID uint) (*model.Order, error) {
	logger.Debug("Fetching order by ID", map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
	})

	order, err := s.findOrder(orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != userID {
		logger.Warn("Order access denied: ownership mismatch", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
			"owner_id": order.UserID,
		})
		return nil, notFoundError(ErrOrderNotFound, "Order not found.")
	}

	return order, nil
}

func (s *orderService) ListOrders(opts OrderListOptions) ([]model.Order, error) {
	filter := repository.OrderFilter{}
	if opts.Status != "" {
		status := model.OrderStatus(opts.Status)
		if !status.Valid() {
			return nil, validationError("status", "Unknown order status.")
		}
		filter.Status = &status
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultOrderPageSize
	}
	if pageSize > maxOrderPageSize {
		pageSize = maxOrderPageSize
	}
	page := opts.Page
	if page < 1 {
		page = 1
	}
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	orders, err := s.orderRepo.FindAll(filter)
	if err != nil {
		logger.Error("Failed to list orders", err, map[string]interface{}{
			"status": opts.Status,
		})
		return nil, unavailableError("Failed to load orders. Please try again.", err)
	}
	return orders, nil
}

// UpdateOrderStatus moves an order along the status transition table.
func (s *orderService) UpdateOrderStatus(orderID uint, status model.OrderStatus) (*model.Order, *Result, error) {
	logger.Info("Updating order status", map[string]interface{}{
		"order_id":   orderID,
		"new_status": status,
	})

	if !status.Valid() {
		return nil, nil, validationError("status", "Unknown order status.")
	}

	order, err := s.findOrder(orderID)
	if err != nil {
		return nil, nil, err
	}

	if !order.Status.CanTransitionTo(status) {
		logger.Warn("Rejected order status transition", map[string]interface{}{
			"order_id": orderID,
			"from":     order.Status,
			"to":       status,
		})
		return nil, nil, &OperationError{
			Kind:    KindValidation,
			Field:   "status",
			Message: "Order cannot move from " + string(order.Status) + " to " + string(status) + ".",
			Err:     ErrInvalidStatusTransition,
		}
	}

	if err := s.orderRepo.UpdateStatus(orderID, order.Status, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, notFoundError(ErrOrderNotFound, "Order not found.")
		}
		if errors.Is(err, repository.ErrOrderStatusChanged) {
			return nil, nil, conflictError(ErrInvalidStatusTransition,
				"The order status was changed by someone else. Reload the order and try again.")
		}
		logger.Error("Failed to update order status", err, map[string]interface{}{
			"order_id":   orderID,
			"new_status": status,
		})
		return nil, nil, unavailableError("Failed to update order. Please try again.", err)
	}
	order.Status = status

	logger.Info("Order status updated successfully", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})
	return order, newResult(ResultUpdated, "Order status updated successfully!"), nil
}

func (s *orderService) GetStats() (*repository.OrderStats, error) {
	stats, err := s.orderRepo.GetStats()
	if err != nil {
		logger.Error("Failed to load order statistics", err)
		return nil, unavailableError("Failed to load order statistics.", err)
	}
	return stats, nil
}
