package repository

import (
	"errors"

	"github.com/acehadwer/storefront-backend/internal/app/model"
	"github.com/acehadwer/storefront-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrOrderStatusChanged means the order no longer had the expected status when
// the update ran.
var ErrOrderStatusChanged = errors.New("order status changed concurrently")

type OrderFilter struct {
	Status *model.OrderStatus
	UserID *uint
	Limit  int
	Offset int
}

type OrderStats struct {
	TotalOrders    int64                       `json:"total_orders"`
	ByStatus       map[model.OrderStatus]int64 `json:"by_status"`
	DeliveredTotal model.Money                 `json:"delivered_total"`
}

type OrderRepository interface {
	Create(order *model.Order) error
	CreateItems(items []model.OrderItem) error
	FindByID(id uint) (*model.Order, error)
	FindByUserID(userID uint) ([]model.Order, error)
	FindAll(filter OrderFilter) ([]model.Order, error)
	UpdateStatus(id uint, from, to model.OrderStatus) error
	GetStats() (*OrderStats, error)
	WithTx(tx *gorm.DB) OrderRepository
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) WithTx(tx *gorm.DB) OrderRepository {
	return &orderRepository{db: tx}
}

func (r *orderRepository) preloadOrder() *gorm.DB {
	return r.db.Preload("OrderItems", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_items.id ASC")
	}).Preload("OrderItems.Product")
}

// Create inserts the order row only; items are written with CreateItems.
func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"user_id":        order.UserID,
		"total_amount":   order.TotalAmount.String(),
		"payment_method": order.PaymentMethod,
	})

	if err := r.db.Omit("OrderItems").Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"user_id":      order.UserID,
			"total_amount": order.TotalAmount.String(),
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id":     order.ID,
		"user_id":      order.UserID,
		"total_amount": order.TotalAmount.String(),
	})
	return nil
}

func (r *orderRepository) CreateItems(items []model.OrderItem) error {
	logger.Debug("Creating order items in database", map[string]interface{}{
		"count": len(items),
	})

	for i := range items {
		if err := r.db.Omit("Product").Create(&items[i]).Error; err != nil {
			logger.Error("Failed to create order item in database", err, map[string]interface{}{
				"order_id":   items[i].OrderID,
				"product_id": items[i].ProductID,
			})
			return err
		}
	}

	logger.Debug("Order items created in database", map[string]interface{}{
		"count": len(items),
	})
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	logger.Debug("Finding order by ID in database", map[string]interface{}{
		"order_id": id,
	})

	var order model.Order
	if err := r.preloadOrder().First(&order, id).Error; err != nil {
		logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}

	logger.Debug("Order found by ID in database", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"status":   order.Status,
	})
	return &order, nil
}

func (r *orderRepository) FindByUserID(userID uint) ([]model.Order, error) {
	return r.FindAll(OrderFilter{UserID: &userID})
}

// FindAll lists orders newest first.
func (r *orderRepository) FindAll(filter OrderFilter) ([]model.Order, error) {
	logger.Debug("Finding orders in database", map[string]interface{}{
		"status":  filter.Status,
		"user_id": filter.UserID,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})

	query := r.preloadOrder().Model(&model.Order{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var orders []model.Order
	if err := query.Order("created_at DESC").Order("id DESC").Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders in database", err, map[string]interface{}{
			"status":  filter.Status,
			"user_id": filter.UserID,
		})
		return nil, err
	}

	logger.Debug("Orders found in database", map[string]interface{}{
		"count": len(orders),
	})
	return orders, nil
}

// UpdateStatus moves an order from one status to another. The write only
// applies while the stored status still equals from; otherwise it returns
// ErrOrderStatusChanged, or gorm.ErrRecordNotFound when the order is gone.
func (r *orderRepository) UpdateStatus(id uint, from, to model.OrderStatus) error {
	logger.Debug("Updating order status in database", map[string]interface{}{
		"order_id": id,
		"from":     from,
		"to":       to,
	})

	result := r.db.Model(&model.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		logger.Error("Failed to update order status in database", result.Error, map[string]interface{}{
			"order_id": id,
			"status":   to,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&model.Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		logger.Warn("Order status changed before update", map[string]interface{}{
			"order_id": id,
			"expected": from,
		})
		return ErrOrderStatusChanged
	}

	logger.Debug("Order status updated in database", map[string]interface{}{
		"order_id": id,
		"status":   to,
	})
	return nil
}

// GetStats counts orders per status and sums the totals of delivered orders.
func (r *orderRepository) GetStats() (*OrderStats, error) {
	logger.Debug("Getting order statistics from database")

	statusCounts := []struct {
		Status model.OrderStatus
		Count  int64
	}{}
	if err := r.db.Model(&model.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		logger.Error("Failed to count orders by status", err)
		return nil, err
	}

	stats := &OrderStats{ByStatus: make(map[model.OrderStatus]int64)}
	for _, sc := range statusCounts {
		stats.ByStatus[sc.Status] = sc.Count
		stats.TotalOrders += sc.Count
	}

	var delivered []model.Order
	if err := r.db.Select("id", "total_amount").
		Where("status = ?", model.OrderStatusDelivered).
		Find(&delivered).Error; err != nil {
		logger.Error("Failed to load delivered order totals", err)
		return nil, err
	}

	// summed in Go so sqlite REAL arithmetic never touches money
	sum := model.NewMoney(decimal.Zero)
	for _, order := range delivered {
		sum = sum.Add(order.TotalAmount)
	}
	stats.DeliveredTotal = sum

	logger.Debug("Order statistics retrieved from database", map[string]interface{}{
		"total_orders":    stats.TotalOrders,
		"delivered_total": stats.DeliveredTotal.String(),
	})
	return stats, nil
}
