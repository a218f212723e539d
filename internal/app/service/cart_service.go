package service

import (
	"errors"

	"github.com/acehadwer/storefront-backend/internal/app/model"
	"github.com/acehadwer/storefront-backend/internal/app/repository"
	"github.com/acehadwer/storefront-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
)

// CartLine is a cart item priced at the product's current price.
type CartLine struct {
	model.CartItem
	LineTotal model.Money `json:"line_total"`
}

type CartSummary struct {
	Items     []CartLine  `json:"items"`
	ItemCount int         `json:"item_count"`
	Subtotal  model.Money `json:"subtotal"`
}

type CartService interface {
	GetCart(userID uint) (*CartSummary, error)
	AddToCart(userID, productID uint, quantity int) (*model.CartItem, error)
	UpdateCartItem(userID, cartItemID uint, quantity int) (*model.CartItem, error)
	RemoveFromCart(userID, cartItemID uint) error
	ClearCart(userID uint) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func summarizeCart(items []model.CartItem) *CartSummary {
	summary := &CartSummary{
		Items:    make([]CartLine, 0, len(items)),
		Subtotal: model.NewMoney(decimal.Zero),
	}
	for _, item := range items {
		line := CartLine{CartItem: item, LineTotal: item.LineTotal()}
		summary.Items = append(summary.Items, line)
		summary.ItemCount += item.Quantity
		summary.Subtotal = summary.Subtotal.Add(line.LineTotal)
	}
	return summary
}

func (s *cartService) GetCart(userID uint) (*CartSummary, error) {
	logger.Debug("Fetching user cart", map[string]interface{}{
		"user_id": userID,
	})

	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, unavailableError("Failed to load your cart. Please try again.", err)
	}

	summary := summarizeCart(cartItems)
	logger.Info("User cart fetched successfully", map[string]interface{}{
		"user_id":  userID,
		"count":    len(cartItems),
		"subtotal": summary.Subtotal.String(),
	})
	return summary, nil
}

// AddToCart adds quantity units of an active product, merging into an existing line.
func (s *cartService) AddToCart(userID, productID uint, quantity int) (*model.CartItem, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})

	if quantity < 1 {
		return nil, validationError("quantity", "Quantity must be at least 1.")
	}

	product, err := findProduct(s.productRepo, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive() {
		logger.Warn("Cannot add inactive product to cart", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, &OperationError{
			Kind:    KindValidation,
			Field:   "product_id",
			Message: "This product is currently unavailable.",
			Err:     ErrProductUnavailable,
		}
	}

	existing, err := s.cartRepo.FindByUserAndProduct(userID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing cart item", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, unavailableError("Failed to add to cart. Please try again.", err)
	}

	if existing == nil {
		item := &model.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
		}
		if err := s.cartRepo.Create(item); err == nil {
			item.Product = *product
			logger.Info("Cart item created", map[string]interface{}{
				"cart_item_id": item.ID,
				"user_id":      userID,
			})
			return item, nil
		} else if existing, _ = s.cartRepo.FindByUserAndProduct(userID, productID); existing == nil {
			return nil, unavailableError("Failed to add to cart. Please try again.", err)
		}
		// lost a race with a concurrent add; fall through and merge
	}

	existing.Quantity += quantity
	if err := s.cartRepo.Update(existing); err != nil {
		logger.Error("Failed to update cart item", err, map[string]interface{}{
			"cart_item_id": existing.ID,
		})
		return nil, unavailableError("Failed to add to cart. Please try again.", err)
	}
	existing.Product = *product

	logger.Info("Cart item quantity increased", map[string]interface{}{
		"cart_item_id": existing.ID,
		"user_id":      userID,
		"quantity":     existing.Quantity,
	})
	return existing, nil
}

// findOwnedCartItem treats another user's cart item as not found.
func (s *cartService) findOwnedCartItem(userID, cartItemID uint) (*model.CartItem, error) {
	item, err := s.cartRepo.FindByID(cartItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart item not found", map[string]interface{}{
				"user_id":      userID,
				"cart_item_id": cartItemID,
			})
			return nil, notFoundError(ErrCartItemNotFound, "Cart item not found.")
		}
		logger.Error("Failed to fetch cart item", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return nil, unavailableError("Failed to load cart item. Please try again.", err)
	}

	if item.UserID != userID {
		logger.Warn("Cart item belongs to another user", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": cartItemID,
		})
		return nil, notFoundError(ErrCartItemNotFound, "Cart item not found.")
	}
	return item, nil
}

func (s *cartService) UpdateCartItem(userID, cartItemID uint, quantity int) (*model.CartItem, error) {
	logger.Info("Updating cart item", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": cartItemID,
		"quantity":     quantity,
	})

	if quantity < 1 {
		return nil, validationError("quantity", "Quantity must be at least 1.")
	}

	item, err := s.findOwnedCartItem(userID, cartItemID)
	if err != nil {
		return nil, err
	}

	item.Quantity = quantity
	if err := s.cartRepo.Update(item); err != nil {
		logger.Error("Failed to update cart item", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return nil, unavailableError("Failed to update cart. Please try again.", err)
	}

	return item, nil
}

func (s *cartService) RemoveFromCart(userID, cartItemID uint) error {
	logger.Info("Removing item from cart", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": cartItemID,
	})

	if _, err := s.findOwnedCartItem(userID, cartItemID); err != nil {
		return err
	}

	if err := s.cartRepo.Delete(cartItemID); err != nil {
		logger.Error("Failed to delete cart item", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return unavailableError("Failed to remove item. Please try again.", err)
	}
	return nil
}

func (s *cartService) ClearCart(userID uint) error {
	logger.Info("Clearing cart", map[string]interface{}{
		"user_id": userID,
	})

	if _, err := s.cartRepo.DeleteByUserID(userID); err != nil {
		logger.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return unavailableError("Failed to clear cart. Please try again.", err)
	}
	return nil
}
