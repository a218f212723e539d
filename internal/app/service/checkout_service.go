package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/acehadwer/storefront-backend/internal/app/model"
	"github.com/acehadwer/storefront-backend/internal/app/repository"
	"github.com/acehadwer/storefront-backend/pkg/logger"
	"github.com/acehadwer/storefront-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrCheckoutFailed = errors.New("checkout failed")
)

const checkoutFailedMessage = "Failed to place order. Please try again."

type CheckoutInput struct {
	DeliveryAddress string `form:"delivery_address" json:"delivery_address"`
	Phone           string `form:"phone" json:"phone"`
	PaymentMethod   string `form:"payment_method" json:"payment_method"`
}

type CheckoutResult struct {
	Order  *model.Order `json:"order"`
	Result *Result      `json:"result"`
}

// CheckoutSummary prefills the checkout form from the cart and the user's default
// address, falling back to the profile.
type CheckoutSummary struct {
	Cart            *CartSummary          `json:"cart"`
	FormattedTotal  string                `json:"formatted_total"`
	DeliveryAddress string                `json:"delivery_address"`
	Phone           string                `json:"phone"`
	PaymentMethods  []model.PaymentMethod `json:"payment_methods"`
}

type CheckoutService interface {
	GetCheckoutSummary(userID uint) (*CheckoutSummary, error)
	Checkout(ctx context.Context, userID uint, input CheckoutInput) (*CheckoutResult, error)
}

type checkoutService struct {
	db            *gorm.DB
	cartRepo      repository.CartRepository
	orderRepo     repository.OrderRepository
	userRepo      repository.UserRepository
	addressRepo   repository.AddressRepository
	locker        CheckoutLocker
	currencyLabel string
}

func NewCheckoutService(
	db *gorm.DB,
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	addressRepo repository.AddressRepository,
	locker CheckoutLocker,
	currencyLabel string,
) CheckoutService {
	if locker == nil {
		locker = NewLocalCheckoutLocker()
	}
	return &checkoutService{
		db:            db,
		cartRepo:      cartRepo,
		orderRepo:     orderRepo,
		userRepo:      userRepo,
		addressRepo:   addressRepo,
		locker:        locker,
		currencyLabel: currencyLabel,
	}
}

func (s *checkoutService) GetCheckoutSummary(userID uint) (*CheckoutSummary, error) {
	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to load cart for checkout", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, unavailableError("Failed to load your cart. Please try again.", err)
	}

	cart := summarizeCart(cartItems)
	summary := &CheckoutSummary{
		Cart:           cart,
		FormattedTotal: util.FormatPrice(s.currencyLabel, cart.Subtotal.Decimal),
		PaymentMethods: model.PaymentMethods(),
	}

	address, err := s.addressRepo.FindDefault(userID)
	if err == nil {
		summary.DeliveryAddress = address.FullAddress()
		summary.Phone = address.Phone
		return summary, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Warn("Failed to load default address for checkout prefill", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}

	user, err := s.userRepo.FindByID(userID)
	if err == nil {
		summary.DeliveryAddress = joinAddress(user.Address, user.City)
		summary.Phone = user.Phone
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Warn("Failed to load profile for checkout prefill", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
	return summary, nil
}

func joinAddress(address, city string) string {
	address = strings.TrimSpace(address)
	city = strings.TrimSpace(city)
	switch {
	case address == "":
		return city
	case city == "":
		return address
	default:
		return address + ", " + city
	}
}

func validateCheckoutInput(input CheckoutInput) error {
	if strings.TrimSpace(input.DeliveryAddress) == "" {
		return validationError("delivery_address", "Delivery address is required.")
	}
	if strings.TrimSpace(input.Phone) == "" {
		return validationError("phone", "Phone number is required.")
	}
	method := strings.TrimSpace(input.PaymentMethod)
	if method == "" {
		return validationError("payment_method", "Please select a payment method.")
	}
	if !model.PaymentMethod(method).Valid() {
		return validationError("payment_method", "Please select a valid payment method.")
	}
	return nil
}

// Checkout turns the user's cart into a pending order. The order, its items and
// the cart clearing commit together or not at all.
func (s *checkoutService) Checkout(ctx context.Context, userID uint, input CheckoutInput) (*CheckoutResult, error) {
	logger.Info("Starting checkout", map[string]interface{}{
		"user_id":        userID,
		"payment_method": input.PaymentMethod,
	})

	if err := validateCheckoutInput(input); err != nil {
		logger.Warn("Checkout input rejected", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrCheckoutInProgress) {
			logger.Warn("Concurrent checkout rejected", map[string]interface{}{
				"user_id": userID,
			})
			return nil, conflictError(ErrCheckoutInProgress, "Your previous order is still being placed. Please wait a moment.")
		}
		return nil, unavailableError(checkoutFailedMessage, err)
	}
	defer release()

	var order *model.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		cartItems, err := cartRepo.FindByUserID(userID)
		if err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return ErrEmptyCart
		}

		cart := summarizeCart(cartItems)
		order = &model.Order{
			UserID:          userID,
			TotalAmount:     cart.Subtotal,
			DeliveryAddress: strings.TrimSpace(input.DeliveryAddress),
			Phone:           strings.TrimSpace(input.Phone),
			PaymentMethod:   model.PaymentMethod(strings.TrimSpace(input.PaymentMethod)),
			Status:          model.OrderStatusPending,
		}
		if err := orderRepo.Create(order); err != nil {
			return err
		}

		items := make([]model.OrderItem, 0, len(cartItems))
		for _, line := range cartItems {
			items = append(items, model.OrderItem{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     line.Product.Price,
			})
		}
		if err := orderRepo.CreateItems(items); err != nil {
			return err
		}
		order.OrderItems = items

		_, err = cartRepo.DeleteByUserID(userID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			logger.Warn("Cannot checkout: cart is empty", map[string]interface{}{
				"user_id": userID,
			})
			return nil, &OperationError{
				Kind:    KindValidation,
				Field:   "cart",
				Message: "Your cart is empty. Please add items to your cart first.",
				Err:     ErrEmptyCart,
			}
		}
		logger.Error("Checkout transaction rolled back", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, &OperationError{
			Kind:    KindUnavailable,
			Message: checkoutFailedMessage,
			Err:     fmt.Errorf("%w: %v", ErrCheckoutFailed, err),
		}
	}

	message := fmt.Sprintf("Order #%d placed successfully! Total: %s",
		order.ID, util.FormatPrice(s.currencyLabel, order.TotalAmount.Decimal))
	logger.Info("Order placed", map[string]interface{}{
		"user_id":  userID,
		"order_id": order.ID,
		"total":    order.TotalAmount.String(),
		"items":    len(order.OrderItems),
	})

	return &CheckoutResult{
		Order:  order,
		Result: newResult(ResultOrderPlaced, message),
	}, nil
}
