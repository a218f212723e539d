package service

import (
	"errors"

	"github.com/acehadwer/storefront-backend/internal/app/model"
	"github.com/acehadwer/storefront-backend/internal/app/repository"
	"github.com/acehadwer/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrWishlistItemAlreadyExists = errors.New("product already in wishlist")
	ErrWishlistItemNotFound      = errors.New("wishlist item not found")
)

type WishlistService interface {
	GetUserWishlist(userID uint) ([]model.WishlistItem, error)
	AddToWishlist(userID, productID uint) error
	RemoveFromWishlist(userID, productID uint) error
	MoveToCart(userID, productID uint) (*model.CartItem, error)
}

type wishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
	cartService  CartService
}

func NewWishlistService(
	wishlistRepo repository.WishlistRepository,
	productRepo repository.ProductRepository,
	cartService CartService,
) WishlistService {
	return &wishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
		cartService:  cartService,
	}
}

func (s *wishlistService) GetUserWishlist(userID uint) ([]model.WishlistItem, error) {
	logger.Debug("Fetching user wishlist", map[string]interface{}{
		"user_id": userID,
	})

	items, err := s.wishlistRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user wishlist", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, unavailableError("Failed to load your wishlist. Please try again.", err)
	}

	logger.Info("User wishlist fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(items),
	})
	return items, nil
}

func (s *wishlistService) AddToWishlist(userID, productID uint) error {
	logger.Info("Adding item to wishlist", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	product, err := findProduct(s.productRepo, productID)
	if err != nil {
		return err
	}
	if !product.IsActive() {
		logger.Warn("Cannot add inactive product to wishlist", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return notFoundError(ErrProductNotFound, "Product not found.")
	}

	existing, err := s.wishlistRepo.FindByUserAndProduct(userID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return unavailableError("Failed to update wishlist. Please try again.", err)
	}
	if existing != nil {
		logger.Warn("Product already in wishlist", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return conflictError(ErrWishlistItemAlreadyExists, "This product is already in your wishlist.")
	}

	item := &model.WishlistItem{
		UserID:    userID,
		ProductID: productID,
	}
	if err := s.wishlistRepo.Create(item); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return conflictError(ErrWishlistItemAlreadyExists, "This product is already in your wishlist.")
		}
		return unavailableError("Failed to update wishlist. Please try again.", err)
	}

	logger.Info("Item added to wishlist", map[string]interface{}{
		"wishlist_item_id": item.ID,
		"user_id":          userID,
		"product_id":       productID,
	})
	return nil
}

func (s *wishlistService) RemoveFromWishlist(userID, productID uint) error {
	logger.Info("Removing item from wishlist", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	if err := s.wishlistRepo.Delete(userID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError(ErrWishlistItemNotFound, "This product is not in your wishlist.")
		}
		return unavailableError("Failed to update wishlist. Please try again.", err)
	}
	return nil
}

// MoveToCart adds one unit to the cart and only then drops the wishlist entry.
func (s *wishlistService) MoveToCart(userID, productID uint) (*model.CartItem, error) {
	logger.Info("Moving wishlist item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	existing, err := s.wishlistRepo.FindByUserAndProduct(userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError(ErrWishlistItemNotFound, "This product is not in your wishlist.")
		}
		return nil, unavailableError("Failed to update wishlist. Please try again.", err)
	}

	cartItem, err := s.cartService.AddToCart(userID, existing.ProductID, 1)
	if err != nil {
		return nil, err
	}

	if err := s.RemoveFromWishlist(userID, productID); err != nil {
		return nil, err
	}
	return cartItem, nil
}
