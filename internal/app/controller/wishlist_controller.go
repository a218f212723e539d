package controller

import (
	"net/http"

	"github.com/acehadwer/storefront-backend/internal/app/service"
	apperrors "github.com/acehadwer/storefront-backend/internal/errors"
	"github.com/gin-gonic/gin"
)

type WishlistController struct {
	wishlistService service.WishlistService
}

func NewWishlistController(wishlistService service.WishlistService) *WishlistController {
	return &WishlistController{
		wishlistService: wishlistService,
	}
}

type AddToWishlistRequest struct {
	ProductID uint `form:"product_id" json:"product_id" binding:"required"`
}

// GetWishlist returns user's wishlist
// GET /api/v1/wishlist
func (ctrl *WishlistController) GetWishlist(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	items, err := ctrl.wishlistService.GetUserWishlist(userID)
	if err != nil {
		respondError(c, err, "get wishlist")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"wishlist_items": items,
		"count":          len(items),
	})
}

// AddToWishlist POST /api/v1/wishlist
func (ctrl *WishlistController) AddToWishlist(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req AddToWishlistRequest
	if err := c.ShouldBind(&req); err != nil {
		apperrors.FieldError(c, "product_id", "Please choose a product.")
		return
	}

	if err := ctrl.wishlistService.AddToWishlist(userID, req.ProductID); err != nil {
		respondError(c, err, "add wishlist item")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Added to wishlist",
		"result":  service.Result{Status: service.ResultAdded, Message: "Added to your wishlist."},
	})
}

// RemoveFromWishlist DELETE /api/v1/wishlist/:product_id
func (ctrl *WishlistController) RemoveFromWishlist(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	productID, ok := parseID(c, "product_id")
	if !ok {
		return
	}

	if err := ctrl.wishlistService.RemoveFromWishlist(userID, productID); err != nil {
		respondError(c, err, "delete wishlist item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Removed from wishlist",
		"result":  service.Result{Status: service.ResultDeleted, Message: "Removed from your wishlist."},
	})
}

// MoveToCart POST /api/v1/wishlist/:product_id/cart
func (ctrl *WishlistController) MoveToCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	productID, ok := parseID(c, "product_id")
	if !ok {
		return
	}

	item, err := ctrl.wishlistService.MoveToCart(userID, productID)
	if err != nil {
		respondError(c, err, "move wishlist item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart_item": item,
		"result":    service.Result{Status: service.ResultAdded, Message: "Moved to your cart."},
	})
}
