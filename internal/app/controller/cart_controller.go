package controller

import (
	"net/http"

	"github.com/acehadwer/storefront-backend/internal/app/service"
	apperrors "github.com/acehadwer/storefront-backend/internal/errors"
	"github.com/acehadwer/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	ProductID uint `form:"product_id" json:"product_id" binding:"required"`
	// zero means one unit
	Quantity int `form:"quantity" json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `form:"quantity" json:"quantity"`
}

// GetCart returns the user's cart with line totals and subtotal
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cart, err := ctrl.cartService.GetCart(userID)
	if err != nil {
		respondError(c, err, "get cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart_items": cart.Items,
		"count":      len(cart.Items),
		"item_count": cart.ItemCount,
		"subtotal":   cart.Subtotal,
	})
}

// AddToCart adds a product to the cart
// POST /api/v1/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.FieldError(c, "product_id", "Please choose a product.")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	item, err := ctrl.cartService.AddToCart(userID, req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err, "add cart item")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Item added to cart successfully",
		"cart_item": item,
		"result":    service.Result{Status: service.ResultAdded, Message: item.Product.Name + " added to your cart."},
	})
}

// UpdateCartItem sets the quantity of a cart line
// PUT /api/v1/cart/:id
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cartItemID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBind(&req); err != nil {
		apperrors.FieldError(c, "quantity", "Quantity must be a number.")
		return
	}

	item, err := ctrl.cartService.UpdateCartItem(userID, cartItemID, req.Quantity)
	if err != nil {
		respondError(c, err, "update cart item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Cart item updated successfully",
		"cart_item": item,
		"result":    service.Result{Status: service.ResultUpdated, Message: "Cart updated."},
	})
}

// RemoveFromCart deletes a cart line
// DELETE /api/v1/cart/:id
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cartItemID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.cartService.RemoveFromCart(userID, cartItemID); err != nil {
		respondError(c, err, "delete cart item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"result":  service.Result{Status: service.ResultDeleted, Message: "Item removed from your cart."},
	})
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := ctrl.cartService.ClearCart(userID); err != nil {
		respondError(c, err, "delete cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
		"result":  service.Result{Status: service.ResultAllDeleted, Message: "Your cart is now empty."},
	})
}
