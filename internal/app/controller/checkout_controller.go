package controller

import (
	"net/http"

	"github.com/acehadwer/storefront-backend/internal/app/service"
	apperrors "github.com/acehadwer/storefront-backend/internal/errors"
	"github.com/acehadwer/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CheckoutController struct {
	checkoutService service.CheckoutService
}

func NewCheckoutController(checkoutService service.CheckoutService) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
	}
}

// GetCheckout returns the cart and prefilled delivery details
// GET /api/v1/checkout
func (ctrl *CheckoutController) GetCheckout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	summary, err := ctrl.checkoutService.GetCheckoutSummary(userID)
	if err != nil {
		respondError(c, err, "get checkout")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// PlaceOrder converts the cart into an order
// POST /api/v1/checkout
func (ctrl *CheckoutController) PlaceOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input service.CheckoutInput
	if err := c.ShouldBind(&input); err != nil {
		log.Warn("Invalid checkout request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid checkout data.")
		return
	}

	result, err := ctrl.checkoutService.Checkout(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err, "create order")
		return
	}

	log.Info("Order placed", map[string]interface{}{
		"user_id":  userID,
		"order_id": result.Order.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"order":  result.Order,
		"result": result.Result,
	})
}
