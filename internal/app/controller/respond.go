package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/acehadwer/storefront-backend/internal/app/service"
	apperrors "github.com/acehadwer/storefront-backend/internal/errors"
	"github.com/acehadwer/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// sentinelCodes picks a specific response code for known service failures.
var sentinelCodes = []struct {
	err  error
	code string
}{
	{service.ErrProductNotFound, apperrors.ProductNotFound},
	{service.ErrProductUnavailable, apperrors.ProductUnavailable},
	{service.ErrCartItemNotFound, apperrors.CartItemNotFound},
	{service.ErrEmptyCart, apperrors.CartEmpty},
	{service.ErrCheckoutInProgress, apperrors.CheckoutInProgress},
	{service.ErrCheckoutFailed, apperrors.CheckoutFailed},
	{service.ErrWishlistItemAlreadyExists, apperrors.WishlistItemExists},
	{service.ErrWishlistItemNotFound, apperrors.WishlistItemNotFound},
	{service.ErrOrderNotFound, apperrors.OrderNotFound},
	{service.ErrInvalidStatusTransition, apperrors.OrderInvalidTransition},
	{service.ErrAddressNotFound, apperrors.AddressNotFound},
	{service.ErrEmailAlreadyExists, apperrors.AuthEmailAlreadyExists},
	{service.ErrUserNotFound, apperrors.ResourceNotFound},
	{service.ErrInvalidSpreadsheet, apperrors.UploadInvalidFileType},
}

func codeFor(err error, fallback string) string {
	for _, sc := range sentinelCodes {
		if errors.Is(err, sc.err) {
			return sc.code
		}
	}
	return fallback
}

// respondError writes a service failure. action names what was attempted and
// only matters for errors that are not OperationErrors.
func respondError(c *gin.Context, err error, action string) {
	log := middleware.GetLoggerFromContext(c)

	var opErr *service.OperationError
	if !errors.As(err, &opErr) {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Invalid email or password.")
		case errors.Is(err, service.ErrInvalidRefresh):
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Invalid or expired token")
		default:
			log.Error("Unhandled error", err, map[string]interface{}{
				"action": action,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, action)
		}
		return
	}

	switch opErr.Kind {
	case service.KindValidation:
		c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{
			Error:   codeFor(err, apperrors.ValidationInvalidInput),
			Message: opErr.Message,
			Field:   opErr.Field,
		})
	case service.KindNotFound:
		apperrors.NotFound(c, codeFor(err, apperrors.ResourceNotFound), opErr.Message)
	case service.KindConflict:
		apperrors.Conflict(c, codeFor(err, apperrors.ResourceConflict), opErr.Message)
	default:
		log.Error("Service unavailable", err, map[string]interface{}{
			"action": action,
		})
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, codeFor(err, apperrors.InternalUnavailable), opErr.Message)
	}
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid ID parameter", map[string]interface{}{
			"param": name,
			"value": raw,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name+".")
		return 0, false
	}
	return uint(id), true
}

// currentUserID aborts with 401 when the request is not authenticated.
func currentUserID(c *gin.Context) (uint, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return 0, false
	}
	return userID, true
}

// queryInt returns fallback for a missing or malformed query value.
func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
