package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a client-safe code and message derived from an internal error.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError maps database errors to codes without leaking driver text.
// context names the resource or action, e.g. "product", "update order".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Something went wrong.",
		}
	}

	errLower := strings.ToLower(err.Error())

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    notFoundCode(context),
			Message: notFoundMessage(context),
		}
	}

	// postgres 23505 / sqlite UNIQUE
	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(errLower, "duplicate key") ||
		strings.Contains(errLower, "unique constraint") {
		// translated errors carry no table name, so the context decides
		return parseDuplicateKeyError(errLower + " " + strings.ToLower(context))
	}

	// postgres 23503 / sqlite FOREIGN KEY
	if errors.Is(err, gorm.ErrForeignKeyViolated) || strings.Contains(errLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "The record is referenced by other data.",
		}
	}

	if strings.Contains(errLower, "violates not-null constraint") || strings.Contains(errLower, "not null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing.",
		}
	}

	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "database is locked") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{
			Code:    InternalUnavailable,
			Message: "The service is temporarily unavailable. Please try again.",
		}
	}

	return ErrorInfo{
		Code:    InternalDatabaseError,
		Message: defaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	switch {
	case strings.Contains(errLower, "email"), strings.Contains(errLower, "register"):
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "This email is already registered."}
	case strings.Contains(errLower, "wishlist"):
		return ErrorInfo{Code: WishlistItemExists, Message: "Product is already in your wishlist."}
	case strings.Contains(errLower, "cart"):
		return ErrorInfo{Code: ResourceConflict, Message: "Product is already in your cart."}
	}
	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "This record already exists.",
	}
}

func notFoundCode(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "product"):
		return ProductNotFound
	case strings.Contains(contextLower, "order"):
		return OrderNotFound
	case strings.Contains(contextLower, "cart"):
		return CartItemNotFound
	case strings.Contains(contextLower, "wishlist"):
		return WishlistItemNotFound
	}
	return ResourceNotFound
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "product"):
		return "Product not found."
	case strings.Contains(contextLower, "order"):
		return "Order not found."
	case strings.Contains(contextLower, "cart"):
		return "Cart item not found."
	case strings.Contains(contextLower, "wishlist"):
		return "Wishlist item not found."
	case strings.Contains(contextLower, "user"):
		return "User not found."
	}
	return "The requested record was not found."
}

func defaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "create"), strings.Contains(contextLower, "add"):
		return "Failed to save. Please try again."
	case strings.Contains(contextLower, "update"):
		return "Failed to update. Please try again."
	case strings.Contains(contextLower, "delete"):
		return "Failed to delete. Please try again."
	}
	return "Something went wrong. Please try again later."
}

// ParseAndRespond parses err and writes it with statusCode.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
