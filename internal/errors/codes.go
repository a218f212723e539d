package errors

// Error code constants returned in ErrorResponse.Error.
// Format: CATEGORY_SPECIFIC_DETAIL
// Clients map these codes to their own wording; Message is a readable fallback.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN"
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY"
	AuthzOwnerOnly = "AUTHZ_OWNER_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationTooShort      = "VALIDATION_TOO_SHORT"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Products (PRODUCT_) ====================
	ProductNotFound    = "PRODUCT_NOT_FOUND"
	ProductUnavailable = "PRODUCT_UNAVAILABLE" // inactive product

	// ==================== Cart & checkout (CART_, CHECKOUT_) ====================
	CartItemNotFound       = "CART_ITEM_NOT_FOUND"
	CartEmpty              = "CART_EMPTY"
	CheckoutInProgress     = "CHECKOUT_IN_PROGRESS" // another checkout holds the user's lock
	CheckoutFailed         = "CHECKOUT_FAILED"
	WishlistItemExists     = "WISHLIST_ITEM_EXISTS"
	WishlistItemNotFound   = "WISHLIST_ITEM_NOT_FOUND"
	OrderNotFound          = "ORDER_NOT_FOUND"
	OrderInvalidTransition = "ORDER_INVALID_TRANSITION"
	AddressNotFound        = "ADDRESS_NOT_FOUND"

	// ==================== Uploads & spreadsheets (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalUnavailable   = "INTERNAL_UNAVAILABLE" // database or redis unreachable
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"
)
