package router

import (
	"net/http"

	"github.com/acehadwer/storefront-backend/config"
	"github.com/acehadwer/storefront-backend/internal/app/controller"
	"github.com/acehadwer/storefront-backend/internal/app/model"
	"github.com/acehadwer/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Controllers groups every HTTP handler the router mounts.
type Controllers struct {
	Auth         *controller.AuthController
	Product      *controller.ProductController
	AdminProduct *controller.AdminProductController
	Cart         *controller.CartController
	Wishlist     *controller.WishlistController
	Checkout     *controller.CheckoutController
	Order        *controller.OrderController
	Address      *controller.AddressController
	Upload       *controller.UploadController
}

type Router struct {
	controllers    Controllers
	authMiddleware *middleware.AuthMiddleware
	healthCheck    func() error
	config         *config.Config
}

// NewRouter builds the router. healthCheck may be nil.
func NewRouter(
	controllers Controllers,
	authMiddleware *middleware.AuthMiddleware,
	healthCheck func() error,
	cfg *config.Config,
) *Router {
	return &Router{
		controllers:    controllers,
		authMiddleware: authMiddleware,
		healthCheck:    healthCheck,
		config:         cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", r.health)

	ctrl := r.controllers
	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", ctrl.Auth.Register)
			auth.POST("/login", ctrl.Auth.Login)
			auth.POST("/refresh", ctrl.Auth.RefreshToken)
			auth.POST("/logout", r.authMiddleware.Authenticate(), ctrl.Auth.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), ctrl.Auth.GetMe)
			auth.PUT("/me", r.authMiddleware.Authenticate(), ctrl.Auth.UpdateMe)
		}

		products := v1.Group("/products")
		{
			products.GET("", ctrl.Product.GetAllProducts)
			products.GET("/categories", ctrl.Product.GetCategories)
			products.GET("/:id", ctrl.Product.GetProductByID)
		}

		user := v1.Group("")
		user.Use(r.authMiddleware.Authenticate())
		{
			cart := user.Group("/cart")
			{
				cart.GET("", ctrl.Cart.GetCart)
				cart.POST("", ctrl.Cart.AddToCart)
				cart.DELETE("", ctrl.Cart.ClearCart)
				cart.PUT("/:id", ctrl.Cart.UpdateCartItem)
				cart.DELETE("/:id", ctrl.Cart.RemoveFromCart)
			}

			wishlist := user.Group("/wishlist")
			{
				wishlist.GET("", ctrl.Wishlist.GetWishlist)
				wishlist.POST("", ctrl.Wishlist.AddToWishlist)
				wishlist.DELETE("/:product_id", ctrl.Wishlist.RemoveFromWishlist)
				wishlist.POST("/:product_id/cart", ctrl.Wishlist.MoveToCart)
			}

			addresses := user.Group("/addresses")
			{
				addresses.GET("", ctrl.Address.GetAddresses)
				addresses.POST("", ctrl.Address.CreateAddress)
				addresses.PUT("/:id", ctrl.Address.UpdateAddress)
				addresses.DELETE("/:id", ctrl.Address.DeleteAddress)
				addresses.PUT("/:id/default", ctrl.Address.SetDefaultAddress)
			}

			user.GET("/checkout", ctrl.Checkout.GetCheckout)
			user.POST("/checkout", ctrl.Checkout.PlaceOrder)

			orders := user.Group("/orders")
			{
				orders.GET("", ctrl.Order.GetOrders)
				orders.GET("/:id", ctrl.Order.GetOrderByID)
			}
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole(model.RoleAdmin))
		{
			adminProducts := admin.Group("/products")
			{
				adminProducts.GET("", ctrl.AdminProduct.ListProducts)
				adminProducts.POST("", ctrl.AdminProduct.CreateProduct)
				adminProducts.DELETE("", ctrl.AdminProduct.DeleteAllProducts)
				adminProducts.GET("/export", ctrl.AdminProduct.ExportProducts)
				adminProducts.POST("/import", ctrl.AdminProduct.ImportProducts)
				adminProducts.PUT("/:id", ctrl.AdminProduct.UpdateProduct)
				adminProducts.DELETE("/:id", ctrl.AdminProduct.DeleteProduct)
			}

			admin.POST("/uploads/product-image", ctrl.Upload.GenerateProductImageURL)

			adminOrders := admin.Group("/orders")
			{
				adminOrders.GET("", ctrl.Order.ListAllOrders)
				adminOrders.GET("/stats", ctrl.Order.GetOrderStats)
				adminOrders.PUT("/:id/status", ctrl.Order.UpdateOrderStatus)
			}
		}
	}

	return router
}

func (r *Router) health(c *gin.Context) {
	if r.healthCheck != nil {
		if err := r.healthCheck(); err != nil {
			middleware.GetLoggerFromContext(c).Error("Health check failed", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Storefront API is running",
	})
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, X-Request-ID, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
