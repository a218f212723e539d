package controller

import (
	"net/http"

	"github.com/acehadwer/storefront-backend/internal/app/service"
	"github.com/gin-gonic/gin"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// GetAllProducts lists active products
// GET /api/v1/products?category=&search=&sort=price_asc&page=1&page_size=20
func (ctrl *ProductController) GetAllProducts(c *gin.Context) {
	page, err := ctrl.productService.ListProducts(service.ProductListOptions{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     service.ProductSort(c.Query("sort")),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 0),
	})
	if err != nil {
		respondError(c, err, "list products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":  page.Products,
		"count":     len(page.Products),
		"total":     page.Total,
		"page":      page.Page,
		"page_size": page.PageSize,
	})
}

// GetCategories GET /api/v1/products/categories
func (ctrl *ProductController) GetCategories(c *gin.Context) {
	categories, err := ctrl.productService.ListCategories()
	if err != nil {
		respondError(c, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
	})
}

// GetProductByID returns a product by ID
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProductByID(id)
	if err != nil {
		respondError(c, err, "get product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}
