package service

import (
	"errors"
	"strings"

	"github.com/acehadwer/storefront-backend/internal/app/model"
	"github.com/acehadwer/storefront-backend/internal/app/repository"
	"github.com/acehadwer/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product unavailable")
)

const (
	defaultProductPageSize = 20
	maxProductPageSize     = 100
)

type ProductSort string

const (
	ProductSortNewest    ProductSort = "newest"
	ProductSortPriceAsc  ProductSort = "price_asc"
	ProductSortPriceDesc ProductSort = "price_desc"
	ProductSortName      ProductSort = "name"
)

type ProductListOptions struct {
	Category string
	Search   string
	Sort     ProductSort
	Page     int
	PageSize int
}

type ProductPage struct {
	Products []model.Product `json:"products"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// ProductService is the storefront view of the catalogue: only active products are visible.
type ProductService interface {
	ListProducts(opts ProductListOptions) (*ProductPage, error)
	GetProductByID(id uint) (*model.Product, error)
	ListCategories() ([]string, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) ListProducts(opts ProductListOptions) (*ProductPage, error) {
	logger.Debug("Listing products", map[string]interface{}{
		"category":  opts.Category,
		"search":    opts.Search,
		"sort":      opts.Sort,
		"page":      opts.Page,
		"page_size": opts.PageSize,
	})

	page := opts.Page
	if page < 1 {
		page = 1
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultProductPageSize
	}
	if pageSize > maxProductPageSize {
		pageSize = maxProductPageSize
	}

	filter := repository.ProductFilter{
		Category:   strings.TrimSpace(opts.Category),
		Search:     strings.TrimSpace(opts.Search),
		ActiveOnly: true,
		Limit:      pageSize,
		Offset:     (page - 1) * pageSize,
	}

	switch opts.Sort {
	case ProductSortPriceAsc:
		filter.SortBy = repository.ProductSortPrice
		filter.SortAscending = true
	case ProductSortPriceDesc:
		filter.SortBy = repository.ProductSortPrice
	case ProductSortName:
		filter.SortBy = repository.ProductSortName
		filter.SortAscending = true
	case ProductSortNewest:
		fallthrough
	default:
		filter.SortBy = repository.ProductSortNewest
	}

	products, err := s.productRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to list products", err)
		return nil, unavailableError("Failed to load products. Please try again.", err)
	}

	total, err := s.productRepo.CountWithFilter(filter)
	if err != nil {
		logger.Error("Failed to count products", err)
		return nil, unavailableError("Failed to load products. Please try again.", err)
	}

	return &ProductPage{
		Products: products,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// GetProductByID hides inactive products behind a not-found.
func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := findProduct(s.productRepo, id)
	if err != nil {
		return nil, err
	}

	if !product.IsActive() {
		logger.Debug("Inactive product requested from storefront", map[string]interface{}{
			"product_id": id,
		})
		return nil, notFoundError(ErrProductNotFound, "Product not found.")
	}

	return product, nil
}

func (s *productService) ListCategories() ([]string, error) {
	categories, err := s.productRepo.ListCategories()
	if err != nil {
		logger.Error("Failed to list product categories", err)
		return nil, unavailableError("Failed to load categories. Please try again.", err)
	}
	return categories, nil
}

// findProduct loads a product regardless of status and maps repository errors.
func findProduct(repo repository.ProductRepository, id uint) (*model.Product, error) {
	product, err := repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, notFoundError(ErrProductNotFound, "Product not found.")
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, unavailableError("Failed to load product. Please try again.", err)
	}
	return product, nil
}
