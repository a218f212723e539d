package service

import (
	"errors"
	"io"
	"strings"

	"github.com/acehadwer/storefront-backend/internal/app/model"
	"github.com/acehadwer/storefront-backend/internal/app/repository"
	"github.com/acehadwer/storefront-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductInput is the admin add/update form. Price arrives as text so that an
// unparseable value can be reported. Image is kept verbatim: on update an empty
// string keeps the stored image and anything else, whitespace included, replaces it.
type ProductInput struct {
	Name        string
	Description string
	Price       string
	Category    string
	Image       string
	Status      string
}

type validProduct struct {
	name        string
	description string
	price       model.Money
	category    string
	status      model.ProductStatus
}

type ProductAdminService interface {
	AddProduct(input ProductInput) (*model.Product, *Result, error)
	UpdateProduct(id uint, input ProductInput) (*model.Product, *Result, error)
	GetProductForEdit(id uint) (*model.Product, error)
	ListAllProducts() ([]model.Product, error)
	DeleteProduct(id uint) (*Result, error)
	DeleteAllProducts() (*Result, error)
	ExportProducts(w io.Writer) error
	ImportProducts(r io.Reader) (*ImportReport, *Result, error)
}

type productAdminService struct {
	productRepo repository.ProductRepository
}

func NewProductAdminService(productRepo repository.ProductRepository) ProductAdminService {
	return &productAdminService{productRepo: productRepo}
}

// validateProductInput reports the first missing or malformed field in form order.
func validateProductInput(input ProductInput) (*validProduct, error) {
	v := &validProduct{
		name:        strings.TrimSpace(input.Name),
		description: strings.TrimSpace(input.Description),
		category:    strings.TrimSpace(input.Category),
		status:      model.ProductStatus(strings.ToLower(strings.TrimSpace(input.Status))),
	}

	if v.name == "" {
		return nil, validationError("name", "Product name is required.")
	}
	if v.description == "" {
		return nil, validationError("description", "Product description is required.")
	}

	priceText := strings.TrimSpace(input.Price)
	if priceText == "" {
		return nil, validationError("price", "Price is required.")
	}
	price, err := decimal.NewFromString(priceText)
	if err != nil {
		return nil, validationError("price", "Price must be a number.")
	}
	v.price = model.NewMoney(price)

	if v.category == "" {
		return nil, validationError("category", "Category is required.")
	}
	if !v.status.Valid() {
		return nil, validationError("status", "Status must be active or inactive.")
	}
	return v, nil
}

func (s *productAdminService) AddProduct(input ProductInput) (*model.Product, *Result, error) {
	v, err := validateProductInput(input)
	if err != nil {
		logger.Warn("Product add rejected", map[string]interface{}{
			"reason": err.Error(),
		})
		return nil, nil, err
	}

	logger.Info("Creating new product", map[string]interface{}{
		"name":     v.name,
		"category": v.category,
		"price":    v.price.String(),
	})

	product := &model.Product{
		Name:        v.name,
		Description: v.description,
		Price:       v.price,
		Category:    v.category,
		ImageURL:    input.Image,
		Status:      v.status,
	}

	if err := s.productRepo.Create(product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"name": v.name,
		})
		return nil, nil, unavailableError("Failed to add product!", err)
	}

	logger.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return product, newResult(ResultAdded, "Product added successfully!"), nil
}

func (s *productAdminService) UpdateProduct(id uint, input ProductInput) (*model.Product, *Result, error) {
	logger.Info("Updating product", map[string]interface{}{
		"product_id": id,
	})

	v, err := validateProductInput(input)
	if err != nil {
		logger.Warn("Product update rejected", map[string]interface{}{
			"product_id": id,
			"reason":     err.Error(),
		})
		return nil, nil, err
	}

	product, err := findProduct(s.productRepo, id)
	if err != nil {
		return nil, nil, err
	}

	product.Name = v.name
	product.Description = v.description
	product.Price = v.price
	product.Category = v.category
	product.Status = v.status
	if input.Image != "" {
		product.ImageURL = input.Image
	}

	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, nil, unavailableError("Failed to update product!", err)
	}

	logger.Info("Product updated successfully", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return product, newResult(ResultUpdated, "Product updated successfully!"), nil
}

// GetProductForEdit loads any product, inactive included.
func (s *productAdminService) GetProductForEdit(id uint) (*model.Product, error) {
	return findProduct(s.productRepo, id)
}

func (s *productAdminService) ListAllProducts() ([]model.Product, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list all products", err)
		return nil, unavailableError("Failed to load products. Please try again.", err)
	}

	logger.Debug("Admin product list loaded", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (s *productAdminService) DeleteProduct(id uint) (*Result, error) {
	logger.Info("Deleting product", map[string]interface{}{
		"product_id": id,
	})

	if err := s.productRepo.DeleteWithDependents(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot delete: product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, notFoundError(ErrProductNotFound, "Product not found.")
		}
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, unavailableError("Failed to delete product.", err)
	}

	logger.Info("Product deleted successfully", map[string]interface{}{
		"product_id": id,
	})
	return newResult(ResultDeleted, "Product deleted successfully!"), nil
}

func (s *productAdminService) DeleteAllProducts() (*Result, error) {
	logger.Warn("Deleting all products")

	count, err := s.productRepo.DeleteAllWithDependents()
	if err != nil {
		logger.Error("Failed to delete all products", err)
		return nil, unavailableError("Failed to delete all products.", err)
	}

	logger.Info("All products deleted", map[string]interface{}{
		"count": count,
	})
	return newResult(ResultAllDeleted, "All products deleted successfully!"), nil
}
