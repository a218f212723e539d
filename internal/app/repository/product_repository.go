package repository

import (
	"fmt"
	"strings"

	"github.com/acehadwer/storefront-backend/internal/app/model"
	"github.com/acehadwer/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductSort string

const (
	ProductSortNewest ProductSort = "newest"
	ProductSortPrice  ProductSort = "price"
	ProductSortName   ProductSort = "name"
)

type ProductFilter struct {
	Category      string
	Search        string
	ActiveOnly    bool
	SortBy        ProductSort
	SortAscending bool
	Limit         int
	Offset        int
}

// productDependents are deleted, in this order, before a product row.
var productDependents = []interface{}{
	&model.CartItem{},
	&model.WishlistItem{},
	&model.OrderItem{},
}

type ProductRepository interface {
	Create(product *model.Product) error
	BulkCreate(products []model.Product) error
	FindByID(id uint) (*model.Product, error)
	FindAll() ([]model.Product, error)
	FindWithFilter(filter ProductFilter) ([]model.Product, error)
	CountWithFilter(filter ProductFilter) (int64, error)
	ListCategories() ([]string, error)
	Update(product *model.Product) error
	DeleteWithDependents(id uint) error
	DeleteAllWithDependents() (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":     product.Name,
		"category": product.Category,
		"status":   product.Status,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name":     product.Name,
			"category": product.Category,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

func (r *productRepository) BulkCreate(products []model.Product) error {
	logger.Debug("Bulk creating products in database", map[string]interface{}{
		"count": len(products),
	})

	if len(products) == 0 {
		return nil
	}

	if err := r.db.CreateInBatches(products, 100).Error; err != nil {
		logger.Error("Failed to bulk create products in database", err, map[string]interface{}{
			"count": len(products),
		})
		return err
	}

	logger.Debug("Products bulk created in database", map[string]interface{}{
		"count": len(products),
	})
	return nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	logger.Debug("Finding product by ID in database", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	err := r.db.First(&product, id).Error
	if err != nil {
		logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	logger.Debug("Product found by ID in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return &product, nil
}

// FindAll returns every product, inactive included, newest id first.
func (r *productRepository) FindAll() ([]model.Product, error) {
	logger.Debug("Finding all products in database")

	var products []model.Product
	if err := r.db.Order("id DESC").Find(&products).Error; err != nil {
		logger.Error("Failed to find all products in database", err)
		return nil, err
	}

	logger.Debug("All products found in database", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) filteredQuery(filter ProductFilter) *gorm.DB {
	query := r.db.Model(&model.Product{})

	if filter.ActiveOnly {
		query = query.Where("products.status = ?", model.ProductStatusActive)
	}

	if filter.Category != "" {
		query = query.Where("products.category = ?", filter.Category)
	}

	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", strings.ToLower(filter.Search))
		query = query.Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ?", like, like)
	}

	return query
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"category":    filter.Category,
		"search":      filter.Search,
		"active_only": filter.ActiveOnly,
		"sort_by":     filter.SortBy,
		"ascending":   filter.SortAscending,
		"limit":       filter.Limit,
		"offset":      filter.Offset,
	})

	query := r.filteredQuery(filter)

	direction := "DESC"
	if filter.SortAscending {
		direction = "ASC"
	}

	switch filter.SortBy {
	case ProductSortPrice:
		query = query.Order("products.price " + direction).Order("products.id DESC")
	case ProductSortName:
		query = query.Order("products.name " + direction).Order("products.id DESC")
	case ProductSortNewest:
		fallthrough
	default:
		query = query.Order("products.created_at " + direction).Order("products.id " + direction)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, map[string]interface{}{
			"category": filter.Category,
			"search":   filter.Search,
		})
		return nil, err
	}

	logger.Debug("Products found with filter", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) CountWithFilter(filter ProductFilter) (int64, error) {
	var count int64
	if err := r.filteredQuery(filter).Count(&count).Error; err != nil {
		logger.Error("Failed to count products with filter", err, map[string]interface{}{
			"category": filter.Category,
			"search":   filter.Search,
		})
		return 0, err
	}
	return count, nil
}

// ListCategories returns the distinct categories of active products.
func (r *productRepository) ListCategories() ([]string, error) {
	logger.Debug("Listing product categories")

	var categories []string
	if err := r.db.Model(&model.Product{}).
		Where("status = ?", model.ProductStatusActive).
		Where("category IS NOT NULL AND category <> ''").
		Distinct().
		Order("category ASC").
		Pluck("category", &categories).Error; err != nil {
		logger.Error("Failed to fetch distinct categories", err)
		return nil, err
	}

	logger.Debug("Product categories listed", map[string]interface{}{
		"category_count": len(categories),
	})
	return categories, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
		"category":   product.Category,
		"status":     product.Status,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
			"name":       product.Name,
		})
		return err
	}

	logger.Debug("Product updated in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

// DeleteWithDependents removes the product and every cart, wishlist and order
// item row that references it in one transaction. Returns gorm.ErrRecordNotFound
// when the product does not exist.
func (r *productRepository) DeleteWithDependents(id uint) error {
	logger.Debug("Deleting product with dependents from database", map[string]interface{}{
		"product_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var product model.Product
		if err := tx.Select("id").First(&product, id).Error; err != nil {
			return err
		}

		for _, dependent := range productDependents {
			result := tx.Where("product_id = ?", id).Delete(dependent)
			if result.Error != nil {
				return result.Error
			}
			logger.Debug("Deleted product dependents", map[string]interface{}{
				"product_id": id,
				"table":      tableName(tx, dependent),
				"rows":       result.RowsAffected,
			})
		}

		return tx.Delete(&model.Product{}, id).Error
	})
	if err != nil {
		logger.Error("Failed to delete product with dependents from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	logger.Debug("Product deleted with dependents from database", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

// DeleteAllWithDependents empties cart, wishlist, order item and product tables
// and restarts the product id sequence. Returns the number of products removed.
func (r *productRepository) DeleteAllWithDependents() (int64, error) {
	logger.Debug("Deleting all products with dependents from database")

	var deleted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})

		for _, dependent := range productDependents {
			if err := all.Delete(dependent).Error; err != nil {
				return err
			}
		}

		result := all.Delete(&model.Product{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected

		return resetProductSequence(tx)
	})
	if err != nil {
		logger.Error("Failed to delete all products from database", err)
		return 0, err
	}

	logger.Debug("All products deleted from database", map[string]interface{}{
		"count": deleted,
	})
	return deleted, nil
}

func resetProductSequence(tx *gorm.DB) error {
	dialect := tx.Dialector.Name()
	logger.Debug("Resetting product id sequence", map[string]interface{}{
		"dialect": dialect,
	})

	switch dialect {
	case "postgres":
		return tx.Exec("ALTER SEQUENCE products_id_seq RESTART WITH 1").Error
	case "sqlite":
		// sqlite_sequence only exists once an AUTOINCREMENT table has had a row
		if !tx.Migrator().HasTable("sqlite_sequence") {
			return nil
		}
		return tx.Exec("DELETE FROM sqlite_sequence WHERE name = ?", "products").Error
	case "mysql":
		return tx.Exec("ALTER TABLE products AUTO_INCREMENT = 1").Error
	default:
		logger.Warn("Product id sequence not reset for dialect", map[string]interface{}{
			"dialect": dialect,
		})
		return nil
	}
}

func tableName(tx *gorm.DB, value interface{}) string {
	stmt := &gorm.Statement{DB: tx}
	if err := stmt.Parse(value); err != nil {
		return ""
	}
	return stmt.Schema.Table
}
