package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/acehadwer/storefront-backend/internal/app/service"
	apperrors "github.com/acehadwer/storefront-backend/internal/errors"
	"github.com/acehadwer/storefront-backend/internal/middleware"
	"github.com/acehadwer/storefront-backend/internal/storage"
	"github.com/gin-gonic/gin"
)

const (
	maxImportSize = 10 << 20
	xlsxMIME      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type AdminProductController struct {
	productAdminService service.ProductAdminService
}

func NewAdminProductController(productAdminService service.ProductAdminService) *AdminProductController {
	return &AdminProductController{
		productAdminService: productAdminService,
	}
}

// priceText accepts a JSON number or string so unparseable prices reach validation.
type priceText string

func (p *priceText) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = priceText(s)
		return nil
	}
	if string(b) == "null" {
		*p = ""
		return nil
	}
	*p = priceText(b)
	return nil
}

type ProductRequest struct {
	Name        string    `form:"name" json:"name"`
	Description string    `form:"description" json:"description"`
	Price       priceText `form:"price" json:"price"`
	Category    string    `form:"category" json:"category"`
	Image       string    `form:"image" json:"image"`
	Status      string    `form:"status" json:"status"`
}

func (r ProductRequest) input() service.ProductInput {
	return service.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       string(r.Price),
		Category:    r.Category,
		Image:       r.Image,
		Status:      r.Status,
	}
}

// ListProducts is the admin product table; ?edit=<id> also returns that product.
// GET /api/v1/admin/products
func (ctrl *AdminProductController) ListProducts(c *gin.Context) {
	products, err := ctrl.productAdminService.ListAllProducts()
	if err != nil {
		respondError(c, err, "list products")
		return
	}

	response := gin.H{
		"products": products,
		"count":    len(products),
	}

	if raw := c.Query("edit"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid edit.")
			return
		}
		product, err := ctrl.productAdminService.GetProductForEdit(uint(id))
		if err != nil {
			respondError(c, err, "get product")
			return
		}
		response["edit"] = product
	}

	c.JSON(http.StatusOK, response)
}

// CreateProduct POST /api/v1/admin/products
func (ctrl *AdminProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ProductRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Warn("Invalid product request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product data.")
		return
	}

	product, result, err := ctrl.productAdminService.AddProduct(req.input())
	if err != nil {
		respondError(c, err, "add product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"product": product,
		"result":  result,
	})
}

// UpdateProduct PUT /api/v1/admin/products/:id
func (ctrl *AdminProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Warn("Invalid product request", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product data.")
		return
	}

	product, result, err := ctrl.productAdminService.UpdateProduct(id, req.input())
	if err != nil {
		respondError(c, err, "update product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
		"result":  result,
	})
}

// DeleteProduct DELETE /api/v1/admin/products/:id
func (ctrl *AdminProductController) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := ctrl.productAdminService.DeleteProduct(id)
	if err != nil {
		respondError(c, err, "delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": result,
	})
}

// DeleteAllProducts requires ?confirm=all.
// DELETE /api/v1/admin/products?confirm=all
func (ctrl *AdminProductController) DeleteAllProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if c.Query("confirm") != "all" {
		apperrors.FieldError(c, "confirm", "Pass confirm=all to delete every product.")
		return
	}

	adminID, _ := middleware.GetUserID(c)
	log.Warn("Bulk product delete requested", map[string]interface{}{
		"admin_id": adminID,
	})

	result, err := ctrl.productAdminService.DeleteAllProducts()
	if err != nil {
		respondError(c, err, "delete all products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": result,
	})
}

// ExportProducts streams the catalogue as XLSX
// GET /api/v1/admin/products/export
func (ctrl *AdminProductController) ExportProducts(c *gin.Context) {
	var buf bytes.Buffer
	if err := ctrl.productAdminService.ExportProducts(&buf); err != nil {
		respondError(c, err, "export products")
		return
	}

	filename := fmt.Sprintf("products-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxMIME, buf.Bytes())
}

// ImportProducts reads an XLSX upload in the "file" field
// POST /api/v1/admin/products/import
func (ctrl *AdminProductController) ImportProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.FieldError(c, "file", "Please attach an .xlsx file.")
		return
	}
	if err := storage.ValidateFileSize(fileHeader.Size, maxImportSize); err != nil {
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "The file is too large (max 10 MB).")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open uploaded spreadsheet", err)
		apperrors.BadRequest(c, apperrors.UploadFailed, "Could not read the uploaded file.")
		return
	}
	defer file.Close()

	report, result, err := ctrl.productAdminService.ImportProducts(file)
	if err != nil {
		respondError(c, err, "import products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"report": report,
		"result": result,
	})
}
