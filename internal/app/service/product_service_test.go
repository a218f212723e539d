package service

import (
	"bytes"
	"testing"

	"github.com/acehadwer/storefront-backend/internal/app/model"
	"github.com/acehadwer/storefront-backend/internal/app/repository"
	"github.com/acehadwer/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) (*gorm.DB, ProductService, ProductAdminService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	productRepo := repository.NewProductRepository(testDB)
	return testDB, NewProductService(productRepo), NewProductAdminService(productRepo)
}

func validProductInput() ProductInput {
	return ProductInput{
		Name:        "  Green Tea ",
		Description: " Loose leaf ",
		Price:       "450.50",
		Category:    " Beverages ",
		Image:       "https://cdn.example.com/tea.jpg",
		Status:      "active",
	}
}

func TestProductService_ListProducts(t *testing.T) {
	_, productService, admin := setupProductServiceTest(t)

	for _, in := range []ProductInput{
		{Name: "Green Tea", Description: "d", Price: "450", Category: "Beverages", Status: "active"},
		{Name: "Black Tea", Description: "d", Price: "380", Category: "Beverages", Status: "active"},
		{Name: "Rice", Description: "d", Price: "1250", Category: "Grocery", Status: "active"},
		{Name: "Hidden Tea", Description: "d", Price: "10", Category: "Beverages", Status: "inactive"},
	} {
		_, _, err := admin.AddProduct(in)
		require.NoError(t, err)
	}

	page, err := productService.ListProducts(ProductListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, defaultProductPageSize, page.PageSize)
	assert.Len(t, page.Products, 3)

	page, err = productService.ListProducts(ProductListOptions{Category: "Beverages", Sort: ProductSortPriceAsc})
	require.NoError(t, err)
	require.Len(t, page.Products, 2)
	assert.Equal(t, "Black Tea", page.Products[0].Name)

	page, err = productService.ListProducts(ProductListOptions{Search: "tea", PageSize: 1, Page: 2, Sort: ProductSortName})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Green Tea", page.Products[0].Name)

	page, err = productService.ListProducts(ProductListOptions{PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, maxProductPageSize, page.PageSize)
}

func TestProductService_GetProductByID(t *testing.T) {
	_, productService, admin := setupProductServiceTest(t)

	active, _, err := admin.AddProduct(validProductInput())
	require.NoError(t, err)
	in := validProductInput()
	in.Status = "inactive"
	inactive, _, err := admin.AddProduct(in)
	require.NoError(t, err)

	tests := []struct {
		name    string
		id      uint
		wantErr error
	}{
		{name: "Active product", id: active.ID},
		{name: "Inactive product is hidden", id: inactive.ID, wantErr: ErrProductNotFound},
		{name: "Non-existing product", id: 9999, wantErr: ErrProductNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := productService.GetProductByID(tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, KindNotFound, KindOf(err))
				assert.Nil(t, product)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, product.ID)
		})
	}

	// the admin view still sees it
	found, err := admin.GetProductForEdit(inactive.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProductStatusInactive, found.Status)
}

func TestProductService_ListCategories(t *testing.T) {
	_, productService, admin := setupProductServiceTest(t)

	_, _, err := admin.AddProduct(validProductInput())
	require.NoError(t, err)

	categories, err := productService.ListCategories()
	require.NoError(t, err)
	assert.Equal(t, []string{"Beverages"}, categories)
}

func TestProductAdminService_AddProduct(t *testing.T) {
	_, _, admin := setupProductServiceTest(t)

	product, result, err := admin.AddProduct(validProductInput())
	require.NoError(t, err)
	assert.Equal(t, "Green Tea", product.Name)
	assert.Equal(t, "Loose leaf", product.Description)
	assert.Equal(t, "Beverages", product.Category)
	assert.Equal(t, "450.50", product.Price.String())
	assert.Equal(t, ResultAdded, result.Status)
	assert.Equal(t, "Product added successfully!", result.Message)
}

func TestProductAdminService_AddProduct_Validation(t *testing.T) {
	_, _, admin := setupProductServiceTest(t)

	tests := []struct {
		name   string
		mutate func(*ProductInput)
		field  string
	}{
		{"Missing name", func(in *ProductInput) { in.Name = "   " }, "name"},
		{"Missing description", func(in *ProductInput) { in.Description = "" }, "description"},
		{"Missing price", func(in *ProductInput) { in.Price = "" }, "price"},
		{"Unparseable price", func(in *ProductInput) { in.Price = "ten" }, "price"},
		{"Missing category", func(in *ProductInput) { in.Category = "" }, "category"},
		{"Bad status", func(in *ProductInput) { in.Status = "archived" }, "status"},
		{"Name checked before price", func(in *ProductInput) { in.Name = ""; in.Price = "" }, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validProductInput()
			tt.mutate(&in)

			product, result, err := admin.AddProduct(in)
			assert.Nil(t, product)
			assert.Nil(t, result)

			var opErr *OperationError
			require.ErrorAs(t, err, &opErr)
			assert.Equal(t, KindValidation, opErr.Kind)
			assert.Equal(t, tt.field, opErr.Field)
		})
	}
}

func TestProductAdminService_UpdateProduct_ImageHandling(t *testing.T) {
	_, _, admin := setupProductServiceTest(t)

	product, _, err := admin.AddProduct(validProductInput())
	require.NoError(t, err)

	t.Run("Empty image keeps prior value", func(t *testing.T) {
		in := validProductInput()
		in.Image = ""
		in.Price = "500"

		updated, result, err := admin.UpdateProduct(product.ID, in)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/tea.jpg", updated.ImageURL)
		assert.Equal(t, "500.00", updated.Price.String())
		assert.Equal(t, ResultUpdated, result.Status)
		assert.Equal(t, "Product updated successfully!", result.Message)
	})

	t.Run("Whitespace image replaces", func(t *testing.T) {
		in := validProductInput()
		in.Image = "   "

		updated, _, err := admin.UpdateProduct(product.ID, in)
		require.NoError(t, err)
		assert.Equal(t, "   ", updated.ImageURL)

		stored, err := admin.GetProductForEdit(product.ID)
		require.NoError(t, err)
		assert.Equal(t, "   ", stored.ImageURL)
	})

	t.Run("New image replaces", func(t *testing.T) {
		in := validProductInput()
		in.Image = "https://cdn.example.com/new.jpg"

		updated, _, err := admin.UpdateProduct(product.ID, in)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/new.jpg", updated.ImageURL)
	})

	t.Run("Unknown product", func(t *testing.T) {
		_, _, err := admin.UpdateProduct(9999, validProductInput())
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestProductAdminService_ListAllProducts(t *testing.T) {
	_, _, admin := setupProductServiceTest(t)

	first, _, err := admin.AddProduct(validProductInput())
	require.NoError(t, err)
	in := validProductInput()
	in.Status = "inactive"
	second, _, err := admin.AddProduct(in)
	require.NoError(t, err)

	products, err := admin.ListAllProducts()
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, second.ID, products[0].ID)
	assert.Equal(t, first.ID, products[1].ID)
}

func TestProductAdminService_DeleteProduct(t *testing.T) {
	testDB, _, admin := setupProductServiceTest(t)

	product, _, err := admin.AddProduct(validProductInput())
	require.NoError(t, err)

	user := &model.User{Email: "buyer@example.com", PasswordHash: "hash", Name: "Buyer", Role: model.RoleUser}
	require.NoError(t, testDB.Create(user).Error)
	require.NoError(t, testDB.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 1}).Error)
	require.NoError(t, testDB.Create(&model.WishlistItem{UserID: user.ID, ProductID: product.ID}).Error)

	result, err := admin.DeleteProduct(product.ID)
	require.NoError(t, err)
	assert.Equal(t, ResultDeleted, result.Status)
	assert.Equal(t, "Product deleted successfully!", result.Message)

	var carts, wishes int64
	testDB.Model(&model.CartItem{}).Count(&carts)
	testDB.Model(&model.WishlistItem{}).Count(&wishes)
	assert.Zero(t, carts)
	assert.Zero(t, wishes)

	_, err = admin.GetProductForEdit(product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = admin.DeleteProduct(product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestProductAdminService_DeleteAllProducts(t *testing.T) {
	_, _, admin := setupProductServiceTest(t)

	for i := 0; i < 3; i++ {
		_, _, err := admin.AddProduct(validProductInput())
		require.NoError(t, err)
	}

	result, err := admin.DeleteAllProducts()
	require.NoError(t, err)
	assert.Equal(t, ResultAllDeleted, result.Status)
	assert.Equal(t, "All products deleted successfully!", result.Message)

	products, err := admin.ListAllProducts()
	require.NoError(t, err)
	assert.Empty(t, products)

	next, _, err := admin.AddProduct(validProductInput())
	require.NoError(t, err)
	assert.Equal(t, uint(1), next.ID)
}

func TestProductAdminService_ExportImportRoundTrip(t *testing.T) {
	_, _, admin := setupProductServiceTest(t)

	_, _, err := admin.AddProduct(validProductInput())
	require.NoError(t, err)
	in := validProductInput()
	in.Name = "Rice"
	in.Category = "Grocery"
	in.Price = "1250"
	in.Status = "inactive"
	_, _, err = admin.AddProduct(in)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, admin.ExportProducts(&buf))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	rows, err := f.GetRows(productSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, productColumns, rows[0])
	assert.Equal(t, "Rice", rows[1][1])
	assert.Equal(t, "1250.00", rows[1][3])
	assert.Equal(t, "450.50", rows[2][3])
	require.NoError(t, f.Close())

	_, err = admin.DeleteAllProducts()
	require.NoError(t, err)

	report, result, err := admin.ImportProducts(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 2, report.Imported)
	assert.Zero(t, report.Skipped)
	assert.Equal(t, ResultImported, result.Status)

	products, err := admin.ListAllProducts()
	require.NoError(t, err)
	require.Len(t, products, 2)
	byName := map[string]model.Product{}
	for _, p := range products {
		byName[p.Name] = p
	}
	assert.Equal(t, "1250.00", byName["Rice"].Price.String())
	assert.Equal(t, model.ProductStatusInactive, byName["Rice"].Status)
	assert.Equal(t, "450.50", byName["Green Tea"].Price.String())
}

func TestProductAdminService_ExportProducts_ExactPrice(t *testing.T) {
	_, _, admin := setupProductServiceTest(t)

	in := validProductInput()
	in.Price = "9876543210.07"
	_, _, err := admin.AddProduct(in)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, admin.ExportProducts(&buf))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	price, err := f.GetCellValue(productSheet, "D2")
	require.NoError(t, err)
	assert.Equal(t, "9876543210.07", price)
}

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &rows[i]))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestProductAdminService_ImportProducts_SkipsInvalidRows(t *testing.T) {
	_, _, admin := setupProductServiceTest(t)

	buf := buildWorkbook(t, [][]interface{}{
		{"name", "PRICE", "Description", "Category"},
		{"Salt", "60", "Iodised", "Grocery"},
		{"", "10", "No name", "Grocery"},
		{"Sugar", "cheap", "Bad price", "Grocery"},
		{},
		{"Flour", 95.5, "Chakki atta", "Grocery"},
	})

	report, _, err := admin.ImportProducts(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 2, report.Skipped)
	require.Len(t, report.Errors, 2)
	assert.Equal(t, RowError{Row: 3, Field: "name", Message: "Product name is required."}, report.Errors[0])
	assert.Equal(t, 4, report.Errors[1].Row)
	assert.Equal(t, "price", report.Errors[1].Field)

	products, err := admin.ListAllProducts()
	require.NoError(t, err)
	for _, p := range products {
		assert.Equal(t, model.ProductStatusActive, p.Status)
	}
}

func TestProductAdminService_ImportProducts_Rejects(t *testing.T) {
	_, _, admin := setupProductServiceTest(t)

	_, _, err := admin.ImportProducts(bytes.NewReader([]byte("not a workbook")))
	assert.ErrorIs(t, err, ErrInvalidSpreadsheet)

	_, _, err = admin.ImportProducts(buildWorkbook(t, [][]interface{}{{"title", "cost"}, {"Salt", "60"}}))
	assert.ErrorIs(t, err, ErrInvalidSpreadsheet)

	_, _, err = admin.ImportProducts(buildWorkbook(t, [][]interface{}{{"name", "price"}, {"", ""}}))
	assert.ErrorIs(t, err, ErrInvalidSpreadsheet)
	assert.Equal(t, KindValidation, KindOf(err))
}
