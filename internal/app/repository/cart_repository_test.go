package repository

import (
	"testing"

	"github.com/acehadwer/storefront-backend/internal/app/model"
	"github.com/acehadwer/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartTest(t *testing.T) (*gorm.DB, CartRepository, *model.User, []model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewCartRepository(testDB)

	// Create test user
	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)

	// Create test products
	products := []model.Product{
		{Name: "Green Tea", Price: model.NewMoneyFromFloat(450), Category: "Beverages", Status: model.ProductStatusActive},
		{Name: "Sugar", Price: model.NewMoneyFromFloat(150), Category: "Grocery", Status: model.ProductStatusActive},
	}
	require.NoError(t, testDB.Create(&products).Error)

	return testDB, repo, user, products
}

func TestCartRepository_Create(t *testing.T) {
	testDB, repo, user, products := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cartItem := &model.CartItem{
		UserID:    user.ID,
		ProductID: products[0].ID,
		Quantity:  2,
	}

	err := repo.Create(cartItem)
	assert.NoError(t, err)
	assert.NotZero(t, cartItem.ID)
}

func TestCartRepository_Create_DuplicateLine(t *testing.T) {
	testDB, repo, user, products := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	require.NoError(t, repo.Create(&model.CartItem{UserID: user.ID, ProductID: products[0].ID, Quantity: 1}))

	// one line per user/product pair
	err := repo.Create(&model.CartItem{UserID: user.ID, ProductID: products[0].ID, Quantity: 1})
	assert.Error(t, err)
}

func TestCartRepository_FindByUserID(t *testing.T) {
	testDB, repo, user, products := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	require.NoError(t, repo.Create(&model.CartItem{UserID: user.ID, ProductID: products[0].ID, Quantity: 2}))
	require.NoError(t, repo.Create(&model.CartItem{UserID: user.ID, ProductID: products[1].ID, Quantity: 1}))

	items, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Green Tea", items[0].Product.Name)
	assert.Equal(t, "900.00", items[0].LineTotal().String())
}

func TestCartRepository_FindByID(t *testing.T) {
	testDB, repo, user, products := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cartItem := &model.CartItem{
		UserID:    user.ID,
		ProductID: products[0].ID,
		Quantity:  3,
	}
	require.NoError(t, repo.Create(cartItem))

	found, err := repo.FindByID(cartItem.ID)
	require.NoError(t, err)
	assert.Equal(t, cartItem.ID, found.ID)
	assert.Equal(t, 3, found.Quantity)
	assert.Equal(t, products[0].ID, found.Product.ID)
}

func TestCartRepository_FindByUserAndProduct(t *testing.T) {
	testDB, repo, user, products := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cartItem := &model.CartItem{
		UserID:    user.ID,
		ProductID: products[0].ID,
		Quantity:  2,
	}
	require.NoError(t, repo.Create(cartItem))

	found, err := repo.FindByUserAndProduct(user.ID, products[0].ID)
	require.NoError(t, err)
	assert.Equal(t, cartItem.ID, found.ID)

	_, err = repo.FindByUserAndProduct(user.ID, products[1].ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCartRepository_Update(t *testing.T) {
	testDB, repo, user, products := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cartItem := &model.CartItem{
		UserID:    user.ID,
		ProductID: products[0].ID,
		Quantity:  2,
	}
	require.NoError(t, repo.Create(cartItem))

	cartItem.Quantity = 5
	err := repo.Update(cartItem)
	assert.NoError(t, err)

	updated, err := repo.FindByID(cartItem.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)
}

func TestCartRepository_Delete(t *testing.T) {
	testDB, repo, user, products := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cartItem := &model.CartItem{
		UserID:    user.ID,
		ProductID: products[0].ID,
		Quantity:  2,
	}
	require.NoError(t, repo.Create(cartItem))

	err := repo.Delete(cartItem.ID)
	assert.NoError(t, err)

	_, err = repo.FindByID(cartItem.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCartRepository_DeleteByUserID(t *testing.T) {
	testDB, repo, user, products := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	require.NoError(t, repo.Create(&model.CartItem{UserID: user.ID, ProductID: products[0].ID, Quantity: 1}))
	require.NoError(t, repo.Create(&model.CartItem{UserID: user.ID, ProductID: products[1].ID, Quantity: 2}))

	deleted, err := repo.DeleteByUserID(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	items, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 0)
}
