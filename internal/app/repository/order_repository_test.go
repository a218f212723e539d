package repository

import (
	"testing"

	"github.com/acehadwer/storefront-backend/internal/app/model"
	"github.com/acehadwer/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderTest(t *testing.T) (*gorm.DB, OrderRepository, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewOrderRepository(testDB)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)

	product := &model.Product{
		Name:     "Test Product",
		Price:    model.NewMoneyFromFloat(1000),
		Category: "Grocery",
		Status:   model.ProductStatusActive,
	}
	require.NoError(t, testDB.Create(product).Error)

	return testDB, repo, user, product
}

func newTestOrder(userID uint, total float64) *model.Order {
	return &model.Order{
		UserID:          userID,
		TotalAmount:     model.NewMoneyFromFloat(total),
		DeliveryAddress: "12 Mall Road, Lahore",
		Phone:           "0300-1234567",
		PaymentMethod:   model.PaymentCashOnDelivery,
		Status:          model.OrderStatusPending,
	}
}

func TestOrderRepository_CreateWithItems(t *testing.T) {
	testDB, repo, user, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	order := newTestOrder(user.ID, 2000)
	require.NoError(t, repo.Create(order))
	assert.NotZero(t, order.ID)

	items := []model.OrderItem{
		{OrderID: order.ID, ProductID: product.ID, Quantity: 2, Price: product.Price},
	}
	require.NoError(t, repo.CreateItems(items))
	assert.NotZero(t, items[0].ID)

	found, err := repo.FindByID(order.ID)
	require.NoError(t, err)
	require.Len(t, found.OrderItems, 1)
	assert.Equal(t, product.ID, found.OrderItems[0].Product.ID)
	assert.Equal(t, "2000.00", found.TotalAmount.String())
	assert.Equal(t, "2000.00", found.OrderItems[0].LineTotal().String())
}

func TestOrderRepository_FindByID_NotFound(t *testing.T) {
	testDB, repo, _, _ := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	found, err := repo.FindByID(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Nil(t, found)
}

func TestOrderRepository_FindByUserID(t *testing.T) {
	testDB, repo, user, _ := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	other := &model.User{Email: "other@example.com", PasswordHash: "hash", Name: "Other", Role: model.RoleUser}
	require.NoError(t, testDB.Create(other).Error)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(newTestOrder(user.ID, float64((i+1)*100))))
	}
	require.NoError(t, repo.Create(newTestOrder(other.ID, 50)))

	orders, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	// newest first
	assert.True(t, orders[0].ID > orders[1].ID)
	for _, o := range orders {
		assert.Equal(t, user.ID, o.UserID)
	}
}

func TestOrderRepository_FindAll_StatusFilter(t *testing.T) {
	testDB, repo, user, _ := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	pending := newTestOrder(user.ID, 100)
	confirmed := newTestOrder(user.ID, 200)
	confirmed.Status = model.OrderStatusConfirmed
	require.NoError(t, repo.Create(pending))
	require.NoError(t, repo.Create(confirmed))

	all, err := repo.FindAll(OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	status := model.OrderStatusConfirmed
	filtered, err := repo.FindAll(OrderFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, confirmed.ID, filtered[0].ID)

	paged, err := repo.FindAll(OrderFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, paged, 1)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	testDB, repo, user, _ := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	order := newTestOrder(user.ID, 100)
	require.NoError(t, repo.Create(order))

	err := repo.UpdateStatus(order.ID, model.OrderStatusPending, model.OrderStatusConfirmed)
	assert.NoError(t, err)

	updated, err := repo.FindByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, updated.Status)

	err = repo.UpdateStatus(9999, model.OrderStatusPending, model.OrderStatusConfirmed)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOrderRepository_UpdateStatus_StaleFrom(t *testing.T) {
	testDB, repo, user, _ := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	order := newTestOrder(user.ID, 100)
	require.NoError(t, repo.Create(order))
	require.NoError(t, repo.UpdateStatus(order.ID, model.OrderStatusPending, model.OrderStatusConfirmed))

	// a writer still holding "pending" must not overwrite "confirmed"
	err := repo.UpdateStatus(order.ID, model.OrderStatusPending, model.OrderStatusCancelled)
	assert.ErrorIs(t, err, ErrOrderStatusChanged)

	current, err := repo.FindByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, current.Status)
}

func TestOrderRepository_GetStats(t *testing.T) {
	testDB, repo, user, _ := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	for _, total := range []float64{100.10, 200.20} {
		o := newTestOrder(user.ID, total)
		o.Status = model.OrderStatusDelivered
		require.NoError(t, repo.Create(o))
	}
	require.NoError(t, repo.Create(newTestOrder(user.ID, 999)))

	stats, err := repo.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.Equal(t, int64(2), stats.ByStatus[model.OrderStatusDelivered])
	assert.Equal(t, int64(1), stats.ByStatus[model.OrderStatusPending])
	assert.Equal(t, "300.30", stats.DeliveredTotal.String())
}

func TestOrderRepository_WithTxRollback(t *testing.T) {
	testDB, repo, user, _ := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	err := testDB.Transaction(func(tx *gorm.DB) error {
		if err := repo.WithTx(tx).Create(newTestOrder(user.ID, 100)); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	orders, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}
