package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/plutarco/tienda-api/models"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Product{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func TestCreateOrderComputesTotals(t *testing.T) {
	db := setupServiceTestDB(t)

	order := models.Order{CustomerName: "Ana", ShippingCharged: 500}
	created, err := CreateOrder(db, &order, []ItemInput{
		{Name: "Pan de campo", Quantity: 2, UnitPrice: 5900},
		{Name: "Sal marina", Quantity: 1, UnitPrice: 2600},
	})
	require.NoError(t, err)

	assert.Equal(t, 2*5900.0+2600.0, created.Subtotal)
	assert.Equal(t, created.Subtotal+500, created.Total)
	assert.Len(t, created.Items, 2)
}

func TestCreateOrderWithNoLines(t *testing.T) {
	db := setupServiceTestDB(t)

	order := models.Order{CustomerName: "Ana", ShippingCharged: 300}
	created, err := CreateOrder(db, &order, nil)
	require.NoError(t, err)

	assert.Equal(t, 0.0, created.Subtotal)
	assert.Equal(t, 300.0, created.Total)
	assert.Empty(t, created.Items)
}

func TestCreateOrderSnapshotsCatalogProduct(t *testing.T) {
	db := setupServiceTestDB(t)

	product := models.Product{Code: "PLUT0006", Name: "Pan de campo", Price: 5900}
	require.NoError(t, db.Create(&product).Error)

	order := models.Order{CustomerName: "Ana"}
	created, err := CreateOrder(db, &order, []ItemInput{{Code: "PLUT0006", Quantity: 1}})
	require.NoError(t, err)

	require.Len(t, created.Items, 1)
	item := created.Items[0]
	assert.Equal(t, "PLUT0006", item.Code)
	assert.Equal(t, "Pan de campo", item.Name)
	assert.Equal(t, 5900.0, item.UnitPrice)
	require.NotNil(t, item.ProductID)
	assert.Equal(t, product.ID, *item.ProductID)

	// Catalog changes must not leak into the stored snapshot.
	require.NoError(t, db.Model(&product).Updates(map[string]interface{}{
		"name": "Pan renombrado", "price": 9999.0,
	}).Error)

	var stored models.OrderItem
	require.NoError(t, db.First(&stored, item.ID).Error)
	assert.Equal(t, "Pan de campo", stored.Name)
	assert.Equal(t, 5900.0, stored.UnitPrice)
}

func TestReplaceOrderItemsRecomputes(t *testing.T) {
	db := setupServiceTestDB(t)

	order := models.Order{CustomerName: "Ana", ShippingCharged: 100}
	created, err := CreateOrder(db, &order, []ItemInput{{Name: "Pan", Quantity: 1, UnitPrice: 1000}})
	require.NoError(t, err)
	assert.Equal(t, 1100.0, created.Total)

	updated, err := ReplaceOrderItems(db, created.ID, []ItemInput{
		{Name: "Queso", Quantity: 2, UnitPrice: 2500},
		{Name: "Sal", Quantity: 3, UnitPrice: 100},
	})
	require.NoError(t, err)

	assert.Len(t, updated.Items, 2)
	assert.Equal(t, 2*2500.0+3*100.0, updated.Subtotal)
	assert.Equal(t, updated.Subtotal+100, updated.Total)
}

func TestReplaceOrderItemsEmptySet(t *testing.T) {
	db := setupServiceTestDB(t)

	order := models.Order{CustomerName: "Ana", ShippingCharged: 250}
	created, err := CreateOrder(db, &order, []ItemInput{{Name: "Pan", Quantity: 4, UnitPrice: 1000}})
	require.NoError(t, err)

	updated, err := ReplaceOrderItems(db, created.ID, nil)
	require.NoError(t, err)

	assert.Empty(t, updated.Items)
	assert.Equal(t, 0.0, updated.Subtotal)
	assert.Equal(t, 250.0, updated.Total)
}

func TestAddUpdateDeleteOrderItem(t *testing.T) {
	db := setupServiceTestDB(t)

	order := models.Order{CustomerName: "Ana"}
	created, err := CreateOrder(db, &order, []ItemInput{{Name: "Pan", Quantity: 1, UnitPrice: 1000}})
	require.NoError(t, err)

	// Add
	updated, err := AddOrderItem(db, created.ID, ItemInput{Name: "Queso", Quantity: 2, UnitPrice: 2500})
	require.NoError(t, err)
	assert.Len(t, updated.Items, 2)
	assert.Equal(t, 1000.0+5000.0, updated.Subtotal)

	// Update
	var queso models.OrderItem
	require.NoError(t, db.Where("order_id = ? AND name = ?", created.ID, "Queso").First(&queso).Error)
	updated, err = UpdateOrderItem(db, created.ID, queso.ID, 1, 2500)
	require.NoError(t, err)
	assert.Equal(t, 1000.0+2500.0, updated.Subtotal)

	// Delete leaves N-1 lines and a correctly reduced subtotal
	updated, err = DeleteOrderItem(db, created.ID, queso.ID)
	require.NoError(t, err)
	assert.Len(t, updated.Items, 1)
	assert.Equal(t, 1000.0, updated.Subtotal)
	assert.Equal(t, 1000.0, updated.Total)
}

func TestOrderItemOpsOnMissingOrder(t *testing.T) {
	db := setupServiceTestDB(t)

	_, err := AddOrderItem(db, 42, ItemInput{Name: "Pan", Quantity: 1})
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = ReplaceOrderItems(db, 42, nil)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = RecomputeOrderTotals(db, 42)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	err = DeleteOrder(db, 42)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestDeleteOrderItemFromWrongOrder(t *testing.T) {
	db := setupServiceTestDB(t)

	first, err := CreateOrder(db, &models.Order{CustomerName: "Ana"}, []ItemInput{{Name: "Pan", Quantity: 1, UnitPrice: 100}})
	require.NoError(t, err)
	second, err := CreateOrder(db, &models.Order{CustomerName: "Luis"}, []ItemInput{{Name: "Queso", Quantity: 1, UnitPrice: 200}})
	require.NoError(t, err)

	_, err = DeleteOrderItem(db, first.ID, second.Items[0].ID)
	assert.ErrorIs(t, err, ErrOrderItemNotFound)
}

func TestDeleteOrderCascadesItems(t *testing.T) {
	db := setupServiceTestDB(t)

	created, err := CreateOrder(db, &models.Order{CustomerName: "Ana"}, []ItemInput{
		{Name: "Pan", Quantity: 1, UnitPrice: 100},
		{Name: "Queso", Quantity: 1, UnitPrice: 200},
	})
	require.NoError(t, err)

	require.NoError(t, DeleteOrder(db, created.ID))

	var itemCount int64
	db.Model(&models.OrderItem{}).Where("order_id = ?", created.ID).Count(&itemCount)
	assert.Zero(t, itemCount)
}

func TestDeleteAllOrders(t *testing.T) {
	db := setupServiceTestDB(t)

	for range 3 {
		_, err := CreateOrder(db, &models.Order{CustomerName: "Ana"}, []ItemInput{{Name: "Pan", Quantity: 1, UnitPrice: 100}})
		require.NoError(t, err)
	}

	require.NoError(t, DeleteAllOrders(db))

	var orderCount, itemCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	db.Model(&models.OrderItem{}).Count(&itemCount)
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)
}
