package orders

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/moda-storefront/pkg/db"
	"github.com/angelmondragon/moda-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/moda-storefront/pkg/errors"
	"github.com/angelmondragon/moda-storefront/pkg/migrate"
)

func setupOrdersTestDB(t *testing.T) *db.Client {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrate.Run(context.Background(), sqlDB, "sqlite3", "up"))
	return db.NewFromGorm(conn, "sqlite3")
}

func newLocalBackend(t *testing.T) *LocalBackend {
	t.Helper()
	client := setupOrdersTestDB(t)
	backend, err := NewLocalBackend(NewRepository(client.DB()), client)
	require.NoError(t, err)
	return backend
}

func sampleInput(userID int64) CreateInput {
	productID := int64(3)
	return CreateInput{
		UserID:          userID,
		PaymentMethod:   enums.PaymentMethodCashOnDelivery,
		ShippingAddress: "Calle 1 #2-3, Bogotá",
		Subtotal:        decimal.NewFromInt(3000),
		Shipping:        decimal.NewFromInt(10000),
		Items: []Item{
			{VariantID: 31, ProductID: &productID, Name: "Chaqueta", Size: "M", Quantity: 2,
				UnitPrice: decimal.NewFromInt(1000), Subtotal: decimal.NewFromInt(2000)},
			{VariantID: 32, Quantity: 1, UnitPrice: decimal.NewFromInt(1000), Subtotal: decimal.NewFromInt(1000)},
		},
	}
}

func TestLocalBackendCreateAndGet(t *testing.T) {
	backend := newLocalBackend(t)
	ctx := context.Background()

	conf, err := backend.Create(ctx, sampleInput(1))
	require.NoError(t, err)
	assert.NotZero(t, conf.OrderID)
	assert.Equal(t, enums.OrderStatusConfirmed, conf.Status)

	order, err := backend.Get(ctx, conf.OrderID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), order.UserID)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(13000)), "total %s", order.Total)
	assert.Equal(t, enums.PaymentMethodCashOnDelivery, order.PaymentMethod)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Chaqueta", order.Items[0].Name)
	assert.Equal(t, 2, order.Items[0].Quantity)
	require.NotNil(t, order.Items[0].ProductID)
	assert.Equal(t, int64(3), *order.Items[0].ProductID)
	assert.Empty(t, order.Items[1].Name)
	assert.False(t, order.CreatedAt.IsZero())
}

func TestLocalBackendGetMissing(t *testing.T) {
	backend := newLocalBackend(t)

	_, err := backend.Get(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestLocalBackendCreateRejectsDuplicateVariant(t *testing.T) {
	backend := newLocalBackend(t)
	ctx := context.Background()

	input := sampleInput(5)
	input.Items[1].VariantID = input.Items[0].VariantID

	_, err := backend.Create(ctx, input)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	list, err := backend.ListByUser(ctx, 5, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, list.Total, "order row should roll back with its lines")
}

func TestLocalBackendListByUser(t *testing.T) {
	backend := newLocalBackend(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		conf, err := backend.Create(ctx, sampleInput(7))
		require.NoError(t, err)
		ids = append(ids, conf.OrderID)
	}
	_, err := backend.Create(ctx, sampleInput(8))
	require.NoError(t, err)

	list, err := backend.ListByUser(ctx, 7, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, list.Total)
	require.Len(t, list.Items, 2)
	assert.Equal(t, ids[2], list.Items[0].ID, "newest first")
	assert.Len(t, list.Items[0].Items, 2)

	list, err = backend.ListByUser(ctx, 7, 2, 2)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, ids[0], list.Items[0].ID)

	list, err = backend.ListByUser(ctx, 42, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, list.Total)
	assert.NotNil(t, list.Items)
}
