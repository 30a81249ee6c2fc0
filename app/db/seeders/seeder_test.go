package seeders

import (
	"context"
	"testing"

	"github.com/Rakhulsr/go-shoppingmall/app/db/testdb"
	"github.com/Rakhulsr/go-shoppingmall/app/models"
	"github.com/Rakhulsr/go-shoppingmall/app/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestDBSeed(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	opts := DefaultOptions()
	opts.ProductsPerCategory = 2

	require.NoError(t, DBSeed(ctx, db, opts, zap.NewNop()))

	var categories, products, users int64
	require.NoError(t, db.Model(&models.Category{}).Count(&categories).Error)
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(countCategories()), categories)
	assert.Equal(t, int64(7*2), products)
	assert.Equal(t, int64(1+opts.Shoppers), users)

	var orphans int64
	require.NoError(t, db.Model(&models.Product{}).Where("large_cat_cd = '' OR small_cat_cd = ''").Count(&orphans).Error)
	assert.Zero(t, orphans)

	admin, err := repositories.NewUserRepository(db).FindByLoginID(ctx, opts.AdminLoginID)
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(opts.AdminPassword)))

	shopper, err := repositories.NewUserRepository(db).FindByLoginID(ctx, "shopper1")
	require.NoError(t, err)
	require.NotNil(t, shopper)
	orders, err := repositories.NewOrderRepository(db).FindByUserID(ctx, shopper.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	var purchased int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ? AND order_id IS NOT NULL", shopper.ID).Count(&purchased).Error)
	assert.Equal(t, int64(1), purchased)
}

func TestDBSeed_SkipsSeededDatabase(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	opts := DefaultOptions()
	opts.ProductsPerCategory = 1

	require.NoError(t, DBSeed(ctx, db, opts, zap.NewNop()))
	require.NoError(t, DBSeed(ctx, db, opts, zap.NewNop()))

	var products int64
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	assert.Equal(t, int64(7), products)
}
