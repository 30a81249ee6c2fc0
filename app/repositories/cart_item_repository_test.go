package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/Rakhulsr/go-shoppingmall/app/db/testdb"
	"github.com/Rakhulsr/go-shoppingmall/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type cartFixture struct {
	db      *gorm.DB
	repo    CartItemRepositoryImpl
	user    *models.User
	other   *models.User
	product *models.Product
}

func newCartFixture(t *testing.T) cartFixture {
	t.Helper()
	db := testdb.New(t)
	ctx := context.Background()

	users := NewUserRepository(db)
	user := &models.User{Email: "buyer@example.com", Name: "buyer"}
	other := &models.User{Email: "other@example.com", Name: "other"}
	require.NoError(t, users.Create(ctx, user))
	require.NoError(t, users.Create(ctx, other))

	product := &models.Product{Name: "mug", Price: 1200, LimitCount: 10,
		ProductDiscounts: []models.ProductDiscount{{DisPrc: 5}}}
	require.NoError(t, NewProductRepository(db).Create(ctx, product))

	return cartFixture{db: db, repo: NewCartItemRepository(db), user: user, other: other, product: product}
}

func TestCartItemRepository_ActiveListing(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 7; i++ {
		require.NoError(t, f.repo.Add(ctx, &models.CartItem{
			UserID: f.user.ID, ProductID: f.product.ID, ProductCount: i + 1, Active: true,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	inactive := &models.CartItem{UserID: f.user.ID, ProductID: f.product.ID, ProductCount: 1, Active: true}
	require.NoError(t, f.repo.Add(ctx, inactive))
	require.NoError(t, f.db.Model(inactive).Update("active", false).Error)
	require.NoError(t, f.repo.Add(ctx, &models.CartItem{UserID: f.other.ID, ProductID: f.product.ID, ProductCount: 1, Active: true}))

	page, total, err := f.repo.GetActiveByUserPaginated(ctx, f.user.ID, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	require.Len(t, page, 5)
	assert.Equal(t, 7, page[0].ProductCount, "newest first")
	require.NotNil(t, page[0].Product)
	assert.Len(t, page[0].Product.ProductDiscounts, 1)

	all, err := f.repo.GetActiveByUser(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Len(t, all, 7)

	count, err := f.repo.CountActiveByUser(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestCartItemRepository_DeleteIsPermanent(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	item := &models.CartItem{UserID: f.user.ID, ProductID: f.product.ID, ProductCount: 2, Active: true}
	require.NoError(t, f.repo.Add(ctx, item))
	require.NoError(t, f.repo.Delete(ctx, item))

	var rows int64
	require.NoError(t, f.db.Model(&models.CartItem{}).Where("id = ?", item.ID).Count(&rows).Error)
	assert.Zero(t, rows)

	gone, err := f.repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestCartItemRepository_GetByUserAndProduct(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	order := &models.Order{UserID: f.user.ID, OrderCode: "ORD-1", OrderedAt: time.Now()}
	require.NoError(t, f.db.Create(order).Error)

	require.NoError(t, f.repo.Add(ctx, &models.CartItem{UserID: f.user.ID, ProductID: f.product.ID, ProductCount: 1, Active: true}))
	require.NoError(t, f.repo.Add(ctx, &models.CartItem{UserID: f.user.ID, ProductID: f.product.ID, ProductCount: 1, Active: true, OrderID: &order.ID}))

	items, err := f.repo.GetByUserAndProduct(ctx, f.user.ID, f.product.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	purchased := 0
	for _, it := range items {
		if it.Purchased() {
			purchased++
		}
	}
	assert.Equal(t, 1, purchased)
}
