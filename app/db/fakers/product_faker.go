package fakers

import (
	"math/rand"
	"strings"

	"github.com/Rakhulsr/go-shoppingmall/app/models"
	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
)

// ProductFaker builds an unsaved product in the given small category, with a
// discount on roughly every third product.
func ProductFaker(category models.Category) *models.Product {
	name := strings.TrimSuffix(faker.Sentence(), ".")
	if len(name) > 60 {
		name = name[:60]
	}

	product := &models.Product{
		ID:            uuid.New().String(),
		Name:          name,
		Description:   faker.Paragraph(),
		Price:         fakePrice(),
		LimitCount:    rand.Intn(50) + 1,
		SmallCatCd:    category.Code,
		PurchaseCount: rand.Intn(200),
		ThumbnailURL:  "/images/products/" + strings.ToLower(category.Code) + ".jpg",
	}
	if category.ParentCode != nil {
		product.LargeCatCd = *category.ParentCode
	}

	if rand.Intn(3) == 0 {
		product.ProductDiscounts = []models.ProductDiscount{
			{DisPrc: (rand.Intn(6) + 1) * 5, Priority: rand.Intn(3)},
		}
	}
	return product
}

// fakePrice returns a price in hundreds, between 1,000 and 200,000.
func fakePrice() int64 {
	return int64(rand.Intn(1991)+10) * 100
}
