package calc

import (
	"github.com/Rakhulsr/go-shoppingmall/app/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CartLine is one (product, quantity) pair contributing to a checkout total.
type CartLine struct {
	Product *models.Product
	Qty     int
}

// DiscountLess is the ranking used to pick the applicable discount: lower
// Priority wins, then the larger percentage, then the older entry, then the
// lexically smaller ID so the order is total.
func DiscountLess(a, b models.ProductDiscount) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	if a.DisPrc != b.DisPrc {
		return a.DisPrc > b.DisPrc
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// BestDiscount returns the minimum entry under DiscountLess.
func BestDiscount(discounts []models.ProductDiscount) (models.ProductDiscount, bool) {
	if len(discounts) == 0 {
		return models.ProductDiscount{}, false
	}
	best := discounts[0]
	for _, d := range discounts[1:] {
		if DiscountLess(d, best) {
			best = d
		}
	}
	return best, true
}

func EffectiveDiscountPercent(discounts []models.ProductDiscount) int {
	if len(discounts) == 0 {
		return 0
	}
	best, _ := BestDiscount(discounts)
	return best.DisPrc
}

// CalculateDiscount returns the markdown amount of baseTotal at discountPercent.
func CalculateDiscount(baseTotal, discountPercent decimal.Decimal) decimal.Decimal {
	return baseTotal.Mul(discountPercent).Div(hundred)
}

// SalePrice is price * (100 - discountPercent) / 100, truncated toward zero.
func SalePrice(price int64, discountPercent int) int64 {
	base := decimal.NewFromInt(price)
	markdown := CalculateDiscount(base, decimal.NewFromInt(int64(discountPercent)))
	return base.Sub(markdown).Truncate(0).IntPart()
}

func LineTotal(salePrice int64, qty int) int64 {
	return salePrice * int64(qty)
}

func ProductSalePrice(p *models.Product) int64 {
	return SalePrice(p.Price, EffectiveDiscountPercent(p.ProductDiscounts))
}

func CheckoutTotal(lines []CartLine) int64 {
	var total int64
	for _, line := range lines {
		if line.Product == nil {
			continue
		}
		total += LineTotal(ProductSalePrice(line.Product), line.Qty)
	}
	return total
}
