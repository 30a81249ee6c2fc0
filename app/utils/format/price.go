package format

import (
	"github.com/leekchan/accounting"
)

var won = accounting.Accounting{
	Symbol:    "₩",
	Precision: 0,
	Thousand:  ",",
	Decimal:   ".",
}

// Price renders an amount in the smallest currency unit, e.g. ₩12,900.
func Price(amount int64) string {
	return won.FormatMoney(amount)
}

// DiscountLabel renders a discount percentage, or an empty string for none.
func DiscountLabel(percent int) string {
	if percent <= 0 {
		return ""
	}
	return accounting.FormatNumber(percent, 0, ",", ".") + "%"
}
