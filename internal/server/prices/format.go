package prices

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the currency all simulated prices are quoted in.
const Currency = money.USD

// FormatMoney renders a price with its currency symbol and grouping,
// e.g. "$1,500.00".
func FormatMoney(amount decimal.Decimal) string {
	cur := money.GetCurrency(Currency)
	factor, _ := decimal.NewFromInt(10).PowInt32(int32(cur.Fraction))
	return money.New(amount.Mul(factor).Round(0).IntPart(), Currency).Display()
}
