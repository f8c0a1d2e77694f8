package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AmountPlaces is the number of decimal places a payment amount is stored with.
const AmountPlaces = 2

type Totals struct {
	Amount decimal.Decimal
	Items  int
}

// CalculateTotals sums quantity*unitValue and quantity over the order lines.
// Amounts are exact; rounding to AmountPlaces happens when a Payment is built.
func (o Order) CalculateTotals() (Totals, error) {
	totals := Totals{Amount: decimal.Zero}
	for i, line := range o.Products {
		if line.Quantity < 0 {
			return Totals{}, fmt.Errorf("%w: negative quantity %d on line %d", ErrInvalidAmount, line.Quantity, i)
		}
		if line.Product.UnitValue.IsNegative() {
			return Totals{}, fmt.Errorf("%w: negative unit value %s on line %d", ErrInvalidAmount, line.Product.UnitValue, i)
		}
		totals.Amount = totals.Amount.Add(line.Product.UnitValue.Mul(decimal.NewFromInt(int64(line.Quantity))))
		totals.Items += line.Quantity
	}
	return totals, nil
}
