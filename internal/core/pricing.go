package core

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// LineTotal returns quantity × price × (1 − discount/100), rounded to 2 places.
// Discounts outside [0,100] are not rejected and propagate arithmetically.
func LineTotal(quantity, price, discountPct decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(discountPct.Div(hundred))
	return quantity.Mul(price).Mul(factor).Round(2)
}

// PriceItem returns li with Total set from its quantity, price and discount.
func PriceItem(li LineItem) LineItem {
	li.Total = decimal.NewNullDecimal(LineTotal(li.Quantity, li.Price, li.Discount))
	return li
}

// ItemAmount is what a line contributes to an order total: its stored total,
// or its unit price when no total was ever stored (records from before line
// totals existed).
func ItemAmount(li LineItem) decimal.Decimal {
	if li.Total.Valid {
		return li.Total.Decimal
	}
	return li.Price
}

// OrderTotal sums ItemAmount over items.
func OrderTotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, li := range items {
		sum = sum.Add(ItemAmount(li))
	}
	return sum
}

// Debt is total − paid. A negative debt is an overpayment and is kept as is.
func Debt(total, paid decimal.Decimal) decimal.Decimal {
	return total.Sub(paid)
}

// ClassifyStock buckets a quantity: ≤5 low, ≤15 medium, otherwise good.
func ClassifyStock(quantity int) StockClass {
	switch {
	case quantity <= 5:
		return StockLow
	case quantity <= 15:
		return StockMedium
	default:
		return StockGood
	}
}

// Reconciliation compares an order's stored money fields with the values
// derived from its lines. Drift is reported, never corrected.
type Reconciliation struct {
	StoredTotal  decimal.Decimal `json:"storedTotal"`
	DerivedTotal decimal.Decimal `json:"derivedTotal"`
	StoredDebt   decimal.Decimal `json:"storedDebt"`
	DerivedDebt  decimal.Decimal `json:"derivedDebt"`
	TotalDrift   bool            `json:"totalDrift"`
	DebtDrift    bool            `json:"debtDrift"`
}

// Reconcile reports whether o.TotalAmount and o.DebtAmount still agree with
// its line items and paid amount.
func Reconcile(o Order) Reconciliation {
	derivedTotal := OrderTotal(o.Items)
	derivedDebt := Debt(o.TotalAmount, o.PaidAmount)
	return Reconciliation{
		StoredTotal:  o.TotalAmount,
		DerivedTotal: derivedTotal,
		StoredDebt:   o.DebtAmount,
		DerivedDebt:  derivedDebt,
		TotalDrift:   !o.TotalAmount.Equal(derivedTotal),
		DebtDrift:    !o.DebtAmount.Equal(derivedDebt),
	}
}
