package domain

import "github.com/shopspring/decimal"

var (
	// FreeDeliveryThreshold is inclusive: a subtotal of exactly 50 ships free.
	FreeDeliveryThreshold = decimal.NewFromInt(50)
	StandardDeliveryFee   = decimal.RequireFromString("5.99")
	TaxRate               = decimal.RequireFromString("0.08")
)

// Quote is the checkout price breakdown. Amounts are unrounded; call Round
// for display.
type Quote struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}

// DeliveryFeeFor returns the delivery charge for a subtotal.
func DeliveryFeeFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(FreeDeliveryThreshold) {
		return decimal.Zero
	}
	return StandardDeliveryFee
}

// NewQuote prices a subtotal. Only DELIVERY orders pay the delivery fee.
func NewQuote(subtotal decimal.Decimal, orderType OrderType) Quote {
	fee := decimal.Zero
	if orderType == OrderDelivery {
		fee = DeliveryFeeFor(subtotal)
	}
	tax := subtotal.Mul(TaxRate)
	return Quote{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Tax:         tax,
		Total:       subtotal.Add(fee).Add(tax),
	}
}

// Round returns the quote rounded to cents for display.
func (q Quote) Round() Quote {
	return Quote{
		Subtotal:    q.Subtotal.Round(2),
		DeliveryFee: q.DeliveryFee.Round(2),
		Tax:         q.Tax.Round(2),
		Total:       q.Total.Round(2),
	}
}
