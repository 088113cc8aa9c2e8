package engine

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// FloorToStep rounds value down to a multiple of step.
func FloorToStep(value, step float64) float64 {
	if step <= 0 {
		return value
	}
	return floorDec(decimal.NewFromFloat(value), decimal.NewFromFloat(step)).InexactFloat64()
}

// CeilToStep rounds value up to a multiple of step.
func CeilToStep(value, step float64) float64 {
	if step <= 0 {
		return value
	}
	return ceilDec(decimal.NewFromFloat(value), decimal.NewFromFloat(step)).InexactFloat64()
}

func floorDec(v, step decimal.Decimal) decimal.Decimal {
	return v.Div(step).Floor().Mul(step)
}

func ceilDec(v, step decimal.Decimal) decimal.Decimal {
	return v.Div(step).Ceil().Mul(step)
}

// pricing holds the decimal forms of the rounding inputs, built once per run.
type pricing struct {
	stake     decimal.Decimal
	lotStep   decimal.Decimal
	priceStep decimal.Decimal
	markup    decimal.Decimal // 1 + gain/100
}

func newPricing(p Params) pricing {
	return pricing{
		stake:     decimal.NewFromFloat(p.Stake),
		lotStep:   decimal.NewFromFloat(p.LotStep),
		priceStep: decimal.NewFromFloat(p.PriceStep),
		markup:    decimal.NewFromInt(1).Add(decimal.NewFromFloat(p.Gain).Div(hundred)),
	}
}

// quantity is floor(stake/price, lot_step).
func (pr pricing) quantity(price float64) float64 {
	return floorDec(pr.stake.Div(decimal.NewFromFloat(price)), pr.lotStep).InexactFloat64()
}

// target is ceil(price * (1 + gain/100), price_step).
func (pr pricing) target(price float64) float64 {
	return ceilDec(decimal.NewFromFloat(price).Mul(pr.markup), pr.priceStep).InexactFloat64()
}
