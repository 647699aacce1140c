// Package money rounds calculated amounts the way valuation results are reported.
package money

import "github.com/shopspring/decimal"

// Round2 rounds a euro amount to cents, half away from zero.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// RoundThousand rounds a sale price to the nearest 1000 euros.
func RoundThousand(v float64) float64 {
	return decimal.NewFromFloat(v).Round(-3).InexactFloat64()
}

// Band returns v scaled by 1-spread and 1+spread.
func Band(v, spread float64) (low, high float64) {
	d := decimal.NewFromFloat(v)
	low = d.Mul(decimal.NewFromFloat(1 - spread)).InexactFloat64()
	high = d.Mul(decimal.NewFromFloat(1 + spread)).InexactFloat64()
	return low, high
}
