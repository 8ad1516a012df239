package aggregate

import "github.com/shopspring/decimal"

// Places is the number of fractional digits shown for every average.
const Places = 2

// Round2 rounds d half away from zero to two places and converts it for presentation.
func Round2(d decimal.Decimal) float64 {
	return d.Round(Places).InexactFloat64()
}

// RoundFloat2 rounds f on its shortest decimal representation, so 6.005 becomes 6.01.
func RoundFloat2(f float64) float64 {
	return Round2(decimal.NewFromFloat(f))
}

// divisor guards averages over empty inputs.
func divisor(n int) decimal.Decimal {
	if n <= 0 {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(int64(n))
}
