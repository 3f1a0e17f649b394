package domain

import "github.com/shopspring/decimal"

// Money is an amount in minor currency units (cents).
type Money int64

// String renders the amount in major units with two decimals, e.g. "12.30".
func (m Money) String() string {
	return decimal.New(int64(m), -2).StringFixed(2)
}

func (m Money) Mul(n int) Money {
	return m * Money(n)
}
