package utils

import "math"

// RoundMoney rounds an amount to the currency minor unit (two decimal places).
// Every monetary value persisted on an order or booking goes through this so
// stored totals stay reconstructable from their components.
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// MoneyEquals compares two amounts at minor-unit precision.
func MoneyEquals(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}
