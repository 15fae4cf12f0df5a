package domain

import "github.com/shopspring/decimal"

var minorUnitsPerMajor = decimal.NewFromInt(100)

// MinorToMajor converte valores em centavos/copeques para a unidade principal
func MinorToMajor(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value).Div(minorUnitsPerMajor).Round(2)
}
