package util

import (
	"math"
)

func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

// TruncateFloat64 drops everything after precision decimal digits, no rounding.
func TruncateFloat64(val float64, precision int) float64 {
	prec := math.Pow(10, float64(precision))
	valInt := int64(val * prec)
	return float64(valInt) / prec
}

func ReverseG[T any](arr []T) {
	for i, j := 0, len(arr)-1; i < j; i, j = i+1, j-1 {
		arr[i], arr[j] = arr[j], arr[i]
	}
}
