package booking

import "math"

// TotalPrice returns nights × rate rounded to cents.
func TotalPrice(pricePerNight float64, nights int) float64 {
	return math.Round(pricePerNight*float64(nights)*100) / 100
}
