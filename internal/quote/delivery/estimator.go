// Package delivery maps Spanish postal codes to shipping cost bands and
// holds the pickup workshop catalog.
package delivery

import "strconv"

// Shipping costs per geographic band, in euros.
const (
	CostPeninsula    = 12.50
	CostBaleares     = 25.00
	CostCanarias     = 35.00
	CostCeutaMelilla = 30.00
)

// Cost classifies a postal code into one of four fixed bands and returns
// that band's flat shipping price. Malformed codes fall through to the
// mainland default rather than erroring.
func Cost(postalCode string) float64 {
	code, err := strconv.Atoi(postalCode)
	if err != nil {
		return CostPeninsula
	}

	switch {
	case code >= 7000 && code <= 7999: // Baleares
		return CostBaleares
	case code >= 35000 && code <= 35999: // Las Palmas
		return CostCanarias
	case code >= 38000 && code <= 38999: // Tenerife
		return CostCanarias
	case code >= 51000 && code <= 52999: // Ceuta/Melilla
		return CostCeutaMelilla
	default:
		return CostPeninsula
	}
}
