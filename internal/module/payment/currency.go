package payment

import (
	"fmt"
	"math"
	"strings"
)

// RateTable converts between currencies using fixed rates, each expressed
// as units of that currency per one unit of the store's primary currency.
type RateTable struct {
	rates map[string]float64
}

// NewRateTable creates a converter from configured rates. Codes are case-insensitive.
func NewRateTable(rates map[string]float64) *RateTable {
	normalized := make(map[string]float64, len(rates))
	for code, rate := range rates {
		normalized[strings.ToUpper(code)] = rate
	}
	return &RateTable{rates: normalized}
}

// Convert converts amount from one currency into another, rounded to cents.
func (t *RateTable) Convert(amount float64, from, to string) (float64, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if from == to {
		return amount, nil
	}

	fromRate, err := t.rate(from)
	if err != nil {
		return 0, err
	}
	toRate, err := t.rate(to)
	if err != nil {
		return 0, err
	}
	return math.Round(amount/fromRate*toRate*100) / 100, nil
}

func (t *RateTable) rate(code string) (float64, error) {
	r, ok := t.rates[code]
	if !ok || r <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
	}
	return r, nil
}
