package calculator

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tabsplit/internal/models"
)

// Round2 rounds a currency amount to cents, half away from zero. Amounts
// go through their shortest decimal form first so 1.005 rounds to 1.01.
func Round2(x float64) float64 {
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}

func cents(x float64) decimal.Decimal {
	return decimal.NewFromFloat(x).Round(2)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// overflow is returned when amounts that were finite on input no longer
// are once summed.
func overflow(format string, args ...any) error {
	return &models.ValidationError{Kind: models.ErrInvalidAmount, Ref: fmt.Sprintf(format, args...)}
}

// CheckNets fails if any net balance overflowed. Settle requires finite
// nets.
func CheckNets(nets []NetBalance) error {
	for _, n := range nets {
		if !finite(n.Net) {
			return overflow("net of %s overflows", n.ParticipantID)
		}
	}
	return nil
}
