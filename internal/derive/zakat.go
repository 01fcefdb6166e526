package derive

import (
	"math"
	"strconv"
	"strings"
)

const (
	NisabGoldGrams          = 85
	ZakatRate               = 0.025
	DefaultGoldPricePerGram = 8500000
)

type Zakat struct {
	Wealth    float64
	Nisab     float64
	Wajib     bool
	AmountDue int64
}

// CalculateZakat truncates the due amount toward zero. Negative wealth counts
// as zero.
func CalculateZakat(wealth, goldPricePerGram float64) Zakat {
	if wealth < 0 || math.IsNaN(wealth) || math.IsInf(wealth, 0) {
		wealth = 0
	}

	nisab := NisabGoldGrams * goldPricePerGram
	zakat := Zakat{
		Wealth: wealth,
		Nisab:  nisab,
		Wajib:  wealth >= nisab,
	}

	if zakat.Wajib {
		zakat.AmountDue = int64(math.Trunc(wealth * ZakatRate))
	}

	return zakat
}

// ParseWealth maps anything that is not a finite non-negative number to 0.
func ParseWealth(s string) float64 {
	wealth, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || wealth < 0 || math.IsNaN(wealth) || math.IsInf(wealth, 0) {
		return 0
	}
	return wealth
}
