package wage

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// UnitMultiplier is the standard (non-premium) wage factor.
	UnitMultiplier = 1.0

	roundingPlaces int32 = 2
)

// Breakdown explains how a final wage was derived.
type Breakdown struct {
	BaseRate    float64 `json:"base_rate"`
	Multiplier  float64 `json:"multiplier"`
	FinalWage   float64 `json:"final_wage"`
	IsNonUnity  bool    `json:"is_non_unity"`
	Calculation string  `json:"calculation"`
	Reason      string  `json:"reason,omitempty"`
}

// ComputeWage returns baseRate x multiplier rounded half-up to cents. The
// product is taken on the shortest decimal form of each operand, so 31.875
// rounds to 31.88 rather than following its binary approximation.
// A non-positive or non-finite base rate yields 0. A non-positive or
// non-finite multiplier is treated as 1.0.
func ComputeWage(baseRate, multiplier float64) float64 {
	if !isPositiveFinite(baseRate) {
		return 0
	}
	product := decimal.NewFromFloat(baseRate).Mul(decimal.NewFromFloat(NormalizeMultiplier(multiplier)))
	rounded, _ := product.Round(roundingPlaces).Float64()
	return rounded
}

// NormalizeMultiplier applies the fail-safe default for invalid multipliers.
func NormalizeMultiplier(multiplier float64) float64 {
	if !isPositiveFinite(multiplier) {
		return UnitMultiplier
	}
	return multiplier
}

func WageBreakdown(baseRate, multiplier float64, reason string) Breakdown {
	effective := NormalizeMultiplier(multiplier)
	final := ComputeWage(baseRate, multiplier)

	base := baseRate
	if !isPositiveFinite(base) {
		base = 0
	}

	return Breakdown{
		BaseRate:    base,
		Multiplier:  effective,
		FinalWage:   final,
		IsNonUnity:  effective != UnitMultiplier,
		Calculation: fmt.Sprintf("%.2f × %s = %.2f", base, strconv.FormatFloat(effective, 'f', -1, 64), final),
		Reason:      strings.TrimSpace(reason),
	}
}

// NeedsReason reports a premium or discounted multiplier that carries no
// audit reason. Storage does not enforce it.
func NeedsReason(multiplier float64, reason string) bool {
	return NormalizeMultiplier(multiplier) != UnitMultiplier && strings.TrimSpace(reason) == ""
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
