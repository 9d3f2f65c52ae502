// Package ratio derives named financial ratios from fetched statement
// tables. Missing source data degrades to missing ratio values; only a
// failed or empty statement fetch is fatal for a ticker.
package ratio

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/seenimoa/quantfolio/pkg/models"
)

// ExtractValue looks up one statement cell. An absent row, an absent
// period, or a nil table yields the missing marker with a warning; the
// lookup itself never fails.
func ExtractValue(log zerolog.Logger, st *models.Statement, row, period string) models.NullFloat {
	if v, ok := st.Value(row, period); ok {
		return models.Float(v)
	}
	log.Warn().Str("row", row).Str("period", period).Msg("could not extract statement value")
	return models.Null()
}

// SafeDiv divides a by b. The result is missing when either operand is
// missing or not finite, or b is exactly zero; division never fails.
// Quotients that overflow are missing too, so a valid NullFloat never
// carries NaN or Inf.
func SafeDiv(a, b models.NullFloat) models.NullFloat {
	if !a.Valid || !b.Valid || b.Float64 == 0 {
		return models.Null()
	}
	if !finite(a.Float64) || !finite(b.Float64) {
		return models.Null()
	}
	q := a.Float64 / b.Float64
	if !finite(q) {
		return models.Null()
	}
	return models.Float(q)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// sub returns a − b, missing if either operand is missing.
func sub(a, b models.NullFloat) models.NullFloat {
	if !a.Valid || !b.Valid {
		return models.Null()
	}
	return models.Float(a.Float64 - b.Float64)
}

// avg returns the two-point average, missing if either operand is
// missing. Turnover ratios use it across consecutive fiscal years.
func avg(a, b models.NullFloat) models.NullFloat {
	if !a.Valid || !b.Valid {
		return models.Null()
	}
	return SafeDiv(models.Float(a.Float64+b.Float64), models.Float(2))
}
