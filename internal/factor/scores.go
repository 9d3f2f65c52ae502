// Package factor condenses the universe's ratio columns into five
// composite factor scores, projects them to two dimensions, and clusters
// the universe for the selection policies to key on.
package factor

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/seenimoa/quantfolio/internal/universe"
	"github.com/seenimoa/quantfolio/pkg/models"
)

// zClip bounds z-scores so a single outlier ratio cannot dominate a
// composite.
const zClip = 5

// factorGroups maps each composite factor to the ratio columns it sums.
var factorGroups = map[string][]string{
	models.FactorProfitability: {
		models.RatioNetProfitMargin,
		models.RatioGrossProfitMargin,
		models.RatioROA,
		models.RatioROE,
	},
	models.FactorLiquidity: {
		models.RatioCurrentRatio,
		models.RatioQuickRatio,
		models.RatioCashRatio,
	},
	models.FactorEfficiency: {
		models.RatioInventoryTurnover,
		models.RatioReceivablesTurnover,
		models.RatioAssetTurnover,
	},
	models.FactorMarketValue: {
		models.RatioPE,
		models.RatioPB,
		models.RatioDividendYield,
	},
	models.FactorLeverage: {
		models.RatioDebtToEquity,
		models.RatioDebtRatio,
		models.RatioInterestCoverage,
	},
}

// ZScores standardizes a column against its valid entries: population
// moments, clipped to ±5. Null entries contribute 0, as does a column
// with no spread.
func ZScores(values []models.NullFloat) []float64 {
	var valid []float64
	for _, v := range values {
		if v.Valid {
			valid = append(valid, v.Float64)
		}
	}
	out := make([]float64, len(values))
	if len(valid) == 0 {
		return out
	}

	mean := stat.Mean(valid, nil)
	std := stat.PopStdDev(valid, nil)
	if std == 0 || math.IsNaN(std) {
		return out
	}
	for i, v := range values {
		if !v.Valid {
			continue
		}
		z := (v.Float64 - mean) / std
		out[i] = math.Max(-zClip, math.Min(zClip, z))
	}
	return out
}

// RobustScale centers on the median and scales by the interquartile
// range, quartiles by linear interpolation. A degenerate IQR of 0 leaves
// the centered values unscaled.
func RobustScale(xs []float64) []float64 {
	if len(xs) == 0 {
		return nil
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	median := stat.Quantile(0.5, stat.LinInterp, sorted, nil)
	iqr := stat.Quantile(0.75, stat.LinInterp, sorted, nil) - stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	if iqr == 0 {
		iqr = 1
	}

	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = (x - median) / iqr
	}
	return out
}

// Composites fills every company's factor columns: per factor, the sum
// of its member ratios' z-score columns, robust-scaled across the
// universe.
func Composites(u *universe.Universe) {
	n := len(u.Companies)
	if n == 0 {
		return
	}

	column := make([]models.NullFloat, n)
	for _, factorName := range models.FactorNames {
		sums := make([]float64, n)
		for _, ratioName := range factorGroups[factorName] {
			for i, c := range u.Companies {
				column[i] = c.Ratios[ratioName]
			}
			for i, z := range ZScores(column) {
				sums[i] += z
			}
		}
		for i, v := range RobustScale(sums) {
			u.Companies[i].Factors[factorName] = models.Float(v)
		}
	}
}

// Matrix lays the factor columns out as one row per company, robust-
// scaled per column, ready for projection. Null factor cells (a universe
// that never ran Composites) read as 0.
func Matrix(u *universe.Universe) [][]float64 {
	n := len(u.Companies)
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, len(models.FactorNames))
	}
	col := make([]float64, n)
	for j, factorName := range models.FactorNames {
		for i, c := range u.Companies {
			if v := c.Factors[factorName]; v.Valid {
				col[i] = v.Float64
			} else {
				col[i] = 0
			}
		}
		for i, v := range RobustScale(col) {
			rows[i][j] = v
		}
	}
	return rows
}
