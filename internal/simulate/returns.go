// Package simulate estimates forward portfolio returns: Monte Carlo
// trials over fitted monthly-return distributions and bootstrap trials
// over resampled historical windows, fanned out concurrently and
// persisted to the results store.
package simulate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/seenimoa/quantfolio/pkg/models"
)

// daysPerYear converts calendar spans to year fractions.
const daysPerYear = 365.25

// Lengths lists the supported simulation horizons.
var Lengths = []string{"3m", "6m", "1y", "3y", "5y", "10y"}

// ParseLength converts a horizon label ("6m", "5y") to years. Malformed
// labels are a configuration error.
func ParseLength(length string) (float64, error) {
	var unit float64
	switch {
	case strings.HasSuffix(length, "m"):
		unit = 1.0 / 12
	case strings.HasSuffix(length, "y"):
		unit = 1
	default:
		return 0, fmt.Errorf("simulation length %q: want a number suffixed m or y", length)
	}
	n, err := strconv.Atoi(length[:len(length)-1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("simulation length %q: want a positive number suffixed m or y", length)
	}
	return float64(n) * unit, nil
}

// ExtractReturn computes the overall, annualized, and December-over-
// December returns of a wealth index between two of its months. Both
// endpoints must exist in the series. The yoy map carries one key per
// year transition in [start.Year, end.Year); a transition whose December
// endpoints are not both present is recorded as null, never dropped.
func ExtractReturn(wealth *models.MonthlySeries, start, end models.Month) (overall, annual float64, yoy map[string]models.NullFloat, err error) {
	startVal, ok := wealth.Value(start)
	if !ok {
		return 0, 0, nil, fmt.Errorf("wealth index has no entry at %s", start)
	}
	endVal, ok := wealth.Value(end)
	if !ok {
		return 0, 0, nil, fmt.Errorf("wealth index has no entry at %s", end)
	}

	overall = endVal/startVal - 1
	years := end.Time().Sub(start.Time()).Hours() / 24 / daysPerYear
	annual = math.Pow(endVal/startVal, 1/years) - 1

	yoy = make(map[string]models.NullFloat)
	for y := start.Year; y < end.Year; y++ {
		key := fmt.Sprintf("%d-%d", y, y+1)
		v0, ok0 := wealth.Value(models.Month{Year: y, Mon: time.December})
		v1, ok1 := wealth.Value(models.Month{Year: y + 1, Mon: time.December})
		if !ok0 || !ok1 {
			yoy[key] = models.Null()
			continue
		}
		yoy[key] = models.Float(v1/v0 - 1)
	}
	return overall, annual, yoy, nil
}
