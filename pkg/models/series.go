package models

import (
	"fmt"
	"sort"
)

// MonthlySeries is a value series indexed by strictly increasing months.
// Asset monthly closes and portfolio wealth indexes both use it.
type MonthlySeries struct {
	months []Month
	values []float64
}

// NewMonthlySeries returns an empty series with room for n points.
func NewMonthlySeries(n int) *MonthlySeries {
	return &MonthlySeries{
		months: make([]Month, 0, n),
		values: make([]float64, 0, n),
	}
}

// Append adds a point. Months must arrive in strictly increasing order.
func (s *MonthlySeries) Append(m Month, v float64) error {
	if len(s.months) > 0 && !s.months[len(s.months)-1].Before(m) {
		return fmt.Errorf("append %s: months must be strictly increasing", m)
	}
	s.months = append(s.months, m)
	s.values = append(s.values, v)
	return nil
}

// Len returns the number of points.
func (s *MonthlySeries) Len() int { return len(s.months) }

// At returns the i-th point. i must be in range.
func (s *MonthlySeries) At(i int) (Month, float64) { return s.months[i], s.values[i] }

// First returns the earliest point. The series must not be empty.
func (s *MonthlySeries) First() (Month, float64) { return s.At(0) }

// Last returns the latest point. The series must not be empty.
func (s *MonthlySeries) Last() (Month, float64) { return s.At(len(s.months) - 1) }

// Index returns the position of m, if present.
func (s *MonthlySeries) Index(m Month) (int, bool) {
	i := sort.Search(len(s.months), func(i int) bool { return !s.months[i].Before(m) })
	if i < len(s.months) && s.months[i] == m {
		return i, true
	}
	return 0, false
}

// Value returns the value at m, if present.
func (s *MonthlySeries) Value(m Month) (float64, bool) {
	if i, ok := s.Index(m); ok {
		return s.values[i], true
	}
	return 0, false
}

// Slice returns the sub-series covering positions [i, j). The result
// shares backing storage with s.
func (s *MonthlySeries) Slice(i, j int) *MonthlySeries {
	return &MonthlySeries{months: s.months[i:j], values: s.values[i:j]}
}

// Months returns a copy of the month index.
func (s *MonthlySeries) Months() []Month {
	out := make([]Month, len(s.months))
	copy(out, s.months)
	return out
}

// Values returns a copy of the values.
func (s *MonthlySeries) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}
