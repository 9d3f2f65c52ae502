// Package models defines the core data structures shared across quantfolio.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// NullFloat is a float64 that may be missing. It is the uniform marker for
// unavailable financial data: an absent statement cell, an impossible
// division, an unknown share count. The zero value is the missing state.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Float returns a valid NullFloat holding v.
func Float(v float64) NullFloat { return NullFloat{Float64: v, Valid: true} }

// Null returns the missing marker.
func Null() NullFloat { return NullFloat{} }

// String renders the value, or "NA" when missing.
func (n NullFloat) String() string {
	if !n.Valid {
		return "NA"
	}
	return strconv.FormatFloat(n.Float64, 'g', -1, 64)
}

// MarshalJSON encodes a JSON number, or null when missing. NaN and
// infinities also encode as null: JSON cannot carry them and consumers
// treat them as missing anyway.
func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid || math.IsNaN(n.Float64) || math.IsInf(n.Float64, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float64)
}

// UnmarshalJSON decodes a JSON number or null.
func (n *NullFloat) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*n = NullFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid numeric value %s: %w", data, err)
	}
	*n = NullFloat{Float64: v, Valid: true}
	return nil
}
