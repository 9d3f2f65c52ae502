package simulate

import (
	"math"
	"testing"
	"time"

	"github.com/seenimoa/quantfolio/pkg/models"
)

func month(t *testing.T, s string) models.Month {
	t.Helper()
	m, err := models.ParseMonth(s)
	if err != nil {
		t.Fatalf("bad month %q: %v", s, err)
	}
	return m
}

func closeTo(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestParseLength(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"3m", 0.25},
		{"6m", 0.5},
		{"1y", 1},
		{"3y", 3},
		{"5y", 5},
		{"10y", 10},
	}
	for _, tt := range tests {
		got, err := ParseLength(tt.in)
		if err != nil {
			t.Errorf("ParseLength(%q) error: %v", tt.in, err)
			continue
		}
		if !closeTo(got, tt.want) {
			t.Errorf("ParseLength(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, in := range []string{"", "5", "y", "m", "0y", "-3m", "2.5y", "5d"} {
		if _, err := ParseLength(in); err == nil {
			t.Errorf("ParseLength(%q) should error", in)
		}
	}
}

// yearWealth builds a monthly wealth series from Jan firstYear through
// Dec lastYear where every December of year y holds decValues[y].
// Non-December months interpolate nothing special: they carry the prior
// December's value.
func yearWealth(t *testing.T, firstYear int, decValues map[int]float64) *models.MonthlySeries {
	t.Helper()
	lastYear := firstYear
	for y := range decValues {
		if y > lastYear {
			lastYear = y
		}
	}

	s := models.NewMonthlySeries(12 * (lastYear - firstYear + 1))
	value := decValues[firstYear]
	for y := firstYear; y <= lastYear; y++ {
		for m := time.January; m <= time.December; m++ {
			if m == time.December {
				value = decValues[y]
			}
			if err := s.Append(models.Month{Year: y, Mon: m}, value); err != nil {
				t.Fatal(err)
			}
		}
	}
	return s
}

func TestExtractReturnArithmetic(t *testing.T) {
	w := yearWealth(t, 2019, map[int]float64{2019: 1000, 2020: 1100, 2021: 1210})

	start, end := month(t, "2019-12"), month(t, "2021-12")
	overall, annual, yoy, err := ExtractReturn(w, start, end)
	if err != nil {
		t.Fatalf("ExtractReturn failed: %v", err)
	}

	if !closeTo(overall, 0.21) {
		t.Errorf("overall = %v, want 0.21", overall)
	}

	// Calendar-accurate year fraction: 731 days over 365.25.
	years := end.Time().Sub(start.Time()).Hours() / 24 / 365.25
	if wantAnnual := math.Pow(1.21, 1/years) - 1; !closeTo(annual, wantAnnual) {
		t.Errorf("annual = %v, want %v", annual, wantAnnual)
	}

	if len(yoy) != 2 {
		t.Fatalf("yoy has %d keys, want 2: %v", len(yoy), yoy)
	}
	for key, want := range map[string]float64{"2019-2020": 0.1, "2020-2021": 0.1} {
		got, ok := yoy[key]
		if !ok {
			t.Errorf("yoy missing key %q", key)
			continue
		}
		if !got.Valid || !closeTo(got.Float64, want) {
			t.Errorf("yoy[%q] = %v, want %v", key, got, want)
		}
	}
}

func TestExtractReturnOneYearSpan(t *testing.T) {
	w := yearWealth(t, 2020, map[int]float64{2020: 1000, 2021: 1250})

	overall, _, yoy, err := ExtractReturn(w, month(t, "2020-12"), month(t, "2021-12"))
	if err != nil {
		t.Fatalf("ExtractReturn failed: %v", err)
	}
	if len(yoy) != 1 {
		t.Fatalf("yoy has %d keys, want exactly 1", len(yoy))
	}
	got, ok := yoy["2020-2021"]
	if !ok {
		t.Fatal(`yoy missing "2020-2021"`)
	}
	if !got.Valid || !closeTo(got.Float64, overall) {
		t.Errorf("yoy = %v, want the overall return %v", got, overall)
	}
}

func TestExtractReturnMissingDecemberIsNullNotOmitted(t *testing.T) {
	// Series starts in 2020-03: December 2019 is absent.
	s := models.NewMonthlySeries(24)
	m := month(t, "2020-03")
	for i := 0; i < 22; i++ {
		if err := s.Append(m.AddMonths(i), 1000+float64(i)); err != nil {
			t.Fatal(err)
		}
	}

	_, _, yoy, err := ExtractReturn(s, month(t, "2020-03"), month(t, "2021-12"))
	if err != nil {
		t.Fatalf("ExtractReturn failed: %v", err)
	}
	if len(yoy) != 1 {
		t.Fatalf("yoy has %d keys, want 1 (2020-2021)", len(yoy))
	}
	if got, ok := yoy["2020-2021"]; !ok || !got.Valid {
		t.Errorf("yoy[2020-2021] = %v (present %v), want a valid entry", got, ok)
	}

	// A December absent off the series end must also come back null.
	s2 := models.NewMonthlySeries(40)
	m2 := month(t, "2020-01")
	for i := 0; i <= 36; i++ {
		if err := s2.Append(m2.AddMonths(i), 1000); err != nil {
			t.Fatal(err)
		}
	}
	// s2 runs 2020-01..2023-01: December 2023 does not exist, but the
	// window 2020-06..2023-01 asks about 2020->2021, 2021->2022, 2022->2023.
	_, _, yoy2, err := ExtractReturn(s2, month(t, "2020-06"), month(t, "2023-01"))
	if err != nil {
		t.Fatalf("ExtractReturn failed: %v", err)
	}
	if len(yoy2) != 3 {
		t.Fatalf("yoy has %d keys, want 3", len(yoy2))
	}
	if got, ok := yoy2["2022-2023"]; !ok {
		t.Error("yoy[2022-2023] omitted, want a recorded null")
	} else if got.Valid {
		t.Errorf("yoy[2022-2023] = %v, want null (December 2023 absent)", got)
	}
	for _, key := range []string{"2020-2021", "2021-2022"} {
		if got, ok := yoy2[key]; !ok || !got.Valid {
			t.Errorf("yoy[%s] = %v (present %v), want valid", key, got, ok)
		}
	}
}

func TestExtractReturnMissingEndpointErrors(t *testing.T) {
	w := yearWealth(t, 2020, map[int]float64{2020: 1000, 2021: 1100})

	if _, _, _, err := ExtractReturn(w, month(t, "2019-01"), month(t, "2021-12")); err == nil {
		t.Error("missing start endpoint should error")
	}
	if _, _, _, err := ExtractReturn(w, month(t, "2020-01"), month(t, "2025-01")); err == nil {
		t.Error("missing end endpoint should error")
	}
}
