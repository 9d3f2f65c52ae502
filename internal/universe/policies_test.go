package universe

import (
	"errors"
	"sort"
	"strconv"
	"testing"

	"github.com/seenimoa/quantfolio/pkg/models"
)

// testUniverse builds a 30-company universe spread over 6 industries and
// 3 clusters, risk rising with the row index.
func testUniverse() *Universe {
	industries := []string{"Software", "Hardware", "Retail", "Energy", "Banks", "Pharma"}
	u := &Universe{}
	for i := 0; i < 30; i++ {
		c := models.NewCompany("T" + strconv.Itoa(i))
		c.Industry = industries[i%len(industries)]
		c.Cluster = i % 3
		c.Risk = models.Float(0.10 + 0.01*float64(i))
		u.Companies = append(u.Companies, c)
	}
	return u
}

func assertDistinct(t *testing.T, tickers []string) {
	t.Helper()
	seen := make(map[string]bool, len(tickers))
	for _, tk := range tickers {
		if seen[tk] {
			t.Errorf("ticker %s selected twice", tk)
		}
		seen[tk] = true
	}
}

func TestSelectUnknownPolicy(t *testing.T) {
	_, err := Select(testUniverse(), "Martingale", 5, 1)
	if !errors.Is(err, ErrUnknownPolicy) {
		t.Errorf("err = %v, want ErrUnknownPolicy", err)
	}
}

func TestSelectDeterministicPerSeed(t *testing.T) {
	u := testUniverse()
	for _, policy := range PolicyNames() {
		a, err := Select(u, policy, 5, 42)
		if err != nil {
			t.Fatalf("%s: %v", policy, err)
		}
		b, err := Select(u, policy, 5, 42)
		if err != nil {
			t.Fatalf("%s: %v", policy, err)
		}
		if len(a) != len(b) {
			t.Fatalf("%s: sizes differ across runs: %d vs %d", policy, len(a), len(b))
		}
		for i := range a {
			if a[i] != b[i] {
				t.Errorf("%s: run differs at %d: %s vs %s", policy, i, a[i], b[i])
			}
		}
	}
}

func TestSelectRandom(t *testing.T) {
	tickers, err := Select(testUniverse(), "Random", 15, 7)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(tickers) != 15 {
		t.Fatalf("got %d tickers, want 15", len(tickers))
	}
	assertDistinct(t, tickers)

	if _, err := Select(testUniverse(), "Random", 31, 7); err == nil {
		t.Error("sampling beyond the universe should error")
	}
}

func TestSelectIndustry(t *testing.T) {
	u := testUniverse()

	// 6 industries cover a sample of 6: one ticker per industry.
	tickers, err := Select(u, "Industry", 6, 3)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(tickers) != 6 {
		t.Fatalf("got %d tickers, want 6", len(tickers))
	}
	assertDistinct(t, tickers)
	byIndustry := make(map[string]int)
	for _, tk := range tickers {
		c, ok := u.Find(tk)
		if !ok {
			t.Fatalf("selected %s not in universe", tk)
		}
		byIndustry[c.Industry]++
	}
	for ind, n := range byIndustry {
		if n != 1 {
			t.Errorf("industry %s contributed %d tickers, want 1", ind, n)
		}
	}

	// 15 slots need more industries than exist.
	if _, err := Select(u, "Industry", 15, 3); err == nil {
		t.Error("asking 15 of 6 industries should error")
	}
}

func TestSelectBase(t *testing.T) {
	tickers, err := Select(testUniverse(), "Base", 15, 11)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	// 3 clusters x 3 picks = 9, topped up to 15.
	if len(tickers) != 15 {
		t.Fatalf("got %d tickers, want 15", len(tickers))
	}
	assertDistinct(t, tickers)
}

func TestSelectBaseHighTakesRiskiest(t *testing.T) {
	u := testUniverse()
	tickers, err := Select(u, "Base-High", 12, 1)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(tickers) != 12 {
		t.Fatalf("got %d tickers, want 12", len(tickers))
	}
	assertDistinct(t, tickers)

	// Per cluster the 3 riskiest are rows 27..29, 24..26, 21..23; the top-up
	// adds the riskiest remaining rows. Everything selected sits in the top
	// 12 risk rows (18..29).
	for _, tk := range tickers {
		c, _ := u.Find(tk)
		if c.Risk.Float64 < 0.10+0.01*18 {
			t.Errorf("%s risk %.2f too low for Base-High", tk, c.Risk.Float64)
		}
	}
}

func TestSelectBaseLowTakesSafest(t *testing.T) {
	u := testUniverse()
	tickers, err := Select(u, "Base-Low", 12, 1)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	for _, tk := range tickers {
		c, _ := u.Find(tk)
		if c.Risk.Float64 > 0.10+0.01*11 {
			t.Errorf("%s risk %.2f too high for Base-Low", tk, c.Risk.Float64)
		}
	}
}

func TestSelectRiskBuckets(t *testing.T) {
	u := testUniverse()

	low, err := Select(u, "LowRisk", 5, 2)
	if err != nil {
		t.Fatalf("LowRisk failed: %v", err)
	}
	high, err := Select(u, "HighRisk", 5, 2)
	if err != nil {
		t.Fatalf("HighRisk failed: %v", err)
	}
	med, err := Select(u, "MediumRisk", 5, 2)
	if err != nil {
		t.Fatalf("MediumRisk failed: %v", err)
	}

	maxLow, minHigh := 0.0, 1.0
	for _, tk := range low {
		c, _ := u.Find(tk)
		if c.Risk.Float64 > maxLow {
			maxLow = c.Risk.Float64
		}
	}
	for _, tk := range high {
		c, _ := u.Find(tk)
		if c.Risk.Float64 < minHigh {
			minHigh = c.Risk.Float64
		}
	}
	if maxLow >= minHigh {
		t.Errorf("low bucket max %.3f overlaps high bucket min %.3f", maxLow, minHigh)
	}
	for _, tk := range med {
		c, _ := u.Find(tk)
		if c.Risk.Float64 <= maxLow-0.1 || c.Risk.Float64 >= minHigh+0.1 {
			t.Errorf("medium pick %s risk %.3f far outside the middle", tk, c.Risk.Float64)
		}
	}
}

func TestSelectLowRiskExhausted(t *testing.T) {
	// The sub-33% bucket holds ~10 of 30 rows; asking for 20 must error.
	if _, err := Select(testUniverse(), "LowRisk", 20, 2); err == nil {
		t.Error("LowRisk beyond its bucket should error")
	}
}

func TestSelectMediumRiskBestEffort(t *testing.T) {
	// MediumRisk shrinks to its bucket instead of erroring.
	tickers, err := Select(testUniverse(), "MediumRisk", 20, 2)
	if err != nil {
		t.Fatalf("MediumRisk failed: %v", err)
	}
	if len(tickers) == 0 || len(tickers) >= 20 {
		t.Errorf("got %d tickers, want the bucket size (0 < n < 20)", len(tickers))
	}
	assertDistinct(t, tickers)
}

func TestPolicyNamesSorted(t *testing.T) {
	names := PolicyNames()
	if len(names) != 8 {
		t.Fatalf("got %d policies, want 8", len(names))
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("PolicyNames not sorted: %v", names)
	}
}
