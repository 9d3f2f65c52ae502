package universe

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/seenimoa/quantfolio/pkg/models"
)

// ErrUnknownPolicy reports a selection policy name with no registered
// selection function.
var ErrUnknownPolicy = errors.New("unknown selection policy")

// perClusterPick is how many tickers the cluster policies take from each
// cluster before topping up.
const perClusterPick = 3

// industryPickCap caps the first round of industry sampling; sample sizes
// beyond it draw one ticker from additional industries.
const industryPickCap = 11

// selectFunc draws a ticker set of (at most) sampleSize from the universe.
type selectFunc func(u *Universe, sampleSize int, rng *rand.Rand) ([]string, error)

// policies maps policy names to their selection functions.
var policies = map[string]selectFunc{
	"Random":     selectRandom,
	"Industry":   selectIndustry,
	"Base":       selectBase,
	"Base-High":  selectBaseHigh,
	"Base-Low":   selectBaseLow,
	"LowRisk":    selectLowRisk,
	"MediumRisk": selectMediumRisk,
	"HighRisk":   selectHighRisk,
}

// PolicyNames lists the registered policy names, sorted.
func PolicyNames() []string {
	names := make([]string, 0, len(policies))
	for name := range policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select draws a ticker set using the named policy. A fixed seed yields
// the same set for the same universe. Policies that cannot fill the
// requested size error, except where noted on the policy itself.
func Select(u *Universe, policy string, sampleSize int, seed int64) ([]string, error) {
	fn, ok := policies[policy]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, policy)
	}
	if sampleSize <= 0 {
		return nil, fmt.Errorf("policy %s: sample size %d", policy, sampleSize)
	}
	rng := rand.New(rand.NewPCG(uint64(seed), 0))
	return fn(u, sampleSize, rng)
}

// ── Policies ──

func selectRandom(u *Universe, sampleSize int, rng *rand.Rand) ([]string, error) {
	picked, err := sampleCompanies(u.Companies, sampleSize, rng)
	if err != nil {
		return nil, fmt.Errorf("policy Random: %w", err)
	}
	return tickersOf(picked), nil
}

// selectIndustry stratifies by industry: up to 11 industries with one
// random ticker each, then one ticker from each additionally sampled
// industry until the size is met.
func selectIndustry(u *Universe, sampleSize int, rng *rand.Rand) ([]string, error) {
	byIndustry, industries := groupByIndustry(u)

	first := min(industryPickCap, sampleSize)
	selected, err := sampleStrings(industries, first, rng)
	if err != nil {
		return nil, fmt.Errorf("policy Industry: %d industries for %d slots: %w", len(industries), first, err)
	}

	var out []string
	for _, ind := range selected {
		members := byIndustry[ind]
		out = append(out, members[rng.IntN(len(members))].Ticker)
	}

	extra := sampleSize - industryPickCap
	if extra <= 0 {
		return out, nil
	}
	remainder := make([]string, 0, len(industries))
	chosen := make(map[string]bool, len(selected))
	for _, ind := range selected {
		chosen[ind] = true
	}
	for _, ind := range industries {
		if !chosen[ind] {
			remainder = append(remainder, ind)
		}
	}
	additional, err := sampleStrings(remainder, extra, rng)
	if err != nil {
		return nil, fmt.Errorf("policy Industry: %d industries left for %d extra slots: %w", len(remainder), extra, err)
	}
	for _, ind := range additional {
		members := byIndustry[ind]
		out = append(out, members[rng.IntN(len(members))].Ticker)
	}
	return out, nil
}

// selectBase samples up to three tickers per cluster, then tops up with
// random unselected tickers.
func selectBase(u *Universe, sampleSize int, rng *rand.Rand) ([]string, error) {
	byCluster, labels := groupByCluster(u)

	var picked []*models.Company
	for _, label := range labels {
		members := byCluster[label]
		take, err := sampleCompanies(members, min(len(members), perClusterPick), rng)
		if err != nil {
			return nil, fmt.Errorf("policy Base: %w", err)
		}
		picked = append(picked, take...)
	}
	if len(picked) < sampleSize {
		extra, err := sampleCompanies(unselected(u, picked), sampleSize-len(picked), rng)
		if err != nil {
			return nil, fmt.Errorf("policy Base: top-up: %w", err)
		}
		picked = append(picked, extra...)
	}
	return tickersOf(picked), nil
}

func selectBaseHigh(u *Universe, sampleSize int, rng *rand.Rand) ([]string, error) {
	return selectBaseByRisk(u, sampleSize, true)
}

func selectBaseLow(u *Universe, sampleSize int, rng *rand.Rand) ([]string, error) {
	return selectBaseByRisk(u, sampleSize, false)
}

// selectBaseByRisk takes the three riskiest (or safest) tickers per
// cluster, then tops up from the global risk ranking. Both rounds are
// best effort: fewer than sampleSize tickers come back when the universe
// runs out, matching a ranked take rather than a strict sample.
func selectBaseByRisk(u *Universe, sampleSize int, largest bool) ([]string, error) {
	byCluster, labels := groupByCluster(u)

	var picked []*models.Company
	for _, label := range labels {
		picked = append(picked, rankByRisk(byCluster[label], largest, perClusterPick)...)
	}
	if len(picked) < sampleSize {
		picked = append(picked, rankByRisk(unselected(u, picked), largest, sampleSize-len(picked))...)
	}
	return tickersOf(picked), nil
}

func selectLowRisk(u *Universe, sampleSize int, rng *rand.Rand) ([]string, error) {
	q, err := riskQuantile(u, 0.33)
	if err != nil {
		return nil, fmt.Errorf("policy LowRisk: %w", err)
	}
	var bucket []*models.Company
	for _, c := range u.Companies {
		if c.Risk.Valid && c.Risk.Float64 < q {
			bucket = append(bucket, c)
		}
	}
	picked, err := sampleCompanies(bucket, sampleSize, rng)
	if err != nil {
		return nil, fmt.Errorf("policy LowRisk: %w", err)
	}
	return tickersOf(picked), nil
}

// selectMediumRisk is deliberately best effort: a thin middle bucket
// returns fewer tickers instead of erroring, unlike its Low and High
// siblings.
func selectMediumRisk(u *Universe, sampleSize int, rng *rand.Rand) ([]string, error) {
	lo, err := riskQuantile(u, 0.34)
	if err != nil {
		return nil, fmt.Errorf("policy MediumRisk: %w", err)
	}
	hi, err := riskQuantile(u, 0.66)
	if err != nil {
		return nil, fmt.Errorf("policy MediumRisk: %w", err)
	}
	var bucket []*models.Company
	for _, c := range u.Companies {
		if c.Risk.Valid && c.Risk.Float64 >= lo && c.Risk.Float64 < hi {
			bucket = append(bucket, c)
		}
	}
	picked, err := sampleCompanies(bucket, min(sampleSize, len(bucket)), rng)
	if err != nil {
		return nil, fmt.Errorf("policy MediumRisk: %w", err)
	}
	return tickersOf(picked), nil
}

func selectHighRisk(u *Universe, sampleSize int, rng *rand.Rand) ([]string, error) {
	q, err := riskQuantile(u, 0.67)
	if err != nil {
		return nil, fmt.Errorf("policy HighRisk: %w", err)
	}
	var bucket []*models.Company
	for _, c := range u.Companies {
		if c.Risk.Valid && c.Risk.Float64 >= q {
			bucket = append(bucket, c)
		}
	}
	picked, err := sampleCompanies(bucket, sampleSize, rng)
	if err != nil {
		return nil, fmt.Errorf("policy HighRisk: %w", err)
	}
	return tickersOf(picked), nil
}

// ── Helpers ──

// sampleCompanies draws k distinct companies. k greater than the pool is
// an error.
func sampleCompanies(pool []*models.Company, k int, rng *rand.Rand) ([]*models.Company, error) {
	if k > len(pool) {
		return nil, fmt.Errorf("cannot sample %d of %d tickers", k, len(pool))
	}
	out := make([]*models.Company, k)
	for i, j := range rng.Perm(len(pool))[:k] {
		out[i] = pool[j]
	}
	return out, nil
}

func sampleStrings(pool []string, k int, rng *rand.Rand) ([]string, error) {
	if k > len(pool) {
		return nil, fmt.Errorf("cannot sample %d of %d", k, len(pool))
	}
	out := make([]string, k)
	for i, j := range rng.Perm(len(pool))[:k] {
		out[i] = pool[j]
	}
	return out, nil
}

// rankByRisk returns up to k companies with the largest (or smallest)
// valid risk, ties broken by universe order.
func rankByRisk(pool []*models.Company, largest bool, k int) []*models.Company {
	ranked := make([]*models.Company, 0, len(pool))
	for _, c := range pool {
		if c.Risk.Valid {
			ranked = append(ranked, c)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if largest {
			return ranked[i].Risk.Float64 > ranked[j].Risk.Float64
		}
		return ranked[i].Risk.Float64 < ranked[j].Risk.Float64
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// riskQuantile computes the p-quantile of the valid risk column with
// linear interpolation.
func riskQuantile(u *Universe, p float64) (float64, error) {
	risks := make([]float64, 0, len(u.Companies))
	for _, c := range u.Companies {
		if c.Risk.Valid {
			risks = append(risks, c.Risk.Float64)
		}
	}
	if len(risks) == 0 {
		return 0, fmt.Errorf("universe has no risk column yet")
	}
	sort.Float64s(risks)
	return stat.Quantile(p, stat.LinInterp, risks, nil), nil
}

// groupByIndustry buckets companies by industry, keeping first-seen
// industry order. Companies without an industry are skipped.
func groupByIndustry(u *Universe) (map[string][]*models.Company, []string) {
	byIndustry := make(map[string][]*models.Company)
	var order []string
	for _, c := range u.Companies {
		if c.Industry == "" {
			continue
		}
		if _, seen := byIndustry[c.Industry]; !seen {
			order = append(order, c.Industry)
		}
		byIndustry[c.Industry] = append(byIndustry[c.Industry], c)
	}
	return byIndustry, order
}

// groupByCluster buckets companies by cluster label in ascending label
// order. Unassigned companies (-1) form their own bucket.
func groupByCluster(u *Universe) (map[int][]*models.Company, []int) {
	byCluster := make(map[int][]*models.Company)
	for _, c := range u.Companies {
		byCluster[c.Cluster] = append(byCluster[c.Cluster], c)
	}
	labels := make([]int, 0, len(byCluster))
	for label := range byCluster {
		labels = append(labels, label)
	}
	sort.Ints(labels)
	return byCluster, labels
}

// unselected returns the companies not already picked, in universe order.
func unselected(u *Universe, picked []*models.Company) []*models.Company {
	taken := make(map[string]bool, len(picked))
	for _, c := range picked {
		taken[c.Ticker] = true
	}
	var out []*models.Company
	for _, c := range u.Companies {
		if !taken[c.Ticker] {
			out = append(out, c)
		}
	}
	return out
}

func tickersOf(companies []*models.Company) []string {
	out := make([]string, len(companies))
	for i, c := range companies {
		out[i] = c.Ticker
	}
	return out
}
