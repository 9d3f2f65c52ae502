package factor

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
)

// Clustering method names accepted by Cluster.
const (
	MethodKMeans     = "kmeans"
	MethodDendrogram = "dendrogram"
)

// maxKMeansIterations bounds Lloyd's algorithm when assignments keep
// oscillating on degenerate data.
const maxKMeansIterations = 300

// Cluster labels every point with a cluster in [0, k). Method selects
// k-means (seeded, deterministic) or agglomerative hierarchical
// clustering cut at k.
func Cluster(points [][]float64, method string, k int, seed int64) ([]int, error) {
	switch method {
	case MethodKMeans:
		return KMeans(points, k, seed)
	case MethodDendrogram:
		return Hierarchical(points, k)
	}
	return nil, fmt.Errorf("cluster: unknown method %q (want %s or %s)", method, MethodKMeans, MethodDendrogram)
}

// KMeans runs k-means++ seeding followed by Lloyd iterations with a
// deterministic generator, so a fixed seed reproduces the labeling.
func KMeans(points [][]float64, k int, seed int64) ([]int, error) {
	n := len(points)
	if k < 1 || k > n {
		return nil, fmt.Errorf("kmeans: %d clusters for %d points", k, n)
	}
	rng := rand.New(rand.NewPCG(uint64(seed), 0))

	// k-means++ seeding: each next center is drawn proportionally to the
	// squared distance from the nearest chosen center.
	centers := make([][]float64, 0, k)
	centers = append(centers, append([]float64(nil), points[rng.IntN(n)]...))
	dist2 := make([]float64, n)
	for len(centers) < k {
		var total float64
		for i, p := range points {
			best := math.Inf(1)
			for _, c := range centers {
				if d := sqDist(p, c); d < best {
					best = d
				}
			}
			dist2[i] = best
			total += best
		}
		var idx int
		if total == 0 {
			idx = rng.IntN(n) // all points coincide with a center
		} else {
			target := rng.Float64() * total
			for i, d := range dist2 {
				target -= d
				if target <= 0 {
					idx = i
					break
				}
			}
		}
		centers = append(centers, append([]float64(nil), points[idx]...))
	}

	labels := make([]int, n)
	for iter := 0; iter < maxKMeansIterations; iter++ {
		changed := false
		for i, p := range points {
			best, bestD := 0, math.Inf(1)
			for j, c := range centers {
				if d := sqDist(p, c); d < bestD {
					best, bestD = j, d
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		dims := len(points[0])
		sums := make([][]float64, k)
		counts := make([]int, k)
		for j := range sums {
			sums[j] = make([]float64, dims)
		}
		for i, p := range points {
			counts[labels[i]]++
			for d, v := range p {
				sums[labels[i]][d] += v
			}
		}
		for j := range centers {
			if counts[j] == 0 {
				continue // empty cluster keeps its center
			}
			for d := range centers[j] {
				centers[j][d] = sums[j][d] / float64(counts[j])
			}
		}
	}
	return labels, nil
}

// Hierarchical clusters agglomeratively with average linkage and cuts
// the dendrogram at k clusters. Fully deterministic: merges break ties
// by the smallest member index.
func Hierarchical(points [][]float64, k int) ([]int, error) {
	n := len(points)
	if k < 1 || k > n {
		return nil, fmt.Errorf("hierarchical: %d clusters for %d points", k, n)
	}

	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
		for j := range dist[i] {
			dist[i][j] = math.Sqrt(sqDist(points[i], points[j]))
		}
	}

	clusters := make([][]int, n)
	for i := range clusters {
		clusters[i] = []int{i}
	}

	for len(clusters) > k {
		bestI, bestJ := 0, 1
		bestD := math.Inf(1)
		for i := 0; i < len(clusters); i++ {
			for j := i + 1; j < len(clusters); j++ {
				d := averageLinkage(dist, clusters[i], clusters[j])
				if d < bestD {
					bestI, bestJ, bestD = i, j, d
				}
			}
		}
		merged := append(append([]int(nil), clusters[bestI]...), clusters[bestJ]...)
		sort.Ints(merged)
		next := make([][]int, 0, len(clusters)-1)
		for idx, c := range clusters {
			if idx != bestI && idx != bestJ {
				next = append(next, c)
			}
		}
		clusters = append(next, merged)
	}

	// Stable labeling: clusters ordered by their smallest member.
	sort.Slice(clusters, func(i, j int) bool { return clusters[i][0] < clusters[j][0] })
	labels := make([]int, n)
	for label, members := range clusters {
		for _, i := range members {
			labels[i] = label
		}
	}
	return labels, nil
}

// averageLinkage is the mean pairwise distance across two clusters.
func averageLinkage(dist [][]float64, a, b []int) float64 {
	var sum float64
	for _, i := range a {
		for _, j := range b {
			sum += dist[i][j]
		}
	}
	return sum / float64(len(a)*len(b))
}

func sqDist(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}
