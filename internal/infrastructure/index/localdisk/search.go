package localdisk

import (
	"fmt"
	"math"
	"sort"

	"github.com/kirillkom/docqa/internal/core/domain"
)

// Index is a loaded, read-only index. Retrieval is brute-force cosine
// similarity over the stored (already normalized) vectors.
type Index struct {
	units   []domain.Unit
	vectors []float32
	dim     int
}

func (i *Index) Len() int {
	return len(i.units)
}

func (i *Index) Search(queryVector []float32, k int) ([]domain.ScoredUnit, error) {
	if k <= 0 || i.Len() == 0 {
		return nil, nil
	}
	if len(queryVector) != i.dim {
		return nil, domain.WrapError(domain.ErrInvalidInput, "search index",
			fmt.Errorf("query dim %d does not match index dim %d", len(queryVector), i.dim))
	}

	query := normalize(queryVector)
	scores := make([]float64, i.Len())
	for n := 0; n < i.Len(); n++ {
		row := i.vectors[n*i.dim : (n+1)*i.dim]
		var sum float64
		for j, q := range query {
			sum += float64(q) * float64(row[j])
		}
		scores[n] = sum
	}

	order := make([]int, i.Len())
	for n := range order {
		order[n] = n
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if k > len(order) {
		k = len(order)
	}
	hits := make([]domain.ScoredUnit, 0, k)
	for _, n := range order[:k] {
		hits = append(hits, domain.ScoredUnit{Unit: i.units[n], Score: scores[n]})
	}
	return hits, nil
}

func normalize(vector []float32) []float32 {
	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vector
	}
	norm := float32(math.Sqrt(sum))
	out := make([]float32, len(vector))
	for i, v := range vector {
		out[i] = v / norm
	}
	return out
}
