// Package vector provides a flat, exhaustively-searched vector index over
// squared Euclidean distance. Embeddings are stored unnormalized; callers
// that want cosine ranking must normalize upstream.
package vector

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"sort"
)

var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Flat is a brute-force nearest-neighbor index. It is not safe for
// concurrent mutation; the owning store serializes access.
type Flat struct {
	dim     int
	vectors [][]float32
}

func NewFlat(dim int) *Flat {
	return &Flat{dim: dim}
}

func (f *Flat) Dimension() int { return f.dim }

func (f *Flat) Count() int { return len(f.vectors) }

// Add appends vectors to the index. All rows are dimension-checked before
// any is appended, so a failed call leaves the index unchanged.
func (f *Flat) Add(vectors [][]float32) error {
	for i, v := range vectors {
		if len(v) != f.dim {
			return fmt.Errorf("%w: row %d has %d, index wants %d", ErrDimensionMismatch, i, len(v), f.dim)
		}
	}
	f.vectors = append(f.vectors, vectors...)
	return nil
}

// Search returns the indices and squared L2 distances of the k nearest
// vectors to the query, ascending by distance. Ties keep insertion order.
// Fewer than k results are returned when the index holds fewer vectors.
func (f *Flat) Search(query []float32, k int) ([]int, []float32, error) {
	if len(query) != f.dim {
		return nil, nil, fmt.Errorf("%w: query has %d, index wants %d", ErrDimensionMismatch, len(query), f.dim)
	}
	if k <= 0 || len(f.vectors) == 0 {
		return nil, nil, nil
	}

	distances := make([]float32, len(f.vectors))
	order := make([]int, len(f.vectors))
	for i, v := range f.vectors {
		distances[i] = squaredL2(query, v)
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return distances[order[a]] < distances[order[b]]
	})

	if k > len(order) {
		k = len(order)
	}
	ids := make([]int, k)
	dists := make([]float32, k)
	for i := 0; i < k; i++ {
		ids[i] = order[i]
		dists[i] = distances[order[i]]
	}
	return ids, dists, nil
}

func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

type flatSnapshot struct {
	Dim     int
	Vectors [][]float32
}

// Save writes a gob snapshot of the index.
func (f *Flat) Save(w io.Writer) error {
	return gob.NewEncoder(w).Encode(flatSnapshot{Dim: f.dim, Vectors: f.vectors})
}

// Load restores an index from a gob snapshot written by Save.
func Load(r io.Reader) (*Flat, error) {
	var snap flatSnapshot
	if err := gob.NewDecoder(r).Decode(&snap); err != nil {
		return nil, err
	}
	if snap.Dim <= 0 {
		return nil, fmt.Errorf("invalid index snapshot: dimension %d", snap.Dim)
	}
	for i, v := range snap.Vectors {
		if len(v) != snap.Dim {
			return nil, fmt.Errorf("invalid index snapshot: %w at row %d", ErrDimensionMismatch, i)
		}
	}
	return &Flat{dim: snap.Dim, vectors: snap.Vectors}, nil
}
