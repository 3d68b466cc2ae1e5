package embeddings

import (
	"context"
	"hash/fnv"
	"math"
)

type fakeEmbedder struct {
	dimension int
}

// NewFakeEmbedder constructs a deterministic, hash-based Embedder with no
// external dependencies, for tests and for environments with no embedding
// provider configured. Equal input text always produces an equal vector.
func NewFakeEmbedder(dimension int) Embedder {
	return &fakeEmbedder{dimension: dimension}
}

func (e *fakeEmbedder) Embed(_ context.Context, texts []string, _ InputType) ([][]float32, error) {
	results := make([][]float32, len(texts))
	for i, text := range texts {
		results[i] = hashVector(text, e.dimension)
	}
	return results, nil
}

// hashVector projects text into a deterministic unit vector by seeding a
// per-dimension hash with the dimension index, then centering and scaling
// the result into [-1, 1].
func hashVector(text string, dimension int) []float32 {
	vec := make([]float32, dimension)
	var norm float64
	for d := 0; d < dimension; d++ {
		h := fnv.New32a()
		h.Write([]byte{byte(d), byte(d >> 8)})
		h.Write([]byte(text))
		v := float64(h.Sum32())/float64(math.MaxUint32)*2 - 1
		vec[d] = float32(v)
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for d := range vec {
			vec[d] = float32(float64(vec[d]) / norm)
		}
	}
	return vec
}
