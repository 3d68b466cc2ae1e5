package vectorindex

import "math"

// normalize returns a unit copy of vec when its norm is positive; otherwise
// it returns an unchanged copy. Zero vectors are stored as-is and will
// score 0 against any query under cosine.
func normalize(vec []float32) []float32 {
	out := make([]float32, len(vec))
	copy(out, vec)

	var sumSquares float64
	for _, v := range vec {
		sumSquares += float64(v) * float64(v)
	}
	norm := math.Sqrt(sumSquares)
	if norm <= 0 {
		return out
	}
	for i, v := range out {
		out[i] = float32(float64(v) / norm)
	}
	return out
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func euclideanDistance(a, b []float32) float32 {
	var sumSquares float64
	for i := range a {
		diff := float64(a[i]) - float64(b[i])
		sumSquares += diff * diff
	}
	return float32(math.Sqrt(sumSquares))
}
