package vectorindex

import (
	"fmt"

	"github.com/brightfield-labs/vectordb/internal/model"
)

// New constructs a fresh, empty index from the given config. It rejects
// unknown kinds, LSH combined with the Euclidean metric, and non-positive
// LSH parameters.
func New(cfg model.IndexConfig) (Index, error) {
	switch cfg.Kind {
	case model.IndexKindAVL:
		if cfg.Metric != model.MetricCosine && cfg.Metric != model.MetricEuclidean {
			return nil, &ConfigInvalidError{Reason: fmt.Sprintf("unsupported metric %q", cfg.Metric)}
		}
		return NewAVLIndex(cfg.Metric), nil

	case model.IndexKindLSH:
		if cfg.Metric != model.MetricCosine {
			return nil, &ConfigInvalidError{Reason: "LSH only supports the cosine metric"}
		}
		if cfg.NumBits <= 0 {
			return nil, &ConfigInvalidError{Reason: "num_bits must be positive"}
		}
		if cfg.NumTables <= 0 {
			return nil, &ConfigInvalidError{Reason: "num_tables must be positive"}
		}
		return NewLSHIndex(cfg.NumBits, cfg.NumTables, cfg.Seed), nil

	default:
		return nil, &ConfigInvalidError{Reason: fmt.Sprintf("unknown index kind %q", cfg.Kind)}
	}
}
