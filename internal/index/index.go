// Package index computes the composite happiness index: min-max
// normalization of indicator columns, weighted aggregation onto a 0-10
// scale, competition ranking, and comparison against the original ranking.
//
// Every stage is a pure function over a DataFrame; callers compose them
// explicitly (Normalize -> Aggregate -> Rank -> Compare) or use Run for the
// common path. Recomputing on the same inputs yields identical output.
package index

import (
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/floats"

	"github.com/hbarrett/happidex/internal/dataset"
)

// Columns added to derived tables.
const (
	NormalizedSuffix = "_normalized"
	ColComposite     = "Composite_Happiness_Index"
	ColCompositeRank = "Composite_Rank"
)

// weightTolerance is the accepted drift of a weight sum from 1.0. Sums
// inside the window are stored as given rather than renormalized; this
// preserves the numeric behavior of the original ranking and is deliberate.
const weightTolerance = 0.01

// Config carries the indicator set and weight vector for one pipeline run.
// Configs are values; deriving a new one never touches the original.
type Config struct {
	Indicators []string
	Weights    map[string]float64
}

// DefaultIndicators returns the six World Happiness Report indicator
// columns the index is computed over by default.
func DefaultIndicators() []string {
	return []string{
		dataset.ColGDP,
		dataset.ColFamily,
		dataset.ColHealth,
		dataset.ColFreedom,
		dataset.ColTrust,
		dataset.ColGenerosity,
	}
}

// NewConfig builds a Config with uniform weights 1/n over the given
// indicators, defaulting to DefaultIndicators when none are given.
func NewConfig(indicators ...string) Config {
	if len(indicators) == 0 {
		indicators = DefaultIndicators()
	}
	w := make(map[string]float64, len(indicators))
	for _, ind := range indicators {
		w[ind] = 1.0 / float64(len(indicators))
	}
	return Config{Indicators: indicators, Weights: w}
}

// SetWeights returns a Config using the given weights. When the sum strays
// from 1.0 by more than 0.01 every weight is divided by the sum; a sum
// inside the tolerance window is kept exactly as provided.
func (c Config) SetWeights(weights map[string]float64) Config {
	var total float64
	for _, w := range weights {
		total += w
	}
	out := make(map[string]float64, len(weights))
	if total != 0 && math.Abs(total-1.0) > weightTolerance {
		for k, v := range weights {
			out[k] = v / total
		}
	} else {
		for k, v := range weights {
			out[k] = v
		}
	}
	c.Weights = out
	return c
}

// Normalize min-max scales each indicator present in df into a new
// column named <indicator>_normalized, each value in [0,1]. A zero-variance
// column (including the single-row case) normalizes to 0.5 for every row.
// Indicators absent from the table are skipped silently. Row order is
// preserved.
func Normalize(df dataframe.DataFrame, indicators []string) dataframe.DataFrame {
	out := df.Copy()
	for _, ind := range indicators {
		if !dataset.HasColumn(out, ind) {
			continue
		}
		xs := dataset.Floats(out, ind)
		if len(xs) == 0 {
			continue
		}
		mn, mx, any := finiteRange(xs)
		norm := make([]float64, len(xs))
		if any && mx-mn > 0 {
			copy(norm, xs)
			floats.AddConst(-mn, norm)
			floats.Scale(1/(mx-mn), norm)
		} else {
			for i := range norm {
				norm[i] = 0.5
			}
		}
		out = out.Mutate(series.New(norm, series.Float, ind+NormalizedSuffix))
	}
	return out
}

// Aggregate combines the normalized indicator columns into the composite
// index: sum of normalized value times weight, scaled to 0-10. Indicators
// without a normalized column contribute zero even if a weight was
// configured for them.
func Aggregate(df dataframe.DataFrame, cfg Config) dataframe.DataFrame {
	out := df.Copy()
	n := out.Nrow()
	if n == 0 {
		return out
	}
	score := make([]float64, n)
	for _, ind := range cfg.Indicators {
		col := ind + NormalizedSuffix
		if !dataset.HasColumn(out, col) {
			continue
		}
		w := cfg.Weights[ind]
		for i, v := range dataset.Floats(out, col) {
			score[i] += v * w
		}
	}
	floats.Scale(10, score)
	return out.Mutate(series.New(score, series.Float, ColComposite))
}

// Rank attaches Composite_Rank: integer descending ranks over the composite
// index where tied scores share the minimum rank of their tie group
// (1,2,2,4 when two rows tie for second). A table without a composite
// column passes through unchanged.
func Rank(df dataframe.DataFrame) dataframe.DataFrame {
	out := df.Copy()
	if out.Nrow() == 0 || !dataset.HasColumn(out, ColComposite) {
		return out
	}
	ranks := competitionRanks(dataset.Floats(out, ColComposite))
	return out.Mutate(series.New(ranks, series.Int, ColCompositeRank))
}

// Run composes the full pipeline: Normalize, Aggregate, Rank.
func Run(df dataframe.DataFrame, cfg Config) dataframe.DataFrame {
	return Rank(Aggregate(Normalize(df, cfg.Indicators), cfg))
}

// competitionRanks ranks scores descending; equal scores receive the
// smallest rank in their group and the next distinct score resumes at
// group start + group size. NaN scores sort last.
func competitionRanks(scores []float64) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		x, y := scores[idx[a]], scores[idx[b]]
		if math.IsNaN(y) {
			return !math.IsNaN(x)
		}
		if math.IsNaN(x) {
			return false
		}
		return x > y
	})
	ranks := make([]int, len(scores))
	for pos := 0; pos < len(idx); {
		end := pos
		for end+1 < len(idx) && scores[idx[end+1]] == scores[idx[pos]] {
			end++
		}
		for k := pos; k <= end; k++ {
			ranks[idx[k]] = pos + 1
		}
		pos = end + 1
	}
	return ranks
}

// finiteRange scans for min and max ignoring NaN. any is false when no
// finite value exists.
func finiteRange(xs []float64) (mn, mx float64, any bool) {
	for _, v := range xs {
		if math.IsNaN(v) {
			continue
		}
		if !any {
			mn, mx = v, v
			any = true
			continue
		}
		if v < mn {
			mn = v
		}
		if v > mx {
			mx = v
		}
	}
	return mn, mx, any
}
