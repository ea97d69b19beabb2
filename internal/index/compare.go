package index

import (
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"

	"github.com/hbarrett/happidex/internal/dataset"
)

// Comparison is one row of the side-by-side view of composite and original
// scores. CompositeRank, OriginalRank, and RankDifference are only
// meaningful when the parent table's corresponding Has flags are set.
type Comparison struct {
	Country         string
	Region          string
	OriginalScore   float64
	CompositeIndex  float64
	CompositeRank   int
	OriginalRank    int
	RankDifference  int
	ScoreDifference float64
}

// ComparisonTable is the comparator output, sorted descending by composite
// index with the original relative order preserved among exact ties.
type ComparisonTable struct {
	HasCountry       bool
	HasRegion        bool
	HasOriginalRank  bool
	HasCompositeRank bool
	Rows             []Comparison
}

// Compare builds the comparison table from a ranked composite table.
// The Happiness Score column is required; Country, Region, and Happiness
// Rank are optional and their output fields are flagged off when absent.
// An empty table yields an empty result without error. RankDifference is
// original minus composite, so a country that rose in the composite ranking
// gets a positive value.
func Compare(df dataframe.DataFrame) (ComparisonTable, error) {
	if err := dataset.Require(df, dataset.ColScore); err != nil {
		return ComparisonTable{}, err
	}
	out := ComparisonTable{
		HasCountry:       dataset.HasColumn(df, dataset.ColCountry),
		HasRegion:        dataset.HasColumn(df, dataset.ColRegion),
		HasOriginalRank:  dataset.HasColumn(df, dataset.ColRank),
		HasCompositeRank: dataset.HasColumn(df, ColCompositeRank),
	}
	n := df.Nrow()
	if n == 0 || !dataset.HasColumn(df, ColComposite) {
		return out, nil
	}

	scores := dataset.Floats(df, dataset.ColScore)
	composite := dataset.Floats(df, ColComposite)
	var compositeRanks []float64
	if out.HasCompositeRank {
		compositeRanks = dataset.Floats(df, ColCompositeRank)
	}
	var countries, regions []string
	if out.HasCountry {
		countries = df.Col(dataset.ColCountry).Records()
	}
	if out.HasRegion {
		regions = df.Col(dataset.ColRegion).Records()
	}
	var originalRanks []float64
	if out.HasOriginalRank {
		originalRanks = dataset.Floats(df, dataset.ColRank)
	}

	rows := make([]Comparison, n)
	for i := 0; i < n; i++ {
		row := Comparison{
			OriginalScore:   scores[i],
			CompositeIndex:  composite[i],
			ScoreDifference: composite[i] - scores[i],
		}
		if compositeRanks != nil {
			row.CompositeRank = int(compositeRanks[i])
		}
		if out.HasCountry {
			row.Country = countries[i]
		}
		if out.HasRegion {
			row.Region = regions[i]
		}
		if out.HasOriginalRank {
			row.OriginalRank = int(originalRanks[i])
			// A rank delta without a composite rank would compare
			// against zero, so it stays unset in that case.
			if out.HasCompositeRank {
				row.RankDifference = row.OriginalRank - row.CompositeRank
			}
		}
		rows[i] = row
	}
	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].CompositeIndex > rows[b].CompositeIndex
	})
	out.Rows = rows
	return out, nil
}

// Stats summarizes the composite index column. All fields are NaN for an
// empty table.
type Stats struct {
	Mean   float64
	Median float64
	Std    float64
	Min    float64
	Max    float64
	Q25    float64
	Q75    float64
}

// Statistics computes mean, median, sample standard deviation, min, max,
// and quartiles of the composite index over the full table. NaN cells are
// skipped; a table without data produces all-NaN stats rather than an error.
func Statistics(df dataframe.DataFrame) Stats {
	nan := math.NaN()
	s := Stats{Mean: nan, Median: nan, Std: nan, Min: nan, Max: nan, Q25: nan, Q75: nan}
	if !dataset.HasColumn(df, ColComposite) {
		return s
	}
	xs := make([]float64, 0, df.Nrow())
	for _, v := range dataset.Floats(df, ColComposite) {
		if !math.IsNaN(v) {
			xs = append(xs, v)
		}
	}
	if len(xs) == 0 {
		return s
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	s.Mean = stat.Mean(xs, nil)
	if len(xs) > 1 {
		s.Std = stat.StdDev(xs, nil)
	}
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Median = Quantile(sorted, 0.5)
	s.Q25 = Quantile(sorted, 0.25)
	s.Q75 = Quantile(sorted, 0.75)
	return s
}

// Quantile interpolates the q-quantile of ascending sorted values at
// position q*(n-1), linear between neighbors.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
