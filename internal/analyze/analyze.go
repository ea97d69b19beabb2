// Package analyze provides descriptive views over the cleaned happiness
// table: top/bottom countries, per-region summaries, and correlation
// matrices.
package analyze

import (
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"

	"github.com/hbarrett/happidex/internal/dataset"
)

// CountryScore is one entry of a top/bottom listing.
type CountryScore struct {
	Country string
	Region  string
	Score   float64
}

// TopCountries returns the n highest-scoring countries, best first.
func TopCountries(df dataframe.DataFrame, n int) ([]CountryScore, error) {
	return rankedCountries(df, n, true)
}

// BottomCountries returns the n lowest-scoring countries, worst first.
func BottomCountries(df dataframe.DataFrame, n int) ([]CountryScore, error) {
	return rankedCountries(df, n, false)
}

// TopBottom returns both ends of the ranking in one call.
func TopBottom(df dataframe.DataFrame, n, m int) (top, bottom []CountryScore, err error) {
	if top, err = rankedCountries(df, n, true); err != nil {
		return nil, nil, err
	}
	bottom, _ = rankedCountries(df, m, false)
	return top, bottom, nil
}

func rankedCountries(df dataframe.DataFrame, n int, top bool) ([]CountryScore, error) {
	if err := dataset.Require(df, dataset.ColScore); err != nil {
		return nil, err
	}
	scores := dataset.Floats(df, dataset.ColScore)
	var countries, regions []string
	if dataset.HasColumn(df, dataset.ColCountry) {
		countries = df.Col(dataset.ColCountry).Records()
	}
	if dataset.HasColumn(df, dataset.ColRegion) {
		regions = df.Col(dataset.ColRegion).Records()
	}

	out := make([]CountryScore, 0, len(scores))
	for i, s := range scores {
		if math.IsNaN(s) {
			continue
		}
		cs := CountryScore{Score: s}
		if countries != nil {
			cs.Country = countries[i]
		}
		if regions != nil {
			cs.Region = regions[i]
		}
		out = append(out, cs)
	}
	sort.SliceStable(out, func(a, b int) bool {
		if top {
			return out[a].Score > out[b].Score
		}
		return out[a].Score < out[b].Score
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// RegionSummary aggregates Happiness Score within one region.
type RegionSummary struct {
	Region string
	Mean   float64
	Std    float64
	Count  int
}

// RegionalSummary computes mean, sample std dev, and count of Happiness
// Score per region, sorted by mean descending. Both the Region and the
// score column are required.
func RegionalSummary(df dataframe.DataFrame) ([]RegionSummary, error) {
	if err := dataset.Require(df, dataset.ColRegion); err != nil {
		return nil, err
	}
	if err := dataset.Require(df, dataset.ColScore); err != nil {
		return nil, err
	}
	regions := df.Col(dataset.ColRegion).Records()
	scores := dataset.Floats(df, dataset.ColScore)

	byRegion := make(map[string][]float64)
	order := make([]string, 0)
	for i, r := range regions {
		if math.IsNaN(scores[i]) {
			continue
		}
		if _, ok := byRegion[r]; !ok {
			order = append(order, r)
		}
		byRegion[r] = append(byRegion[r], scores[i])
	}

	out := make([]RegionSummary, 0, len(order))
	for _, r := range order {
		vals := byRegion[r]
		rs := RegionSummary{Region: r, Mean: stat.Mean(vals, nil), Count: len(vals), Std: math.NaN()}
		if len(vals) > 1 {
			rs.Std = stat.StdDev(vals, nil)
		}
		out = append(out, rs)
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Mean > out[b].Mean })
	return out, nil
}
