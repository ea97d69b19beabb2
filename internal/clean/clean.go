// Package clean standardizes the raw happiness table before analysis:
// country/region name cleanup, missing-value imputation, and deduplication.
// Every function returns a new DataFrame; inputs are never mutated.
package clean

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gonum.org/v1/gonum/stat"

	"github.com/hbarrett/happidex/internal/dataset"
	"github.com/hbarrett/happidex/internal/index"
)

// Strategy selects how Impute fills missing numeric cells.
type Strategy string

const (
	StrategyMean   Strategy = "mean"
	StrategyMedian Strategy = "median"
	StrategyZero   Strategy = "zero"
	StrategyDrop   Strategy = "drop"
)

// Summary is the validation report produced by Validate.
type Summary struct {
	Rows    int
	Columns int
	Missing map[string]int
}

// TotalMissing sums missing cells across all columns.
func (s Summary) TotalMissing() int {
	total := 0
	for _, n := range s.Missing {
		total += n
	}
	return total
}

var titleCaser = cases.Title(language.English)

// Countries trims and title-cases the Country column. A table without a
// Country column passes through unchanged.
func Countries(df dataframe.DataFrame) dataframe.DataFrame {
	if !dataset.HasColumn(df, dataset.ColCountry) {
		return df.Copy()
	}
	vals := df.Col(dataset.ColCountry).Records()
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = titleCaser.String(strings.TrimSpace(v))
	}
	return df.Mutate(series.New(out, series.String, dataset.ColCountry))
}

// Regions trims surrounding whitespace from the Region column.
func Regions(df dataframe.DataFrame) dataframe.DataFrame {
	if !dataset.HasColumn(df, dataset.ColRegion) {
		return df.Copy()
	}
	vals := df.Col(dataset.ColRegion).Records()
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = strings.TrimSpace(v)
	}
	return df.Mutate(series.New(out, series.String, dataset.ColRegion))
}

// Impute fills NaN cells in numeric columns according to the strategy.
// StrategyDrop removes any row with a NaN in a numeric column instead.
func Impute(df dataframe.DataFrame, strategy Strategy) (dataframe.DataFrame, error) {
	switch strategy {
	case StrategyMean, StrategyMedian, StrategyZero:
	case StrategyDrop:
		return dropMissingRows(df), nil
	default:
		return dataframe.DataFrame{}, fmt.Errorf("unknown imputation strategy %q", strategy)
	}

	out := df.Copy()
	for _, name := range dataset.NumericColumns(out) {
		xs := dataset.Floats(out, name)
		finite := finiteValues(xs)
		if len(finite) == len(xs) || len(finite) == 0 {
			continue
		}
		fill := 0.0
		switch strategy {
		case StrategyMean:
			fill = stat.Mean(finite, nil)
		case StrategyMedian:
			sort.Float64s(finite)
			fill = index.Quantile(finite, 0.5)
		}
		filled := make([]float64, len(xs))
		for i, v := range xs {
			if math.IsNaN(v) {
				filled[i] = fill
			} else {
				filled[i] = v
			}
		}
		out = out.Mutate(series.New(filled, series.Float, name))
	}
	return out, nil
}

func dropMissingRows(df dataframe.DataFrame) dataframe.DataFrame {
	numeric := dataset.NumericColumns(df)
	keep := make([]int, 0, df.Nrow())
	cols := make(map[string][]float64, len(numeric))
	for _, name := range numeric {
		cols[name] = dataset.Floats(df, name)
	}
	for i := 0; i < df.Nrow(); i++ {
		ok := true
		for _, name := range numeric {
			if math.IsNaN(cols[name][i]) {
				ok = false
				break
			}
		}
		if ok {
			keep = append(keep, i)
		}
	}
	return df.Subset(keep)
}

// Dedupe removes rows that duplicate an earlier row in every column.
func Dedupe(df dataframe.DataFrame) dataframe.DataFrame {
	records := df.Records()
	if len(records) <= 1 {
		return df.Copy()
	}
	seen := make(map[string]bool, len(records)-1)
	keep := make([]int, 0, len(records)-1)
	for i, rec := range records[1:] {
		key := strings.Join(rec, "\x1f")
		if seen[key] {
			continue
		}
		seen[key] = true
		keep = append(keep, i)
	}
	return df.Subset(keep)
}

// All runs the full cleaning sequence: country names, region names,
// mean imputation, dedupe.
func All(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	out := Regions(Countries(df))
	out, err := Impute(out, StrategyMean)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	return Dedupe(out), nil
}

// Validate reports table shape and per-column missing counts.
func Validate(df dataframe.DataFrame) Summary {
	return Summary{
		Rows:    df.Nrow(),
		Columns: df.Ncol(),
		Missing: dataset.MissingCount(df),
	}
}

func finiteValues(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, v := range xs {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
