package analyze

import (
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"

	"github.com/hbarrett/happidex/internal/dataset"
)

// Method selects the correlation coefficient.
type Method string

const (
	Pearson  Method = "pearson"
	Spearman Method = "spearman"
)

// CorrMatrix holds a symmetric correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// At looks up the coefficient between two named columns; NaN when either
// column is absent.
func (m *CorrMatrix) At(a, b string) float64 {
	ia, ib := -1, -1
	for i, c := range m.Columns {
		if c == a {
			ia = i
		}
		if c == b {
			ib = i
		}
	}
	if ia < 0 || ib < 0 {
		return math.NaN()
	}
	return m.Values[ia][ib]
}

// CorrelationMatrix computes pairwise correlations among the numeric
// columns of df. Pairs are computed over rows where both values are
// present; pairs with fewer than two complete rows or zero variance get 0.
func CorrelationMatrix(df dataframe.DataFrame, method Method) *CorrMatrix {
	cols := dataset.NumericColumns(df)
	vals := make(map[string][]float64, len(cols))
	for _, c := range cols {
		vals[c] = dataset.Floats(df, c)
	}

	n := len(cols)
	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
		mat[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := pairCorrelation(vals[cols[i]], vals[cols[j]], method)
			mat[i][j] = r
			mat[j][i] = r
		}
	}
	return &CorrMatrix{Columns: cols, Values: mat}
}

// CorrelationWithScore returns both Pearson and Spearman coefficients
// between a column and Happiness Score.
func CorrelationWithScore(df dataframe.DataFrame, col string) (pearson, spearman float64, err error) {
	if err := dataset.Require(df, dataset.ColScore); err != nil {
		return 0, 0, err
	}
	if err := dataset.Require(df, col); err != nil {
		return 0, 0, err
	}
	xs := dataset.Floats(df, col)
	ys := dataset.Floats(df, dataset.ColScore)
	return pairCorrelation(xs, ys, Pearson), pairCorrelation(xs, ys, Spearman), nil
}

func pairCorrelation(xs, ys []float64, method Method) float64 {
	px := make([]float64, 0, len(xs))
	py := make([]float64, 0, len(ys))
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		px = append(px, xs[i])
		py = append(py, ys[i])
	}
	if len(px) < 2 {
		return 0
	}
	if method == Spearman {
		px = fractionalRanks(px)
		py = fractionalRanks(py)
	}
	r := stat.Correlation(px, py, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

// fractionalRanks replaces values with their ascending rank, ties sharing
// the average rank of their group.
func fractionalRanks(xs []float64) []float64 {
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return xs[idx[a]] < xs[idx[b]] })
	ranks := make([]float64, len(xs))
	for pos := 0; pos < len(idx); {
		end := pos
		for end+1 < len(idx) && xs[idx[end+1]] == xs[idx[pos]] {
			end++
		}
		avg := float64(pos+end)/2 + 1
		for k := pos; k <= end; k++ {
			ranks[idx[k]] = avg
		}
		pos = end + 1
	}
	return ranks
}
