package analyze

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"

	"github.com/hbarrett/happidex/internal/dataset"
)

func scoreFrame(t *testing.T) dataframe.DataFrame {
	t.Helper()
	df := dataframe.LoadRecords([][]string{
		{"Country", "Region", "Happiness Score", "Economy (GDP per Capita)"},
		{"Alpha", "North", "7.5", "1.5"},
		{"Beta", "North", "6.0", "1.2"},
		{"Gamma", "South", "5.0", "1.0"},
		{"Delta", "South", "4.0", "0.5"},
		{"Epsilon", "South", "3.0", "0.2"},
	})
	if df.Err != nil {
		t.Fatalf("load records: %v", df.Err)
	}
	return df
}

func TestTopCountries(t *testing.T) {
	top, err := TopCountries(scoreFrame(t), 2)
	if err != nil {
		t.Fatalf("TopCountries: %v", err)
	}
	if len(top) != 2 || top[0].Country != "Alpha" || top[1].Country != "Beta" {
		t.Fatalf("top = %+v", top)
	}
	if top[0].Region != "North" {
		t.Fatalf("region = %q", top[0].Region)
	}
}

func TestBottomCountries(t *testing.T) {
	bottom, err := BottomCountries(scoreFrame(t), 2)
	if err != nil {
		t.Fatalf("BottomCountries: %v", err)
	}
	if len(bottom) != 2 || bottom[0].Country != "Epsilon" || bottom[1].Country != "Delta" {
		t.Fatalf("bottom = %+v", bottom)
	}
}

func TestTopBottom(t *testing.T) {
	top, bottom, err := TopBottom(scoreFrame(t), 1, 2)
	if err != nil {
		t.Fatalf("TopBottom: %v", err)
	}
	if len(top) != 1 || top[0].Country != "Alpha" {
		t.Fatalf("top = %+v", top)
	}
	if len(bottom) != 2 || bottom[0].Country != "Epsilon" {
		t.Fatalf("bottom = %+v", bottom)
	}
}

func TestTopCountriesSkipsNaN(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"Country", "Happiness Score"},
		{"Alpha", "7.5"},
		{"Beta", "NaN"},
		{"Gamma", "5.0"},
	})
	top, err := TopCountries(df, 10)
	if err != nil {
		t.Fatalf("TopCountries: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("len = %d, want 2 (NaN skipped)", len(top))
	}
}

func TestTopCountriesRequiresScore(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"Country"},
		{"Alpha"},
	})
	_, err := TopCountries(df, 5)
	var missing *dataset.MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want MissingColumnError", err)
	}
}

func TestRegionalSummary(t *testing.T) {
	regional, err := RegionalSummary(scoreFrame(t))
	if err != nil {
		t.Fatalf("RegionalSummary: %v", err)
	}
	if len(regional) != 2 {
		t.Fatalf("regions = %d, want 2", len(regional))
	}
	// sorted by mean descending: North 6.75, South 4.0
	if regional[0].Region != "North" || regional[1].Region != "South" {
		t.Fatalf("order = %+v", regional)
	}
	if math.Abs(regional[0].Mean-6.75) > 1e-9 {
		t.Fatalf("north mean = %v", regional[0].Mean)
	}
	if regional[1].Count != 3 {
		t.Fatalf("south count = %d", regional[1].Count)
	}
	if math.IsNaN(regional[0].Std) || regional[0].Std <= 0 {
		t.Fatalf("north std = %v", regional[0].Std)
	}
}

func TestRegionalSummarySingleRowStd(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"Country", "Region", "Happiness Score"},
		{"Alpha", "North", "7.5"},
	})
	regional, err := RegionalSummary(df)
	if err != nil {
		t.Fatalf("RegionalSummary: %v", err)
	}
	if len(regional) != 1 || !math.IsNaN(regional[0].Std) {
		t.Fatalf("regional = %+v, want NaN std for single row", regional)
	}
}

func TestCorrelationWithScorePerfect(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"Country", "Happiness Score", "Economy (GDP per Capita)"},
		{"Alpha", "7.0", "1.4"},
		{"Beta", "6.0", "1.2"},
		{"Gamma", "5.0", "1.0"},
		{"Delta", "4.0", "0.8"},
	})
	pearson, spearman, err := CorrelationWithScore(df, dataset.ColGDP)
	if err != nil {
		t.Fatalf("CorrelationWithScore: %v", err)
	}
	if math.Abs(pearson-1) > 1e-9 {
		t.Fatalf("pearson = %v, want 1", pearson)
	}
	if math.Abs(spearman-1) > 1e-9 {
		t.Fatalf("spearman = %v, want 1", spearman)
	}
}

func TestCorrelationMatrixSymmetric(t *testing.T) {
	mat := CorrelationMatrix(scoreFrame(t), Pearson)
	if len(mat.Columns) != 2 {
		t.Fatalf("numeric columns = %v", mat.Columns)
	}
	r := mat.At(dataset.ColScore, dataset.ColGDP)
	if r != mat.At(dataset.ColGDP, dataset.ColScore) {
		t.Fatalf("matrix not symmetric")
	}
	if r <= 0 || r > 1 {
		t.Fatalf("gdp/score correlation = %v", r)
	}
	if mat.At(dataset.ColScore, dataset.ColScore) != 1 {
		t.Fatalf("diagonal != 1")
	}
	if !math.IsNaN(mat.At("nope", dataset.ColScore)) {
		t.Fatalf("At on absent column should be NaN")
	}
}

func TestPairCorrelationDegenerate(t *testing.T) {
	// constant column has zero variance; contract is 0, not NaN
	if r := pairCorrelation([]float64{1, 1, 1}, []float64{1, 2, 3}, Pearson); r != 0 {
		t.Fatalf("constant correlation = %v, want 0", r)
	}
	if r := pairCorrelation([]float64{1}, []float64{2}, Pearson); r != 0 {
		t.Fatalf("single pair correlation = %v, want 0", r)
	}
}

func TestFractionalRanksTies(t *testing.T) {
	ranks := fractionalRanks([]float64{3, 1, 3, 2})
	want := []float64{3.5, 1, 3.5, 2}
	for i := range want {
		if ranks[i] != want[i] {
			t.Fatalf("ranks = %v, want %v", ranks, want)
		}
	}
}
