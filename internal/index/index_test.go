package index

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/hbarrett/happidex/internal/dataset"
)

func approx(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return math.Abs(a-b) < 1e-9
}

func gdpFrame(t *testing.T) dataframe.DataFrame {
	t.Helper()
	df := dataframe.LoadRecords([][]string{
		{"Country", "Region", "Happiness Rank", "Happiness Score", "Economy (GDP per Capita)"},
		{"Alpha", "North", "1", "7.5", "1.5"},
		{"Beta", "South", "2", "6.0", "1.0"},
		{"Gamma", "South", "3", "4.0", "0.5"},
	})
	if df.Err != nil {
		t.Fatalf("load records: %v", df.Err)
	}
	return df
}

func TestNormalizeMinMax(t *testing.T) {
	df := Normalize(gdpFrame(t), []string{dataset.ColGDP})
	got := dataset.Floats(df, dataset.ColGDP+NormalizedSuffix)
	want := []float64{1.0, 0.5, 0.0}
	for i := range want {
		if !approx(got[i], want[i]) {
			t.Fatalf("normalized[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNormalizeZeroVariance(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"Country", "Economy (GDP per Capita)"},
		{"Alpha", "1.2"},
		{"Beta", "1.2"},
		{"Gamma", "1.2"},
	})
	if df.Err != nil {
		t.Fatalf("load records: %v", df.Err)
	}
	out := Normalize(df, []string{dataset.ColGDP})
	for i, v := range dataset.Floats(out, dataset.ColGDP+NormalizedSuffix) {
		if !approx(v, 0.5) {
			t.Fatalf("row %d = %v, want 0.5", i, v)
		}
	}
}

func TestNormalizeSkipsAbsentIndicator(t *testing.T) {
	df := gdpFrame(t)
	out := Normalize(df, []string{dataset.ColGDP, dataset.ColHealth})
	if dataset.HasColumn(out, dataset.ColHealth+NormalizedSuffix) {
		t.Fatalf("normalized column created for absent indicator")
	}
	if !dataset.HasColumn(out, dataset.ColGDP+NormalizedSuffix) {
		t.Fatalf("normalized column missing for present indicator")
	}
}

func TestRunSingleIndicator(t *testing.T) {
	cfg := NewConfig(dataset.ColGDP)
	df := Run(gdpFrame(t), cfg)

	composite := dataset.Floats(df, ColComposite)
	wantScores := []float64{10, 5, 0}
	for i := range wantScores {
		if !approx(composite[i], wantScores[i]) {
			t.Fatalf("composite[%d] = %v, want %v", i, composite[i], wantScores[i])
		}
	}
	ranks := dataset.Floats(df, ColCompositeRank)
	wantRanks := []float64{1, 2, 3}
	for i := range wantRanks {
		if ranks[i] != wantRanks[i] {
			t.Fatalf("rank[%d] = %v, want %v", i, ranks[i], wantRanks[i])
		}
	}
}

func TestRunIsDeterministic(t *testing.T) {
	cfg := NewConfig(dataset.ColGDP)
	a := Run(gdpFrame(t), cfg)
	b := Run(gdpFrame(t), cfg)
	va := dataset.Floats(a, ColComposite)
	vb := dataset.Floats(b, ColComposite)
	for i := range va {
		if !approx(va[i], vb[i]) {
			t.Fatalf("run %d differs: %v vs %v", i, va[i], vb[i])
		}
	}
}

func TestCompetitionRanksTies(t *testing.T) {
	ranks := competitionRanks([]float64{9, 7, 7, 5})
	want := []int{1, 2, 2, 4}
	for i := range want {
		if ranks[i] != want[i] {
			t.Fatalf("ranks = %v, want %v", ranks, want)
		}
	}
}

func TestCompetitionRanksNaNLast(t *testing.T) {
	ranks := competitionRanks([]float64{math.NaN(), 8, 6})
	if ranks[1] != 1 || ranks[2] != 2 || ranks[0] != 3 {
		t.Fatalf("ranks = %v, want NaN ranked last", ranks)
	}
}

func TestSetWeightsRenormalizes(t *testing.T) {
	cfg := NewConfig(dataset.ColGDP, dataset.ColHealth)
	cfg = cfg.SetWeights(map[string]float64{dataset.ColGDP: 0.6, dataset.ColHealth: 0.6})
	if !approx(cfg.Weights[dataset.ColGDP], 0.5) || !approx(cfg.Weights[dataset.ColHealth], 0.5) {
		t.Fatalf("weights = %v, want renormalized to 0.5 each", cfg.Weights)
	}
}

func TestSetWeightsKeepsNearUnitSum(t *testing.T) {
	cfg := NewConfig(dataset.ColGDP, dataset.ColHealth)
	cfg = cfg.SetWeights(map[string]float64{dataset.ColGDP: 0.5, dataset.ColHealth: 0.495})
	if !approx(cfg.Weights[dataset.ColGDP], 0.5) || !approx(cfg.Weights[dataset.ColHealth], 0.495) {
		t.Fatalf("weights = %v, want kept as given inside tolerance", cfg.Weights)
	}
}

func TestWeightScaleInvariance(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"Country", "Happiness Score", "Economy (GDP per Capita)", "Health (Life Expectancy)"},
		{"Alpha", "7.5", "1.5", "0.9"},
		{"Beta", "6.0", "1.0", "0.7"},
		{"Gamma", "4.0", "0.5", "0.3"},
	})
	if df.Err != nil {
		t.Fatalf("load records: %v", df.Err)
	}
	base := NewConfig(dataset.ColGDP, dataset.ColHealth)
	a := Run(df.Copy(), base.SetWeights(map[string]float64{dataset.ColGDP: 2, dataset.ColHealth: 1}))
	b := Run(df.Copy(), base.SetWeights(map[string]float64{dataset.ColGDP: 2.0 / 3.0, dataset.ColHealth: 1.0 / 3.0}))
	va := dataset.Floats(a, ColComposite)
	vb := dataset.Floats(b, ColComposite)
	for i := range va {
		if !approx(va[i], vb[i]) {
			t.Fatalf("composite[%d]: scaled %v vs unit %v", i, va[i], vb[i])
		}
	}
}

func emptyScoreFrame() dataframe.DataFrame {
	return dataframe.New(
		series.New([]string{}, series.String, dataset.ColCountry),
		series.New([]float64{}, series.Float, dataset.ColScore),
	)
}

func TestAggregateEmptyTablePassesThrough(t *testing.T) {
	out := Aggregate(emptyScoreFrame(), NewConfig(dataset.ColGDP))
	if dataset.HasColumn(out, ColComposite) {
		t.Fatalf("composite column added to empty table")
	}
}

func TestCompareSortedAndSigned(t *testing.T) {
	df := Run(gdpFrame(t), NewConfig(dataset.ColGDP))
	table, err := Compare(df)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if !table.HasCountry || !table.HasRegion || !table.HasOriginalRank || !table.HasCompositeRank {
		t.Fatalf("optional column flags = %+v", table)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(table.Rows))
	}
	for i := 1; i < len(table.Rows); i++ {
		if table.Rows[i].CompositeIndex > table.Rows[i-1].CompositeIndex {
			t.Fatalf("rows not sorted descending at %d", i)
		}
	}
	for _, row := range table.Rows {
		if row.RankDifference != row.OriginalRank-row.CompositeRank {
			t.Fatalf("rank difference %+v", row)
		}
		if !approx(row.ScoreDifference, row.CompositeIndex-row.OriginalScore) {
			t.Fatalf("score difference %+v", row)
		}
	}
}

func TestCompareWithoutCompositeRank(t *testing.T) {
	cfg := NewConfig(dataset.ColGDP)
	df := Aggregate(Normalize(gdpFrame(t), cfg.Indicators), cfg)
	table, err := Compare(df)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if table.HasCompositeRank {
		t.Fatalf("composite rank flagged on without a rank column")
	}
	for _, row := range table.Rows {
		if row.CompositeRank != 0 || row.RankDifference != 0 {
			t.Fatalf("rank fields set without a composite rank: %+v", row)
		}
		if row.OriginalRank == 0 {
			t.Fatalf("original rank lost: %+v", row)
		}
	}
}

func TestCompareEmptyTable(t *testing.T) {
	table, err := Compare(emptyScoreFrame())
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(table.Rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(table.Rows))
	}
}

func TestCompareRequiresScore(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"Country", "Economy (GDP per Capita)"},
		{"Alpha", "1.5"},
	})
	_, err := Compare(df)
	var missing *dataset.MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want MissingColumnError", err)
	}
	if missing.Column != dataset.ColScore {
		t.Fatalf("missing column = %q", missing.Column)
	}
}

func TestStatisticsEmptyAllNaN(t *testing.T) {
	s := Statistics(emptyScoreFrame())
	for name, v := range map[string]float64{
		"mean": s.Mean, "median": s.Median, "std": s.Std,
		"min": s.Min, "max": s.Max, "q25": s.Q25, "q75": s.Q75,
	} {
		if !math.IsNaN(v) {
			t.Fatalf("%s = %v, want NaN", name, v)
		}
	}
}

func TestStatisticsValues(t *testing.T) {
	df := Run(gdpFrame(t), NewConfig(dataset.ColGDP))
	s := Statistics(df)
	if !approx(s.Mean, 5) || !approx(s.Median, 5) || !approx(s.Min, 0) || !approx(s.Max, 10) {
		t.Fatalf("stats = %+v", s)
	}
	if !approx(s.Q25, 2.5) || !approx(s.Q75, 7.5) {
		t.Fatalf("quartiles = %+v", s)
	}
}

func TestQuantileInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	cases := []struct {
		q    float64
		want float64
	}{
		{0, 1}, {0.25, 1.75}, {0.5, 2.5}, {0.75, 3.25}, {1, 4},
	}
	for _, c := range cases {
		if got := Quantile(sorted, c.q); !approx(got, c.want) {
			t.Fatalf("Quantile(%v) = %v, want %v", c.q, got, c.want)
		}
	}
	if !math.IsNaN(Quantile(nil, 0.5)) {
		t.Fatalf("Quantile of empty input should be NaN")
	}
}
