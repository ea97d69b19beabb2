// Package insight derives short natural-language findings from threshold
// rules over the happiness table: mismatched GDP and happiness, score
// outliers, and the freedom correlation strength.
package insight

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"

	"github.com/hbarrett/happidex/internal/analyze"
	"github.com/hbarrett/happidex/internal/dataset"
	"github.com/hbarrett/happidex/internal/index"
	"github.com/hbarrett/happidex/internal/utils"
)

// Finding is one generated insight with the countries that triggered it.
type Finding struct {
	Text      string
	Countries []string
}

// Thresholds configures the rule cutoffs.
type Thresholds struct {
	GDP        float64
	Happiness  float64
	Generosity float64
}

// DefaultThresholds mirrors the dashboard defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{GDP: 1.0, Happiness: 5.0, Generosity: 0.3}
}

// maxListed caps how many countries a finding names.
const maxListed = 5

// HighGDPLowHappiness lists countries with GDP per capita at or above
// gdpThr whose happiness score is at or below hapThr. A finding is
// produced either way so the report can state the negative result.
func HighGDPLowHappiness(df dataframe.DataFrame, gdpThr, hapThr float64) (Finding, bool) {
	countries, ok := selectCountries(df, dataset.ColGDP, gdpThr, hapThr)
	if !ok {
		return Finding{}, false
	}
	if len(countries) == 0 {
		return Finding{
			Text: fmt.Sprintf("No countries with GDP >= %.1f and happiness <= %.1f.", gdpThr, hapThr),
		}, true
	}
	return Finding{
		Text: fmt.Sprintf("High GDP (>= %.1f) but low happiness (<= %.1f): %s",
			gdpThr, hapThr, strings.Join(head(countries, maxListed), ", ")),
		Countries: countries,
	}, true
}

// HighGenerosityLowHappiness lists generous but unhappy countries. Unlike
// the GDP rule, an empty match produces no finding.
func HighGenerosityLowHappiness(df dataframe.DataFrame, genThr, hapThr float64) (Finding, bool) {
	countries, ok := selectCountries(df, dataset.ColGenerosity, genThr, hapThr)
	if !ok || len(countries) == 0 {
		return Finding{}, false
	}
	return Finding{
		Text: fmt.Sprintf("High generosity (>= %.1f) and low happiness (<= %.1f): %s",
			genThr, hapThr, strings.Join(head(countries, maxListed), ", ")),
		Countries: countries,
	}, true
}

// selectCountries picks countries where col >= colThr and score <= hapThr.
// ok is false when either column is missing from the table.
func selectCountries(df dataframe.DataFrame, col string, colThr, hapThr float64) (countries []string, ok bool) {
	if !dataset.HasColumn(df, col) || !dataset.HasColumn(df, dataset.ColScore) {
		return nil, false
	}
	xs := dataset.Floats(df, col)
	scores := dataset.Floats(df, dataset.ColScore)
	var names []string
	if dataset.HasColumn(df, dataset.ColCountry) {
		names = df.Col(dataset.ColCountry).Records()
	}
	countries = []string{}
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(scores[i]) {
			continue
		}
		if xs[i] >= colThr && scores[i] <= hapThr {
			if names != nil {
				countries = append(countries, names[i])
			} else {
				countries = append(countries, fmt.Sprintf("row %d", i))
			}
		}
	}
	return countries, true
}

// OutlierMethod selects how Outliers flags unusual scores.
type OutlierMethod string

const (
	IQR    OutlierMethod = "iqr"    // outside 1.5*IQR from the quartiles
	ZScore OutlierMethod = "zscore" // |z| > 2
)

// Outliers flags countries whose happiness score is unusual under the
// chosen method. A finding is produced only when at least one row matches.
func Outliers(df dataframe.DataFrame, method OutlierMethod) (Finding, bool) {
	if !dataset.HasColumn(df, dataset.ColScore) {
		return Finding{}, false
	}
	scores := dataset.Floats(df, dataset.ColScore)
	var names []string
	if dataset.HasColumn(df, dataset.ColCountry) {
		names = df.Col(dataset.ColCountry).Records()
	}

	finite := make([]float64, 0, len(scores))
	for _, v := range scores {
		if !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) < 2 {
		return Finding{}, false
	}

	var flag func(float64) bool
	switch method {
	case ZScore:
		mean := stat.Mean(finite, nil)
		std := stat.StdDev(finite, nil)
		if std == 0 {
			return Finding{}, false
		}
		flag = func(v float64) bool { return math.Abs((v-mean)/std) > 2 }
	default:
		sorted := append([]float64(nil), finite...)
		sort.Float64s(sorted)
		q1 := index.Quantile(sorted, 0.25)
		q3 := index.Quantile(sorted, 0.75)
		iqr := q3 - q1
		lo, hi := q1-1.5*iqr, q3+1.5*iqr
		flag = func(v float64) bool { return v < lo || v > hi }
	}

	var countries []string
	for i, v := range scores {
		if math.IsNaN(v) || !flag(v) {
			continue
		}
		if names != nil {
			countries = append(countries, names[i])
		} else {
			countries = append(countries, fmt.Sprintf("row %d", i))
		}
	}
	if len(countries) == 0 {
		return Finding{}, false
	}
	return Finding{
		Text:      fmt.Sprintf("Happiness outliers: %s", strings.Join(head(countries, maxListed), ", ")),
		Countries: countries,
	}, true
}

// FreedomCorrelation wordsmiths the Freedom vs Happiness Score Pearson
// coefficient: strong above 0.7, moderate above 0.4, weak otherwise.
func FreedomCorrelation(df dataframe.DataFrame) (Finding, bool) {
	if !dataset.HasColumn(df, dataset.ColFreedom) || !dataset.HasColumn(df, dataset.ColScore) {
		return Finding{}, false
	}
	r, _, err := analyze.CorrelationWithScore(df, dataset.ColFreedom)
	if err != nil {
		return Finding{}, false
	}
	var strength string
	switch {
	case r > 0.7:
		strength = "Strong positive"
	case r > 0.4:
		strength = "Moderate positive"
	default:
		strength = "Weak"
	}
	return Finding{
		Text: fmt.Sprintf("%s freedom-happiness correlation (%.2f)", strength, r),
	}, true
}

// All runs every rule in the dashboard's order and collects the findings
// that apply. An empty method defaults to IQR outlier detection.
func All(df dataframe.DataFrame, th Thresholds, method OutlierMethod) []Finding {
	if method == "" {
		method = IQR
	}
	var out []Finding
	if f, ok := HighGDPLowHappiness(df, th.GDP, th.Happiness); ok {
		out = append(out, f)
	}
	if f, ok := Outliers(df, method); ok {
		out = append(out, f)
	}
	if f, ok := FreedomCorrelation(df); ok {
		out = append(out, f)
	}
	if f, ok := HighGenerosityLowHappiness(df, th.Generosity, th.Happiness); ok {
		out = append(out, f)
	}
	return out
}

// Save writes findings as a numbered text file, creating the directory if
// needed.
func Save(findings []Finding, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("mkdir insights dir: %w", err)
		}
	}
	var b strings.Builder
	for i, f := range findings {
		fmt.Fprintf(&b, "%d. %s\n", i+1, f.Text)
	}
	return utils.SafeWriteFile(path, []byte(b.String()))
}

func head(xs []string, n int) []string {
	if len(xs) > n {
		return xs[:n]
	}
	return xs
}
