package report

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hbarrett/happidex/internal/analyze"
	"github.com/hbarrett/happidex/internal/clean"
	"github.com/hbarrett/happidex/internal/index"
	"github.com/hbarrett/happidex/internal/insight"
)

func sampleReport() *Report {
	r := New("data/raw/WorldHappiness.csv")
	r.Validation = &clean.Summary{
		Rows:    3,
		Columns: 5,
		Missing: map[string]int{"Economy (GDP per Capita)": 1},
	}
	r.Top = []analyze.CountryScore{
		{Country: "Switzerland", Region: "Western Europe", Score: 7.587},
	}
	r.Bottom = []analyze.CountryScore{
		{Country: "Togo", Region: "Sub-Saharan Africa", Score: 2.839},
	}
	r.Regional = []analyze.RegionSummary{
		{Region: "Western Europe", Mean: 6.7, Std: 0.7, Count: 21},
		{Region: "Lone | Region", Mean: 5.0, Std: math.NaN(), Count: 1},
	}
	r.ScoreCorr = map[string]float64{"Freedom": 0.57, "Generosity": 0.18}
	r.Comparison = &index.ComparisonTable{
		HasCountry:       true,
		HasOriginalRank:  true,
		HasCompositeRank: true,
		Rows: []index.Comparison{
			{Country: "Switzerland", OriginalScore: 7.587, CompositeIndex: 8.1, CompositeRank: 1, OriginalRank: 1, ScoreDifference: 0.513},
			{Country: "Togo", OriginalScore: 2.839, CompositeIndex: 1.2, CompositeRank: 2, OriginalRank: 2, ScoreDifference: -1.639},
		},
	}
	r.Stats = &index.Stats{Mean: 4.65, Median: 4.65, Std: 4.88, Min: 1.2, Max: 8.1, Q25: 2.925, Q75: 6.375}
	r.Findings = []insight.Finding{{Text: "Strong positive freedom-happiness correlation (0.87)"}}
	return r
}

func TestMarkdownSections(t *testing.T) {
	md := sampleReport().Markdown()
	for _, want := range []string{
		"[HAPPINESS REPORT]",
		"Source: WorldHappiness.csv",
		"[VALIDATION]",
		"Missing values: 1",
		"[TOP 1 COUNTRIES]",
		"[BOTTOM 1 COUNTRIES]",
		"[REGIONAL AVERAGES]",
		"[CORRELATIONS WITH HAPPINESS SCORE]",
		"- Freedom: 0.570",
		"[COMPOSITE INDEX]",
		"[INDEX STATISTICS]",
		"[INSIGHTS]",
		"1. Strong positive freedom-happiness correlation (0.87)",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestMarkdownEscapesAndNaN(t *testing.T) {
	md := sampleReport().Markdown()
	if strings.Contains(md, "Lone | Region") {
		t.Fatalf("pipe not escaped in region name:\n%s", md)
	}
	if !strings.Contains(md, "Lone / Region") {
		t.Fatalf("escaped region missing:\n%s", md)
	}
	if !strings.Contains(md, "n/a") {
		t.Fatalf("NaN std not rendered as n/a:\n%s", md)
	}
}

func TestMarkdownOmitsEmptySections(t *testing.T) {
	md := New("x.csv").Markdown()
	for _, section := range []string{"[VALIDATION]", "[REGIONAL AVERAGES]", "[COMPOSITE INDEX]", "[INSIGHTS]"} {
		if strings.Contains(md, section) {
			t.Fatalf("empty report should omit %s:\n%s", section, md)
		}
	}
}

func TestComparisonRowLimit(t *testing.T) {
	r := sampleReport()
	r.MaxComparisonRows = 1
	md := r.Markdown()
	// Togo also appears in the bottom-countries table, so check the
	// comparison section on its own.
	idx := strings.Index(md, "[COMPOSITE INDEX]")
	if idx < 0 {
		t.Fatalf("comparison section missing:\n%s", md)
	}
	section := md[idx:]
	if end := strings.Index(section, "[INDEX STATISTICS]"); end >= 0 {
		section = section[:end]
	}
	if !strings.Contains(section, "... 1 more rows") {
		t.Fatalf("truncation note missing:\n%s", md)
	}
	if strings.Contains(section, "| Togo |") {
		t.Fatalf("truncated row still rendered:\n%s", md)
	}
	if !strings.Contains(section, "| Switzerland |") {
		t.Fatalf("kept row missing from comparison section:\n%s", md)
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "happiness_report.md")
	if err := sampleReport().Write(path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), "[HAPPINESS REPORT]") {
		t.Fatalf("written report malformed")
	}
}
