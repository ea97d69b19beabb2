// Package report assembles the analysis results into a markdown document
// suitable for stdout, a file, or attachment to a generated report run.
package report

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hbarrett/happidex/internal/analyze"
	"github.com/hbarrett/happidex/internal/clean"
	"github.com/hbarrett/happidex/internal/index"
	"github.com/hbarrett/happidex/internal/insight"
	"github.com/hbarrett/happidex/internal/utils"
)

// Report collects the sections of one analysis run. Nil or empty sections
// are omitted from the rendered markdown.
type Report struct {
	ID          string
	GeneratedAt time.Time
	Source      string

	Validation *clean.Summary
	Top        []analyze.CountryScore
	Bottom     []analyze.CountryScore
	Regional   []analyze.RegionSummary
	ScoreCorr  map[string]float64 // column -> Pearson r vs Happiness Score
	Comparison *index.ComparisonTable
	Stats      *index.Stats
	Findings   []insight.Finding

	// MaxComparisonRows caps the comparison table; 0 means all rows.
	MaxComparisonRows int
}

// New starts a report for the given source file with a fresh run id.
func New(source string) *Report {
	return &Report{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now(),
		Source:      source,
	}
}

// Markdown renders the report.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[HAPPINESS REPORT]\n")
	if r.Source != "" {
		fmt.Fprintf(&b, "Source: %s\n", filepath.Base(r.Source))
	}
	fmt.Fprintf(&b, "Run: %s\n", r.ID)
	fmt.Fprintf(&b, "Generated: %s\n", r.GeneratedAt.Format(time.RFC3339))

	if r.Validation != nil {
		b.WriteString("\n[VALIDATION]\n")
		fmt.Fprintf(&b, "Rows: %d\n", r.Validation.Rows)
		fmt.Fprintf(&b, "Columns: %d\n", r.Validation.Columns)
		fmt.Fprintf(&b, "Missing values: %d\n", r.Validation.TotalMissing())
		cols := make([]string, 0, len(r.Validation.Missing))
		for c, n := range r.Validation.Missing {
			if n > 0 {
				cols = append(cols, c)
			}
		}
		sort.Strings(cols)
		for _, c := range cols {
			fmt.Fprintf(&b, "- %s: %d missing\n", c, r.Validation.Missing[c])
		}
	}

	if len(r.Top) > 0 {
		fmt.Fprintf(&b, "\n[TOP %d COUNTRIES]\n", len(r.Top))
		writeCountryTable(&b, r.Top)
	}
	if len(r.Bottom) > 0 {
		fmt.Fprintf(&b, "\n[BOTTOM %d COUNTRIES]\n", len(r.Bottom))
		writeCountryTable(&b, r.Bottom)
	}

	if len(r.Regional) > 0 {
		b.WriteString("\n[REGIONAL AVERAGES]\n")
		b.WriteString("| Region | Average | Std Dev | Count |\n")
		b.WriteString("| --- | --- | --- | --- |\n")
		for _, rs := range r.Regional {
			fmt.Fprintf(&b, "| %s | %.3f | %s | %d |\n", safeVal(rs.Region), rs.Mean, num(rs.Std, 3), rs.Count)
		}
	}

	if len(r.ScoreCorr) > 0 {
		b.WriteString("\n[CORRELATIONS WITH HAPPINESS SCORE]\n")
		cols := make([]string, 0, len(r.ScoreCorr))
		for c := range r.ScoreCorr {
			cols = append(cols, c)
		}
		sort.Slice(cols, func(i, j int) bool {
			a, z := r.ScoreCorr[cols[i]], r.ScoreCorr[cols[j]]
			if a == z {
				return cols[i] < cols[j]
			}
			return a > z
		})
		for _, c := range cols {
			fmt.Fprintf(&b, "- %s: %.3f\n", c, r.ScoreCorr[c])
		}
	}

	if r.Comparison != nil && len(r.Comparison.Rows) > 0 {
		b.WriteString("\n[COMPOSITE INDEX]\n")
		writeComparison(&b, r.Comparison, r.MaxComparisonRows)
	}

	if r.Stats != nil {
		b.WriteString("\n[INDEX STATISTICS]\n")
		fmt.Fprintf(&b, "- mean %s, median %s, std %s\n", num(r.Stats.Mean, 3), num(r.Stats.Median, 3), num(r.Stats.Std, 3))
		fmt.Fprintf(&b, "- min %s, max %s, q25 %s, q75 %s\n", num(r.Stats.Min, 3), num(r.Stats.Max, 3), num(r.Stats.Q25, 3), num(r.Stats.Q75, 3))
	}

	if len(r.Findings) > 0 {
		b.WriteString("\n[INSIGHTS]\n")
		for i, f := range r.Findings {
			fmt.Fprintf(&b, "%d. %s\n", i+1, f.Text)
		}
	}
	return b.String()
}

// Write saves the markdown atomically.
func (r *Report) Write(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("mkdir report dir: %w", err)
		}
	}
	return utils.SafeWriteFile(path, []byte(r.Markdown()))
}

func writeCountryTable(b *strings.Builder, rows []analyze.CountryScore) {
	b.WriteString("| Country | Region | Happiness Score |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, cs := range rows {
		fmt.Fprintf(b, "| %s | %s | %.3f |\n", safeVal(cs.Country), safeVal(cs.Region), cs.Score)
	}
}

func writeComparison(b *strings.Builder, t *index.ComparisonTable, limit int) {
	header := []string{}
	if t.HasCountry {
		header = append(header, "Country")
	}
	if t.HasRegion {
		header = append(header, "Region")
	}
	header = append(header, "Score", "Composite Index")
	if t.HasCompositeRank {
		header = append(header, "Composite Rank")
	}
	if t.HasOriginalRank {
		header = append(header, "Original Rank")
	}
	if t.HasOriginalRank && t.HasCompositeRank {
		header = append(header, "Rank Diff")
	}
	header = append(header, "Score Diff")

	fmt.Fprintf(b, "| %s |\n", strings.Join(header, " | "))
	fmt.Fprintf(b, "|%s\n", strings.Repeat(" --- |", len(header)))

	rows := t.Rows
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	for _, row := range rows {
		cells := []string{}
		if t.HasCountry {
			cells = append(cells, safeVal(row.Country))
		}
		if t.HasRegion {
			cells = append(cells, safeVal(row.Region))
		}
		cells = append(cells,
			num(row.OriginalScore, 3),
			num(row.CompositeIndex, 3),
		)
		if t.HasCompositeRank {
			cells = append(cells, fmt.Sprintf("%d", row.CompositeRank))
		}
		if t.HasOriginalRank {
			cells = append(cells, fmt.Sprintf("%d", row.OriginalRank))
		}
		if t.HasOriginalRank && t.HasCompositeRank {
			cells = append(cells, fmt.Sprintf("%+d", row.RankDifference))
		}
		cells = append(cells, num(row.ScoreDifference, 3))
		fmt.Fprintf(b, "| %s |\n", strings.Join(cells, " | "))
	}
	if limit > 0 && len(t.Rows) > limit {
		fmt.Fprintf(b, "... %d more rows\n", len(t.Rows)-limit)
	}
}

func num(v float64, prec int) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", prec, v)
}

func safeVal(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}
