package chart

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/plot/vg"
)

func chartFrame(t *testing.T) dataframe.DataFrame {
	t.Helper()
	df := dataframe.LoadRecords([][]string{
		{"Country", "Region", "Happiness Score", "Economy (GDP per Capita)"},
		{"Alpha", "North", "7.5", "1.5"},
		{"Beta", "North", "6.0", "1.0"},
		{"Gamma", "South", "4.0", "0.5"},
	})
	if df.Err != nil {
		t.Fatalf("load records: %v", df.Err)
	}
	return df
}

func TestCountryBarPlot(t *testing.T) {
	p, err := CountryBarPlot(chartFrame(t), 2)
	if err != nil {
		t.Fatalf("CountryBarPlot: %v", err)
	}
	if p == nil {
		t.Fatalf("expected a plot")
	}
	var buf bytes.Buffer
	if err := WritePNG(p, 4*vg.Inch, 3*vg.Inch, &buf); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Fatalf("not a png payload")
	}
}

func TestBuildersSkipMissingColumns(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"Country", "Happiness Score"},
		{"Alpha", "7.5"},
		{"Beta", "6.0"},
	})
	if p, err := RegionBarPlot(df); err != nil || p != nil {
		t.Fatalf("RegionBarPlot = %v, %v; want nil, nil", p, err)
	}
	if p, err := GDPScatterPlot(df); err != nil || p != nil {
		t.Fatalf("GDPScatterPlot = %v, %v; want nil, nil", p, err)
	}
}

func TestWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	if err := WriteAll(chartFrame(t), dir, 3); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	for _, name := range []string{
		"country_comparison.png",
		"region_comparison.png",
		"gdp_vs_happiness.png",
		"correlation_heatmap.png",
		"top_bottom_comparison.png",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("chart %s not written: %v", name, err)
		}
	}
}
