// Package chart renders the dashboard figures with gonum/plot. Builders
// return a nil plot when their source columns are missing, following the
// pipeline's permissive contract; the file renderers then skip the chart
// without error.
package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/hbarrett/happidex/internal/analyze"
	"github.com/hbarrett/happidex/internal/dataset"
	"github.com/hbarrett/happidex/internal/utils"
)

var (
	steelBlue = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	coral     = color.RGBA{R: 255, G: 127, B: 80, A: 255}
	green     = color.RGBA{R: 46, G: 139, B: 87, A: 255}
	red       = color.RGBA{R: 205, G: 92, B: 92, A: 255}
)

// CountryBarPlot builds a bar chart of the top n countries by happiness
// score. Returns nil when the score column is missing or empty.
func CountryBarPlot(df dataframe.DataFrame, n int) (*plot.Plot, error) {
	top, err := analyze.TopCountries(df, n)
	if err != nil || len(top) == 0 {
		return nil, nil
	}
	values := make(plotter.Values, len(top))
	names := make([]string, len(top))
	for i, cs := range top {
		values[i] = cs.Score
		names[i] = cs.Country
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Top %d Countries by Happiness Score", len(top))
	p.Y.Label.Text = "Happiness Score"
	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return nil, fmt.Errorf("country bar chart: %w", err)
	}
	bars.Color = steelBlue
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)
	rotateXLabels(p)
	return p, nil
}

// RegionBarPlot builds a bar chart of average happiness per region.
func RegionBarPlot(df dataframe.DataFrame) (*plot.Plot, error) {
	regions, err := analyze.RegionalSummary(df)
	if err != nil || len(regions) == 0 {
		return nil, nil
	}
	values := make(plotter.Values, len(regions))
	names := make([]string, len(regions))
	for i, rs := range regions {
		values[i] = rs.Mean
		names[i] = rs.Region
	}

	p := plot.New()
	p.Title.Text = "Average Happiness Score by Region"
	p.Y.Label.Text = "Average Happiness Score"
	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return nil, fmt.Errorf("region bar chart: %w", err)
	}
	bars.Color = coral
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)
	rotateXLabels(p)
	return p, nil
}

// GDPScatterPlot builds a scatter of GDP per capita against happiness.
func GDPScatterPlot(df dataframe.DataFrame) (*plot.Plot, error) {
	if !dataset.HasColumn(df, dataset.ColGDP) || !dataset.HasColumn(df, dataset.ColScore) {
		return nil, nil
	}
	xs := dataset.Floats(df, dataset.ColGDP)
	ys := dataset.Floats(df, dataset.ColScore)
	pts := make(plotter.XYs, 0, len(xs))
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
	}
	if len(pts) == 0 {
		return nil, nil
	}

	p := plot.New()
	p.Title.Text = "GDP vs Happiness Score"
	p.X.Label.Text = "GDP per Capita"
	p.Y.Label.Text = "Happiness Score"
	p.Add(plotter.NewGrid())
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("gdp scatter: %w", err)
	}
	scatter.GlyphStyle.Color = steelBlue
	scatter.GlyphStyle.Radius = vg.Points(3)
	p.Add(scatter)
	return p, nil
}

// corrGrid adapts a correlation matrix to plotter.GridXYZ. Rows are
// flipped so the first column reads from the top like a table.
type corrGrid struct {
	m *analyze.CorrMatrix
}

func (g corrGrid) Dims() (c, r int)   { return len(g.m.Columns), len(g.m.Columns) }
func (g corrGrid) Z(c, r int) float64 { return g.m.Values[len(g.m.Columns)-1-r][c] }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }

// HeatmapPlot builds the Pearson correlation heat map over all numeric
// columns. Needs at least two numeric columns.
func HeatmapPlot(df dataframe.DataFrame) (*plot.Plot, error) {
	m := analyze.CorrelationMatrix(df, analyze.Pearson)
	if len(m.Columns) < 2 {
		return nil, nil
	}
	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	heat := plotter.NewHeatMap(corrGrid{m: m}, cm.Palette(255))
	heat.Min = -1
	heat.Max = 1

	p := plot.New()
	p.Title.Text = "Correlation Heatmap"
	p.Add(heat)

	ticksX := make([]plot.Tick, len(m.Columns))
	ticksY := make([]plot.Tick, len(m.Columns))
	for i, col := range m.Columns {
		ticksX[i] = plot.Tick{Value: float64(i), Label: col}
		ticksY[i] = plot.Tick{Value: float64(len(m.Columns) - 1 - i), Label: col}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticksX)
	p.Y.Tick.Marker = plot.ConstantTicks(ticksY)
	rotateXLabels(p)
	return p, nil
}

// TopBottomPlot draws the top n and bottom m countries on one axis, top
// bars green and bottom bars red.
func TopBottomPlot(df dataframe.DataFrame, topN, bottomN int) (*plot.Plot, error) {
	top, bottom, err := analyze.TopBottom(df, topN, bottomN)
	if err != nil || len(top) == 0 {
		return nil, nil
	}
	total := len(top) + len(bottom)

	topVals := make(plotter.Values, total)
	botVals := make(plotter.Values, total)
	names := make([]string, total)
	for i, cs := range top {
		topVals[i] = cs.Score
		names[i] = cs.Country
	}
	for i, cs := range bottom {
		botVals[len(top)+i] = cs.Score
		names[len(top)+i] = cs.Country
	}

	p := plot.New()
	p.Title.Text = "Top vs Bottom Countries by Happiness Score"
	p.Y.Label.Text = "Happiness Score"
	topBars, err := plotter.NewBarChart(topVals, vg.Points(14))
	if err != nil {
		return nil, fmt.Errorf("top bars: %w", err)
	}
	botBars, err := plotter.NewBarChart(botVals, vg.Points(14))
	if err != nil {
		return nil, fmt.Errorf("bottom bars: %w", err)
	}
	topBars.Color = green
	topBars.LineStyle.Width = 0
	botBars.Color = red
	botBars.LineStyle.Width = 0
	p.Add(topBars, botBars)
	p.Legend.Add(fmt.Sprintf("Top %d", len(top)), topBars)
	p.Legend.Add(fmt.Sprintf("Bottom %d", len(bottom)), botBars)
	p.Legend.Top = true
	p.NominalX(names...)
	rotateXLabels(p)
	return p, nil
}

// WriteAll renders every chart into dir using the conventional file names.
// Charts whose source columns are missing are skipped.
func WriteAll(df dataframe.DataFrame, dir string, topN int) error {
	if err := utils.EnsureDir(dir); err != nil {
		return fmt.Errorf("mkdir charts dir: %w", err)
	}
	renderers := []struct {
		name  string
		build func() (*plot.Plot, error)
	}{
		{"country_comparison.png", func() (*plot.Plot, error) { return CountryBarPlot(df, topN) }},
		{"region_comparison.png", func() (*plot.Plot, error) { return RegionBarPlot(df) }},
		{"gdp_vs_happiness.png", func() (*plot.Plot, error) { return GDPScatterPlot(df) }},
		{"correlation_heatmap.png", func() (*plot.Plot, error) { return HeatmapPlot(df) }},
		{"top_bottom_comparison.png", func() (*plot.Plot, error) { return TopBottomPlot(df, topN, topN) }},
	}
	for _, r := range renderers {
		p, err := r.build()
		if err != nil {
			return err
		}
		if p == nil {
			continue
		}
		if err := p.Save(10*vg.Inch, 6*vg.Inch, filepath.Join(dir, r.name)); err != nil {
			return fmt.Errorf("save %s: %w", r.name, err)
		}
	}
	return nil
}

// WritePNG streams a rendered plot as PNG, used by the dashboard handlers.
func WritePNG(p *plot.Plot, w, h vg.Length, out io.Writer) error {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	if _, err := wt.WriteTo(out); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

func rotateXLabels(p *plot.Plot) {
	p.X.Tick.Label.Rotation = math.Pi / 3
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
}
