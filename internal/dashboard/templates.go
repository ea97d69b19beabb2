package dashboard

import (
	"html/template"
	"math"
	"net/http"
	"strconv"

	"github.com/hbarrett/happidex/internal/analyze"
	"github.com/hbarrett/happidex/internal/index"
	"github.com/hbarrett/happidex/internal/insight"
)

type overviewData struct {
	Source   string
	Rows     int
	Top      []analyze.CountryScore
	Bottom   []analyze.CountryScore
	Regional []analyze.RegionSummary
}

type compositeData struct {
	Source     string
	Indicators []string
	Weights    map[string]float64
	Table      *index.ComparisonTable
	Stats      *index.Stats
}

type insightsData struct {
	Source   string
	Findings []insight.Finding
}

var funcs = template.FuncMap{
	"num": func(v float64) string {
		if math.IsNaN(v) {
			return "n/a"
		}
		return strconv.FormatFloat(v, 'f', 3, 64)
	},
	"weight": func(m map[string]float64, k string) string {
		return strconv.FormatFloat(m[k], 'f', 3, 64)
	},
}

var pages = template.Must(template.New("dashboard").Funcs(funcs).Parse(pageHTML))

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		s.log.Error("render template", "name", name, "err", err)
	}
}

const pageHTML = `
{{define "head"}}<!doctype html>
<html><head><meta charset="utf-8"><title>happidex</title>
<style>
body{font-family:sans-serif;margin:2em;max-width:70em}
nav a{margin-right:1.2em}
table{border-collapse:collapse;margin:1em 0}
th,td{border:1px solid #ccc;padding:.3em .7em;text-align:left}
th{background:#f0f0f0}
img{max-width:100%;border:1px solid #ddd;margin:.5em 0}
.meta{color:#666;font-size:.9em}
</style></head><body>
<nav><a href="/">Overview</a><a href="/composite">Composite Index</a><a href="/insights">Insights</a></nav>
{{end}}

{{define "foot"}}</body></html>{{end}}

{{define "overview"}}{{template "head"}}
<h1>World Happiness Overview</h1>
<p class="meta">{{.Source}} ({{.Rows}} rows)</p>
<h2>Top Countries</h2>
<table><tr><th>Country</th><th>Region</th><th>Score</th></tr>
{{range .Top}}<tr><td>{{.Country}}</td><td>{{.Region}}</td><td>{{num .Score}}</td></tr>{{end}}
</table>
<h2>Bottom Countries</h2>
<table><tr><th>Country</th><th>Region</th><th>Score</th></tr>
{{range .Bottom}}<tr><td>{{.Country}}</td><td>{{.Region}}</td><td>{{num .Score}}</td></tr>{{end}}
</table>
{{if .Regional}}<h2>Regional Averages</h2>
<table><tr><th>Region</th><th>Mean</th><th>Std</th><th>Countries</th></tr>
{{range .Regional}}<tr><td>{{.Region}}</td><td>{{num .Mean}}</td><td>{{num .Std}}</td><td>{{.Count}}</td></tr>{{end}}
</table>{{end}}
<h2>Charts</h2>
<img src="/charts/countries.png" alt="country comparison">
<img src="/charts/regions.png" alt="regional averages">
<img src="/charts/gdp.png" alt="gdp vs happiness">
<img src="/charts/heatmap.png" alt="correlation heatmap">
<img src="/charts/top_bottom.png" alt="top and bottom countries">
{{template "foot"}}{{end}}

{{define "composite"}}{{template "head"}}
<h1>Composite Happiness Index</h1>
<p class="meta">{{.Source}}</p>
<form method="get" action="/composite">
{{$w := .Weights}}
{{range .Indicators}}<label>{{.}} <input name="w.{{.}}" size="6" value="{{weight $w .}}"></label><br>{{end}}
<button type="submit">Recompute</button>
</form>
{{with .Stats}}<h2>Index Statistics</h2>
<table><tr><th>Mean</th><th>Median</th><th>Std</th><th>Min</th><th>Max</th><th>Q25</th><th>Q75</th></tr>
<tr><td>{{num .Mean}}</td><td>{{num .Median}}</td><td>{{num .Std}}</td><td>{{num .Min}}</td><td>{{num .Max}}</td><td>{{num .Q25}}</td><td>{{num .Q75}}</td></tr>
</table>{{end}}
<h2>Ranking</h2>
<table><tr><th>#</th>{{if .Table.HasCountry}}<th>Country</th>{{end}}{{if .Table.HasRegion}}<th>Region</th>{{end}}<th>Original</th><th>Composite</th>{{if and .Table.HasOriginalRank .Table.HasCompositeRank}}<th>Rank &Delta;</th>{{end}}<th>Score &Delta;</th></tr>
{{$t := .Table}}
{{range .Table.Rows}}<tr><td>{{.CompositeRank}}</td>{{if $t.HasCountry}}<td>{{.Country}}</td>{{end}}{{if $t.HasRegion}}<td>{{.Region}}</td>{{end}}<td>{{num .OriginalScore}}</td><td>{{num .CompositeIndex}}</td>{{if and $t.HasOriginalRank $t.HasCompositeRank}}<td>{{.RankDifference}}</td>{{end}}<td>{{num .ScoreDifference}}</td></tr>{{end}}
</table>
{{template "foot"}}{{end}}

{{define "insights"}}{{template "head"}}
<h1>Insights</h1>
<p class="meta">{{.Source}}</p>
<ol>
{{range .Findings}}<li>{{.Text}}</li>{{end}}
</ol>
{{template "foot"}}{{end}}
`
