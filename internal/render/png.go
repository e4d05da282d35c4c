package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/banshee-data/omv.report/internal/voter"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	barThickness = 11 // points
	rowPitch     = 16 // points per county row
)

// sharePlot builds Chart A: one horizontal bar per county, stacked by party
// category, highest total motor-voter share at the top.
func sharePlot(counties []voter.CountySummary, categories []voter.PartyCategory, subtitle string) (*plot.Plot, vg.Length, error) {
	n := len(counties)
	// NominalY puts the first name at the bottom
	row := func(i int) int { return n - 1 - i }

	names := make([]string, n)
	for i, c := range counties {
		names[row(i)] = countyLabel(c.County)
	}

	p := plot.New()
	p.Title.Text = plotTitle("Motor voter share of active registrations by county", subtitle)
	p.X.Label.Text = "Motor voter registrations (% of county total)"
	p.Legend.Top = false
	p.Legend.Left = false

	colors := categoryPalette(categories)
	var below *plotter.BarChart
	for k, cat := range categories {
		vals := make(plotter.Values, n)
		for i, c := range counties {
			vals[row(i)] = 100 * c.ByCategory[cat]
		}
		bars, err := plotter.NewBarChart(vals, vg.Points(barThickness))
		if err != nil {
			return nil, 0, fmt.Errorf("bars for %s: %w", cat, err)
		}
		bars.Horizontal = true
		bars.Color = colors[k]
		bars.LineStyle.Width = 0
		if below != nil {
			bars.StackOn(below)
		}
		p.Add(bars)
		p.Legend.Add(string(cat), bars)
		below = bars
	}

	totals := make(plotter.XYs, n)
	labels := make([]string, n)
	var maxTotal float64
	for i, c := range counties {
		pct := 100 * c.Proportion
		totals[row(i)] = plotter.XY{X: pct, Y: float64(row(i))}
		labels[row(i)] = fmt.Sprintf("%.1f%%", pct)
		maxTotal = math.Max(maxTotal, pct)
	}
	lbl, err := plotter.NewLabels(plotter.XYLabels{XYs: totals, Labels: labels})
	if err != nil {
		return nil, 0, err
	}
	lbl.Offset = vg.Point{X: vg.Points(4)}
	for i := range lbl.TextStyle {
		lbl.TextStyle[i].YAlign = text.YCenter
		lbl.TextStyle[i].Font.Size = vg.Points(8)
	}
	p.Add(lbl)

	p.NominalY(names...)
	p.X.Min = 0
	p.X.Max = math.Max(1, maxTotal*1.15)

	height := vg.Length(n)*vg.Points(rowPitch) + 1.5*vg.Inch
	return p, height, nil
}

// sizePlot builds Chart B: county registered-voter total on a log axis
// against mean motor-voter share, one labelled point per county.
func sizePlot(counties []voter.CountySummary, subtitle string) (*plot.Plot, error) {
	pts := make(plotter.XYs, len(counties))
	names := make([]string, len(counties))
	minTotal, maxTotal := math.Inf(1), 0.0
	for i, c := range counties {
		total := float64(c.Total)
		pts[i] = plotter.XY{X: total, Y: 100 * c.MeanProportion}
		names[i] = countyLabel(c.County)
		minTotal = math.Min(minTotal, total)
		maxTotal = math.Max(maxTotal, total)
	}

	p := plot.New()
	p.Title.Text = plotTitle("County size vs motor voter share", subtitle)
	p.X.Label.Text = "Active registered voters (log scale)"
	p.Y.Label.Text = "Mean motor voter share (%)"
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())

	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, err
	}
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	sc.GlyphStyle.Radius = vg.Points(3)
	sc.GlyphStyle.Color = categoryColors[voter.Democrat]
	p.Add(sc)

	lbl, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: names})
	if err != nil {
		return nil, err
	}
	lbl.Offset = vg.Point{X: vg.Points(5)}
	for i := range lbl.TextStyle {
		lbl.TextStyle[i].YAlign = text.YCenter
		lbl.TextStyle[i].Font.Size = vg.Points(7)
	}
	p.Add(lbl)

	// log axes need strictly positive bounds, with room for the labels
	p.X.Min = minTotal / 2
	p.X.Max = maxTotal * 3
	p.Y.Min = 0
	return p, nil
}

func encodePNG(p *plot.Plot, w, h vg.Length) ([]byte, error) {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// plotTitle puts the subtitle on a second title line.
func plotTitle(title, subtitle string) string {
	if subtitle == "" {
		return title
	}
	return title + "\n" + subtitle
}

func countyLabel(name string) string {
	if name == "" {
		return "(unknown)"
	}
	return name
}
