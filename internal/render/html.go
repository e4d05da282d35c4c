package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/banshee-data/omv.report/internal/voter"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// shareHTML is the interactive rendition of Chart A.
func shareHTML(counties []voter.CountySummary, categories []voter.PartyCategory, o Options) ([]byte, error) {
	n := len(counties)
	// category axes run bottom-up; reverse so the highest share is on top
	names := make([]string, n)
	for i, c := range counties {
		names[n-1-i] = countyLabel(c.County)
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:  "Motor voter share by county",
			Width:      "1000px",
			Height:     fmt.Sprintf("%dpx", 120+22*n),
			AssetsHost: o.AssetsHost,
		}),
		charts.WithTitleOpts(opts.Title{Title: "Motor voter share of active registrations by county", Subtitle: o.Subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "5%"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "% of county total", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category"}),
	)
	bar.SetXAxis(names)

	colors := categoryPalette(categories)
	for k, cat := range categories {
		data := make([]opts.BarData, n)
		for i, c := range counties {
			d := opts.BarData{Name: countyLabel(c.County), Value: round2(100 * c.ByCategory[cat])}
			// the last segment carries the county total
			if k == len(categories)-1 {
				d.Label = &opts.Label{
					Show:      opts.Bool(true),
					Position:  "right",
					Formatter: types.FuncStr(fmt.Sprintf("%.1f%%", 100*c.Proportion)),
				}
			}
			data[n-1-i] = d
		}
		bar.AddSeries(string(cat), data,
			charts.WithBarChartOpts(opts.BarChart{Stack: "total"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: hexColor(colors[k])}),
		)
	}
	bar.XYReversal()

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// sizeHTML is the interactive rendition of Chart B.
func sizeHTML(counties []voter.CountySummary, o Options) ([]byte, error) {
	data := make([]opts.ScatterData, 0, len(counties))
	for _, c := range counties {
		data = append(data, opts.ScatterData{
			Name:  countyLabel(c.County),
			Value: []interface{}{c.Total, round2(100 * c.MeanProportion)},
		})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:  "County size vs motor voter share",
			Width:      "1000px",
			Height:     "700px",
			AssetsHost: o.AssetsHost,
		}),
		charts.WithTitleOpts(opts.Title{Title: "County size vs motor voter share", Subtitle: o.Subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "log", Name: "Active registered voters", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Mean motor voter share (%)", NameLocation: "middle", NameGap: 40}),
	)
	scatter.AddSeries("counties", data,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "right", Formatter: "{b}"}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: hexColor(categoryColors[voter.Democrat])}),
	)

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
