package report

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"ledger/internal/core"
)

const (
	chartWidth  = 800
	chartHeight = 600
)

var palette = []drawing.Color{
	{R: 77, G: 184, B: 255, A: 255},
	{R: 250, G: 134, B: 94, A: 255},
	{R: 165, G: 235, B: 91, A: 255},
	{R: 252, G: 201, B: 100, A: 255},
	{R: 208, G: 134, B: 255, A: 255},
	{R: 255, G: 99, B: 132, A: 255},
	{R: 54, G: 162, B: 235, A: 255},
	{R: 153, G: 102, B: 255, A: 255},
}

// WritePieChart renders the expense breakdown as a PNG pie chart. Colors are
// assigned in breakdown order, so a category keeps its color as long as it
// keeps its position.
func WritePieChart(w io.Writer, categories []core.CategoryAmount) error {
	if len(categories) == 0 {
		return fmt.Errorf("pie chart: no expense categories: %w", core.ErrEmptyExportSet)
	}

	values := make([]chart.Value, 0, len(categories))
	for i, c := range categories {
		color := palette[i%len(palette)]
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%s)", c.Name, core.FormatAmount(c.Amount)),
			Value: c.Amount.InexactFloat64(),
			Style: chart.Style{
				FillColor:   color,
				StrokeColor: color.WithAlpha(255),
			},
		})
	}

	pie := chart.PieChart{
		Title:  "Expenses by category",
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Values: values,
	}
	if err := pie.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render pie chart: %w", err)
	}
	return nil
}
