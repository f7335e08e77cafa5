// Package benchplot draws the balance of a tree over a bench run as an
// interactive HTML line chart.
package benchplot

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/rbset/internal/workload"
	"github.com/Sumatoshi-tech/rbset/pkg/rbtree/rbdebug"
)

// Dark theme colors.
const (
	colorBackground = "#1f2937"
	colorText       = "#f3f4f6"
	colorTextMuted  = "#9ca3af"
	colorAxis       = "#4b5563"
	colorGrid       = "#374151"
	colorHeight     = "#ef4444"
	colorBlack      = "#d1d5db"
	colorBound      = "#f59e0b"
	colorSize       = "#3b82f6"
	lineWidth       = 2
)

// Series names.
const (
	SeriesHeight      = "Height"
	SeriesBlackHeight = "Black height"
	SeriesBound       = "2·log2(n+1)"
	SeriesSize        = "Size"
)

// ErrNoSamples is returned when a run recorded no checkpoints.
var ErrNoSamples = errors.New("benchplot: no samples; enable workload.validate_every")

// Chart builds the line chart for the given checkpoints.
func Chart(samples []workload.Sample) (*charts.Line, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	labels := make([]string, len(samples))
	height := make([]opts.LineData, len(samples))
	blackHeight := make([]opts.LineData, len(samples))
	bound := make([]opts.LineData, len(samples))
	size := make([]opts.LineData, len(samples))

	for idx, sample := range samples {
		labels[idx] = strconv.Itoa(sample.Operation)
		height[idx] = opts.LineData{Value: sample.Height}
		blackHeight[idx] = opts.LineData{Value: sample.BlackHeight}
		bound[idx] = opts.LineData{Value: rbdebug.HeightBound(sample.Size)}
		size[idx] = opts.LineData{Value: sample.Size, YAxisIndex: 1}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:           "100%",
			Height:          "500px",
			BackgroundColor: colorBackground,
			Theme:           "dark",
			PageTitle:       "rbset bench",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:         "Tree balance",
			Subtitle:      "height and black height against the red-black bound",
			Left:          "center",
			TitleStyle:    &opts.TextStyle{Color: colorText},
			SubtitleStyle: &opts.TextStyle{Color: colorTextMuted},
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:      opts.Bool(true),
			Top:       "10%",
			Left:      "center",
			TextStyle: &opts.TextStyle{Color: colorTextMuted},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}, opts.DataZoom{Type: "inside"}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "Operations",
			AxisLabel: &opts.AxisLabel{Color: colorTextMuted},
			AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: colorAxis}},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "Levels",
			AxisLabel: &opts.AxisLabel{Color: colorTextMuted},
			SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: colorGrid}},
		}),
		charts.WithGridOpts(opts.Grid{Top: "25%", Bottom: "15%", Left: "5%", Right: "5%", ContainLabel: opts.Bool(true)}),
	)
	line.ExtendYAxis(opts.YAxis{
		Name:      "Values",
		AxisLabel: &opts.AxisLabel{Color: colorTextMuted},
	})

	line.SetXAxis(labels).
		AddSeries(SeriesHeight, height,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colorHeight}),
			charts.WithLineStyleOpts(opts.LineStyle{Width: lineWidth}),
		).
		AddSeries(SeriesBlackHeight, blackHeight,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colorBlack}),
			charts.WithLineStyleOpts(opts.LineStyle{Width: lineWidth}),
		).
		AddSeries(SeriesBound, bound,
			charts.WithLineChartOpts(opts.LineChart{Step: "end"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colorBound}),
			charts.WithLineStyleOpts(opts.LineStyle{Width: lineWidth, Type: "dashed"}),
		).
		AddSeries(SeriesSize, size,
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), YAxisIndex: 1}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colorSize}),
			charts.WithLineStyleOpts(opts.LineStyle{Width: 1, Opacity: opts.Float(0.6)}),
		)

	return line, nil
}

// Render writes a standalone HTML page with the chart.
func Render(w io.Writer, samples []workload.Sample) error {
	line, err := Chart(samples)
	if err != nil {
		return err
	}

	renderErr := line.Render(w)
	if renderErr != nil {
		return fmt.Errorf("render chart: %w", renderErr)
	}

	return nil
}
