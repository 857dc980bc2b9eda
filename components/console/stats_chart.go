package console

import (
	"bytes"
	"io"
	"sort"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "360px"

var sharedChartCache = NewChartCache(5 * time.Minute)

// StatsChart renders the dashboard revenue/status charts as server-side
// ECharts HTML.
type StatsChart struct {
	cache RenderCache
	theme string
}

// StatsChartOption customizes chart rendering.
type StatsChartOption func(*StatsChart)

// WithStatsCache injects a render cache.
func WithStatsCache(cache RenderCache) StatsChartOption {
	return func(s *StatsChart) {
		s.cache = cache
	}
}

// WithStatsTheme overrides the chart theme (defaults to Westeros).
func WithStatsTheme(theme string) StatsChartOption {
	return func(s *StatsChart) {
		s.theme = theme
	}
}

// NewStatsChart builds a chart renderer with shared cache defaults.
func NewStatsChart(options ...StatsChartOption) *StatsChart {
	s := &StatsChart{
		cache: sharedChartCache,
		theme: types.ThemeWesteros,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// RevenueByDay renders daily revenue as a smoothed line chart.
func (s *StatsChart) RevenueByDay(stats Stats) (string, error) {
	render := func() (string, error) {
		days := sortedKeys(stats.OrdersByDay)
		line := charts.NewLine()
		line.SetGlobalOptions(s.globalChartOptions("Revenue", "Daily totals")...)
		line.SetXAxis(days)
		data := make([]opts.LineData, len(days))
		for i, day := range days {
			data[i] = opts.LineData{Name: day, Value: stats.OrdersByDay[day]}
		}
		line.AddSeries("Revenue", data)
		line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
		return renderChart(line)
	}
	if s.cache == nil {
		return render()
	}
	return s.cache.GetOrRender("revenue:"+statsHash(stats), render)
}

// OrdersByStatus renders the order status breakdown as a pie chart.
func (s *StatsChart) OrdersByStatus(stats Stats) (string, error) {
	render := func() (string, error) {
		pie := charts.NewPie()
		pie.SetGlobalOptions(s.globalChartOptions("Orders", "By status")...)
		statuses := make([]string, 0, len(stats.OrdersByState))
		for status := range stats.OrdersByState {
			statuses = append(statuses, status)
		}
		sort.Strings(statuses)
		data := make([]opts.PieData, len(statuses))
		for i, status := range statuses {
			data[i] = opts.PieData{Name: status, Value: stats.OrdersByState[status]}
		}
		pie.AddSeries("orders", data)
		return renderChart(pie)
	}
	if s.cache == nil {
		return render()
	}
	return s.cache.GetOrRender("status:"+statsHash(stats), render)
}

func (s *StatsChart) globalChartOptions(title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  s.theme,
			Width:  "100%",
			Height: defaultChartHeight,
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
