package web

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	analyticsdomain "supplyperf/internal/analytics/domain"
)

// Chart names served under /charts/{name}.
const (
	ChartTrend            = "trend"
	ChartTopLate          = "top-late"
	ChartScatter          = "scatter"
	ChartHistogram        = "histogram"
	ChartCategoryBox      = "category-box"
	ChartSupplierLeadTime = "supplier-lead-time"
)

// renderer is satisfied by every go-echarts chart.
type renderer interface {
	Render(w io.Writer) error
}

func initOpts(title string) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		PageTitle: title,
		Width:     "100%",
		Height:    "380px",
	})
}

// trendChart plots mean lead time (left axis) against late rate % (right axis) per month.
func trendChart(points []analyticsdomain.TrendPoint) *charts.Line {
	months := make([]string, len(points))
	leadTimes := make([]opts.LineData, len(points))
	lateRates := make([]opts.LineData, len(points))
	for i, p := range points {
		months[i] = p.Label()
		leadTimes[i] = opts.LineData{Value: p.AvgLeadTime}
		lateRates[i] = opts.LineData{Value: p.LateRatePct}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		initOpts("Monthly trend"),
		charts.WithTitleOpts(opts.Title{Title: "Average lead time vs late rate"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Lead time (days)"}),
	)
	line.ExtendYAxis(opts.YAxis{Name: "Late rate (%)"})
	line.SetXAxis(months).
		AddSeries("Avg lead time", leadTimes).
		AddSeries("Late rate %", lateRates, charts.WithLineChartOpts(opts.LineChart{YAxisIndex: 1}))
	return line
}

func topLateChart(top []analyticsdomain.LateSupplier) *charts.Bar {
	ids := make([]string, len(top))
	rates := make([]opts.BarData, len(top))
	for i, s := range top {
		ids[i] = string(s.SupplierID)
		rates[i] = opts.BarData{Value: analyticsdomain.Round(s.LateRate*100, 1)}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts("Top late suppliers"),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("Top %d late suppliers", analyticsdomain.TopLateLimit)}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Late rate (%)"}),
	)
	bar.SetXAxis(ids).AddSeries("Late rate %", rates)
	return bar
}

// scatterChart places suppliers by lead time and late rate; the symbol grows with order count.
func scatterChart(points []analyticsdomain.ScatterPoint) *charts.Scatter {
	maxOrders := 1
	for _, p := range points {
		maxOrders = max(maxOrders, p.Orders)
	}
	data := make([]opts.ScatterData, len(points))
	for i, p := range points {
		data[i] = opts.ScatterData{
			Name:       string(p.SupplierID),
			Value:      []interface{}{p.AvgLeadTime, p.LateRate},
			SymbolSize: 8 + 32*p.Orders/maxOrders,
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		initOpts("Supplier performance"),
		charts.WithTitleOpts(opts.Title{Title: "Lead time vs late rate per supplier", Subtitle: "size: order count"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "item"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Avg lead time (days)", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Late rate"}),
	)
	scatter.AddSeries("Suppliers", data)
	return scatter
}

func histogramChart(bins []analyticsdomain.HistogramBin) *charts.Bar {
	labels := make([]string, len(bins))
	counts := make([]opts.BarData, len(bins))
	for i, b := range bins {
		labels[i] = strconv.FormatFloat(analyticsdomain.Round(b.Lower, 1), 'f', -1, 64)
		counts[i] = opts.BarData{Value: b.Count}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts("Lead time distribution"),
		charts.WithTitleOpts(opts.Title{Title: "Lead time distribution"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Lead time (days)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Orders"}),
	)
	bar.SetXAxis(labels).AddSeries("Orders", counts)
	return bar
}

func categoryBoxChart(boxes []analyticsdomain.BoxSummary) *charts.BoxPlot {
	cats := make([]string, len(boxes))
	data := make([]opts.BoxPlotData, len(boxes))
	for i, b := range boxes {
		cats[i] = b.Category
		data[i] = opts.BoxPlotData{Name: b.Category, Value: b.Values()}
	}

	box := charts.NewBoxPlot()
	box.SetGlobalOptions(
		initOpts("Lead time by category"),
		charts.WithTitleOpts(opts.Title{Title: "Lead time by category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Lead time (days)"}),
	)
	box.SetXAxis(cats).AddSeries("Lead time", data)
	return box
}

func supplierLeadTimeChart(rows []analyticsdomain.SupplierLeadTime) *charts.Bar {
	ids := make([]string, len(rows))
	avgs := make([]opts.BarData, len(rows))
	for i, r := range rows {
		ids[i] = string(r.SupplierID)
		avgs[i] = opts.BarData{Value: r.AvgLT}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts("Lead time per supplier"),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("Top %d suppliers by average lead time", analyticsdomain.SupplierTableLimit)}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Avg lead time (days)"}),
	)
	bar.SetXAxis(ids).AddSeries("Avg lead time", avgs)
	return bar
}
