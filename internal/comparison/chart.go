package comparison

const (
	ReuseLabel   = "Reuse + Top-up"
	SellBuyLabel = "Sell & Buy New"

	reuseColor   = "#00b300"
	sellBuyColor = "#ff6600"
)

// Bar is one labelled value of the comparison chart.
type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// Chart is the two-bar cost comparison handed to a renderer.
type Chart struct {
	Title  string `json:"title"`
	YLabel string `json:"y_label"`
	Bars   []Bar  `json:"bars"`
}

// ChartFor builds the chart data for a result, reuse path first.
func ChartFor(r Result) Chart {
	return Chart{
		Title:  "Cost Comparison",
		YLabel: "Total Cost",
		Bars: []Bar{
			{Label: ReuseLabel, Value: r.TotalCostReuse, Color: reuseColor},
			{Label: SellBuyLabel, Value: r.TotalCostSellBuy, Color: sellBuyColor},
		},
	}
}
