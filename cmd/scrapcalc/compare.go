package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/artson-scm/scrapdecision/internal/comparison"
	"github.com/artson-scm/scrapdecision/internal/currency"
)

const barWidth = 40

type compareOptions struct {
	in       comparison.Input
	volume   float64
	density  float64
	currency string
	json     bool
}

type compareOutput struct {
	ComparisonID string            `json:"comparison_id"`
	Currency     string            `json:"currency"`
	Input        comparison.Input  `json:"input"`
	Result       comparison.Result `json:"result"`
	Banner       string            `json:"banner"`
	Savings      float64           `json:"savings"`
}

func newCompareCmd() *cobra.Command {
	opts := compareOptions{in: comparison.DefaultInput()}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run one reuse vs sell comparison",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			volumeSet := cmd.Flags().Changed("volume")
			densitySet := cmd.Flags().Changed("density")
			if volumeSet != densitySet {
				return fmt.Errorf("--volume and --density must be given together")
			}
			if volumeSet && cmd.Flags().Changed("scrap") {
				return fmt.Errorf("--scrap cannot be combined with --volume")
			}
			return runCompare(cmd.OutOrStdout(), opts, volumeSet)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&opts.in.TotalRequiredOutput, "required", opts.in.TotalRequiredOutput, "total material required (kg)")
	f.Float64Var(&opts.in.ScrapAvailable, "scrap", opts.in.ScrapAvailable, "scrap available (kg)")
	f.Float64Var(&opts.in.ScrapQuality, "quality", opts.in.ScrapQuality, "usable fraction of the scrap (0-1)")
	f.Float64Var(&opts.in.TransportCostPerKg, "transport", opts.in.TransportCostPerKg, "transport cost per kg of scrap")
	f.Float64Var(&opts.in.ProcessingCostPerKg, "processing", opts.in.ProcessingCostPerKg, "processing cost per kg of scrap")
	f.Float64Var(&opts.in.NewMaterialCost, "new-cost", opts.in.NewMaterialCost, "fresh material cost per kg")
	f.Float64Var(&opts.in.ScrapSalePrice, "sale-price", opts.in.ScrapSalePrice, "scrap sale price per kg at site")
	f.Float64Var(&opts.volume, "volume", 0, "scrap volume (m³), used with --density instead of --scrap")
	f.Float64Var(&opts.density, "density", 0, "scrap density (kg/m³)")
	f.StringVar(&opts.currency, "currency", currency.DefaultCode, "ISO currency code used to format amounts")
	f.BoolVar(&opts.json, "json", false, "print the result as JSON")

	return cmd
}

func runCompare(w io.Writer, opts compareOptions, fromVolume bool) error {
	in := opts.in
	if fromVolume {
		if err := comparison.ValidateVolume(opts.volume, opts.density); err != nil {
			return err
		}
		in.ScrapAvailable = comparison.MassFromVolume(opts.volume, opts.density)
	}
	if err := in.Validate(); err != nil {
		return err
	}

	code := strings.ToUpper(strings.TrimSpace(opts.currency))
	result := comparison.Compare(in)
	if err := result.Validate(); err != nil {
		return err
	}

	if opts.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(compareOutput{
			ComparisonID: uuid.NewString(),
			Currency:     code,
			Input:        in,
			Result:       result,
			Banner:       result.Recommendation.Banner(),
			Savings:      result.Savings(),
		})
	}

	writeReport(w, code, in, result)
	return nil
}

func writeReport(w io.Writer, code string, in comparison.Input, result comparison.Result) {
	money := func(v float64) string { return currency.Format(code, v) }
	kg := func(v float64) string { return currency.FormatNumber(v) + " kg" }

	fmt.Fprintln(w, "Scrap Reuse vs Sell Decision")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Scrap used:          %s\n", kg(in.ScrapAvailable))
	fmt.Fprintf(w, "  Reusable weight:     %s\n", kg(result.ReusableWeight))
	fmt.Fprintf(w, "  Shortfall:           %s\n", kg(result.Shortfall))
	fmt.Fprintf(w, "  Transport:           %s\n", money(result.Breakdown.TransportCost))
	fmt.Fprintf(w, "  Processing:          %s\n", money(result.Breakdown.ProcessingCost))
	fmt.Fprintf(w, "  Fresh top-up:        %s\n", money(result.Breakdown.FreshTopUpCost))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Reuse + Top-up Cost: %s\n", money(result.TotalCostReuse))
	fmt.Fprintf(w, "  Sell & Buy New Cost: %s\n", money(result.TotalCostSellBuy))
	fmt.Fprintln(w)

	c := comparison.ChartFor(result)
	for _, b := range c.Bars {
		fmt.Fprintf(w, "  %-15s %s %s\n", b.Label, bar(b.Value, c), currency.FormatWhole(code, b.Value))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, result.Recommendation.Banner())
	fmt.Fprintf(w, "Saves %s over the alternative.\n", money(result.Savings()))
}

// bar scales v against the largest magnitude in the chart. Negative values
// are drawn with '-'.
func bar(v float64, c comparison.Chart) string {
	var peak float64
	for _, b := range c.Bars {
		peak = math.Max(peak, math.Abs(b.Value))
	}
	if peak == 0 {
		return strings.Repeat(" ", barWidth)
	}

	n := int(math.Round(math.Abs(v) / peak * barWidth))
	fill := "#"
	if v < 0 {
		fill = "-"
	}
	return strings.Repeat(fill, n) + strings.Repeat(" ", barWidth-n)
}
