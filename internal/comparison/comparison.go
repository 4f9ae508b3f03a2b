package comparison

import "math"

// Recommendation names the cheaper scrap handling strategy.
type Recommendation string

const (
	// Reuse means processing on-hand scrap and buying only the shortfall.
	Reuse Recommendation = "REUSE"
	// Sell means selling all scrap on site and buying the full requirement fresh.
	Sell Recommendation = "SELL"
)

// Banner returns the headline shown to the user for the recommendation.
func (r Recommendation) Banner() string {
	if r == Reuse {
		return "Recommended: REUSE SCRAP + BUY TOP-UP"
	}
	return "Recommended: SELL SCRAP & BUY NEW"
}

// Input represents the scalar inputs of a reuse vs sell comparison.
// Masses are in kg and costs in currency per kg.
type Input struct {
	TotalRequiredOutput float64 `json:"total_required_output" validate:"gte=0"`
	ScrapAvailable      float64 `json:"scrap_available" validate:"gte=0"`
	ScrapQuality        float64 `json:"scrap_quality" validate:"gte=0,lte=1"`
	TransportCostPerKg  float64 `json:"transport_cost_per_kg" validate:"gte=0"`
	ProcessingCostPerKg float64 `json:"processing_cost_per_kg" validate:"gte=0"`
	NewMaterialCost     float64 `json:"new_material_cost" validate:"gte=0"`
	ScrapSalePrice      float64 `json:"scrap_sale_price" validate:"gte=0"`
}

// Breakdown holds the line items of the reuse path.
type Breakdown struct {
	TransportCost  float64 `json:"transport_cost"`
	ProcessingCost float64 `json:"processing_cost"`
	FreshTopUpCost float64 `json:"fresh_topup_cost"`
}

// Result groups the comparison output.
type Result struct {
	ReusableWeight   float64        `json:"reusable_weight"`
	Shortfall        float64        `json:"shortfall"`
	TotalCostReuse   float64        `json:"total_cost_reuse"`
	TotalCostSellBuy float64        `json:"total_cost_sell_buy"`
	Recommendation   Recommendation `json:"recommendation"`
	Breakdown        Breakdown      `json:"breakdown"`
}

// Savings is how much cheaper the recommended path is than the other one.
func (r Result) Savings() float64 {
	return math.Abs(r.TotalCostSellBuy - r.TotalCostReuse)
}

// Compare computes both strategy totals and the recommendation.
// It performs no validation; negative totals are returned as computed.
func Compare(in Input) Result {
	reusableWeight := in.ScrapAvailable * in.ScrapQuality
	shortfall := math.Max(0, in.TotalRequiredOutput-reusableWeight)

	transportCost := in.ScrapAvailable * in.TransportCostPerKg
	processingCost := in.ScrapAvailable * in.ProcessingCostPerKg
	freshTopUpCost := shortfall * in.NewMaterialCost

	totalReuse := transportCost + processingCost + freshTopUpCost
	totalSellBuy := in.TotalRequiredOutput*in.NewMaterialCost - in.ScrapAvailable*in.ScrapSalePrice

	recommendation := Sell
	if totalReuse < totalSellBuy {
		recommendation = Reuse
	}

	return Result{
		ReusableWeight:   reusableWeight,
		Shortfall:        shortfall,
		TotalCostReuse:   totalReuse,
		TotalCostSellBuy: totalSellBuy,
		Recommendation:   recommendation,
		Breakdown: Breakdown{
			TransportCost:  transportCost,
			ProcessingCost: processingCost,
			FreshTopUpCost: freshTopUpCost,
		},
	}
}

// MassFromVolume converts a scrap volume in m³ into kg.
func MassFromVolume(volumeM3, densityKgPerM3 float64) float64 {
	return volumeM3 * densityKgPerM3
}

// DefaultInput returns the form defaults used when nothing else is configured.
func DefaultInput() Input {
	return Input{
		TotalRequiredOutput: 1000,
		ScrapAvailable:      1000,
		ScrapQuality:        0.6,
		TransportCostPerKg:  3.0,
		ProcessingCostPerKg: 4.5,
		NewMaterialCost:     56.0,
		ScrapSalePrice:      24.0,
	}
}
