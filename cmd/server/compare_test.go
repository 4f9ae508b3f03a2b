package main

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artson-scm/scrapdecision/internal/comparison"
)

func TestHomeRendersDefaults(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s.routes(), "/")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Why Scrap Matters?")
	assert.Contains(t, body, `name="new_material_cost" value="56"`)
	assert.Contains(t, body, `name="scrap_sale_price" value="24"`)
	assert.Contains(t, body, "Structural steel (MS)")
	assert.NotContains(t, body, "Cost Comparison</h2>")
}

func TestHomeLoadsMaterialPreset(t *testing.T) {
	s := newTestServer(t)
	materials, err := s.listMaterials(t.Context(), true)
	require.NoError(t, err)
	require.NotEmpty(t, materials)

	var copper material
	for _, m := range materials {
		if m.Name == "Copper cable" {
			copper = m
		}
	}
	require.NotZero(t, copper.ID)

	rec := get(t, s.routes(), "/?material_id="+strconv.FormatInt(copper.ID, 10))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `name="new_material_cost" value="780"`)
	assert.Contains(t, body, `name="density_kg_per_m3" value="8960"`)
}

func TestHomeRejectsUnknownPreset(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, get(t, s.routes(), "/?material_id=abc").Code)
	assert.Equal(t, http.StatusNotFound, get(t, s.routes(), "/?material_id=9999").Code)
}

func TestCompareRendersReuseRecommendation(t *testing.T) {
	s := newTestServer(t)

	rec := postForm(t, s.routes(), "/compare", defaultFormValues())
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "₹29,900.00")
	assert.Contains(t, body, "₹32,000.00")
	assert.Contains(t, body, "REUSE SCRAP")
	assert.Contains(t, body, "banner-success")
	assert.Contains(t, body, "Saves ₹2,100.00")
	assert.Contains(t, body, "<svg")
}

func TestCompareRendersSellRecommendation(t *testing.T) {
	s := newTestServer(t)

	values := defaultFormValues()
	values.Set("scrap_quality", "0.1")
	values.Set("transport_cost_per_kg", "10")
	values.Set("processing_cost_per_kg", "10")

	rec := postForm(t, s.routes(), "/compare", values)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "SELL SCRAP")
	assert.Contains(t, body, "banner-warning")
}

func TestCompareVolumeMode(t *testing.T) {
	s := newTestServer(t)

	values := defaultFormValues()
	values.Set("scrap_mode", "volume")
	values.Del("scrap_available")
	values.Set("volume_m3", "0.2")
	values.Set("density_kg_per_m3", "5000")

	rec := postForm(t, s.routes(), "/compare", values)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "₹29,900.00")
}

func TestCompareRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		want  string
	}{
		{name: "quality above one", field: "scrap_quality", value: "1.5", want: "scrap_quality must be less than or equal to 1"},
		{name: "negative cost", field: "new_material_cost", value: "-1", want: "new_material_cost must be greater than or equal to 0"},
		{name: "not a number", field: "total_required_output", value: "lots", want: "total_required_output must be a number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			values := defaultFormValues()
			values.Set(tt.field, tt.value)

			rec := postForm(t, s.routes(), "/compare", values)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
			assert.NotContains(t, rec.Body.String(), "banner-success")
		})
	}
}

func TestCompareRejectsOverflowingTotals(t *testing.T) {
	s := newTestServer(t)

	values := defaultFormValues()
	values.Set("total_required_output", "1e300")
	values.Set("scrap_available", "1e300")
	values.Set("transport_cost_per_kg", "1e10")
	values.Set("new_material_cost", "1e10")

	rec := postForm(t, s.routes(), "/compare", values)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "total_cost_reuse is too large to compute")
	assert.NotContains(t, body, "Infinity")
	assert.NotContains(t, body, "NaN")
	assert.NotContains(t, body, "<svg")
}

func TestNewComparisonViewFormatsLargeAmounts(t *testing.T) {
	in := comparison.DefaultInput()
	in.TotalRequiredOutput = 1e18
	in.ScrapAvailable = 1e19
	result := comparison.Compare(in)
	require.NoError(t, result.Validate())

	view := newComparisonView("INR", result, in.ScrapAvailable)
	assert.Equal(t, "10,000,000,000,000,000,000.00", view.ScrapAvailable)
	assert.NotContains(t, view.ReuseTotal, "-")
	assert.Equal(t, "-₹184,000,000,000,000,000,000.00", view.SellBuyTotal)
}

func TestNewComparisonViewFormatsAmounts(t *testing.T) {
	result := comparison.Compare(comparison.DefaultInput())

	view := newComparisonView("USD", result, 1000)
	assert.Equal(t, "$29,900.00", view.ReuseTotal)
	assert.Equal(t, "$32,000.00", view.SellBuyTotal)
	assert.Equal(t, "$22,400.00", view.TopUpCost)
	assert.Equal(t, "600.00", view.ReusableWeight)
	assert.Equal(t, "400.00", view.Shortfall)
	assert.True(t, view.IsReuse)
	require.Len(t, view.Chart.Bars, 2)
	assert.Equal(t, comparison.ReuseLabel, view.Chart.Bars[0].Label)
}
