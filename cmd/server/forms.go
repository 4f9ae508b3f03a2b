package main

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/artson-scm/scrapdecision/internal/comparison"
)

const (
	scrapModeMass   = "mass"
	scrapModeVolume = "volume"
)

// comparisonForm mirrors the fields of the comparison form, including the
// volume inputs that are converted into scrap mass.
type comparisonForm struct {
	MaterialID          int64
	ScrapMode           string
	TotalRequiredOutput float64
	ScrapAvailable      float64
	VolumeM3            float64
	DensityKgPerM3      float64
	ScrapQuality        float64
	TransportCostPerKg  float64
	ProcessingCostPerKg float64
	NewMaterialCost     float64
	ScrapSalePrice      float64
}

func formFromInput(in comparison.Input) comparisonForm {
	return comparisonForm{
		ScrapMode:           scrapModeMass,
		TotalRequiredOutput: in.TotalRequiredOutput,
		ScrapAvailable:      in.ScrapAvailable,
		ScrapQuality:        in.ScrapQuality,
		TransportCostPerKg:  in.TransportCostPerKg,
		ProcessingCostPerKg: in.ProcessingCostPerKg,
		NewMaterialCost:     in.NewMaterialCost,
		ScrapSalePrice:      in.ScrapSalePrice,
	}
}

// input resolves the scrap mass (from volume when requested) and returns the
// comparison input.
func (f comparisonForm) input() comparison.Input {
	scrap := f.ScrapAvailable
	if f.ScrapMode == scrapModeVolume {
		scrap = comparison.MassFromVolume(f.VolumeM3, f.DensityKgPerM3)
	}
	return comparison.Input{
		TotalRequiredOutput: f.TotalRequiredOutput,
		ScrapAvailable:      scrap,
		ScrapQuality:        f.ScrapQuality,
		TransportCostPerKg:  f.TransportCostPerKg,
		ProcessingCostPerKg: f.ProcessingCostPerKg,
		NewMaterialCost:     f.NewMaterialCost,
		ScrapSalePrice:      f.ScrapSalePrice,
	}
}

// parseComparisonForm reads the posted form. Unparseable numbers are
// collected into a *comparison.ValidationError; bounds are checked later by
// comparison.Input.Validate.
func parseComparisonForm(r *http.Request) (comparisonForm, error) {
	form := comparisonForm{ScrapMode: strings.TrimSpace(r.FormValue("scrap_mode"))}
	if form.ScrapMode == "" {
		form.ScrapMode = scrapModeMass
	}

	fields := make(map[string]string)
	if form.ScrapMode != scrapModeMass && form.ScrapMode != scrapModeVolume {
		fields["scrap_mode"] = "scrap_mode must be mass or volume"
		form.ScrapMode = scrapModeMass
	}

	number := func(name string, dst *float64) {
		v, err := parseFloat(r.FormValue(name), name)
		if err != nil {
			fields[name] = err.Error()
			return
		}
		*dst = v
	}

	number("total_required_output", &form.TotalRequiredOutput)
	number("scrap_quality", &form.ScrapQuality)
	number("transport_cost_per_kg", &form.TransportCostPerKg)
	number("processing_cost_per_kg", &form.ProcessingCostPerKg)
	number("new_material_cost", &form.NewMaterialCost)
	number("scrap_sale_price", &form.ScrapSalePrice)

	if form.ScrapMode == scrapModeVolume {
		number("volume_m3", &form.VolumeM3)
		number("density_kg_per_m3", &form.DensityKgPerM3)
	} else {
		number("scrap_available", &form.ScrapAvailable)
	}

	if raw := strings.TrimSpace(r.FormValue("material_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			fields["material_id"] = "material_id must be a positive integer"
		} else {
			form.MaterialID = id
		}
	}

	if len(fields) > 0 {
		return form, &comparison.ValidationError{Fields: fields}
	}

	if form.ScrapMode == scrapModeVolume {
		if err := comparison.ValidateVolume(form.VolumeM3, form.DensityKgPerM3); err != nil {
			return form, err
		}
	}
	return form, nil
}

func parseFloat(raw, field string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%s must be a number", field)
	}
	return value, nil
}

func parseNonNegativeFloat(raw, field string) (float64, error) {
	value, err := parseFloat(raw, field)
	if err != nil {
		return 0, err
	}
	if value < 0 {
		return 0, fmt.Errorf("%s must be greater than or equal to 0", field)
	}
	return value, nil
}

func parseFraction(raw, field string) (float64, error) {
	value, err := parseNonNegativeFloat(raw, field)
	if err != nil {
		return 0, err
	}
	if value > 1 {
		return 0, fmt.Errorf("%s must be between 0 and 1", field)
	}
	return value, nil
}

func parsePositiveFloat(raw, field string) (float64, error) {
	value, err := parseFloat(raw, field)
	if err != nil {
		return 0, err
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", field)
	}
	return value, nil
}
