package comparison

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput is matched by every validation failure.
var ErrInvalidInput = errors.New("invalid input")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their wire names so form and API messages agree.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// ValidationError lists the offending fields and a message for each.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	msgs := make([]string, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, e.Fields[name])
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

// Is reports ErrInvalidInput so callers can use errors.Is.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Validate checks that masses and costs are finite and non-negative and that
// scrap quality lies in [0, 1].
func (in Input) Validate() error {
	fields := make(map[string]string)

	for name, value := range in.named() {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			fields[name] = fmt.Sprintf("%s must be a finite number", name)
		}
	}

	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate comparison input: %w", err)
		}
		for _, fe := range verrs {
			if _, seen := fields[fe.Field()]; seen {
				continue
			}
			fields[fe.Field()] = fieldMessage(fe)
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func (in Input) named() map[string]float64 {
	return map[string]float64{
		"total_required_output":  in.TotalRequiredOutput,
		"scrap_available":        in.ScrapAvailable,
		"scrap_quality":          in.ScrapQuality,
		"transport_cost_per_kg":  in.TransportCostPerKg,
		"processing_cost_per_kg": in.ProcessingCostPerKg,
		"new_material_cost":      in.NewMaterialCost,
		"scrap_sale_price":       in.ScrapSalePrice,
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// ValidateVolume checks the inputs of MassFromVolume.
func ValidateVolume(volumeM3, densityKgPerM3 float64) error {
	fields := make(map[string]string)
	check := func(name string, v float64) {
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			fields[name] = fmt.Sprintf("%s must be a finite number", name)
		case v < 0:
			fields[name] = fmt.Sprintf("%s must be greater than or equal to 0", name)
		}
	}
	check("volume_m3", volumeM3)
	check("density_kg_per_m3", densityKgPerM3)

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// Validate reports totals that overflowed float64 for in-range but huge
// inputs. The error matches ErrInvalidInput.
func (r Result) Validate() error {
	fields := make(map[string]string)
	for name, value := range map[string]float64{
		"total_cost_reuse":    r.TotalCostReuse,
		"total_cost_sell_buy": r.TotalCostSellBuy,
		"transport_cost":      r.Breakdown.TransportCost,
		"processing_cost":     r.Breakdown.ProcessingCost,
		"fresh_topup_cost":    r.Breakdown.FreshTopUpCost,
		"savings":             r.Savings(),
	} {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			fields[name] = fmt.Sprintf("%s is too large to compute; reduce the input magnitudes", name)
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
