package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/artson-scm/scrapdecision/internal/chart"
	"github.com/artson-scm/scrapdecision/internal/comparison"
	"github.com/artson-scm/scrapdecision/internal/currency"
)

type comparisonViewData struct {
	baseViewData
	Form      comparisonForm
	Materials []material
	Symbol    string
	Result    *comparisonView

	code string
}

func (d comparisonViewData) currencyCode() string {
	if d.code == "" {
		return currency.DefaultCode
	}
	return d.code
}

// comparisonView is a computed result with every amount already formatted.
type comparisonView struct {
	Banner         string
	IsReuse        bool
	ReuseTotal     string
	SellBuyTotal   string
	TransportCost  string
	ProcessingCost string
	TopUpCost      string
	Savings        string
	ScrapAvailable string
	ReusableWeight string
	Shortfall      string
	Chart          chart.Layout
}

func newComparisonView(code string, result comparison.Result, scrapAvailable float64) *comparisonView {
	money := func(v float64) string { return currency.Format(code, v) }
	return &comparisonView{
		Banner:         result.Recommendation.Banner(),
		IsReuse:        result.Recommendation == comparison.Reuse,
		ReuseTotal:     money(result.TotalCostReuse),
		SellBuyTotal:   money(result.TotalCostSellBuy),
		TransportCost:  money(result.Breakdown.TransportCost),
		ProcessingCost: money(result.Breakdown.ProcessingCost),
		TopUpCost:      money(result.Breakdown.FreshTopUpCost),
		Savings:        money(result.Savings()),
		ScrapAvailable: currency.FormatNumber(scrapAvailable),
		ReusableWeight: currency.FormatNumber(result.ReusableWeight),
		Shortfall:      currency.FormatNumber(result.Shortfall),
		Chart: chart.Build(comparison.ChartFor(result), chart.DefaultWidth, chart.DefaultHeight, func(v float64) string {
			return currency.FormatWhole(code, v)
		}),
	}
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	data, err := s.newComparisonViewData(r.Context())
	if err != nil {
		s.logger.Error("load comparison defaults", zap.Error(err))
		http.Error(w, "failed to load rates", http.StatusInternalServerError)
		return
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("material_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid material id", http.StatusBadRequest)
			return
		}
		m, err := s.getMaterial(r.Context(), id)
		if errors.Is(err, errMaterialNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			s.logger.Error("load material preset", zap.Int64("id", id), zap.Error(err))
			http.Error(w, "failed to load material", http.StatusInternalServerError)
			return
		}
		data.Form.MaterialID = m.ID
		data.Form.DensityKgPerM3 = m.DensityKgPerM3
		data.Form.ScrapQuality = m.ScrapQuality
		data.Form.NewMaterialCost = m.NewMaterialCost
		data.Form.ScrapSalePrice = m.ScrapSalePrice
	}

	s.renderTemplate(w, "home.html", data)
}

func (s *server) handleCompare(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	data, err := s.newComparisonViewData(r.Context())
	if err != nil {
		s.logger.Error("load comparison defaults", zap.Error(err))
		http.Error(w, "failed to load rates", http.StatusInternalServerError)
		return
	}

	form, err := parseComparisonForm(r)
	data.Form = form
	in := form.input()
	var result comparison.Result
	if err == nil {
		err = in.Validate()
	}
	if err == nil {
		result = comparison.Compare(in)
		err = result.Validate()
	}
	if err != nil {
		if !errors.Is(err, comparison.ErrInvalidInput) {
			s.logger.Error("validate comparison form", zap.Error(err))
			http.Error(w, "failed to validate form", http.StatusInternalServerError)
			return
		}
		data.ErrorMessage = err.Error()
		w.WriteHeader(http.StatusBadRequest)
		s.renderTemplate(w, "home.html", data)
		return
	}

	s.logComparison(r.Context(), "form", in, result)

	data.Result = newComparisonView(data.currencyCode(), result, in.ScrapAvailable)
	s.renderTemplate(w, "home.html", data)
}

// newComparisonViewData prefills the form from the configured rates.
func (s *server) newComparisonViewData(ctx context.Context) (comparisonViewData, error) {
	rates, err := s.getRateConfig(ctx)
	if err != nil {
		return comparisonViewData{}, err
	}
	materials, err := s.listMaterials(ctx, true)
	if err != nil {
		return comparisonViewData{}, err
	}

	return comparisonViewData{
		Form:      formFromInput(rates.defaultInput()),
		Materials: materials,
		Symbol:    currency.Symbol(rates.Currency),
		code:      rates.Currency,
	}, nil
}

func (s *server) logComparison(ctx context.Context, source string, in comparison.Input, result comparison.Result, fields ...zap.Field) {
	fields = append(fields,
		zap.String("source", source),
		zap.String("request_id", requestID(ctx)),
		zap.Float64("total_required_output", in.TotalRequiredOutput),
		zap.Float64("scrap_available", in.ScrapAvailable),
		zap.Float64("scrap_quality", in.ScrapQuality),
		zap.Float64("total_cost_reuse", result.TotalCostReuse),
		zap.Float64("total_cost_sell_buy", result.TotalCostSellBuy),
		zap.String("recommendation", string(result.Recommendation)),
	)
	s.logger.Debug("comparison computed", fields...)
}
