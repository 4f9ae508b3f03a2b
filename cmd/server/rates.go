package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/artson-scm/scrapdecision/internal/comparison"
	"github.com/artson-scm/scrapdecision/internal/currency"
)

// rateConfig is the singleton of default rates that prefill the form.
type rateConfig struct {
	TransportCostPerKg  float64 `json:"transport_cost_per_kg"`
	ProcessingCostPerKg float64 `json:"processing_cost_per_kg"`
	NewMaterialCost     float64 `json:"new_material_cost"`
	ScrapSalePrice      float64 `json:"scrap_sale_price"`
	ScrapQuality        float64 `json:"scrap_quality"`
	Currency            string  `json:"currency"`
}

type ratesViewData struct {
	baseViewData
	Rates rateConfig
}

// defaultInput merges the configured rates into the built-in form defaults.
func (rc rateConfig) defaultInput() comparison.Input {
	in := comparison.DefaultInput()
	in.TransportCostPerKg = rc.TransportCostPerKg
	in.ProcessingCostPerKg = rc.ProcessingCostPerKg
	in.NewMaterialCost = rc.NewMaterialCost
	in.ScrapSalePrice = rc.ScrapSalePrice
	in.ScrapQuality = rc.ScrapQuality
	return in
}

func (s *server) handleAdminRatesForm(w http.ResponseWriter, r *http.Request) {
	rates, err := s.getRateConfig(r.Context())
	if err != nil {
		s.logger.Error("load rate config", zap.Error(err))
		http.Error(w, "failed to load rate config", http.StatusInternalServerError)
		return
	}

	s.renderTemplate(w, "admin_rates.html", ratesViewData{Rates: rates})
}

func (s *server) handleAdminRatesSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	rates, validationErr := parseRateConfigForm(r)
	if validationErr != nil {
		w.WriteHeader(http.StatusBadRequest)
		s.renderTemplate(w, "admin_rates.html", ratesViewData{
			baseViewData: baseViewData{ErrorMessage: validationErr.Error()},
			Rates:        rates,
		})
		return
	}

	if err := s.updateRateConfig(r.Context(), rates); err != nil {
		s.logger.Error("save rate config", zap.Error(err))
		http.Error(w, "failed to save rate config", http.StatusInternalServerError)
		return
	}

	s.logger.Info("rate config updated",
		zap.Float64("new_material_cost", rates.NewMaterialCost),
		zap.Float64("scrap_sale_price", rates.ScrapSalePrice),
		zap.String("currency", rates.Currency),
	)
	message := "Rates saved."
	if !currency.Known(rates.Currency) {
		s.logger.Warn("currency has no display symbol", zap.String("currency", rates.Currency))
		message = fmt.Sprintf("Rates saved. %s has no symbol; amounts will be prefixed with the code.", rates.Currency)
	}
	s.renderTemplate(w, "admin_rates.html", ratesViewData{
		baseViewData: baseViewData{SuccessMessage: message},
		Rates:        rates,
	})
}

func parseRateConfigForm(r *http.Request) (rateConfig, error) {
	rates := rateConfig{Currency: strings.ToUpper(strings.TrimSpace(r.FormValue("currency")))}

	var err error
	if rates.TransportCostPerKg, err = parseNonNegativeFloat(r.FormValue("transport_cost_per_kg"), "transport_cost_per_kg"); err != nil {
		return rates, err
	}
	if rates.ProcessingCostPerKg, err = parseNonNegativeFloat(r.FormValue("processing_cost_per_kg"), "processing_cost_per_kg"); err != nil {
		return rates, err
	}
	if rates.NewMaterialCost, err = parseNonNegativeFloat(r.FormValue("new_material_cost"), "new_material_cost"); err != nil {
		return rates, err
	}
	if rates.ScrapSalePrice, err = parseNonNegativeFloat(r.FormValue("scrap_sale_price"), "scrap_sale_price"); err != nil {
		return rates, err
	}
	if rates.ScrapQuality, err = parseFraction(r.FormValue("scrap_quality"), "scrap_quality"); err != nil {
		return rates, err
	}
	if len(rates.Currency) != 3 {
		return rates, fmt.Errorf("currency must be a 3-letter ISO code")
	}

	return rates, nil
}

// getRateConfig reads the singleton row created by the startup seed.
func (s *server) getRateConfig(ctx context.Context) (rateConfig, error) {
	var rc rateConfig
	err := s.db.QueryRowContext(ctx, `
		SELECT transport_cost_per_kg, processing_cost_per_kg, new_material_cost, scrap_sale_price, scrap_quality, currency
		FROM rate_config
		WHERE id = 1
	`).Scan(
		&rc.TransportCostPerKg,
		&rc.ProcessingCostPerKg,
		&rc.NewMaterialCost,
		&rc.ScrapSalePrice,
		&rc.ScrapQuality,
		&rc.Currency,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rateConfig{}, fmt.Errorf("rate_config singleton not found: %w", err)
		}
		return rateConfig{}, fmt.Errorf("query rate_config: %w", err)
	}
	return rc, nil
}

func (s *server) updateRateConfig(ctx context.Context, rc rateConfig) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE rate_config
		SET
			transport_cost_per_kg = ?,
			processing_cost_per_kg = ?,
			new_material_cost = ?,
			scrap_sale_price = ?,
			scrap_quality = ?,
			currency = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = 1
	`,
		rc.TransportCostPerKg,
		rc.ProcessingCostPerKg,
		rc.NewMaterialCost,
		rc.ScrapSalePrice,
		rc.ScrapQuality,
		rc.Currency,
	)
	if err != nil {
		return fmt.Errorf("update rate_config: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update rate_config: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("rate_config singleton not found: %w", sql.ErrNoRows)
	}

	return nil
}
