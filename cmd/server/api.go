package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/artson-scm/scrapdecision/internal/comparison"
	"github.com/artson-scm/scrapdecision/internal/currency"
)

const maxAPIBodyBytes = 64 << 10

type successResponse struct {
	Data any `json:"data"`
}

type errorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// scrapVolume lets API callers give scrap as volume and density instead of mass.
type scrapVolume struct {
	VolumeM3       float64 `json:"volume_m3"`
	DensityKgPerM3 float64 `json:"density_kg_per_m3"`
}

// compareRequest shadows scrap_available so its presence can be told apart
// from zero when scrap_volume is also sent.
type compareRequest struct {
	comparison.Input
	ScrapAvailable *float64     `json:"scrap_available,omitempty"`
	ScrapVolume    *scrapVolume `json:"scrap_volume,omitempty"`
	Currency       string       `json:"currency,omitempty"`
}

type formattedTotals struct {
	TotalCostReuse   string `json:"total_cost_reuse"`
	TotalCostSellBuy string `json:"total_cost_sell_buy"`
	Savings          string `json:"savings"`
}

type compareResponse struct {
	ComparisonID string            `json:"comparison_id"`
	Currency     string            `json:"currency"`
	Input        comparison.Input  `json:"input"`
	Result       comparison.Result `json:"result"`
	Banner       string            `json:"banner"`
	Formatted    formattedTotals   `json:"formatted"`
	Chart        comparison.Chart  `json:"chart"`
}

type defaultsResponse struct {
	Input    comparison.Input `json:"input"`
	Currency string           `json:"currency"`
}

func (s *server) handleAPICompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxAPIBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "invalid request body", nil)
		return
	}

	in := req.Input
	if req.ScrapAvailable != nil {
		in.ScrapAvailable = *req.ScrapAvailable
	}
	if req.ScrapVolume != nil {
		if req.ScrapAvailable != nil {
			writeValidationError(w, &comparison.ValidationError{Fields: map[string]string{
				"scrap_available": "scrap_available cannot be combined with scrap_volume",
			}})
			return
		}
		if err := comparison.ValidateVolume(req.ScrapVolume.VolumeM3, req.ScrapVolume.DensityKgPerM3); err != nil {
			writeValidationError(w, err)
			return
		}
		in.ScrapAvailable = comparison.MassFromVolume(req.ScrapVolume.VolumeM3, req.ScrapVolume.DensityKgPerM3)
	}
	if err := in.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}

	code := req.Currency
	if code == "" {
		rates, err := s.getRateConfig(r.Context())
		if err != nil {
			s.logger.Error("load rate config", zap.Error(err))
			writeJSONError(w, http.StatusInternalServerError, "internal_error", "failed to load rates", nil)
			return
		}
		code = rates.Currency
	}

	result := comparison.Compare(in)
	if err := result.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}
	id := uuid.NewString()
	s.logComparison(r.Context(), "api", in, result, zap.String("comparison_id", id))

	writeJSON(w, http.StatusOK, successResponse{Data: compareResponse{
		ComparisonID: id,
		Currency:     code,
		Input:        in,
		Result:       result,
		Banner:       result.Recommendation.Banner(),
		Formatted: formattedTotals{
			TotalCostReuse:   currency.Format(code, result.TotalCostReuse),
			TotalCostSellBuy: currency.Format(code, result.TotalCostSellBuy),
			Savings:          currency.Format(code, result.Savings()),
		},
		Chart: comparison.ChartFor(result),
	}})
}

func (s *server) handleAPIDefaults(w http.ResponseWriter, r *http.Request) {
	rates, err := s.getRateConfig(r.Context())
	if err != nil {
		s.logger.Error("load rate config", zap.Error(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "failed to load rates", nil)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Data: defaultsResponse{
		Input:    rates.defaultInput(),
		Currency: rates.Currency,
	}})
}

func (s *server) handleAPIMaterials(w http.ResponseWriter, r *http.Request) {
	materials, err := s.listMaterials(r.Context(), true)
	if err != nil {
		s.logger.Error("load materials", zap.Error(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "failed to load materials", nil)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Data: materials})
}

func writeValidationError(w http.ResponseWriter, err error) {
	var verr *comparison.ValidationError
	if errors.As(err, &verr) {
		writeJSONError(w, http.StatusBadRequest, "invalid_input", "validation failed", verr.Fields)
		return
	}
	writeJSONError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
}

// writeJSON encodes before writing the status so an encoding failure still
// reaches the client as a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"internal_error","message":"failed to encode response"}`+"\n")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func writeJSONError(w http.ResponseWriter, status int, code, message string, details map[string]string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message, Details: details})
}
