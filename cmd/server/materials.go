package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var errMaterialNotFound = errors.New("material not found")

// material is a scrap grade preset from the catalog.
type material struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	DensityKgPerM3  float64 `json:"density_kg_per_m3"`
	ScrapQuality    float64 `json:"scrap_quality"`
	NewMaterialCost float64 `json:"new_material_cost"`
	ScrapSalePrice  float64 `json:"scrap_sale_price"`
	Notes           string  `json:"notes,omitempty"`
	Active          bool    `json:"active"`
}

type materialsViewData struct {
	baseViewData
	Materials []material
}

func (s *server) handleAdminMaterialsForm(w http.ResponseWriter, r *http.Request) {
	materials, err := s.listMaterials(r.Context(), false)
	if err != nil {
		s.logger.Error("load materials", zap.Error(err))
		http.Error(w, "failed to load materials", http.StatusInternalServerError)
		return
	}

	s.renderTemplate(w, "admin_materials.html", materialsViewData{
		baseViewData: baseViewData{
			ErrorMessage:   r.URL.Query().Get("error"),
			SuccessMessage: r.URL.Query().Get("success"),
		},
		Materials: materials,
	})
}

func (s *server) handleAdminMaterialsCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	m, err := parseMaterialForm(r)
	if err != nil {
		http.Redirect(w, r, "/admin/materials?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
		return
	}

	_, err = s.db.ExecContext(r.Context(), `
		INSERT INTO materials (name, density_kg_per_m3, scrap_quality, new_material_cost, scrap_sale_price, notes, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, m.Name, m.DensityKgPerM3, m.ScrapQuality, m.NewMaterialCost, m.ScrapSalePrice, m.Notes, m.Active)
	if err != nil {
		s.logger.Error("create material", zap.String("name", m.Name), zap.Error(err))
		http.Error(w, "failed to create material", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/admin/materials?success=Material+created", http.StatusSeeOther)
}

func (s *server) handleAdminMaterialsUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid material id", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	m, err := parseMaterialForm(r)
	if err != nil {
		http.Redirect(w, r, "/admin/materials?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
		return
	}

	result, err := s.db.ExecContext(r.Context(), `
		UPDATE materials
		SET
			name = ?,
			density_kg_per_m3 = ?,
			scrap_quality = ?,
			new_material_cost = ?,
			scrap_sale_price = ?,
			notes = ?,
			active = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, m.Name, m.DensityKgPerM3, m.ScrapQuality, m.NewMaterialCost, m.ScrapSalePrice, m.Notes, m.Active, id)
	if err != nil {
		s.logger.Error("update material", zap.Int64("id", id), zap.Error(err))
		http.Error(w, "failed to update material", http.StatusInternalServerError)
		return
	}

	affected, err := result.RowsAffected()
	if err != nil {
		http.Error(w, "failed to update material", http.StatusInternalServerError)
		return
	}
	if affected == 0 {
		http.NotFound(w, r)
		return
	}

	http.Redirect(w, r, "/admin/materials?success=Material+updated", http.StatusSeeOther)
}

func parseMaterialForm(r *http.Request) (material, error) {
	m := material{
		Name:   strings.TrimSpace(r.FormValue("name")),
		Notes:  strings.TrimSpace(r.FormValue("notes")),
		Active: r.FormValue("active") == "1",
	}

	if m.Name == "" {
		return m, fmt.Errorf("name is required")
	}

	var err error
	if m.DensityKgPerM3, err = parsePositiveFloat(r.FormValue("density_kg_per_m3"), "density_kg_per_m3"); err != nil {
		return m, err
	}
	if m.ScrapQuality, err = parseFraction(r.FormValue("scrap_quality"), "scrap_quality"); err != nil {
		return m, err
	}
	if m.NewMaterialCost, err = parseNonNegativeFloat(r.FormValue("new_material_cost"), "new_material_cost"); err != nil {
		return m, err
	}
	if m.ScrapSalePrice, err = parseNonNegativeFloat(r.FormValue("scrap_sale_price"), "scrap_sale_price"); err != nil {
		return m, err
	}

	return m, nil
}

func (s *server) listMaterials(ctx context.Context, activeOnly bool) ([]material, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, density_kg_per_m3, scrap_quality, new_material_cost, scrap_sale_price, COALESCE(notes, ''), active
		FROM materials
		WHERE (? = 0 OR active = TRUE)
		ORDER BY name ASC, id ASC
	`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("query materials: %w", err)
	}
	defer rows.Close()

	materials := make([]material, 0)
	for rows.Next() {
		var m material
		if err := rows.Scan(&m.ID, &m.Name, &m.DensityKgPerM3, &m.ScrapQuality, &m.NewMaterialCost, &m.ScrapSalePrice, &m.Notes, &m.Active); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		materials = append(materials, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate materials: %w", err)
	}

	return materials, nil
}

func (s *server) getMaterial(ctx context.Context, id int64) (material, error) {
	var m material
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, density_kg_per_m3, scrap_quality, new_material_cost, scrap_sale_price, COALESCE(notes, ''), active
		FROM materials
		WHERE id = ? AND active = TRUE
	`, id).Scan(&m.ID, &m.Name, &m.DensityKgPerM3, &m.ScrapQuality, &m.NewMaterialCost, &m.ScrapSalePrice, &m.Notes, &m.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return material{}, errMaterialNotFound
		}
		return material{}, fmt.Errorf("query material %d: %w", id, err)
	}
	return m, nil
}
