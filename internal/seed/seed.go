package seed

import (
	"database/sql"
	_ "embed"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/artson-scm/scrapdecision/internal/comparison"
	"github.com/artson-scm/scrapdecision/internal/currency"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Config contains the values required by startup seed.
type Config struct {
	AdminEmail    string
	AdminPassword string
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Material is one scrap grade of the seeded catalog.
type Material struct {
	Name            string  `yaml:"name"`
	DensityKgPerM3  float64 `yaml:"density_kg_per_m3"`
	ScrapQuality    float64 `yaml:"scrap_quality"`
	NewMaterialCost float64 `yaml:"new_material_cost"`
	ScrapSalePrice  float64 `yaml:"scrap_sale_price"`
	Notes           string  `yaml:"notes"`
}

type catalog struct {
	Materials []Material `yaml:"materials"`
}

// Catalog parses the embedded scrap material catalog.
func Catalog() ([]Material, error) {
	return parseCatalog(catalogYAML)
}

func parseCatalog(data []byte) ([]Material, error) {
	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse material catalog: %w", err)
	}
	for _, m := range c.Materials {
		if m.Name == "" {
			return nil, fmt.Errorf("material catalog: entry without name")
		}
		if m.DensityKgPerM3 <= 0 {
			return nil, fmt.Errorf("material catalog: %s: density must be positive", m.Name)
		}
		if m.ScrapQuality < 0 || m.ScrapQuality > 1 {
			return nil, fmt.Errorf("material catalog: %s: scrap_quality must be between 0 and 1", m.Name)
		}
	}
	return c.Materials, nil
}

// Run executes the startup seed in an idempotent way.
func Run(db *sql.DB, cfg Config) (Stats, error) {
	materials, err := Catalog()
	if err != nil {
		return Stats{}, err
	}

	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := seedAdmin(tx, cfg.AdminEmail, cfg.AdminPassword, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureRateConfig(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	for _, m := range materials {
		if err := ensureMaterial(tx, m, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func seedAdmin(tx *sql.Tx, email, password string, stats *Stats) error {
	if email == "" || password == "" {
		return nil
	}

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE email = ? LIMIT 1)`, email).Scan(&exists); err != nil {
		return fmt.Errorf("check admin user existence: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	if _, err := tx.Exec(`INSERT INTO users (email, password_hash) VALUES (?, ?)`, email, string(hash)); err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureRateConfig(tx *sql.Tx, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM rate_config WHERE id = 1)`).Scan(&exists); err != nil {
		return fmt.Errorf("check rate config existence: %w", err)
	}
	if exists {
		return nil
	}

	d := comparison.DefaultInput()
	if _, err := tx.Exec(`
		INSERT INTO rate_config (
			id,
			transport_cost_per_kg,
			processing_cost_per_kg,
			new_material_cost,
			scrap_sale_price,
			scrap_quality,
			currency
		)
		VALUES (1, ?, ?, ?, ?, ?, ?)
	`, d.TransportCostPerKg, d.ProcessingCostPerKg, d.NewMaterialCost, d.ScrapSalePrice, d.ScrapQuality, currency.DefaultCode); err != nil {
		return fmt.Errorf("insert rate config singleton: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureMaterial(tx *sql.Tx, m Material, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM materials WHERE name = ? LIMIT 1)`, m.Name).Scan(&exists); err != nil {
		return fmt.Errorf("check material %q existence: %w", m.Name, err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(`
		INSERT INTO materials (name, density_kg_per_m3, scrap_quality, new_material_cost, scrap_sale_price, notes, active)
		VALUES (?, ?, ?, ?, ?, ?, TRUE)
	`, m.Name, m.DensityKgPerM3, m.ScrapQuality, m.NewMaterialCost, m.ScrapSalePrice, m.Notes); err != nil {
		return fmt.Errorf("insert material %q: %w", m.Name, err)
	}
	stats.Inserts++
	return nil
}
