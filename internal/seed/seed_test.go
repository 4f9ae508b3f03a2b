package seed

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/artson-scm/scrapdecision/internal/db"
	"github.com/artson-scm/scrapdecision/internal/migrations"
)

func TestRunIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "seed-test.db")
	database, err := db.Open(context.Background(), dbPath)
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, migrations.Up(database, nil))

	materials, err := Catalog()
	require.NoError(t, err)
	require.NotEmpty(t, materials)

	cfg := Config{
		AdminEmail:    "admin@artson.example",
		AdminPassword: "12345",
	}

	// admin + rate config + every catalog entry
	wantFirst := 2 + len(materials)
	for i := 0; i < 5; i++ {
		stats, err := Run(database, cfg)
		require.NoError(t, err, "iteration %d", i)
		if i == 0 {
			assert.Equal(t, wantFirst, stats.Inserts)
			continue
		}
		assert.Zero(t, stats.Inserts, "iteration %d", i)
	}

	assertCount(t, database, `SELECT COUNT(*) FROM users WHERE email = ?`, []any{"admin@artson.example"}, 1)
	assertCount(t, database, `SELECT COUNT(*) FROM rate_config WHERE id = 1`, nil, 1)
	assertCount(t, database, `SELECT COUNT(*) FROM materials`, nil, len(materials))

	var hash string
	require.NoError(t, database.QueryRow(`SELECT password_hash FROM users WHERE email = ?`, "admin@artson.example").Scan(&hash))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("12345")))

	var newCost, salePrice float64
	var code string
	require.NoError(t, database.QueryRow(`SELECT new_material_cost, scrap_sale_price, currency FROM rate_config WHERE id = 1`).Scan(&newCost, &salePrice, &code))
	assert.Equal(t, 56.0, newCost)
	assert.Equal(t, 24.0, salePrice)
	assert.Equal(t, "INR", code)
}

func TestRunSkipsAdminWithoutCredentials(t *testing.T) {
	database, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "seed-noadmin.db"))
	require.NoError(t, err)
	defer database.Close()
	require.NoError(t, migrations.Up(database, nil))

	_, err = Run(database, Config{})
	require.NoError(t, err)

	assertCount(t, database, `SELECT COUNT(*) FROM users`, nil, 0)
}

func TestParseCatalogRejectsBadEntries(t *testing.T) {
	_, err := parseCatalog([]byte("materials:\n  - name: Lead\n    density_kg_per_m3: 0\n    scrap_quality: 0.5\n"))
	assert.ErrorContains(t, err, "density must be positive")

	_, err = parseCatalog([]byte("materials:\n  - name: Tin\n    density_kg_per_m3: 7300\n    scrap_quality: 1.5\n"))
	assert.ErrorContains(t, err, "scrap_quality")

	_, err = parseCatalog([]byte("materials: [oops"))
	assert.Error(t, err)
}

func assertCount(t *testing.T, database *sql.DB, query string, args []any, expected int) {
	t.Helper()

	var count int
	require.NoError(t, database.QueryRow(query, args...).Scan(&count))
	assert.Equal(t, expected, count)
}
