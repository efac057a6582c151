package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsDirValidates(t *testing.T) {
	require.NoError(t, ValidateDir("migrations"))
}

func TestMigrationsCoverSchema(t *testing.T) {
	entries, err := os.ReadDir("migrations")
	require.NoError(t, err)

	var all strings.Builder
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		b, err := os.ReadFile(filepath.Join("migrations", e.Name()))
		require.NoError(t, err)
		all.Write(b)
	}
	schema := all.String()

	tables := []string{
		"users", "addresses", "categories", "products",
		"cart_items", "wishlist_items", "orders", "order_items",
		"coupons", "coupon_usages", "payment_settings",
		"serviceable_pincodes", "reviews", "support_messages",
	}
	for _, table := range tables {
		assert.Contains(t, schema, "CREATE TABLE "+table, "missing table %s", table)
	}

	// payment_settings must ship its singleton row
	assert.Contains(t, schema, "INSERT INTO payment_settings (id) VALUES (1)")
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add Festive Banners!")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_add_festive_banners.sql"))
	require.NoError(t, ValidateDir(dir))
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad-name.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	require.Error(t, ValidateDir(dir))
}
