package migration

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles(t *testing.T) {
	files, err := fs.Glob(migrationFiles, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	ups := 0
	downs := 0
	for _, file := range files {
		switch {
		case strings.HasSuffix(file, ".up.sql"):
			ups++
		case strings.HasSuffix(file, ".down.sql"):
			downs++
		}
	}

	assert.Equal(t, ups, downs, "cada migração precisa de up e down")
}

func TestInitMigrationCreatesSyncTables(t *testing.T) {
	content, err := migrationFiles.ReadFile("migrations/000001_init.up.sql")
	require.NoError(t, err)

	schema := string(content)
	for _, table := range []string{
		"products", "bundles", "stores", "counterparties", "stock_lines", "sales", "purchases",
		"customer_orders", "write_offs", "document_positions", "payments", "cash_movements",
		"report_turnover", "report_profit_by_product", "report_money_by_account",
		"sync_state", "sync_jobs", "product_metrics",
	} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table+" ", table)
	}
}
