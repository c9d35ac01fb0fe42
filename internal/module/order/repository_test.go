package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/platipay/server/internal/utils/pagination"
)

type capturedQuery struct {
	sql  string
	vars []interface{}
}

// newDryRunDB builds statements against the postgres dialect without a server.
func newDryRunDB(t *testing.T) (*gorm.DB, *[]capturedQuery) {
	t.Helper()

	db, err := gorm.Open(postgres.Open("host=localhost user=platipay dbname=platipay sslmode=disable"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	var queries []capturedQuery
	err = db.Callback().Query().After("gorm:query").Register("test:capture", func(tx *gorm.DB) {
		queries = append(queries, capturedQuery{sql: tx.Statement.SQL.String(), vars: tx.Statement.Vars})
	})
	require.NoError(t, err)
	return db, &queries
}

func TestRepository_ListOrderNotes_Paginates(t *testing.T) {
	db, queries := newDryRunDB(t)
	repo := NewRepository(db)

	_, _, err := repo.ListOrderNotes(context.Background(), 5, &pagination.Pagination{Page: 3, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, *queries, 2)

	count := (*queries)[0]
	assert.Contains(t, count.sql, `SELECT count(*) FROM "order_notes" WHERE order_id = $1`)
	assert.NotContains(t, count.sql, "LIMIT")
	assert.Equal(t, []interface{}{5}, count.vars)

	page := (*queries)[1]
	assert.Contains(t, page.sql, `FROM "order_notes" WHERE order_id = $1`)
	assert.Contains(t, page.sql, "ORDER BY created_on_utc ASC, id ASC")
	assert.Contains(t, page.sql, "LIMIT 2 OFFSET 4")
	assert.Equal(t, []interface{}{5}, page.vars)
}

func TestRepository_ListOrderNotes_ClampsPageSize(t *testing.T) {
	db, queries := newDryRunDB(t)
	repo := NewRepository(db)

	_, _, err := repo.ListOrderNotes(context.Background(), 9, &pagination.Pagination{Page: 1, PageSize: 10000})
	require.NoError(t, err)
	require.Len(t, *queries, 2)

	assert.Contains(t, (*queries)[1].sql, "LIMIT 200")
	assert.NotContains(t, (*queries)[1].sql, "OFFSET")
}
