package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDMapper_ResolveLocalIDs(t *testing.T) {
	tests := []struct {
		name       string
		table      string
		foreignIDs []string
		setup      func(mock sqlmock.Sqlmock)
		validate   func(t *testing.T, mapping map[string]string, err error)
	}{
		{
			name:       "Resolve IDs conhecidos e ignora os ausentes",
			table:      StoresTable,
			foreignIDs: []string{"ms-1", "ms-2", "ms-1", ""},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT id, moysklad_id FROM stores WHERE moysklad_id IN ($1,$2)")).
					WithArgs("ms-1", "ms-2").
					WillReturnRows(sqlmock.NewRows([]string{"id", "moysklad_id"}).AddRow("local-1", "ms-1"))
			},
			validate: func(t *testing.T, mapping map[string]string, err error) {
				require.NoError(t, err)
				assert.Equal(t, map[string]string{"ms-1": "local-1"}, mapping)
			},
		},
		{
			name:       "Lista vazia não consulta o banco",
			table:      ProductsTable,
			foreignIDs: []string{""},
			setup:      func(mock sqlmock.Sqlmock) {},
			validate: func(t *testing.T, mapping map[string]string, err error) {
				require.NoError(t, err)
				assert.Empty(t, mapping)
			},
		},
		{
			name:       "Tabela fora da lista é rejeitada",
			table:      "users; DROP TABLE products",
			foreignIDs: []string{"ms-1"},
			setup:      func(mock sqlmock.Sqlmock) {},
			validate: func(t *testing.T, mapping map[string]string, err error) {
				assert.Error(t, err)
				assert.Nil(t, mapping)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, mock := newMockConnection(t)
			tt.setup(mock)

			mapping, err := NewIDMapper(conn).ResolveLocalIDs(context.Background(), tt.table, tt.foreignIDs)

			tt.validate(t, mapping, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProductRepository_ArticleOwners(t *testing.T) {
	conn, mock := newMockConnection(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT article, moysklad_id FROM products WHERE archived = $1 AND article IN ($2,$3)")).
		WithArgs(false, "A-1", "A-2").
		WillReturnRows(sqlmock.NewRows([]string{"article", "moysklad_id"}).AddRow("A-1", "ms-9"))

	owners, err := NewProductRepository(conn).ArticleOwners(context.Background(), []string{"A-1", "A-2", "A-1"})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A-1": "ms-9"}, owners)
	assert.NoError(t, mock.ExpectationsWereMet())
}
