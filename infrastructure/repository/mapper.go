package repository

//go:generate mockgen -source=mapper.go -destination=mocks/mapper.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/inventory-sync-api/infrastructure/database/postgres"
)

// tabelas que possuem a coluna moysklad_id
var mappableTables = map[string]struct{}{
	ProductsTable:       {},
	BundlesTable:        {},
	StoresTable:         {},
	CounterpartiesTable: {},
	SalesTable:          {},
	PurchasesTable:      {},
	OrdersTable:         {},
	WriteOffsTable:      {},
	PaymentsTable:       {},
	CashTable:           {},
}

// IDMapper resolve IDs do MoySklad para chaves locais em lote.
// IDs sem linha local não aparecem no mapa; quem chama decide a chave.
type IDMapper interface {
	ResolveLocalIDs(ctx context.Context, table string, foreignIDs []string) (map[string]string, error)
}

type idMapper struct {
	conn postgres.Queryer
}

func NewIDMapper(conn postgres.Queryer) IDMapper {
	return &idMapper{conn: conn}
}

func (m *idMapper) ResolveLocalIDs(ctx context.Context, table string, foreignIDs []string) (map[string]string, error) {
	if _, ok := mappableTables[table]; !ok {
		return nil, fmt.Errorf("tabela sem mapeamento de IDs: %s", table)
	}

	ids := uniqueNonEmpty(foreignIDs)
	mapping := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return mapping, nil
	}

	query, args, err := squirrel.
		Select("id", "moysklad_id").
		From(table).
		Where(squirrel.Eq{"moysklad_id": ids}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := m.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var localID, foreignID string
		if err := rows.Scan(&localID, &foreignID); err != nil {
			return nil, fmt.Errorf("erro ao escanear mapeamento: %w", err)
		}
		mapping[foreignID] = localID
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return mapping, nil
}

func uniqueNonEmpty(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	unique := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		unique = append(unique, value)
	}
	return unique
}
