package repository

//go:generate mockgen -source=stock.go -destination=mocks/stock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/inventory-sync-api/infrastructure/database/postgres"
)

type StockRepository interface {
	// ResetStale zera as linhas que não vieram no último snapshot
	ResetStale(ctx context.Context, before time.Time) (int64, error)
}

type stockRepository struct {
	conn postgres.Queryer
}

func NewStockRepository(conn postgres.Queryer) StockRepository {
	return &stockRepository{conn: conn}
}

func (r *stockRepository) ResetStale(ctx context.Context, before time.Time) (int64, error) {
	query, args, err := squirrel.
		Update(StockLinesTable).
		Set("stock", 0).
		Set("reserve", 0).
		Set("in_transit", 0).
		Set("synced_at", before).
		Where(squirrel.Lt{"synced_at": before}).
		Where(squirrel.Or{
			squirrel.NotEq{"stock": 0},
			squirrel.NotEq{"reserve": 0},
			squirrel.NotEq{"in_transit": 0},
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("erro ao executar a query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}

	return rowsAffected, nil
}
