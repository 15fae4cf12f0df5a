package repository

//go:generate mockgen -source=cost.go -destination=mocks/cost.go -package=mocks

import (
	"context"
	"fmt"
	"sort"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/inventory-sync-api/infrastructure/database/postgres"
	"github.com/vfg2006/inventory-sync-api/internal/domain"
)

// Os dois jobs de custo só escrevem em produtos com custo zerado ou nulo.
const backfillProductCostSQL = `
	UPDATE products AS p
	SET cost_price = u.cost, cost_updated_at = NOW()
	FROM unnest($1::text[], $2::numeric[]) AS u(id, cost)
	WHERE p.id = u.id
		AND u.cost > 0
		AND (p.cost_price IS NULL OR p.cost_price = 0)
`

// O relatório é agregado por produto; custo zero mantém o custo já gravado na linha.
const updateStockAgeSQL = `
	UPDATE stock_lines AS s
	SET cost_price = CASE WHEN u.cost > 0 THEN u.cost ELSE s.cost_price END,
		days_in_stock = u.days
	FROM unnest($1::text[], $2::numeric[], $3::numeric[]) AS u(product_id, cost, days)
	WHERE s.product_id = u.product_id
`

type CostUpdate struct {
	Products   int64
	StockLines int64
}

type CostRepository interface {
	ApplyStockReport(ctx context.Context, costs map[string]decimal.Decimal, ages []*domain.StockAge) (CostUpdate, error)
	BackfillProductCost(ctx context.Context, costs map[string]decimal.Decimal) (int64, error)
	MissingCost(ctx context.Context, sampleSize int) (int, []string, error)
}

type costRepository struct {
	conn *postgres.Connection
}

func NewCostRepository(conn *postgres.Connection) CostRepository {
	return &costRepository{conn: conn}
}

// ApplyStockReport grava custo de produto e idade de estoque na mesma transação
func (r *costRepository) ApplyStockReport(ctx context.Context, costs map[string]decimal.Decimal, ages []*domain.StockAge) (CostUpdate, error) {
	var update CostUpdate

	err := r.conn.RunInTransaction(ctx, func(tx *sqlx.Tx) error {
		products, err := backfillProductCost(ctx, tx, costs)
		if err != nil {
			return err
		}
		update.Products = products

		lines, err := updateStockAges(ctx, tx, ages)
		if err != nil {
			return err
		}
		update.StockLines = lines

		return nil
	})
	if err != nil {
		return CostUpdate{}, err
	}

	return update, nil
}

func (r *costRepository) BackfillProductCost(ctx context.Context, costs map[string]decimal.Decimal) (int64, error) {
	return backfillProductCost(ctx, r.conn, costs)
}

func (r *costRepository) MissingCost(ctx context.Context, sampleSize int) (int, []string, error) {
	missing := squirrel.And{
		squirrel.Eq{"archived": false},
		squirrel.Or{squirrel.Eq{"cost_price": nil}, squirrel.Eq{"cost_price": 0}},
	}

	countQuery, args, err := squirrel.
		Select("COUNT(*)").
		From(ProductsTable).
		Where(missing).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var count int
	if err := r.conn.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return 0, nil, fmt.Errorf("erro ao contar produtos sem custo: %w", err)
	}

	if count == 0 || sampleSize <= 0 {
		return count, nil, nil
	}

	sampleQuery, args, err := squirrel.
		Select("name").
		From(ProductsTable).
		Where(missing).
		OrderBy("name ASC").
		Limit(uint64(sampleSize)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	names := make([]string, 0, sampleSize)
	if err := r.conn.SelectContext(ctx, &names, sampleQuery, args...); err != nil {
		return 0, nil, fmt.Errorf("erro ao buscar amostra de produtos sem custo: %w", err)
	}

	return count, names, nil
}

func backfillProductCost(ctx context.Context, conn postgres.Queryer, costs map[string]decimal.Decimal) (int64, error) {
	if len(costs) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(costs))
	for id := range costs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	values := make([]string, 0, len(ids))
	for _, id := range ids {
		values = append(values, costs[id].String())
	}

	result, err := conn.ExecContext(ctx, backfillProductCostSQL, pq.Array(ids), pq.Array(values))
	if err != nil {
		return 0, fmt.Errorf("erro ao atualizar custo dos produtos: %w", err)
	}

	return result.RowsAffected()
}

func updateStockAges(ctx context.Context, conn postgres.Queryer, ages []*domain.StockAge) (int64, error) {
	if len(ages) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(ages))
	costs := make([]string, 0, len(ages))
	days := make([]float64, 0, len(ages))
	for _, age := range ages {
		ids = append(ids, age.ProductID)
		costs = append(costs, age.CostPrice.String())
		days = append(days, age.DaysInStock)
	}

	result, err := conn.ExecContext(ctx, updateStockAgeSQL, pq.Array(ids), pq.Array(costs), pq.Array(days))
	if err != nil {
		return 0, fmt.Errorf("erro ao atualizar idade do estoque: %w", err)
	}

	return result.RowsAffected()
}
