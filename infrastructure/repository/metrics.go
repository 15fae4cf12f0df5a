package repository

//go:generate mockgen -source=metrics.go -destination=mocks/metrics.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/vfg2006/inventory-sync-api/infrastructure/database/postgres"
	"github.com/vfg2006/inventory-sync-api/internal/domain"
)

// Vendas efetivadas na janela, por produto, junto do estoque atual somado entre depósitos.
const productActivitySQL = `
	SELECT
		p.id AS product_id,
		p.name AS name,
		COALESCE(p.cost_price, 0) AS cost_price,
		COALESCE(st.stock, 0) AS current_stock,
		COALESCE(sl.units_sold, 0) AS units_sold,
		COALESCE(sl.revenue, 0) AS revenue,
		COALESCE(sl.cogs, 0) AS cogs,
		COALESCE(sl.uncosted_units, 0) AS uncosted_units
	FROM products p
	LEFT JOIN (
		SELECT product_id, SUM(stock) AS stock
		FROM stock_lines
		GROUP BY product_id
	) st ON st.product_id = p.id
	LEFT JOIN (
		SELECT
			dp.product_id,
			SUM(dp.quantity) AS units_sold,
			SUM(dp.quantity * dp.price * (1 - dp.discount / 100)) AS revenue,
			SUM(dp.quantity * dp.cost) AS cogs,
			SUM(CASE WHEN dp.cost = 0 THEN dp.quantity ELSE 0 END) AS uncosted_units
		FROM document_positions dp
		JOIN sales s ON s.id = dp.document_id
		WHERE dp.document_kind = 'sales'
			AND dp.product_id IS NOT NULL
			AND s.applicable
			AND s.moment >= $1
		GROUP BY dp.product_id
	) sl ON sl.product_id = p.id
	WHERE NOT p.archived
	ORDER BY p.id
`

type MetricsRepository interface {
	LoadActivity(ctx context.Context, since time.Time) ([]*domain.ProductActivity, error)
	SaveMetrics(ctx context.Context, metrics []*domain.ProductMetrics) (int, error)
}

type metricsRepository struct {
	conn  *postgres.Connection
	table *Table[*domain.ProductMetrics]
}

func NewMetricsRepository(conn *postgres.Connection) MetricsRepository {
	return &metricsRepository{
		conn:  conn,
		table: NewMetricsTable(conn),
	}
}

func (r *metricsRepository) LoadActivity(ctx context.Context, since time.Time) ([]*domain.ProductActivity, error) {
	activity := make([]*domain.ProductActivity, 0)
	if err := r.conn.SelectContext(ctx, &activity, productActivitySQL, since); err != nil {
		return nil, fmt.Errorf("erro ao carregar atividade dos produtos: %w", err)
	}
	return activity, nil
}

func (r *metricsRepository) SaveMetrics(ctx context.Context, metrics []*domain.ProductMetrics) (int, error) {
	return r.table.Upsert(ctx, metrics)
}
