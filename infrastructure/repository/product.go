package repository

//go:generate mockgen -source=product.go -destination=mocks/product.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/inventory-sync-api/infrastructure/database/postgres"
)

type ProductRepository interface {
	// ArticleOwners devolve artigo -> moysklad_id dos produtos ativos
	ArticleOwners(ctx context.Context, articles []string) (map[string]string, error)
}

type productRepository struct {
	conn postgres.Queryer
}

func NewProductRepository(conn postgres.Queryer) ProductRepository {
	return &productRepository{conn: conn}
}

func (r *productRepository) ArticleOwners(ctx context.Context, articles []string) (map[string]string, error) {
	values := uniqueNonEmpty(articles)
	owners := make(map[string]string, len(values))
	if len(values) == 0 {
		return owners, nil
	}

	query, args, err := squirrel.
		Select("article", "moysklad_id").
		From(ProductsTable).
		Where(squirrel.Eq{"article": values, "archived": false}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var article, foreignID string
		if err := rows.Scan(&article, &foreignID); err != nil {
			return nil, fmt.Errorf("erro ao escanear artigo: %w", err)
		}
		owners[article] = foreignID
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return owners, nil
}
