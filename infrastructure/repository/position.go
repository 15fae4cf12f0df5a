package repository

//go:generate mockgen -source=position.go -destination=mocks/position.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/vfg2006/inventory-sync-api/infrastructure/database/postgres"
	"github.com/vfg2006/inventory-sync-api/internal/domain"
)

// Posições dos documentos da página que não vieram mais na listagem.
const deleteRemovedPositionsSQL = `
	DELETE FROM document_positions
	WHERE document_id = ANY($1::text[])
		AND NOT (id = ANY($2::text[]))
`

type PositionRepository interface {
	// Replace grava as posições e apaga dos documentos informados as que não estão em keepIDs
	Replace(ctx context.Context, documentIDs, keepIDs []string, positions []*domain.DocumentPosition) (int64, error)
}

type positionRepository struct {
	conn *postgres.Connection
}

func NewPositionRepository(conn *postgres.Connection) PositionRepository {
	return &positionRepository{conn: conn}
}

func (r *positionRepository) Replace(ctx context.Context, documentIDs, keepIDs []string, positions []*domain.DocumentPosition) (int64, error) {
	var removed int64

	err := r.conn.RunInTransaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := NewPositionTable(tx).Upsert(ctx, positions); err != nil {
			return err
		}

		if len(documentIDs) == 0 {
			return nil
		}

		if keepIDs == nil {
			keepIDs = []string{}
		}

		result, err := tx.ExecContext(ctx, deleteRemovedPositionsSQL, pq.Array(documentIDs), pq.Array(keepIDs))
		if err != nil {
			return fmt.Errorf("erro ao remover posições antigas: %w", err)
		}

		removed, err = result.RowsAffected()
		if err != nil {
			return fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return removed, nil
}
