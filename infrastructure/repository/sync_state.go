package repository

//go:generate mockgen -source=sync_state.go -destination=mocks/sync_state.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/inventory-sync-api/infrastructure/database/postgres"
	"github.com/vfg2006/inventory-sync-api/internal/domain"
)

const syncStateTable = "sync_state"

// SyncStateRepository guarda a marca d'água de cada tipo de entidade
type SyncStateRepository interface {
	GetLastSyncStart(ctx context.Context, entityType domain.EntityType) (*time.Time, error)
	SetSyncWindow(ctx context.Context, entityType domain.EntityType, start, end time.Time) error
	List(ctx context.Context) ([]*domain.SyncState, error)
}

type syncStateRepository struct {
	conn *postgres.Connection
}

func NewSyncStateRepository(conn *postgres.Connection) SyncStateRepository {
	return &syncStateRepository{conn: conn}
}

func (r *syncStateRepository) GetLastSyncStart(ctx context.Context, entityType domain.EntityType) (*time.Time, error) {
	query, args, err := squirrel.
		Select("last_sync_start").
		From(syncStateTable).
		Where(squirrel.Eq{"entity_type": string(entityType)}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var lastStart time.Time
	err = r.conn.QueryRowContext(ctx, query, args...).Scan(&lastStart)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar marca d'água de %s: %w", entityType, err)
	}

	return &lastStart, nil
}

func (r *syncStateRepository) SetSyncWindow(ctx context.Context, entityType domain.EntityType, start, end time.Time) error {
	query, args, err := squirrel.StatementBuilder.
		Insert(syncStateTable).
		Columns("entity_type", "last_sync_start", "last_sync_end").
		Values(string(entityType), start, end).
		Suffix(`
			ON CONFLICT (entity_type) DO UPDATE SET
				last_sync_start = EXCLUDED.last_sync_start,
				last_sync_end = EXCLUDED.last_sync_end,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("erro ao gravar marca d'água de %s: %w", entityType, err)
	}

	return nil
}

func (r *syncStateRepository) List(ctx context.Context) ([]*domain.SyncState, error) {
	query, args, err := squirrel.
		Select("entity_type", "last_sync_start", "last_sync_end", "updated_at").
		From(syncStateTable).
		OrderBy("entity_type ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	states := make([]*domain.SyncState, 0)
	if err := r.conn.SelectContext(ctx, &states, query, args...); err != nil {
		return nil, fmt.Errorf("erro ao listar marcas d'água: %w", err)
	}

	return states, nil
}
