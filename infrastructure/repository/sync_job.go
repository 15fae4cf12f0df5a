package repository

//go:generate mockgen -source=sync_job.go -destination=mocks/sync_job.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/inventory-sync-api/infrastructure/database/postgres"
	"github.com/vfg2006/inventory-sync-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const syncJobsTable = "sync_jobs"

var syncJobColumns = []string{
	"id", "selector", "full_sync", "trigger_source", "status", "progress", "current_step",
	"results", "error", "created_at", "started_at", "finished_at",
}

// SyncJobRepository persiste o registro de status consultado pela interface
type SyncJobRepository interface {
	Save(ctx context.Context, job *domain.SyncJob) error
	GetByID(ctx context.Context, id string) (*domain.SyncJob, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.SyncJob, error)
}

type syncJobRow struct {
	ID          string     `db:"id"`
	Selector    string     `db:"selector"`
	Full        bool       `db:"full_sync"`
	Trigger     string     `db:"trigger_source"`
	Status      string     `db:"status"`
	Progress    float64    `db:"progress"`
	CurrentStep string     `db:"current_step"`
	Results     []byte     `db:"results"`
	Error       string     `db:"error"`
	CreatedAt   time.Time  `db:"created_at"`
	StartedAt   *time.Time `db:"started_at"`
	FinishedAt  *time.Time `db:"finished_at"`
}

type syncJobRepository struct {
	conn  *postgres.Connection
	table *Table[*domain.SyncJob]
}

func NewSyncJobRepository(conn *postgres.Connection) SyncJobRepository {
	return &syncJobRepository{
		conn: conn,
		table: NewTable(conn, TableSpec[*domain.SyncJob]{
			Name:      syncJobsTable,
			Conflict:  []string{"id"},
			Columns:   syncJobColumns,
			Preserved: []string{"created_at"},
			Key:       func(j *domain.SyncJob) string { return j.ID },
			Values:    syncJobValues,
		}),
	}
}

func syncJobValues(job *domain.SyncJob) []any {
	results, err := json.Marshal(job.Results)
	if err != nil {
		logrus.WithError(err).WithField("job_id", job.ID).Error("Erro ao serializar resultados do job")
		results = []byte("[]")
	}

	return []any{
		job.ID, job.Selector, job.Full, string(job.Trigger), string(job.Status), job.Progress,
		job.CurrentStep, string(results), job.Error, job.CreatedAt, job.StartedAt, job.FinishedAt,
	}
}

func (r *syncJobRepository) Save(ctx context.Context, job *domain.SyncJob) error {
	_, err := r.table.Upsert(ctx, []*domain.SyncJob{job})
	return err
}

func (r *syncJobRepository) GetByID(ctx context.Context, id string) (*domain.SyncJob, error) {
	query, args, err := squirrel.
		Select(syncJobColumns...).
		From(syncJobsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var row syncJobRow
	if err := r.conn.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar job %s: %w", id, err)
	}

	return row.toDomain()
}

func (r *syncJobRepository) ListRecent(ctx context.Context, limit int) ([]*domain.SyncJob, error) {
	query, args, err := squirrel.
		Select(syncJobColumns...).
		From(syncJobsTable).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var rows []syncJobRow
	if err := r.conn.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("erro ao listar jobs: %w", err)
	}

	jobs := make([]*domain.SyncJob, 0, len(rows))
	for i := range rows {
		job, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}

func (row syncJobRow) toDomain() (*domain.SyncJob, error) {
	job := &domain.SyncJob{
		ID:          row.ID,
		Selector:    row.Selector,
		Full:        row.Full,
		Trigger:     domain.JobTrigger(row.Trigger),
		Status:      domain.JobStatus(row.Status),
		Progress:    row.Progress,
		CurrentStep: row.CurrentStep,
		Error:       row.Error,
		CreatedAt:   row.CreatedAt,
		StartedAt:   row.StartedAt,
		FinishedAt:  row.FinishedAt,
	}

	if len(row.Results) > 0 {
		if err := json.Unmarshal(row.Results, &job.Results); err != nil {
			return nil, fmt.Errorf("erro ao deserializar resultados do job %s: %w", row.ID, err)
		}
	}

	return job, nil
}
