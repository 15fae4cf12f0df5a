package scheduler

//go:generate mockgen -source=controller.go -destination=mocks/controller.go -package=mocks

import (
	"context"

	"github.com/vfg2006/inventory-sync-api/internal/domain"
)

// SyncController é o que a API HTTP enxerga do orquestrador
type SyncController interface {
	TriggerSync(ctx context.Context, selector string, full bool, trigger domain.JobTrigger) (*domain.SyncJob, error)
	GetJob(ctx context.Context, id string) (*domain.SyncJob, error)
	ListJobs(ctx context.Context) ([]*domain.SyncJob, error)
	SyncStates(ctx context.Context) ([]*domain.SyncState, error)
	GetStatus() map[string]any
}
