package reconciling

import (
	"context"
	"time"

	"github.com/vfg2006/inventory-sync-api/infrastructure/repository"
	"github.com/vfg2006/inventory-sync-api/internal/domain"
	"github.com/vfg2006/inventory-sync-api/pkg/utils"
)

// MetricsJob recalcula as métricas de todos os produtos ativos a cada execução
type MetricsJob struct {
	repo   repository.MetricsRepository
	config Config
	now    func() time.Time
}

func NewMetricsJob(repo repository.MetricsRepository, cfg Config) *MetricsJob {
	return &MetricsJob{
		repo:   repo,
		config: cfg.withDefaults(),
		now:    time.Now,
	}
}

func (m *MetricsJob) EntityType() domain.EntityType {
	return domain.EntityMetrics
}

func (m *MetricsJob) Run(ctx context.Context) *domain.EntitySyncResult {
	start := m.now()
	result := newResult(domain.EntityMetrics, start)

	since, _ := utils.TrailingDays(start.In(m.config.Location), m.config.MetricsWindowDays)

	activity, err := m.repo.LoadActivity(ctx, since)
	if err != nil {
		return finish(result, err, m.now())
	}
	result.Fetched = len(activity)

	thresholds := Thresholds{
		LowMarginPercent: m.config.LowMarginPercent,
		OverstockDays:    m.config.OverstockDays,
		ReorderDays:      m.config.ReorderDays,
	}

	metrics := make([]*domain.ProductMetrics, 0, len(activity))
	for _, item := range activity {
		metrics = append(metrics, ComputeMetrics(item, m.config.MetricsWindowDays, thresholds, start))
	}

	saved, err := m.repo.SaveMetrics(ctx, metrics)
	result.Upserted = saved
	if err != nil {
		result.Errors = len(metrics) - saved
		return finish(result, err, m.now())
	}

	return finish(result, nil, m.now())
}
