package reconciling

//go:generate mockgen -source=reconciler.go -destination=mocks/reconciler.go -package=mocks

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/inventory-sync-api/internal/config"
	"github.com/vfg2006/inventory-sync-api/internal/domain"
)

// Reconciler é um job derivado das tabelas já sincronizadas.
// Não tem marca d'água: toda execução recalcula o que lhe cabe.
type Reconciler interface {
	EntityType() domain.EntityType
	Run(ctx context.Context) *domain.EntitySyncResult
}

type Config struct {
	HistoricalCostLookbackDays int
	MetricsWindowDays          int
	LowMarginPercent           float64
	OverstockDays              float64
	ReorderDays                float64
	MissingCostSampleSize      int
	Location                   *time.Location
}

func NewConfig(cfg *config.Config) Config {
	return Config{
		HistoricalCostLookbackDays: cfg.Reconciliation.HistoricalCostLookbackDays,
		MetricsWindowDays:          cfg.Reconciliation.MetricsWindowDays,
		LowMarginPercent:           cfg.Reconciliation.LowMarginPercent,
		OverstockDays:              cfg.Reconciliation.OverstockDays,
		ReorderDays:                cfg.Reconciliation.ReorderDays,
		MissingCostSampleSize:      cfg.Reconciliation.MissingCostSampleSize,
		Location:                   cfg.MoySklad.Location(),
	}
}

func (c Config) withDefaults() Config {
	if c.HistoricalCostLookbackDays <= 0 {
		c.HistoricalCostLookbackDays = 365
	}
	if c.MetricsWindowDays <= 0 {
		c.MetricsWindowDays = 30
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	return c
}

func newResult(entityType domain.EntityType, start time.Time) *domain.EntitySyncResult {
	return &domain.EntitySyncResult{
		EntityType: entityType,
		Mode:       domain.SyncModeFull,
		StartedAt:  start,
	}
}

func finish(result *domain.EntitySyncResult, err error, now time.Time) *domain.EntitySyncResult {
	result.FinishedAt = now
	logger := logrus.WithFields(logrus.Fields{
		"entity_type": result.EntityType,
		"fetched":     result.Fetched,
		"upserted":    result.Upserted,
		"skipped":     result.Skipped,
	})

	if err != nil {
		result.Success = false
		result.Error = err.Error()
		logger.WithError(err).Error("Job de reconciliação falhou")
		return result
	}

	result.Success = true
	logger.WithField("duration", now.Sub(result.StartedAt).String()).Info("Job de reconciliação concluído")
	return result
}
