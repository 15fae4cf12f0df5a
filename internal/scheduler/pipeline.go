package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/inventory-sync-api/internal/domain"
	"github.com/vfg2006/inventory-sync-api/internal/usecases/reconciling"
	"github.com/vfg2006/inventory-sync-api/internal/usecases/syncing"
)

// Phase agrupa etapas que podem rodar juntas. Falha em fase crítica encerra o job.
type Phase struct {
	Name       string
	Steps      []domain.EntityType
	Concurrent bool
	Critical   bool
}

var DefaultPhases = []Phase{
	{
		Name:     "base",
		Steps:    []domain.EntityType{domain.EntityProducts, domain.EntityBundles, domain.EntityStores, domain.EntityCounterparties},
		Critical: true,
	},
	{
		Name: "transactional",
		Steps: []domain.EntityType{
			domain.EntityStock, domain.EntitySales, domain.EntityPurchases, domain.EntityOrders,
			domain.EntityPayments, domain.EntityCash, domain.EntityWriteOffs,
		},
		Concurrent: true,
	},
	{
		Name:       "reports",
		Steps:      []domain.EntityType{domain.EntityTurnover, domain.EntityProfit, domain.EntityMoney},
		Concurrent: true,
	},
	{
		Name:  "metrics",
		Steps: []domain.EntityType{domain.EntityCostBackfill, domain.EntityHistoricalCost, domain.EntityMetrics},
	},
}

// ProgressEvent é emitido no início (Result nil) e no fim de cada etapa
type ProgressEvent struct {
	Step   domain.EntityType
	Result *domain.EntitySyncResult
	Done   int
	Total  int
}

type ProgressFunc func(event ProgressEvent)

type Pipeline struct {
	syncer        syncing.Syncer
	reconcilers   map[domain.EntityType]reconciling.Reconciler
	phases        []Phase
	maxConcurrent int
	metrics       *Metrics
	mu            sync.Mutex
	now           func() time.Time
}

func NewPipeline(
	syncer syncing.Syncer,
	reconcilers []reconciling.Reconciler,
	maxConcurrent int,
	metrics *Metrics,
) *Pipeline {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	byType := make(map[domain.EntityType]reconciling.Reconciler, len(reconcilers))
	for _, r := range reconcilers {
		byType[r.EntityType()] = r
	}

	return &Pipeline{
		syncer:        syncer,
		reconcilers:   byType,
		phases:        DefaultPhases,
		maxConcurrent: maxConcurrent,
		metrics:       metrics,
		now:           time.Now,
	}
}

// Plan resolve o seletor nas fases a executar
func (p *Pipeline) Plan(selector string) ([]Phase, error) {
	if selector == domain.SelectorAll {
		return p.phases, nil
	}

	entityType, ok := domain.ParseEntityType(selector)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownEntityType, "seletor %q", selector)
	}

	for _, phase := range p.phases {
		for _, step := range phase.Steps {
			if step == entityType {
				return []Phase{{
					Name:     phase.Name,
					Steps:    []domain.EntityType{step},
					Critical: phase.Critical,
				}}, nil
			}
		}
	}

	return nil, errors.Wrapf(ErrUnknownEntityType, "seletor %q", selector)
}

// Execute roda as fases em ordem e devolve os resultados na ordem das etapas.
// O erro só é preenchido quando o job deve terminar como falho.
func (p *Pipeline) Execute(ctx context.Context, selector string, full bool, progress ProgressFunc) ([]*domain.EntitySyncResult, error) {
	phases, err := p.Plan(selector)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	total := 0
	for _, phase := range phases {
		total += len(phase.Steps)
	}

	var (
		progressMu sync.Mutex
		done       int
	)
	report := func(step domain.EntityType, result *domain.EntitySyncResult) {
		progressMu.Lock()
		defer progressMu.Unlock()

		if result != nil {
			done++
		}
		if progress != nil {
			progress(ProgressEvent{Step: step, Result: result, Done: done, Total: total})
		}
	}

	results := make([]*domain.EntitySyncResult, 0, total)
	for _, phase := range phases {
		if err := ctx.Err(); err != nil {
			return results, errors.Wrap(err, "sincronização interrompida")
		}

		logrus.WithFields(logrus.Fields{
			"phase":      phase.Name,
			"steps":      len(phase.Steps),
			"concurrent": phase.Concurrent,
			"full":       full,
		}).Info("Iniciando fase da sincronização")

		phaseResults := p.runPhase(ctx, phase, full, report)
		results = append(results, phaseResults...)

		if !phase.Critical {
			continue
		}
		for _, result := range phaseResults {
			if !result.Success {
				return results, errors.Wrapf(ErrBasePhaseFailed, "%s: %s", result.EntityType, result.Error)
			}
		}
	}

	return results, nil
}

func (p *Pipeline) runPhase(
	ctx context.Context,
	phase Phase,
	full bool,
	report func(domain.EntityType, *domain.EntitySyncResult),
) []*domain.EntitySyncResult {
	results := make([]*domain.EntitySyncResult, len(phase.Steps))

	if !phase.Concurrent {
		for i, step := range phase.Steps {
			report(step, nil)
			results[i] = p.runStep(ctx, step, full)
			report(step, results[i])

			if phase.Critical && !results[i].Success {
				return results[:i+1]
			}
		}
		return results
	}

	semaphore := make(chan struct{}, p.maxConcurrent)
	var wg sync.WaitGroup

	for i, step := range phase.Steps {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(i int, step domain.EntityType) {
			defer wg.Done()
			defer func() { <-semaphore }()

			report(step, nil)
			results[i] = p.runStep(ctx, step, full)
			report(step, results[i])
		}(i, step)
	}

	wg.Wait()
	return results
}

func (p *Pipeline) runStep(ctx context.Context, step domain.EntityType, full bool) (result *domain.EntitySyncResult) {
	startedAt := p.now()

	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"entity_type": step,
				"panic":       r,
			}).Error("Pânico recuperado durante a sincronização")

			result = &domain.EntitySyncResult{
				EntityType: step,
				Error:      fmt.Sprintf("panic: %v", r),
				StartedAt:  startedAt,
				FinishedAt: p.now(),
			}
		}
		p.metrics.ObserveStep(result)
	}()

	if reconciler, ok := p.reconcilers[step]; ok {
		result = reconciler.Run(ctx)
	} else {
		result = p.syncer.Sync(ctx, step, full)
	}

	if result == nil {
		result = &domain.EntitySyncResult{
			EntityType: step,
			Error:      "etapa não produziu resultado",
			StartedAt:  startedAt,
			FinishedAt: p.now(),
		}
	}

	logrus.WithFields(logrus.Fields{
		"entity_type": step,
		"success":     result.Success,
		"fetched":     result.Fetched,
		"upserted":    result.Upserted,
		"skipped":     result.Skipped,
		"errors":      result.Errors,
	}).Info("Etapa da sincronização finalizada")

	return result
}
