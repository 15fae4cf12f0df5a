package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/inventory-sync-api/internal/domain"
	"github.com/vfg2006/inventory-sync-api/internal/usecases/reconciling"
	reconmocks "github.com/vfg2006/inventory-sync-api/internal/usecases/reconciling/mocks"
	syncmocks "github.com/vfg2006/inventory-sync-api/internal/usecases/syncing/mocks"
	"go.uber.org/mock/gomock"
)

func okResult(entityType domain.EntityType) *domain.EntitySyncResult {
	return &domain.EntitySyncResult{EntityType: entityType, Success: true, Fetched: 10, Upserted: 10}
}

func failedResult(entityType domain.EntityType, msg string) *domain.EntitySyncResult {
	return &domain.EntitySyncResult{EntityType: entityType, Error: msg}
}

func newReconcilers(ctrl *gomock.Controller) []reconciling.Reconciler {
	types := []domain.EntityType{domain.EntityCostBackfill, domain.EntityHistoricalCost, domain.EntityMetrics}

	reconcilers := make([]reconciling.Reconciler, 0, len(types))
	for _, entityType := range types {
		r := reconmocks.NewMockReconciler(ctrl)
		r.EXPECT().EntityType().Return(entityType).AnyTimes()
		r.EXPECT().Run(gomock.Any()).Return(okResult(entityType)).AnyTimes()
		reconcilers = append(reconcilers, r)
	}
	return reconcilers
}

func allSteps() []domain.EntityType {
	var steps []domain.EntityType
	for _, phase := range DefaultPhases {
		steps = append(steps, phase.Steps...)
	}
	return steps
}

func TestPipeline_Plan(t *testing.T) {
	ctrl := gomock.NewController(t)
	pipeline := NewPipeline(syncmocks.NewMockSyncer(ctrl), nil, 2, nil)

	tests := []struct {
		name     string
		selector string
		validate func(t *testing.T, phases []Phase, err error)
	}{
		{
			name:     "Seletor all executa todas as fases",
			selector: domain.SelectorAll,
			validate: func(t *testing.T, phases []Phase, err error) {
				require.NoError(t, err)
				assert.Len(t, phases, 4)
				assert.Equal(t, "base", phases[0].Name)
				assert.True(t, phases[0].Critical)
				assert.True(t, phases[1].Concurrent)
			},
		},
		{
			name:     "Seletor de etapa executa só a etapa",
			selector: "profit",
			validate: func(t *testing.T, phases []Phase, err error) {
				require.NoError(t, err)
				require.Len(t, phases, 1)
				assert.Equal(t, "reports", phases[0].Name)
				assert.Equal(t, []domain.EntityType{domain.EntityProfit}, phases[0].Steps)
			},
		},
		{
			name:     "Etapa base mantém a fase crítica",
			selector: "stores",
			validate: func(t *testing.T, phases []Phase, err error) {
				require.NoError(t, err)
				require.Len(t, phases, 1)
				assert.True(t, phases[0].Critical)
			},
		},
		{
			name:     "Seletor desconhecido",
			selector: "invoices",
			validate: func(t *testing.T, phases []Phase, err error) {
				assert.ErrorIs(t, err, ErrUnknownEntityType)
				assert.Nil(t, phases)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phases, err := pipeline.Plan(tt.selector)
			tt.validate(t, phases, err)
		})
	}
}

func TestPipeline_Execute(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		selector string
		setup    func(syncer *syncmocks.MockSyncer)
		validate func(t *testing.T, results []*domain.EntitySyncResult, events []ProgressEvent, err error)
	}{
		{
			name:     "Executa todas as etapas na ordem das fases",
			selector: domain.SelectorAll,
			setup: func(syncer *syncmocks.MockSyncer) {
				syncer.EXPECT().Sync(gomock.Any(), gomock.Any(), false).
					DoAndReturn(func(_ context.Context, entityType domain.EntityType, _ bool) *domain.EntitySyncResult {
						return okResult(entityType)
					}).Times(14)
			},
			validate: func(t *testing.T, results []*domain.EntitySyncResult, events []ProgressEvent, err error) {
				require.NoError(t, err)

				steps := allSteps()
				require.Len(t, results, len(steps))
				for i, step := range steps {
					assert.Equal(t, step, results[i].EntityType)
					assert.True(t, results[i].Success)
				}

				assert.Len(t, events, 2*len(steps))
				last := events[len(events)-1]
				assert.Equal(t, len(steps), last.Done)
				assert.Equal(t, len(steps), last.Total)
			},
		},
		{
			name:     "Falha na fase base interrompe o job",
			selector: domain.SelectorAll,
			setup: func(syncer *syncmocks.MockSyncer) {
				syncer.EXPECT().Sync(gomock.Any(), domain.EntityProducts, false).Return(okResult(domain.EntityProducts))
				syncer.EXPECT().Sync(gomock.Any(), domain.EntityBundles, false).
					Return(failedResult(domain.EntityBundles, "falha ao buscar entity/bundle"))
			},
			validate: func(t *testing.T, results []*domain.EntitySyncResult, _ []ProgressEvent, err error) {
				assert.ErrorIs(t, err, ErrBasePhaseFailed)
				require.Len(t, results, 2)
				assert.False(t, results[1].Success)
			},
		},
		{
			name:     "Falha fora da fase base fica registrada no resultado",
			selector: "stock",
			setup: func(syncer *syncmocks.MockSyncer) {
				syncer.EXPECT().Sync(gomock.Any(), domain.EntityStock, false).
					Return(failedResult(domain.EntityStock, "taxa de erro excedida"))
			},
			validate: func(t *testing.T, results []*domain.EntitySyncResult, _ []ProgressEvent, err error) {
				require.NoError(t, err)
				require.Len(t, results, 1)
				assert.False(t, results[0].Success)
				assert.Equal(t, "taxa de erro excedida", results[0].Error)
			},
		},
		{
			name:     "Pânico em etapa concorrente vira resultado com falha",
			selector: "sales",
			setup: func(syncer *syncmocks.MockSyncer) {
				syncer.EXPECT().Sync(gomock.Any(), domain.EntitySales, false).
					DoAndReturn(func(context.Context, domain.EntityType, bool) *domain.EntitySyncResult {
						panic("mapa nulo")
					})
			},
			validate: func(t *testing.T, results []*domain.EntitySyncResult, _ []ProgressEvent, err error) {
				require.NoError(t, err)
				require.Len(t, results, 1)
				assert.False(t, results[0].Success)
				assert.Equal(t, domain.EntitySales, results[0].EntityType)
				assert.Contains(t, results[0].Error, "mapa nulo")
			},
		},
		{
			name:     "Pânico na fase base falha o job",
			selector: "products",
			setup: func(syncer *syncmocks.MockSyncer) {
				syncer.EXPECT().Sync(gomock.Any(), domain.EntityProducts, false).
					DoAndReturn(func(context.Context, domain.EntityType, bool) *domain.EntitySyncResult {
						panic("índice fora do intervalo")
					})
			},
			validate: func(t *testing.T, results []*domain.EntitySyncResult, _ []ProgressEvent, err error) {
				assert.ErrorIs(t, err, ErrBasePhaseFailed)
				require.Len(t, results, 1)
				assert.Contains(t, results[0].Error, "panic")
			},
		},
		{
			name:     "Etapa de métricas usa o reconciliador",
			selector: "historical_cost",
			setup:    func(syncer *syncmocks.MockSyncer) {},
			validate: func(t *testing.T, results []*domain.EntitySyncResult, _ []ProgressEvent, err error) {
				require.NoError(t, err)
				require.Len(t, results, 1)
				assert.Equal(t, domain.EntityHistoricalCost, results[0].EntityType)
				assert.True(t, results[0].Success)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			syncer := syncmocks.NewMockSyncer(ctrl)
			tt.setup(syncer)

			pipeline := NewPipeline(syncer, newReconcilers(ctrl), 3, NewMetrics())

			var events []ProgressEvent
			results, err := pipeline.Execute(ctx, tt.selector, false, func(event ProgressEvent) {
				events = append(events, event)
			})

			tt.validate(t, results, events, err)
		})
	}
}

func TestPipeline_Execute_BoundedConcurrency(t *testing.T) {
	ctrl := gomock.NewController(t)
	syncer := syncmocks.NewMockSyncer(ctrl)

	var (
		active int32
		peak   int32
		mu     sync.Mutex
	)

	syncer.EXPECT().Sync(gomock.Any(), gomock.Any(), true).
		DoAndReturn(func(_ context.Context, entityType domain.EntityType, _ bool) *domain.EntitySyncResult {
			current := atomic.AddInt32(&active, 1)
			mu.Lock()
			if current > peak {
				peak = current
			}
			mu.Unlock()

			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&active, -1)
			return okResult(entityType)
		}).Times(14)

	pipeline := NewPipeline(syncer, newReconcilers(ctrl), 2, nil)

	results, err := pipeline.Execute(context.Background(), domain.SelectorAll, true, nil)
	require.NoError(t, err)
	assert.Len(t, results, 17)

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, peak, int32(2))
}

func TestPipeline_Execute_CanceledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	pipeline := NewPipeline(syncmocks.NewMockSyncer(ctrl), nil, 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := pipeline.Execute(ctx, domain.SelectorAll, false, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}
