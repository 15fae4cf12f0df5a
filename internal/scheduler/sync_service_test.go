package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/inventory-sync-api/infrastructure/lock"
	repomocks "github.com/vfg2006/inventory-sync-api/infrastructure/repository/mocks"
	"github.com/vfg2006/inventory-sync-api/internal/domain"
	syncmocks "github.com/vfg2006/inventory-sync-api/internal/usecases/syncing/mocks"
	"go.uber.org/mock/gomock"
)

// savedJobs guarda cópias de cada job salvo
type savedJobs struct {
	mu   sync.Mutex
	jobs []domain.SyncJob
}

func (s *savedJobs) record(_ context.Context, job *domain.SyncJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := *job
	snapshot.Results = append([]*domain.EntitySyncResult(nil), job.Results...)
	s.jobs = append(s.jobs, snapshot)
	return nil
}

func (s *savedJobs) last() domain.SyncJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[len(s.jobs)-1]
}

type serviceFixture struct {
	service *SyncService
	syncer  *syncmocks.MockSyncer
	jobs    *repomocks.MockSyncJobRepository
	states  *repomocks.MockSyncStateRepository
	metrics *Metrics
	saved   *savedJobs
}

func newServiceFixture(t *testing.T) *serviceFixture {
	ctrl := gomock.NewController(t)

	f := &serviceFixture{
		syncer:  syncmocks.NewMockSyncer(ctrl),
		jobs:    repomocks.NewMockSyncJobRepository(ctrl),
		states:  repomocks.NewMockSyncStateRepository(ctrl),
		metrics: NewMetrics(),
		saved:   &savedJobs{},
	}

	pipeline := NewPipeline(f.syncer, nil, 2, f.metrics)
	f.service = NewSyncService(
		SyncServiceConfig{LockTTL: time.Minute, JobHistorySize: 5, Location: time.UTC},
		pipeline,
		f.jobs,
		f.states,
		lock.NewLocalLocker(),
		f.metrics,
	)

	t.Cleanup(f.service.Stop)
	return f
}

func TestSyncService_TriggerSync(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		selector string
		setup    func(f *serviceFixture)
		validate func(t *testing.T, f *serviceFixture, job *domain.SyncJob, err error)
	}{
		{
			name:     "Job manual roda até concluir",
			selector: "products",
			setup: func(f *serviceFixture) {
				f.jobs.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(f.saved.record).AnyTimes()
				f.syncer.EXPECT().Sync(gomock.Any(), domain.EntityProducts, false).Return(okResult(domain.EntityProducts))
			},
			validate: func(t *testing.T, f *serviceFixture, job *domain.SyncJob, err error) {
				require.NoError(t, err)
				assert.Equal(t, domain.JobStatusPending, job.Status)
				assert.Len(t, job.ID, 12)
				assert.Equal(t, domain.JobTriggerManual, job.Trigger)

				f.service.Wait()

				last := f.saved.last()
				assert.Equal(t, job.ID, last.ID)
				assert.Equal(t, domain.JobStatusCompleted, last.Status)
				assert.Equal(t, float64(100), last.Progress)
				assert.Empty(t, last.CurrentStep)
				require.Len(t, last.Results, 1)
				assert.True(t, last.Results[0].Success)
				assert.NotNil(t, last.StartedAt)
				assert.NotNil(t, last.FinishedAt)

				assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.jobsTotal.WithLabelValues("completed")))
				assert.Equal(t, float64(10), testutil.ToFloat64(f.metrics.rowsTotal.WithLabelValues("products", "upserted")))
			},
		},
		{
			name:     "Falha na fase base marca o job como falho",
			selector: "stores",
			setup: func(f *serviceFixture) {
				f.jobs.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(f.saved.record).AnyTimes()
				f.syncer.EXPECT().Sync(gomock.Any(), domain.EntityStores, false).
					Return(failedResult(domain.EntityStores, "erro de rede"))
			},
			validate: func(t *testing.T, f *serviceFixture, job *domain.SyncJob, err error) {
				require.NoError(t, err)
				f.service.Wait()

				last := f.saved.last()
				assert.Equal(t, domain.JobStatusFailed, last.Status)
				assert.Contains(t, last.Error, "fase base falhou")
				assert.Contains(t, last.Error, "erro de rede")
				assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.jobsTotal.WithLabelValues("failed")))
			},
		},
		{
			name:     "Falha fora da fase base conclui o job",
			selector: "money",
			setup: func(f *serviceFixture) {
				f.jobs.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(f.saved.record).AnyTimes()
				f.syncer.EXPECT().Sync(gomock.Any(), domain.EntityMoney, false).
					Return(failedResult(domain.EntityMoney, "erro de rede"))
			},
			validate: func(t *testing.T, f *serviceFixture, job *domain.SyncJob, err error) {
				require.NoError(t, err)
				f.service.Wait()

				last := f.saved.last()
				assert.Equal(t, domain.JobStatusCompleted, last.Status)
				require.Len(t, last.Results, 1)
				assert.Equal(t, "erro de rede", last.Results[0].Error)
			},
		},
		{
			name:     "Seletor desconhecido não cria job",
			selector: "invoices",
			setup:    func(f *serviceFixture) {},
			validate: func(t *testing.T, f *serviceFixture, job *domain.SyncJob, err error) {
				assert.ErrorIs(t, err, ErrUnknownEntityType)
				assert.Nil(t, job)
			},
		},
		{
			name:     "Erro ao registrar job libera o lock",
			selector: "products",
			setup: func(f *serviceFixture) {
				gomock.InOrder(
					f.jobs.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("conexão recusada")),
					f.jobs.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(f.saved.record).AnyTimes(),
				)
				f.syncer.EXPECT().Sync(gomock.Any(), domain.EntityProducts, false).Return(okResult(domain.EntityProducts))
			},
			validate: func(t *testing.T, f *serviceFixture, job *domain.SyncJob, err error) {
				assert.ErrorContains(t, err, "conexão recusada")
				assert.Nil(t, job)

				next, err := f.service.TriggerSync(ctx, "products", false, domain.JobTriggerManual)
				require.NoError(t, err)
				f.service.Wait()
				assert.Equal(t, next.ID, f.saved.last().ID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture(t)
			tt.setup(f)

			job, err := f.service.TriggerSync(ctx, tt.selector, false, domain.JobTriggerManual)
			tt.validate(t, f, job, err)
		})
	}
}

func TestSyncService_TriggerSync_RefusesConcurrentJob(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	release := make(chan struct{})
	started := make(chan struct{})

	f.jobs.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(f.saved.record).AnyTimes()
	gomock.InOrder(
		f.syncer.EXPECT().Sync(gomock.Any(), domain.EntityStock, true).
			DoAndReturn(func(context.Context, domain.EntityType, bool) *domain.EntitySyncResult {
				close(started)
				<-release
				return okResult(domain.EntityStock)
			}),
		f.syncer.EXPECT().Sync(gomock.Any(), domain.EntityStock, true).Return(okResult(domain.EntityStock)),
	)

	first, err := f.service.TriggerSync(ctx, "stock", true, domain.JobTriggerManual)
	require.NoError(t, err)
	<-started

	status := f.service.GetStatus()
	assert.Equal(t, true, status["running"])
	assert.Equal(t, first.ID, status["current_job_id"])

	_, err = f.service.TriggerSync(ctx, domain.SelectorAll, false, domain.JobTriggerManual)
	assert.ErrorIs(t, err, ErrSyncAlreadyRunning)

	close(release)
	f.service.Wait()

	second, err := f.service.TriggerSync(ctx, "stock", true, domain.JobTriggerSchedule)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	f.service.Wait()

	status = f.service.GetStatus()
	assert.Equal(t, false, status["running"])
	assert.Equal(t, second.ID, status["last_job_id"])
	assert.Equal(t, domain.JobStatusCompleted, status["last_job_status"])
	_, hasNextRun := status["next_run"]
	assert.False(t, hasNextRun)
}

func TestSyncService_Queries(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		run  func(t *testing.T, f *serviceFixture)
	}{
		{
			name: "Job inexistente",
			run: func(t *testing.T, f *serviceFixture) {
				f.jobs.EXPECT().GetByID(gomock.Any(), "abc").Return(nil, nil)

				job, err := f.service.GetJob(ctx, "abc")
				assert.ErrorIs(t, err, ErrJobNotFound)
				assert.Nil(t, job)
			},
		},
		{
			name: "Job encontrado",
			run: func(t *testing.T, f *serviceFixture) {
				expected := &domain.SyncJob{ID: "abc", Status: domain.JobStatusRunning}
				f.jobs.EXPECT().GetByID(gomock.Any(), "abc").Return(expected, nil)

				job, err := f.service.GetJob(ctx, "abc")
				require.NoError(t, err)
				assert.Equal(t, expected, job)
			},
		},
		{
			name: "Erro do repositório ao buscar job",
			run: func(t *testing.T, f *serviceFixture) {
				f.jobs.EXPECT().GetByID(gomock.Any(), "abc").Return(nil, errors.New("timeout"))

				_, err := f.service.GetJob(ctx, "abc")
				assert.EqualError(t, err, "timeout")
			},
		},
		{
			name: "Histórico usa o limite configurado",
			run: func(t *testing.T, f *serviceFixture) {
				f.jobs.EXPECT().ListRecent(gomock.Any(), 5).Return([]*domain.SyncJob{{ID: "a"}, {ID: "b"}}, nil)

				jobs, err := f.service.ListJobs(ctx)
				require.NoError(t, err)
				assert.Len(t, jobs, 2)
			},
		},
		{
			name: "Marcas d'água",
			run: func(t *testing.T, f *serviceFixture) {
				states := []*domain.SyncState{{EntityType: domain.EntityProducts}}
				f.states.EXPECT().List(gomock.Any()).Return(states, nil)

				got, err := f.service.SyncStates(ctx)
				require.NoError(t, err)
				assert.Equal(t, states, got)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.run(t, newServiceFixture(t))
		})
	}
}

func TestProgressPercent(t *testing.T) {
	assert.Equal(t, float64(100), progressPercent(0, 0))
	assert.Equal(t, 33.33, progressPercent(1, 3))
	assert.Equal(t, float64(100), progressPercent(17, 17))
}
