package scheduler

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/inventory-sync-api/infrastructure/lock"
	"github.com/vfg2006/inventory-sync-api/infrastructure/repository"
	"github.com/vfg2006/inventory-sync-api/internal/config"
	"github.com/vfg2006/inventory-sync-api/internal/domain"
	"github.com/vfg2006/inventory-sync-api/pkg/log"
	"github.com/vfg2006/inventory-sync-api/pkg/utils"
)

const (
	syncLockKey      = "inventory-sync:pipeline"
	finalSaveTimeout = 15 * time.Second
)

// SyncServiceConfig representa a configuração do agendador da sincronização
type SyncServiceConfig struct {
	CronSchedule     string
	FullCronSchedule string
	SyncEnabled      bool
	LockTTL          time.Duration
	JobHistorySize   int
	Location         *time.Location
}

func NewSyncServiceConfig(cfg *config.Config) SyncServiceConfig {
	return SyncServiceConfig{
		CronSchedule:     cfg.Sync.CronSchedule,
		FullCronSchedule: cfg.Sync.FullCronSchedule,
		SyncEnabled:      cfg.Sync.Enabled,
		LockTTL:          cfg.Sync.LockTTL,
		JobHistorySize:   cfg.Sync.JobHistorySize,
		Location:         cfg.MoySklad.Location(),
	}
}

// SyncService agenda o pipeline e mantém o registro dos jobs.
// Só um job roda por vez, garantido pelo lock.Locker.
type SyncService struct {
	scheduler *gocron.Scheduler
	config    SyncServiceConfig
	pipeline  *Pipeline
	jobs      repository.SyncJobRepository
	states    repository.SyncStateRepository
	locker    lock.Locker
	metrics   *Metrics
	now       func() time.Time

	// contexto dos jobs, cancelado no desligamento
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	statusMutex       sync.Mutex
	currentJobID      string
	lastJobID         string
	lastJobStatus     domain.JobStatus
	lastSyncStartedAt time.Time
	lastSyncEndedAt   time.Time
}

func NewSyncService(
	cfg SyncServiceConfig,
	pipeline *Pipeline,
	jobs repository.SyncJobRepository,
	states repository.SyncStateRepository,
	locker lock.Locker,
	metrics *Metrics,
) *SyncService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 2 * time.Hour
	}
	if cfg.JobHistorySize <= 0 {
		cfg.JobHistorySize = 20
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":      cfg.CronSchedule,
		"full_cron_schedule": cfg.FullCronSchedule,
		"sync_enabled":       cfg.SyncEnabled,
		"lock_ttl":           cfg.LockTTL.String(),
	}).Info("Configuração do agendador de sincronização carregada")

	ctx, cancel := context.WithCancel(context.Background())

	return &SyncService{
		scheduler: gocron.NewScheduler(cfg.Location),
		config:    cfg,
		pipeline:  pipeline,
		jobs:      jobs,
		states:    states,
		locker:    locker,
		metrics:   metrics,
		now:       time.Now,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start agenda as execuções incremental e completa
func (s *SyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Sincronização agendada desabilitada por configuração")
		return nil
	}

	logrus.WithFields(logrus.Fields{
		"cron":      s.config.CronSchedule,
		"full_cron": s.config.FullCronSchedule,
	}).Info("Iniciando agendador de sincronização")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Tag("incremental").Do(func() {
		s.scheduledSync(false)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização incremental: %w", err)
	}

	if s.config.FullCronSchedule != "" {
		_, err = s.scheduler.Cron(s.config.FullCronSchedule).Tag("full").Do(func() {
			s.scheduledSync(true)
		})
		if err != nil {
			return fmt.Errorf("erro ao agendar sincronização completa: %w", err)
		}
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de sincronização")
		s.Stop()
	}()

	return nil
}

// Stop cancela o job em andamento e aguarda sua finalização
func (s *SyncService) Stop() {
	s.scheduler.Stop()
	s.cancel()
	s.wg.Wait()
}

// Wait bloqueia até que nenhum job esteja rodando
func (s *SyncService) Wait() {
	s.wg.Wait()
}

func (s *SyncService) scheduledSync(full bool) {
	job, err := s.TriggerSync(s.ctx, domain.SelectorAll, full, domain.JobTriggerSchedule)
	if errors.Is(err, ErrSyncAlreadyRunning) {
		logrus.Info("Sincronização já em andamento, ignorando execução agendada")
		return
	}
	if err != nil {
		logrus.WithError(err).Error("Erro ao iniciar sincronização agendada")
		return
	}

	logrus.WithFields(logrus.Fields{
		"job_id": job.ID,
		"full":   full,
	}).Info("Sincronização agendada iniciada")
}

// TriggerSync cria o job pendente e o executa em segundo plano.
// Devolve uma cópia do job no momento da criação.
func (s *SyncService) TriggerSync(ctx context.Context, selector string, full bool, trigger domain.JobTrigger) (*domain.SyncJob, error) {
	if _, err := s.pipeline.Plan(selector); err != nil {
		return nil, err
	}

	lease, err := s.locker.Obtain(ctx, syncLockKey, s.config.LockTTL)
	if errors.Is(err, lock.ErrNotObtained) {
		return nil, ErrSyncAlreadyRunning
	}
	if err != nil {
		return nil, errors.Wrap(err, "erro ao obter lock da sincronização")
	}

	id, err := utils.GenerateID()
	if err != nil {
		s.release(lease)
		return nil, errors.Wrap(err, "erro ao gerar id do job")
	}

	job := &domain.SyncJob{
		ID:        id,
		Selector:  selector,
		Full:      full,
		Trigger:   trigger,
		Status:    domain.JobStatusPending,
		Results:   []*domain.EntitySyncResult{},
		CreatedAt: s.now(),
	}

	if err := s.jobs.Save(ctx, job); err != nil {
		s.release(lease)
		return nil, errors.Wrap(err, "erro ao registrar job de sincronização")
	}

	created := *job

	s.statusMutex.Lock()
	s.currentJobID = job.ID
	s.statusMutex.Unlock()

	s.wg.Add(1)
	go s.runJob(job, lease)

	return &created, nil
}

func (s *SyncService) runJob(job *domain.SyncJob, lease lock.Lease) {
	defer s.wg.Done()
	defer s.release(lease)

	ctx := log.WithJobID(s.ctx, job.ID)
	logger := log.ForContext(ctx).WithFields(log.Fields{
		"selector": job.Selector,
		"full":     job.Full,
		"trigger":  job.Trigger,
	})

	stopRefresh := s.keepAlive(ctx, lease)
	defer stopRefresh()

	job.Start(s.now())
	s.save(ctx, job)

	s.statusMutex.Lock()
	s.lastSyncStartedAt = *job.StartedAt
	s.statusMutex.Unlock()

	logger.Info("Iniciando job de sincronização")

	results, err := s.pipeline.Execute(ctx, job.Selector, job.Full, func(event ProgressEvent) {
		if event.Result == nil {
			job.CurrentStep = string(event.Step)
		} else {
			job.Results = append(job.Results, event.Result)
			job.Progress = progressPercent(event.Done, event.Total)
		}
		s.save(ctx, job)
	})
	if results != nil {
		job.Results = results
	}

	if err != nil {
		job.Fail(s.now(), err)
		logger.WithError(err).Error("Job de sincronização falhou")
	} else {
		job.Complete(s.now())
		logger.WithField("steps", len(job.Results)).Info("Job de sincronização concluído")
	}

	saveCtx, cancel := context.WithTimeout(context.Background(), finalSaveTimeout)
	defer cancel()
	s.save(saveCtx, job)

	s.metrics.ObserveJob(job.Status)

	s.statusMutex.Lock()
	s.currentJobID = ""
	s.lastJobID = job.ID
	s.lastJobStatus = job.Status
	s.lastSyncEndedAt = *job.FinishedAt
	s.statusMutex.Unlock()
}

// keepAlive renova o lock enquanto o job roda
func (s *SyncService) keepAlive(ctx context.Context, lease lock.Lease) func() {
	done := make(chan struct{})
	ticker := time.NewTicker(s.config.LockTTL / 3)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := lease.Refresh(ctx, s.config.LockTTL); err != nil {
					log.ForContext(ctx).WithError(err).Warn("Erro ao renovar lock da sincronização")
				}
			}
		}
	}()

	return func() { close(done) }
}

func (s *SyncService) save(ctx context.Context, job *domain.SyncJob) {
	if err := s.jobs.Save(ctx, job); err != nil {
		log.ForContext(ctx).WithError(err).WithField("status", job.Status).Error("Erro ao salvar job de sincronização")
	}
}

func (s *SyncService) release(lease lock.Lease) {
	ctx, cancel := context.WithTimeout(context.Background(), finalSaveTimeout)
	defer cancel()

	if err := lease.Release(ctx); err != nil {
		logrus.WithError(err).Warn("Erro ao liberar lock da sincronização")
	}
}

func (s *SyncService) GetJob(ctx context.Context, id string) (*domain.SyncJob, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	return job, nil
}

func (s *SyncService) ListJobs(ctx context.Context) ([]*domain.SyncJob, error) {
	return s.jobs.ListRecent(ctx, s.config.JobHistorySize)
}

func (s *SyncService) SyncStates(ctx context.Context) ([]*domain.SyncState, error) {
	return s.states.List(ctx)
}

// GetStatus retorna o status atual do agendador
func (s *SyncService) GetStatus() map[string]any {
	s.statusMutex.Lock()
	defer s.statusMutex.Unlock()

	status := map[string]any{
		"sync_enabled":         s.config.SyncEnabled,
		"sync_cron":            s.config.CronSchedule,
		"sync_full_cron":       s.config.FullCronSchedule,
		"running":              s.currentJobID != "",
		"current_job_id":       s.currentJobID,
		"last_job_id":          s.lastJobID,
		"last_job_status":      s.lastJobStatus,
		"last_sync_started_at": s.lastSyncStartedAt,
		"last_sync_ended_at":   s.lastSyncEndedAt,
	}

	if s.config.SyncEnabled {
		_, next := s.scheduler.NextRun()
		status["next_run"] = next
	}

	return status
}

func progressPercent(done, total int) float64 {
	if total == 0 {
		return 100
	}
	return math.Round(float64(done)/float64(total)*10000) / 100
}
