package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/inventory-sync-api/infrastructure/database/postgres"
	"github.com/vfg2006/inventory-sync-api/infrastructure/integrator/moysklad/msclient"
	"github.com/vfg2006/inventory-sync-api/infrastructure/lock"
	"github.com/vfg2006/inventory-sync-api/infrastructure/migration"
	"github.com/vfg2006/inventory-sync-api/infrastructure/notifier"
	"github.com/vfg2006/inventory-sync-api/infrastructure/repository"
	"github.com/vfg2006/inventory-sync-api/internal/api"
	"github.com/vfg2006/inventory-sync-api/internal/config"
	"github.com/vfg2006/inventory-sync-api/internal/scheduler"
	"github.com/vfg2006/inventory-sync-api/internal/usecases/reconciling"
	"github.com/vfg2006/inventory-sync-api/internal/usecases/syncing"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	if cfg.Database.AutoMigrate {
		migrate(pgConn)
	}

	locker, closeLocker := newLocker(ctx, cfg.Redis)
	defer closeLocker()

	msClient := msclient.NewClient(cfg)
	defer msClient.Close()

	mapper := repository.NewIDMapper(pgConn)
	syncStateRepo := repository.NewSyncStateRepository(pgConn)
	syncJobRepo := repository.NewSyncJobRepository(pgConn)
	costRepo := repository.NewCostRepository(pgConn)
	metricsRepo := repository.NewMetricsRepository(pgConn)

	engine := syncing.NewEngine(
		msClient,
		syncing.Repositories{
			Mapper:     mapper,
			Watermarks: syncStateRepo,
			Products:   repository.NewProductRepository(pgConn),
			Stock:      repository.NewStockRepository(pgConn),
		},
		syncing.NewTables(pgConn),
		syncing.NewConfig(cfg),
	)

	webhook := notifier.NewWebhookNotifier(cfg.Notifier)
	reconcileConfig := reconciling.NewConfig(cfg)

	reconcilers := []reconciling.Reconciler{
		reconciling.NewCostBackfill(engine.Pager(), mapper, costRepo, webhook, reconcileConfig),
		reconciling.NewHistoricalCost(engine.Pager(), mapper, costRepo, reconcileConfig),
		reconciling.NewMetricsJob(metricsRepo, reconcileConfig),
	}

	metrics := scheduler.NewMetrics()
	pipeline := scheduler.NewPipeline(engine, reconcilers, cfg.Sync.MaxConcurrentJobs, metrics)

	syncService := scheduler.NewSyncService(
		scheduler.NewSyncServiceConfig(cfg),
		pipeline,
		syncJobRepo,
		syncStateRepo,
		locker,
		metrics,
	)

	// Inicia o agendador em background
	if err := syncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização")
	} else {
		logrus.Info("Agendador de sincronização iniciado com sucesso")
	}
	defer syncService.Stop()

	server, err := api.New(cfg, syncService, metrics.Handler())
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

// migrate aplica o schema embutido antes de iniciar os serviços
func migrate(conn *postgres.Connection) {
	migrator, err := migration.New(conn.DB.DB)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao preparar migrações")
	}

	if err := migrator.Up(); err != nil {
		logrus.WithError(err).Fatal("Erro ao aplicar migrações")
	}
}

// newLocker usa Redis quando configurado e cai para o lock em memória
func newLocker(ctx context.Context, cfg config.Redis) (lock.Locker, func()) {
	if cfg.Address == "" {
		logrus.Info("REDIS_ADDRESS vazio, usando lock em memória")
		return lock.NewLocalLocker(), func() {}
	}

	client, err := lock.NewRedisClient(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao Redis")
	}

	return lock.NewRedisLocker(client), func() {
		if err := client.Close(); err != nil {
			logrus.WithError(err).Warn("Erro ao fechar conexão com Redis")
		}
	}
}
