package syncing

//go:generate mockgen -source=engine.go -destination=mocks/engine.go -package=mocks

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/inventory-sync-api/infrastructure/database/postgres"
	"github.com/vfg2006/inventory-sync-api/infrastructure/integrator/moysklad/msclient"
	"github.com/vfg2006/inventory-sync-api/infrastructure/repository"
	"github.com/vfg2006/inventory-sync-api/internal/config"
	"github.com/vfg2006/inventory-sync-api/internal/domain"
)

// Syncer executa o procedimento de sincronização de um tipo de entidade.
// Falhas ficam no resultado; nada é devolvido como erro ao chamador.
type Syncer interface {
	Sync(ctx context.Context, entityType domain.EntityType, full bool) *domain.EntitySyncResult
}

type Config struct {
	PageRetries      int
	RetryDelay       time.Duration
	MaxErrorRate     float64
	ReportPeriodDays int
	Location         *time.Location
	LocationRules    []domain.LocationRule
}

func NewConfig(cfg *config.Config) Config {
	return Config{
		PageRetries:      cfg.Sync.PageRetries,
		RetryDelay:       cfg.Sync.RetryDelay,
		MaxErrorRate:     cfg.Sync.MaxErrorRate,
		ReportPeriodDays: cfg.Sync.ReportPeriodDays,
		Location:         cfg.MoySklad.Location(),
		LocationRules:    domain.DefaultLocationRules,
	}
}

type Repositories struct {
	Mapper     repository.IDMapper
	Watermarks repository.SyncStateRepository
	Products   repository.ProductRepository
	Stock      repository.StockRepository
}

// Tables são os destinos do upsert de cada tipo de entidade
type Tables struct {
	Products       repository.Upserter[*domain.Product]
	Bundles        repository.Upserter[*domain.Bundle]
	Stores         repository.Upserter[*domain.Store]
	Counterparties repository.Upserter[*domain.Counterparty]
	StockLines     repository.Upserter[*domain.StockLine]
	Documents      map[domain.DocumentKind]repository.Upserter[*domain.Document]
	Positions      repository.PositionRepository
	Payments       repository.Upserter[*domain.Payment]
	Cash           repository.Upserter[*domain.Payment]
	Turnover       repository.Upserter[*domain.TurnoverRow]
	Profit         repository.Upserter[*domain.ProfitRow]
	Money          repository.Upserter[*domain.MoneyBalance]
}

func NewTables(conn *postgres.Connection) Tables {
	documents := make(map[domain.DocumentKind]repository.Upserter[*domain.Document], len(repository.DocumentTables))
	for kind := range repository.DocumentTables {
		documents[kind] = repository.NewDocumentTable(conn, kind)
	}

	return Tables{
		Products:       repository.NewProductTable(conn),
		Bundles:        repository.NewBundleTable(conn),
		Stores:         repository.NewStoreTable(conn),
		Counterparties: repository.NewCounterpartyTable(conn),
		StockLines:     repository.NewStockLineTable(conn),
		Documents:      documents,
		Positions:      repository.NewPositionRepository(conn),
		Payments:       repository.NewPaymentTable(conn, repository.PaymentsTable),
		Cash:           repository.NewPaymentTable(conn, repository.CashTable),
		Turnover:       repository.NewTurnoverTable(conn),
		Profit:         repository.NewProfitTable(conn),
		Money:          repository.NewMoneyTable(conn),
	}
}

type Engine struct {
	pager  *Pager
	repos  Repositories
	tables Tables
	config Config
	now    func() time.Time
}

func NewEngine(client msclient.Client, repos Repositories, tables Tables, cfg Config) *Engine {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.LocationRules == nil {
		cfg.LocationRules = domain.DefaultLocationRules
	}
	if cfg.ReportPeriodDays <= 0 {
		cfg.ReportPeriodDays = 30
	}

	return &Engine{
		pager:  NewPager(client, cfg.PageRetries, cfg.RetryDelay),
		repos:  repos,
		tables: tables,
		config: cfg,
		now:    time.Now,
	}
}

// Pager é compartilhado com as etapas de reconciliação
func (e *Engine) Pager() *Pager {
	return e.pager
}

// Supports indica se há procedimento para o tipo
func (e *Engine) Supports(entityType domain.EntityType) bool {
	switch entityType {
	case domain.EntityProducts, domain.EntityBundles, domain.EntityStores, domain.EntityCounterparties,
		domain.EntityStock, domain.EntitySales, domain.EntityPurchases, domain.EntityOrders,
		domain.EntityPayments, domain.EntityCash, domain.EntityWriteOffs,
		domain.EntityTurnover, domain.EntityProfit, domain.EntityMoney:
		return true
	}
	return false
}

func (e *Engine) Sync(ctx context.Context, entityType domain.EntityType, full bool) *domain.EntitySyncResult {
	switch entityType {
	case domain.EntityProducts:
		return run(ctx, e, e.productsProcedure(), full)
	case domain.EntityBundles:
		return run(ctx, e, e.bundlesProcedure(), full)
	case domain.EntityStores:
		return run(ctx, e, e.storesProcedure(), full)
	case domain.EntityCounterparties:
		return run(ctx, e, e.counterpartiesProcedure(), full)
	case domain.EntityStock:
		return run(ctx, e, e.stockProcedure(), full)
	case domain.EntitySales:
		return run(ctx, e, e.documentsProcedure(domain.EntitySales, domain.DocumentSale, "entity/demand"), full)
	case domain.EntityPurchases:
		return run(ctx, e, e.documentsProcedure(domain.EntityPurchases, domain.DocumentPurchase, "entity/supply"), full)
	case domain.EntityOrders:
		return run(ctx, e, e.documentsProcedure(domain.EntityOrders, domain.DocumentOrder, "entity/customerorder"), full)
	case domain.EntityWriteOffs:
		return run(ctx, e, e.documentsProcedure(domain.EntityWriteOffs, domain.DocumentWriteOff, "entity/loss"), full)
	case domain.EntityPayments:
		return run(ctx, e, e.paymentsProcedure(domain.EntityPayments, e.tables.Payments, "entity/paymentin", "entity/paymentout"), full)
	case domain.EntityCash:
		return run(ctx, e, e.paymentsProcedure(domain.EntityCash, e.tables.Cash, "entity/cashin", "entity/cashout"), full)
	case domain.EntityTurnover:
		return run(ctx, e, e.turnoverProcedure(), full)
	case domain.EntityProfit:
		return run(ctx, e, e.profitProcedure(), full)
	case domain.EntityMoney:
		return run(ctx, e, e.moneyProcedure(), full)
	}

	result := &domain.EntitySyncResult{EntityType: entityType, StartedAt: e.now()}
	return e.fail(result, NewSyncError(ErrUnsupportedEntity, entityType, ""))
}

func (e *Engine) fail(result *domain.EntitySyncResult, err error) *domain.EntitySyncResult {
	result.Success = false
	result.Error = err.Error()
	result.FinishedAt = e.now()

	logrus.WithFields(logrus.Fields{
		"entity_type": result.EntityType,
		"fetched":     result.Fetched,
		"upserted":    result.Upserted,
		"errors":      result.Errors,
	}).WithError(err).Error("Sincronização da entidade falhou")

	return result
}

// localID reaproveita o ID externo como chave local quando ainda não há linha
func localID(mapping map[string]string, foreignID string) string {
	if id, ok := mapping[foreignID]; ok {
		return id
	}
	return foreignID
}

// refID resolve uma referência opcional; sem mapeamento a referência fica nula
func refID(mapping map[string]string, foreignID string) *string {
	if foreignID == "" {
		return nil
	}
	if id, ok := mapping[foreignID]; ok {
		return &id
	}
	return nil
}
