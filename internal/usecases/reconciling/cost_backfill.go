package reconciling

import (
	"context"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	msdomain "github.com/vfg2006/inventory-sync-api/infrastructure/integrator/moysklad/domain"
	"github.com/vfg2006/inventory-sync-api/infrastructure/integrator/moysklad/msclient"
	"github.com/vfg2006/inventory-sync-api/infrastructure/notifier"
	"github.com/vfg2006/inventory-sync-api/infrastructure/repository"
	"github.com/vfg2006/inventory-sync-api/internal/domain"
	"github.com/vfg2006/inventory-sync-api/internal/usecases/syncing"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const stockReportPageLimit = 1000

// CostBackfill lê custo médio e dias em estoque do relatório de estoque.
// O custo só entra em produtos sem custo. O relatório vem agregado por produto, então a idade
// vale para todas as linhas de estoque do produto e custo zero não sobrescreve a linha.
type CostBackfill struct {
	pager    *syncing.Pager
	mapper   repository.IDMapper
	costs    repository.CostRepository
	notifier notifier.Notifier
	config   Config
	now      func() time.Time
}

func NewCostBackfill(pager *syncing.Pager, mapper repository.IDMapper, costs repository.CostRepository, notify notifier.Notifier, cfg Config) *CostBackfill {
	return &CostBackfill{
		pager:    pager,
		mapper:   mapper,
		costs:    costs,
		notifier: notify,
		config:   cfg.withDefaults(),
		now:      time.Now,
	}
}

func (c *CostBackfill) EntityType() domain.EntityType {
	return domain.EntityCostBackfill
}

func (c *CostBackfill) Run(ctx context.Context) *domain.EntitySyncResult {
	result := newResult(domain.EntityCostBackfill, c.now())

	costs := make(map[string]decimal.Decimal)
	ages := make([]*domain.StockAge, 0)

	params := msclient.ListParams{Limit: stockReportPageLimit}
	err := c.pager.Each(ctx, "report/stock/all", params, func(raw []jsoniter.RawMessage) error {
		result.Fetched += len(raw)

		rows := make([]msdomain.StockAllRow, 0, len(raw))
		ids := make([]string, 0, len(raw))
		for _, item := range raw {
			var row msdomain.StockAllRow
			if err := json.Unmarshal(item, &row); err != nil {
				result.Skipped++
				result.Errors++
				continue
			}
			rows = append(rows, row)
			ids = append(ids, row.Meta.ID())
		}

		mapping, err := c.mapper.ResolveLocalIDs(ctx, repository.ProductsTable, ids)
		if err != nil {
			return err
		}

		for _, row := range rows {
			productID, ok := mapping[row.Meta.ID()]
			if !ok {
				result.Skipped++
				continue
			}

			cost := domain.MinorToMajor(row.Price)
			if cost.IsPositive() {
				costs[productID] = cost
			}
			ages = append(ages, &domain.StockAge{
				ProductID:   productID,
				CostPrice:   cost,
				DaysInStock: row.StockDays,
			})
		}

		return nil
	})
	if err != nil {
		return finish(result, err, c.now())
	}

	update, err := c.costs.ApplyStockReport(ctx, costs, ages)
	if err != nil {
		return finish(result, err, c.now())
	}
	result.Upserted = int(update.Products + update.StockLines)

	logrus.WithFields(logrus.Fields{
		"entity_type": domain.EntityCostBackfill,
		"products":    update.Products,
		"stock_lines": update.StockLines,
	}).Info("Custo e idade do estoque atualizados")

	c.reportMissingCost(ctx)

	return finish(result, nil, c.now())
}

// reportMissingCost avisa quantos produtos ativos seguem sem custo; erro aqui não falha o job
func (c *CostBackfill) reportMissingCost(ctx context.Context) {
	count, sample, err := c.costs.MissingCost(ctx, c.config.MissingCostSampleSize)
	if err != nil {
		logrus.WithError(err).Warn("Erro ao contar produtos sem custo")
		return
	}

	if count == 0 {
		return
	}

	logrus.WithField("missing", count).Warn("Produtos ativos sem preço de custo após o backfill")
	c.notifier.NotifyAsync(notifier.Message{Text: missingCostMessage(count, sample)})
}

func missingCostMessage(count int, sample []string) string {
	text := fmt.Sprintf("%d produtos ativos continuam sem preço de custo após a sincronização.", count)
	if len(sample) > 0 {
		text += " Exemplos: " + strings.Join(sample, ", ")
		if count > len(sample) {
			text += fmt.Sprintf(" e mais %d.", count-len(sample))
		}
	}
	return text
}
