package reconciling

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	msdomain "github.com/vfg2006/inventory-sync-api/infrastructure/integrator/moysklad/domain"
	"github.com/vfg2006/inventory-sync-api/infrastructure/integrator/moysklad/msclient"
	"github.com/vfg2006/inventory-sync-api/infrastructure/repository"
	"github.com/vfg2006/inventory-sync-api/internal/domain"
	"github.com/vfg2006/inventory-sync-api/internal/usecases/syncing"
	"github.com/vfg2006/inventory-sync-api/pkg/utils"
)

const profitReportPageLimit = 1000

// HistoricalCost recupera o custo de produtos que já venderam mas não têm custo,
// a partir do custo médio das vendas no período de lookback.
type HistoricalCost struct {
	pager  *syncing.Pager
	mapper repository.IDMapper
	costs  repository.CostRepository
	config Config
	now    func() time.Time
}

func NewHistoricalCost(pager *syncing.Pager, mapper repository.IDMapper, costs repository.CostRepository, cfg Config) *HistoricalCost {
	return &HistoricalCost{
		pager:  pager,
		mapper: mapper,
		costs:  costs,
		config: cfg.withDefaults(),
		now:    time.Now,
	}
}

func (h *HistoricalCost) EntityType() domain.EntityType {
	return domain.EntityHistoricalCost
}

func (h *HistoricalCost) Run(ctx context.Context) *domain.EntitySyncResult {
	start := h.now()
	result := newResult(domain.EntityHistoricalCost, start)

	now := start.In(h.config.Location)
	from, _ := utils.TrailingDays(now, h.config.HistoricalCostLookbackDays)

	params := msclient.ListParams{
		Limit: profitReportPageLimit,
		Extra: msclient.ReportWindow(from, now, h.config.Location),
	}

	costs := make(map[string]decimal.Decimal)
	err := h.pager.Each(ctx, "report/profit/byproduct", params, func(raw []jsoniter.RawMessage) error {
		result.Fetched += len(raw)

		rows := make([]msdomain.ProfitRow, 0, len(raw))
		ids := make([]string, 0, len(raw))
		for _, item := range raw {
			var row msdomain.ProfitRow
			if err := json.Unmarshal(item, &row); err != nil {
				result.Skipped++
				result.Errors++
				continue
			}
			rows = append(rows, row)
			ids = append(ids, row.Assortment.Meta.ID())
		}

		mapping, err := h.mapper.ResolveLocalIDs(ctx, repository.ProductsTable, ids)
		if err != nil {
			return err
		}

		for _, row := range rows {
			productID, ok := mapping[row.Assortment.Meta.ID()]
			if !ok {
				result.Skipped++
				continue
			}

			cost, ok := UnitCost(row.SellCostSum, row.SellQuantity)
			if !ok {
				result.Skipped++
				continue
			}
			costs[productID] = cost
		}

		return nil
	})
	if err != nil {
		return finish(result, err, h.now())
	}

	updated, err := h.costs.BackfillProductCost(ctx, costs)
	if err != nil {
		return finish(result, err, h.now())
	}
	result.Upserted = int(updated)

	logrus.WithFields(logrus.Fields{
		"entity_type": domain.EntityHistoricalCost,
		"candidates":  len(costs),
		"updated":     updated,
	}).Info("Custo histórico aplicado a produtos sem custo")

	return finish(result, nil, h.now())
}

// UnitCost divide o custo total vendido (em copeques) pela quantidade vendida
func UnitCost(sellCostSum, sellQuantity float64) (decimal.Decimal, bool) {
	if sellQuantity <= 0 || sellCostSum <= 0 {
		return decimal.Zero, false
	}

	cost := decimal.NewFromFloat(sellCostSum).
		Div(decimal.NewFromFloat(sellQuantity)).
		Div(decimal.NewFromInt(100)).
		Round(2)

	return cost, cost.IsPositive()
}
