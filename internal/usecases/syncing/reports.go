package syncing

import (
	"context"
	"time"

	msdomain "github.com/vfg2006/inventory-sync-api/infrastructure/integrator/moysklad/domain"
	"github.com/vfg2006/inventory-sync-api/infrastructure/integrator/moysklad/msclient"
	"github.com/vfg2006/inventory-sync-api/infrastructure/repository"
	"github.com/vfg2006/inventory-sync-api/internal/domain"
	"github.com/vfg2006/inventory-sync-api/pkg/utils"
)

// reportPeriod é a janela dos últimos ReportPeriodDays dias, em datas do fuso da conta
func (e *Engine) reportPeriod() (domain.ReportPeriod, time.Time) {
	now := e.now().In(e.config.Location)
	start, end := utils.TrailingDays(now, e.config.ReportPeriodDays)
	return domain.ReportPeriod{Start: start, End: end}, now
}

// resolveProducts mapeia o sortimento do relatório; linhas sem produto local são puladas
func (e *Engine) resolveProducts(ctx context.Context, assortments []msdomain.Assortment) (map[string]string, error) {
	ids := make([]string, 0, len(assortments))
	for _, assortment := range assortments {
		ids = append(ids, assortment.Meta.ID())
	}
	return e.repos.Mapper.ResolveLocalIDs(ctx, repository.ProductsTable, ids)
}

func (e *Engine) turnoverProcedure() procedure[msdomain.TurnoverRow] {
	period, now := e.reportPeriod()

	return procedure[msdomain.TurnoverRow]{
		entityType: domain.EntityTurnover,
		sources:    []source{{path: "report/turnover/all"}},
		limit:      reportPageLimit,
		snapshot:   true,
		params:     msclient.ReportWindow(period.Start, now, e.config.Location),
		apply: func(ctx context.Context, p page[msdomain.TurnoverRow]) (pageStats, error) {
			var stats pageStats

			assortments := make([]msdomain.Assortment, 0, len(p.rows))
			for _, row := range p.rows {
				assortments = append(assortments, row.Assortment)
			}

			products, err := e.resolveProducts(ctx, assortments)
			if err != nil {
				stats.errors += len(p.rows)
				return stats, err
			}

			rows := make([]*domain.TurnoverRow, 0, len(p.rows))
			for _, row := range p.rows {
				productID, ok := products[row.Assortment.Meta.ID()]
				if !ok {
					stats.miss()
					continue
				}
				rows = append(rows, TransformTurnover(row, productID, period, p.syncedAt))
			}

			err = write(ctx, e.tables.Turnover, rows, &stats)
			return stats, err
		},
	}
}

func (e *Engine) profitProcedure() procedure[msdomain.ProfitRow] {
	period, now := e.reportPeriod()

	return procedure[msdomain.ProfitRow]{
		entityType: domain.EntityProfit,
		sources:    []source{{path: "report/profit/byproduct"}},
		limit:      reportPageLimit,
		snapshot:   true,
		params:     msclient.ReportWindow(period.Start, now, e.config.Location),
		apply: func(ctx context.Context, p page[msdomain.ProfitRow]) (pageStats, error) {
			var stats pageStats

			assortments := make([]msdomain.Assortment, 0, len(p.rows))
			for _, row := range p.rows {
				assortments = append(assortments, row.Assortment)
			}

			products, err := e.resolveProducts(ctx, assortments)
			if err != nil {
				stats.errors += len(p.rows)
				return stats, err
			}

			rows := make([]*domain.ProfitRow, 0, len(p.rows))
			for _, row := range p.rows {
				productID, ok := products[row.Assortment.Meta.ID()]
				if !ok {
					stats.miss()
					continue
				}
				rows = append(rows, TransformProfit(row, productID, period, p.syncedAt))
			}

			err = write(ctx, e.tables.Profit, rows, &stats)
			return stats, err
		},
	}
}

// moneyProcedure grava o saldo do dia; execuções no mesmo dia sobrescrevem o snapshot
func (e *Engine) moneyProcedure() procedure[msdomain.MoneyRow] {
	return procedure[msdomain.MoneyRow]{
		entityType: domain.EntityMoney,
		sources:    []source{{path: "report/money/byaccount"}},
		limit:      reportPageLimit,
		snapshot:   true,
		apply: func(ctx context.Context, p page[msdomain.MoneyRow]) (pageStats, error) {
			var stats pageStats

			snapshot := utils.StartOfDay(p.syncedAt.In(e.config.Location))

			balances := make([]*domain.MoneyBalance, 0, len(p.rows))
			for _, row := range p.rows {
				balance, err := TransformMoney(row, snapshot, p.syncedAt)
				if err != nil {
					stats.reject(domain.EntityMoney, err)
					continue
				}
				balances = append(balances, balance)
			}

			err := write(ctx, e.tables.Money, balances, &stats)
			return stats, err
		},
	}
}
