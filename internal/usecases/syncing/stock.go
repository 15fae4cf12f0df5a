package syncing

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	msdomain "github.com/vfg2006/inventory-sync-api/infrastructure/integrator/moysklad/domain"
	"github.com/vfg2006/inventory-sync-api/infrastructure/repository"
	"github.com/vfg2006/inventory-sync-api/internal/domain"
)

// stockProcedure grava o snapshot por depósito. Produto ou depósito sem mapeamento não viram linha.
func (e *Engine) stockProcedure() procedure[msdomain.StockByStoreRow] {
	return procedure[msdomain.StockByStoreRow]{
		entityType: domain.EntityStock,
		sources:    []source{{path: "report/stock/bystore"}},
		limit:      reportPageLimit,
		snapshot:   true,
		apply: func(ctx context.Context, p page[msdomain.StockByStoreRow]) (pageStats, error) {
			var stats pageStats

			productIDs := make([]string, 0, len(p.rows))
			storeIDs := make([]string, 0)
			for _, row := range p.rows {
				productIDs = append(productIDs, row.Meta.ID())
				for _, byStore := range row.StockByStore {
					storeIDs = append(storeIDs, byStore.Meta.ID())
				}
			}

			products, err := e.repos.Mapper.ResolveLocalIDs(ctx, repository.ProductsTable, productIDs)
			if err != nil {
				stats.errors += len(p.rows)
				return stats, err
			}

			stores, err := e.repos.Mapper.ResolveLocalIDs(ctx, repository.StoresTable, storeIDs)
			if err != nil {
				stats.errors += len(p.rows)
				return stats, err
			}

			lines := make([]*domain.StockLine, 0, len(storeIDs))
			for _, row := range p.rows {
				productID, ok := products[row.Meta.ID()]
				if !ok {
					stats.miss()
					continue
				}

				for _, byStore := range row.StockByStore {
					storeID, ok := stores[byStore.Meta.ID()]
					if !ok {
						stats.skipped++
						continue
					}

					lines = append(lines, &domain.StockLine{
						ProductID: productID,
						StoreID:   storeID,
						Stock:     byStore.Stock,
						Reserve:   byStore.Reserve,
						InTransit: byStore.InTransit,
						SyncedAt:  p.syncedAt,
					})
				}
			}

			err = write(ctx, e.tables.StockLines, lines, &stats)
			return stats, err
		},
		finish: func(ctx context.Context, start time.Time) error {
			reset, err := e.repos.Stock.ResetStale(ctx, start)
			if err != nil {
				return NewSyncError(ErrStaleReset, domain.EntityStock, err.Error())
			}

			logrus.WithField("entity_type", domain.EntityStock).
				Infof("%d linhas de estoque ausentes do snapshot foram zeradas", reset)

			return nil
		},
	}
}
