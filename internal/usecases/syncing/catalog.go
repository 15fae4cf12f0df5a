package syncing

import (
	"context"

	msdomain "github.com/vfg2006/inventory-sync-api/infrastructure/integrator/moysklad/domain"
	"github.com/vfg2006/inventory-sync-api/infrastructure/repository"
	"github.com/vfg2006/inventory-sync-api/internal/domain"
)

func (e *Engine) productsProcedure() procedure[msdomain.Product] {
	claimed := make(map[string]string)

	return procedure[msdomain.Product]{
		entityType: domain.EntityProducts,
		sources:    []source{{path: "entity/product"}},
		limit:      entityPageLimit,
		archivable: true,
		apply: func(ctx context.Context, p page[msdomain.Product]) (pageStats, error) {
			var stats pageStats

			foreignIDs := make([]string, 0, len(p.rows))
			articles := make([]string, 0, len(p.rows))
			for _, row := range p.rows {
				foreignIDs = append(foreignIDs, rowID(row.ID, row.Meta))
				if !row.Archived {
					articles = append(articles, row.Article)
				}
			}

			mapping, err := e.repos.Mapper.ResolveLocalIDs(ctx, repository.ProductsTable, foreignIDs)
			if err != nil {
				stats.errors += len(p.rows)
				return stats, err
			}

			owners, err := e.repos.Products.ArticleOwners(ctx, articles)
			if err != nil {
				stats.errors += len(p.rows)
				return stats, err
			}

			products := make([]*domain.Product, 0, len(p.rows))
			for _, row := range p.rows {
				foreignID := rowID(row.ID, row.Meta)
				product, err := TransformProduct(row, localID(mapping, foreignID), p.syncedAt, e.config.Location)
				if err != nil {
					stats.reject(domain.EntityProducts, err)
					continue
				}

				product.Article = repairArticle(product.Article, product.MoySkladID, product.Archived, owners, claimed)
				products = append(products, product)
			}

			err = write(ctx, e.tables.Products, products, &stats)
			return stats, err
		},
	}
}

func (e *Engine) bundlesProcedure() procedure[msdomain.Bundle] {
	return procedure[msdomain.Bundle]{
		entityType: domain.EntityBundles,
		sources:    []source{{path: "entity/bundle"}},
		limit:      entityPageLimit,
		archivable: true,
		apply: func(ctx context.Context, p page[msdomain.Bundle]) (pageStats, error) {
			var stats pageStats

			foreignIDs := make([]string, 0, len(p.rows))
			for _, row := range p.rows {
				foreignIDs = append(foreignIDs, rowID(row.ID, row.Meta))
			}

			mapping, err := e.repos.Mapper.ResolveLocalIDs(ctx, repository.BundlesTable, foreignIDs)
			if err != nil {
				stats.errors += len(p.rows)
				return stats, err
			}

			bundles := make([]*domain.Bundle, 0, len(p.rows))
			for _, row := range p.rows {
				bundle, err := TransformBundle(row, localID(mapping, rowID(row.ID, row.Meta)), p.syncedAt, e.config.Location)
				if err != nil {
					stats.reject(domain.EntityBundles, err)
					continue
				}
				bundles = append(bundles, bundle)
			}

			err = write(ctx, e.tables.Bundles, bundles, &stats)
			return stats, err
		},
	}
}

func (e *Engine) storesProcedure() procedure[msdomain.Store] {
	return procedure[msdomain.Store]{
		entityType: domain.EntityStores,
		sources:    []source{{path: "entity/store"}},
		limit:      entityPageLimit,
		archivable: true,
		apply: func(ctx context.Context, p page[msdomain.Store]) (pageStats, error) {
			var stats pageStats

			foreignIDs := make([]string, 0, len(p.rows))
			for _, row := range p.rows {
				foreignIDs = append(foreignIDs, rowID(row.ID, row.Meta))
			}

			mapping, err := e.repos.Mapper.ResolveLocalIDs(ctx, repository.StoresTable, foreignIDs)
			if err != nil {
				stats.errors += len(p.rows)
				return stats, err
			}

			stores := make([]*domain.Store, 0, len(p.rows))
			for _, row := range p.rows {
				store, err := TransformStore(row, localID(mapping, rowID(row.ID, row.Meta)), e.config.LocationRules, p.syncedAt, e.config.Location)
				if err != nil {
					stats.reject(domain.EntityStores, err)
					continue
				}
				stores = append(stores, store)
			}

			err = write(ctx, e.tables.Stores, stores, &stats)
			return stats, err
		},
	}
}

func (e *Engine) counterpartiesProcedure() procedure[msdomain.Counterparty] {
	return procedure[msdomain.Counterparty]{
		entityType: domain.EntityCounterparties,
		sources:    []source{{path: "entity/counterparty"}},
		limit:      entityPageLimit,
		archivable: true,
		apply: func(ctx context.Context, p page[msdomain.Counterparty]) (pageStats, error) {
			var stats pageStats

			foreignIDs := make([]string, 0, len(p.rows))
			for _, row := range p.rows {
				foreignIDs = append(foreignIDs, rowID(row.ID, row.Meta))
			}

			mapping, err := e.repos.Mapper.ResolveLocalIDs(ctx, repository.CounterpartiesTable, foreignIDs)
			if err != nil {
				stats.errors += len(p.rows)
				return stats, err
			}

			counterparties := make([]*domain.Counterparty, 0, len(p.rows))
			for _, row := range p.rows {
				counterparty, err := TransformCounterparty(row, localID(mapping, rowID(row.ID, row.Meta)), p.syncedAt, e.config.Location)
				if err != nil {
					stats.reject(domain.EntityCounterparties, err)
					continue
				}
				counterparties = append(counterparties, counterparty)
			}

			err = write(ctx, e.tables.Counterparties, counterparties, &stats)
			return stats, err
		},
	}
}
