package syncing

import (
	"context"

	"github.com/sirupsen/logrus"
	msdomain "github.com/vfg2006/inventory-sync-api/infrastructure/integrator/moysklad/domain"
	"github.com/vfg2006/inventory-sync-api/infrastructure/repository"
	"github.com/vfg2006/inventory-sync-api/internal/domain"
)

// documentsProcedure grava cabeçalhos e posições. As posições vêm expandidas, por isso a página é menor.
func (e *Engine) documentsProcedure(entityType domain.EntityType, kind domain.DocumentKind, path string) procedure[msdomain.Document] {
	return procedure[msdomain.Document]{
		entityType: entityType,
		sources:    []source{{path: path}},
		limit:      expandPageLimit,
		expand:     "positions",
		apply: func(ctx context.Context, p page[msdomain.Document]) (pageStats, error) {
			var stats pageStats

			var documentIDs, agentIDs, storeIDs, assortmentIDs []string
			for _, row := range p.rows {
				documentIDs = append(documentIDs, rowID(row.ID, row.Meta))
				agentIDs = append(agentIDs, refForeignID(row.Agent))
				storeIDs = append(storeIDs, refForeignID(row.Store))
				if row.Positions != nil {
					for _, position := range row.Positions.Rows {
						assortmentIDs = append(assortmentIDs, position.Assortment.Meta.ID())
					}
				}
			}

			lookups := []struct {
				table string
				ids   []string
			}{
				{table: repository.DocumentTables[kind], ids: documentIDs},
				{table: repository.CounterpartiesTable, ids: agentIDs},
				{table: repository.StoresTable, ids: storeIDs},
				{table: repository.ProductsTable, ids: assortmentIDs},
				{table: repository.BundlesTable, ids: assortmentIDs},
			}

			var documentsMap, agents, stores, products, bundles map[string]string
			targets := []*map[string]string{&documentsMap, &agents, &stores, &products, &bundles}

			for i, lookup := range lookups {
				mapping, err := e.repos.Mapper.ResolveLocalIDs(ctx, lookup.table, lookup.ids)
				if err != nil {
					stats.errors += len(p.rows)
					return stats, err
				}
				*targets[i] = mapping
			}

			documents := make([]*domain.Document, 0, len(p.rows))
			positions := make([]*domain.DocumentPosition, 0)
			// documentos com a lista de posições completa; só neles as posições ausentes são apagadas
			var listedIDs, keepIDs []string
			for _, row := range p.rows {
				foreignID := rowID(row.ID, row.Meta)
				document, err := TransformDocument(
					row,
					kind,
					localID(documentsMap, foreignID),
					refID(agents, refForeignID(row.Agent)),
					refID(stores, refForeignID(row.Store)),
					p.syncedAt,
					e.config.Location,
				)
				if err != nil {
					stats.reject(entityType, err)
					continue
				}
				documents = append(documents, document)

				if row.Positions == nil {
					continue
				}

				if row.Positions.Meta.Size <= len(row.Positions.Rows) {
					listedIDs = append(listedIDs, document.ID)
					for _, item := range row.Positions.Rows {
						keepIDs = append(keepIDs, item.ID)
					}
				}

				for _, item := range row.Positions.Rows {
					assortmentID := item.Assortment.Meta.ID()
					position, err := TransformPosition(item, document, refID(products, assortmentID), refID(bundles, assortmentID), p.syncedAt)
					if err != nil {
						// posição sem produto conta só como pulada; o documento foi gravado
						stats.skipped++
						continue
					}
					positions = append(positions, position)
				}
			}

			if err := write(ctx, e.tables.Documents[kind], documents, &stats); err != nil {
				return stats, err
			}

			if len(positions) > 0 || len(listedIDs) > 0 {
				removed, err := e.tables.Positions.Replace(ctx, listedIDs, keepIDs, positions)
				if err != nil {
					// cabeçalhos gravados, mas os documentos ficam incompletos
					stats.errors += len(documents)
					return stats, err
				}
				if removed > 0 {
					logrus.WithFields(logrus.Fields{
						"entity_type": entityType,
						"removed":     removed,
					}).Debug("Posições removidas dos documentos")
				}
			}

			return stats, nil
		},
	}
}

// paymentsProcedure lê as duas direções do mesmo tipo de pagamento para a mesma tabela
func (e *Engine) paymentsProcedure(entityType domain.EntityType, table repository.Upserter[*domain.Payment], inPath, outPath string) procedure[msdomain.Payment] {
	return procedure[msdomain.Payment]{
		entityType: entityType,
		sources: []source{
			{path: inPath, label: string(domain.PaymentIn)},
			{path: outPath, label: string(domain.PaymentOut)},
		},
		limit: entityPageLimit,
		apply: func(ctx context.Context, p page[msdomain.Payment]) (pageStats, error) {
			var stats pageStats

			paymentTable := repository.PaymentsTable
			if entityType == domain.EntityCash {
				paymentTable = repository.CashTable
			}

			paymentIDs := make([]string, 0, len(p.rows))
			agentIDs := make([]string, 0, len(p.rows))
			for _, row := range p.rows {
				paymentIDs = append(paymentIDs, rowID(row.ID, row.Meta))
				agentIDs = append(agentIDs, refForeignID(row.Agent))
			}

			mapping, err := e.repos.Mapper.ResolveLocalIDs(ctx, paymentTable, paymentIDs)
			if err != nil {
				stats.errors += len(p.rows)
				return stats, err
			}

			agents, err := e.repos.Mapper.ResolveLocalIDs(ctx, repository.CounterpartiesTable, agentIDs)
			if err != nil {
				stats.errors += len(p.rows)
				return stats, err
			}

			direction := domain.PaymentDirection(p.source.label)
			payments := make([]*domain.Payment, 0, len(p.rows))
			for _, row := range p.rows {
				payment, err := TransformPayment(
					row,
					direction,
					localID(mapping, rowID(row.ID, row.Meta)),
					refID(agents, refForeignID(row.Agent)),
					p.syncedAt,
					e.config.Location,
				)
				if err != nil {
					stats.reject(entityType, err)
					continue
				}
				payments = append(payments, payment)
			}

			err = write(ctx, table, payments, &stats)
			return stats, err
		},
	}
}
