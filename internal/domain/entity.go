package domain

import "sort"

// EntityType identifica uma categoria de objeto sincronizada de forma independente
type EntityType string

const (
	EntityProducts       EntityType = "products"
	EntityBundles        EntityType = "bundles"
	EntityStores         EntityType = "stores"
	EntityCounterparties EntityType = "counterparties"

	EntityStock     EntityType = "stock"
	EntitySales     EntityType = "sales"
	EntityPurchases EntityType = "purchases"
	EntityOrders    EntityType = "orders"
	EntityPayments  EntityType = "payments"
	EntityCash      EntityType = "cash"
	EntityWriteOffs EntityType = "write_offs"

	EntityTurnover EntityType = "turnover"
	EntityProfit   EntityType = "profit"
	EntityMoney    EntityType = "money"

	EntityCostBackfill   EntityType = "cost_backfill"
	EntityHistoricalCost EntityType = "historical_cost"
	EntityMetrics        EntityType = "metrics"
)

// SelectorAll executa todas as fases do pipeline
const SelectorAll = "all"

var knownEntityTypes = map[EntityType]struct{}{
	EntityProducts: {}, EntityBundles: {}, EntityStores: {}, EntityCounterparties: {},
	EntityStock: {}, EntitySales: {}, EntityPurchases: {}, EntityOrders: {},
	EntityPayments: {}, EntityCash: {}, EntityWriteOffs: {},
	EntityTurnover: {}, EntityProfit: {}, EntityMoney: {},
	EntityCostBackfill: {}, EntityHistoricalCost: {}, EntityMetrics: {},
}

func (e EntityType) String() string {
	return string(e)
}

// ParseEntityType valida o tipo recebido pela API
func ParseEntityType(value string) (EntityType, bool) {
	entityType := EntityType(value)
	_, ok := knownEntityTypes[entityType]
	return entityType, ok
}

// KnownEntityTypes lista os tipos aceitos, em ordem alfabética
func KnownEntityTypes() []string {
	types := make([]string, 0, len(knownEntityTypes))
	for entityType := range knownEntityTypes {
		types = append(types, string(entityType))
	}
	sort.Strings(types)
	return types
}
