package repository

import (
	"time"

	"github.com/lib/pq"
	"github.com/vfg2006/inventory-sync-api/infrastructure/database/postgres"
	"github.com/vfg2006/inventory-sync-api/internal/domain"
)

const (
	ProductsTable       = "products"
	BundlesTable        = "bundles"
	StoresTable         = "stores"
	CounterpartiesTable = "counterparties"
	StockLinesTable     = "stock_lines"
	SalesTable          = "sales"
	PurchasesTable      = "purchases"
	OrdersTable         = "customer_orders"
	WriteOffsTable      = "write_offs"
	PositionsTable      = "document_positions"
	PaymentsTable       = "payments"
	CashTable           = "cash_movements"
)

// DocumentTables associa cada tipo de documento à sua tabela
var DocumentTables = map[domain.DocumentKind]string{
	domain.DocumentSale:     SalesTable,
	domain.DocumentPurchase: PurchasesTable,
	domain.DocumentOrder:    OrdersTable,
	domain.DocumentWriteOff: WriteOffsTable,
}

func NewProductTable(conn postgres.Queryer) *Table[*domain.Product] {
	return NewTable(conn, TableSpec[*domain.Product]{
		Name:     ProductsTable,
		Conflict: []string{"id"},
		Columns: []string{
			"id", "moysklad_id", "name", "code", "article", "category", "barcode",
			"sale_price", "buy_price", "min_price", "weight", "volume", "archived",
			"updated_at", "synced_at",
		},
		Key: func(p *domain.Product) string { return p.ID },
		Values: func(p *domain.Product) []any {
			return []any{
				p.ID, p.MoySkladID, p.Name, p.Code, p.Article, p.Category, p.Barcode,
				p.SalePrice, p.BuyPrice, p.MinPrice, p.Weight, p.Volume, p.Archived,
				p.UpdatedAt, p.SyncedAt,
			}
		},
	})
}

func NewBundleTable(conn postgres.Queryer) *Table[*domain.Bundle] {
	return NewTable(conn, TableSpec[*domain.Bundle]{
		Name:     BundlesTable,
		Conflict: []string{"id"},
		Columns: []string{
			"id", "moysklad_id", "name", "code", "article", "category", "sale_price",
			"components", "archived", "updated_at", "synced_at",
		},
		Key: func(b *domain.Bundle) string { return b.ID },
		Values: func(b *domain.Bundle) []any {
			return []any{
				b.ID, b.MoySkladID, b.Name, b.Code, b.Article, b.Category, b.SalePrice,
				b.Components, b.Archived, b.UpdatedAt, b.SyncedAt,
			}
		},
	})
}

func NewStoreTable(conn postgres.Queryer) *Table[*domain.Store] {
	return NewTable(conn, TableSpec[*domain.Store]{
		Name:     StoresTable,
		Conflict: []string{"id"},
		Columns: []string{
			"id", "moysklad_id", "name", "code", "address", "kind", "archived",
			"updated_at", "synced_at",
		},
		Key: func(s *domain.Store) string { return s.ID },
		Values: func(s *domain.Store) []any {
			return []any{
				s.ID, s.MoySkladID, s.Name, s.Code, s.Address, string(s.Kind), s.Archived,
				s.UpdatedAt, s.SyncedAt,
			}
		},
	})
}

func NewCounterpartyTable(conn postgres.Queryer) *Table[*domain.Counterparty] {
	return NewTable(conn, TableSpec[*domain.Counterparty]{
		Name:     CounterpartiesTable,
		Conflict: []string{"id"},
		Columns: []string{
			"id", "moysklad_id", "name", "inn", "phone", "email", "company_type", "tags",
			"archived", "updated_at", "synced_at",
		},
		Key: func(c *domain.Counterparty) string { return c.ID },
		Values: func(c *domain.Counterparty) []any {
			return []any{
				c.ID, c.MoySkladID, c.Name, c.INN, c.Phone, c.Email, c.CompanyType, pq.Array(c.Tags),
				c.Archived, c.UpdatedAt, c.SyncedAt,
			}
		},
	})
}

// NewStockLineTable preserva custo e idade, que pertencem ao backfill
func NewStockLineTable(conn postgres.Queryer) *Table[*domain.StockLine] {
	return NewTable(conn, TableSpec[*domain.StockLine]{
		Name:     StockLinesTable,
		Conflict: []string{"product_id", "store_id"},
		Columns:  []string{"product_id", "store_id", "stock", "reserve", "in_transit", "synced_at"},
		Key:      func(s *domain.StockLine) string { return s.ProductID + "|" + s.StoreID },
		Values: func(s *domain.StockLine) []any {
			return []any{s.ProductID, s.StoreID, s.Stock, s.Reserve, s.InTransit, s.SyncedAt}
		},
	})
}

func NewDocumentTable(conn postgres.Queryer, kind domain.DocumentKind) *Table[*domain.Document] {
	return NewTable(conn, TableSpec[*domain.Document]{
		Name:     DocumentTables[kind],
		Conflict: []string{"id"},
		Columns: []string{
			"id", "moysklad_id", "name", "moment", "sum", "agent_id", "store_id",
			"applicable", "updated_at", "synced_at",
		},
		Key: func(d *domain.Document) string { return d.ID },
		Values: func(d *domain.Document) []any {
			return []any{
				d.ID, d.MoySkladID, d.Name, d.Moment, d.Sum, d.AgentID, d.StoreID,
				d.Applicable, d.UpdatedAt, d.SyncedAt,
			}
		},
	})
}

func NewPositionTable(conn postgres.Queryer) *Table[*domain.DocumentPosition] {
	return NewTable(conn, TableSpec[*domain.DocumentPosition]{
		Name:     PositionsTable,
		Conflict: []string{"id"},
		Columns: []string{
			"id", "document_id", "document_kind", "product_id", "bundle_id", "quantity",
			"price", "discount", "cost", "synced_at",
		},
		Key: func(p *domain.DocumentPosition) string { return p.ID },
		Values: func(p *domain.DocumentPosition) []any {
			return []any{
				p.ID, p.DocumentID, string(p.DocumentKind), p.ProductID, p.BundleID, p.Quantity,
				p.Price, p.Discount, p.Cost, p.SyncedAt,
			}
		},
	})
}

// NewPaymentTable serve tanto payments quanto cash_movements
func NewPaymentTable(conn postgres.Queryer, name string) *Table[*domain.Payment] {
	return NewTable(conn, TableSpec[*domain.Payment]{
		Name:     name,
		Conflict: []string{"id"},
		Columns: []string{
			"id", "moysklad_id", "direction", "name", "moment", "sum", "agent_id", "purpose",
			"applicable", "updated_at", "synced_at",
		},
		Key: func(p *domain.Payment) string { return p.ID },
		Values: func(p *domain.Payment) []any {
			return []any{
				p.ID, p.MoySkladID, string(p.Direction), p.Name, p.Moment, p.Sum, p.AgentID, p.Purpose,
				p.Applicable, p.UpdatedAt, p.SyncedAt,
			}
		},
	})
}

func NewTurnoverTable(conn postgres.Queryer) *Table[*domain.TurnoverRow] {
	return NewTable(conn, TableSpec[*domain.TurnoverRow]{
		Name:     "report_turnover",
		Conflict: []string{"product_id", "period_start", "period_end"},
		Columns: []string{
			"product_id", "period_start", "period_end", "opening_qty", "opening_sum",
			"income_qty", "income_sum", "outcome_qty", "outcome_sum", "closing_qty",
			"closing_sum", "synced_at",
		},
		Key: func(r *domain.TurnoverRow) string { return periodKey(r.ProductID, r.PeriodStart, r.PeriodEnd) },
		Values: func(r *domain.TurnoverRow) []any {
			return []any{
				r.ProductID, r.PeriodStart, r.PeriodEnd, r.OpeningQty, r.OpeningSum,
				r.IncomeQty, r.IncomeSum, r.OutcomeQty, r.OutcomeSum, r.ClosingQty,
				r.ClosingSum, r.SyncedAt,
			}
		},
	})
}

func NewProfitTable(conn postgres.Queryer) *Table[*domain.ProfitRow] {
	return NewTable(conn, TableSpec[*domain.ProfitRow]{
		Name:     "report_profit_by_product",
		Conflict: []string{"product_id", "period_start", "period_end"},
		Columns: []string{
			"product_id", "period_start", "period_end", "sell_quantity", "sell_sum",
			"sell_cost_sum", "return_quantity", "return_sum", "profit", "margin", "synced_at",
		},
		Key: func(r *domain.ProfitRow) string { return periodKey(r.ProductID, r.PeriodStart, r.PeriodEnd) },
		Values: func(r *domain.ProfitRow) []any {
			return []any{
				r.ProductID, r.PeriodStart, r.PeriodEnd, r.SellQuantity, r.SellSum,
				r.SellCostSum, r.ReturnQuantity, r.ReturnSum, r.Profit, r.Margin, r.SyncedAt,
			}
		},
	})
}

func NewMoneyTable(conn postgres.Queryer) *Table[*domain.MoneyBalance] {
	return NewTable(conn, TableSpec[*domain.MoneyBalance]{
		Name:     "report_money_by_account",
		Conflict: []string{"organization_id", "account_key", "snapshot_date"},
		Columns: []string{
			"organization_id", "organization_name", "account_key", "account_name",
			"snapshot_date", "balance", "synced_at",
		},
		Key: func(m *domain.MoneyBalance) string {
			return m.OrganizationID + "|" + m.AccountKey + "|" + m.SnapshotDate.Format(time.DateOnly)
		},
		Values: func(m *domain.MoneyBalance) []any {
			return []any{
				m.OrganizationID, m.OrganizationName, m.AccountKey, m.AccountName,
				m.SnapshotDate, m.Balance, m.SyncedAt,
			}
		},
	})
}

func NewMetricsTable(conn postgres.Queryer) *Table[*domain.ProductMetrics] {
	return NewTable(conn, TableSpec[*domain.ProductMetrics]{
		Name:     "product_metrics",
		Conflict: []string{"product_id"},
		Columns: []string{
			"product_id", "window_days", "units_sold", "revenue", "current_stock",
			"average_stock", "turnover_ratio", "turnover_days", "sales_velocity",
			"daily_revenue", "margin_amount", "margin_percent", "stock_to_velocity",
			"liquidity_score", "priority_score", "recommendation", "computed_at",
		},
		Key: func(m *domain.ProductMetrics) string { return m.ProductID },
		Values: func(m *domain.ProductMetrics) []any {
			return []any{
				m.ProductID, m.WindowDays, m.UnitsSold, m.Revenue, m.CurrentStock,
				m.AverageStock, m.TurnoverRatio, m.TurnoverDays, m.SalesVelocity,
				m.DailyRevenue, m.MarginAmount, m.MarginPercent, m.StockToVelocity,
				m.LiquidityScore, m.PriorityScore, m.Recommendation, m.ComputedAt,
			}
		},
	})
}

func periodKey(productID string, start, end time.Time) string {
	return productID + "|" + start.Format(time.DateOnly) + "|" + end.Format(time.DateOnly)
}
