package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductActivity são os insumos do cálculo de métricas, lidos das tabelas já sincronizadas
type ProductActivity struct {
	ProductID     string          `db:"product_id"`
	Name          string          `db:"name"`
	CostPrice     decimal.Decimal `db:"cost_price"`
	CurrentStock  float64         `db:"current_stock"`
	UnitsSold     float64         `db:"units_sold"`
	Revenue       decimal.Decimal `db:"revenue"`
	COGS          decimal.Decimal `db:"cogs"`
	UncostedUnits float64         `db:"uncosted_units"`
}

type ProductMetrics struct {
	ProductID       string          `json:"product_id"`
	WindowDays      int             `json:"window_days"`
	UnitsSold       float64         `json:"units_sold"`
	Revenue         decimal.Decimal `json:"revenue"`
	CurrentStock    float64         `json:"current_stock"`
	AverageStock    float64         `json:"average_stock"`
	TurnoverRatio   float64         `json:"turnover_ratio"`
	TurnoverDays    float64         `json:"turnover_days"`
	SalesVelocity   float64         `json:"sales_velocity"`
	DailyRevenue    float64         `json:"daily_revenue"`
	MarginAmount    decimal.Decimal `json:"margin_amount"`
	MarginPercent   float64         `json:"margin_percent"`
	StockToVelocity float64         `json:"stock_to_velocity"`
	LiquidityScore  float64         `json:"liquidity_score"`
	PriorityScore   float64         `json:"priority_score"`
	Recommendation  string          `json:"recommendation"`
	ComputedAt      time.Time       `json:"computed_at"`
}
