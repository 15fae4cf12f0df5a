package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportPeriod é a janela de um relatório agregado, em datas locais
type ReportPeriod struct {
	Start time.Time
	End   time.Time
}

type TurnoverRow struct {
	ProductID   string          `json:"product_id"`
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	OpeningQty  float64         `json:"opening_qty"`
	OpeningSum  decimal.Decimal `json:"opening_sum"`
	IncomeQty   float64         `json:"income_qty"`
	IncomeSum   decimal.Decimal `json:"income_sum"`
	OutcomeQty  float64         `json:"outcome_qty"`
	OutcomeSum  decimal.Decimal `json:"outcome_sum"`
	ClosingQty  float64         `json:"closing_qty"`
	ClosingSum  decimal.Decimal `json:"closing_sum"`
	SyncedAt    time.Time       `json:"synced_at"`
}

type ProfitRow struct {
	ProductID      string          `json:"product_id"`
	PeriodStart    time.Time       `json:"period_start"`
	PeriodEnd      time.Time       `json:"period_end"`
	SellQuantity   float64         `json:"sell_quantity"`
	SellSum        decimal.Decimal `json:"sell_sum"`
	SellCostSum    decimal.Decimal `json:"sell_cost_sum"`
	ReturnQuantity float64         `json:"return_quantity"`
	ReturnSum      decimal.Decimal `json:"return_sum"`
	Profit         decimal.Decimal `json:"profit"`
	Margin         float64         `json:"margin"`
	SyncedAt       time.Time       `json:"synced_at"`
}

type MoneyBalance struct {
	OrganizationID   string          `json:"organization_id"`
	OrganizationName string          `json:"organization_name"`
	AccountKey       string          `json:"account_key"`
	AccountName      string          `json:"account_name"`
	SnapshotDate     time.Time       `json:"snapshot_date"`
	Balance          decimal.Decimal `json:"balance"`
	SyncedAt         time.Time       `json:"synced_at"`
}
