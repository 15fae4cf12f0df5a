package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLine é uma linha por par (produto, depósito), sempre sobrescrita
type StockLine struct {
	ProductID string    `json:"product_id"`
	StoreID   string    `json:"store_id"`
	Stock     float64   `json:"stock"`
	Reserve   float64   `json:"reserve"`
	InTransit float64   `json:"in_transit"`
	SyncedAt  time.Time `json:"synced_at"`
}

// StockAge carrega os campos de custo e idade vindos do relatório de estoque
type StockAge struct {
	ProductID   string
	CostPrice   decimal.Decimal
	DaysInStock float64
}
