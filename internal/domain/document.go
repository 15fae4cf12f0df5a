package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DocumentKind string

const (
	DocumentSale     DocumentKind = "sales"
	DocumentPurchase DocumentKind = "purchases"
	DocumentOrder    DocumentKind = "orders"
	DocumentWriteOff DocumentKind = "write_offs"
)

// Document cobre vendas, compras, pedidos e baixas, que compartilham o mesmo formato
type Document struct {
	ID         string              `json:"id"`
	MoySkladID string              `json:"moysklad_id"`
	Kind       DocumentKind        `json:"kind"`
	Name       string              `json:"name"`
	Moment     time.Time           `json:"moment"`
	Sum        decimal.Decimal     `json:"sum"`
	AgentID    *string             `json:"agent_id"`
	StoreID    *string             `json:"store_id"`
	Applicable bool                `json:"applicable"`
	UpdatedAt  time.Time           `json:"updated_at"`
	SyncedAt   time.Time           `json:"synced_at"`
	Positions  []*DocumentPosition `json:"positions,omitempty"`
}

type DocumentPosition struct {
	ID           string          `json:"id"`
	DocumentID   string          `json:"document_id"`
	DocumentKind DocumentKind    `json:"document_kind"`
	ProductID    *string         `json:"product_id"`
	BundleID     *string         `json:"bundle_id"`
	Quantity     float64         `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	Discount     decimal.Decimal `json:"discount"`
	Cost         decimal.Decimal `json:"cost"`
	SyncedAt     time.Time       `json:"synced_at"`
}

type PaymentDirection string

const (
	PaymentIn  PaymentDirection = "in"
	PaymentOut PaymentDirection = "out"
)

// Payment representa pagamentos bancários e movimentações de caixa
type Payment struct {
	ID         string           `json:"id"`
	MoySkladID string           `json:"moysklad_id"`
	Direction  PaymentDirection `json:"direction"`
	Name       string           `json:"name"`
	Moment     time.Time        `json:"moment"`
	Sum        decimal.Decimal  `json:"sum"`
	AgentID    *string          `json:"agent_id"`
	Purpose    string           `json:"purpose"`
	Applicable bool             `json:"applicable"`
	UpdatedAt  time.Time        `json:"updated_at"`
	SyncedAt   time.Time        `json:"synced_at"`
}
