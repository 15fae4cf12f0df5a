package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product é a cópia local de um produto do MoySklad.
// O preço de custo não faz parte do upsert: pertence aos jobs de reconciliação.
type Product struct {
	ID         string          `json:"id"`
	MoySkladID string          `json:"moysklad_id"`
	Name       string          `json:"name"`
	Code       string          `json:"code"`
	Article    string          `json:"article"`
	Category   string          `json:"category"`
	Barcode    string          `json:"barcode"`
	SalePrice  decimal.Decimal `json:"sale_price"`
	BuyPrice   decimal.Decimal `json:"buy_price"`
	MinPrice   decimal.Decimal `json:"min_price"`
	Weight     float64         `json:"weight"`
	Volume     float64         `json:"volume"`
	Archived   bool            `json:"archived"`
	UpdatedAt  time.Time       `json:"updated_at"`
	SyncedAt   time.Time       `json:"synced_at"`
}

type Bundle struct {
	ID         string          `json:"id"`
	MoySkladID string          `json:"moysklad_id"`
	Name       string          `json:"name"`
	Code       string          `json:"code"`
	Article    string          `json:"article"`
	Category   string          `json:"category"`
	SalePrice  decimal.Decimal `json:"sale_price"`
	Components int             `json:"components"`
	Archived   bool            `json:"archived"`
	UpdatedAt  time.Time       `json:"updated_at"`
	SyncedAt   time.Time       `json:"synced_at"`
}

type Counterparty struct {
	ID          string    `json:"id"`
	MoySkladID  string    `json:"moysklad_id"`
	Name        string    `json:"name"`
	INN         string    `json:"inn"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	CompanyType string    `json:"company_type"`
	Tags        []string  `json:"tags"`
	Archived    bool      `json:"archived"`
	UpdatedAt   time.Time `json:"updated_at"`
	SyncedAt    time.Time `json:"synced_at"`
}
