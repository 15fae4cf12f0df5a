package domain

import (
	"strings"
	"time"
)

type LocationKind string

const (
	LocationWarehouse   LocationKind = "warehouse"
	LocationRetail      LocationKind = "retail"
	LocationMarketplace LocationKind = "marketplace"
	LocationTransit     LocationKind = "transit"
	LocationDefect      LocationKind = "defect"
)

// LocationRule associa palavras-chave do nome do depósito a um tipo
type LocationRule struct {
	Kind     LocationKind
	Keywords []string
}

// DefaultLocationRules é avaliada em ordem; a primeira regra que casar vence
var DefaultLocationRules = []LocationRule{
	{Kind: LocationDefect, Keywords: []string{"брак", "defect", "defeito"}},
	{Kind: LocationTransit, Keywords: []string{"транзит", "в пути", "transit"}},
	{Kind: LocationMarketplace, Keywords: []string{"kaspi", "wildberries", "ozon", "fbo", "fbs", "marketplace"}},
	{Kind: LocationRetail, Keywords: []string{"магазин", "бутик", "shop", "store", "loja"}},
	{Kind: LocationWarehouse, Keywords: []string{"склад", "warehouse"}},
}

// ClassifyLocation resolve o tipo do depósito pela tabela de regras
func ClassifyLocation(name string, rules []LocationRule) LocationKind {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, rule := range rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(normalized, keyword) {
				return rule.Kind
			}
		}
	}
	return LocationWarehouse
}

type Store struct {
	ID         string       `json:"id"`
	MoySkladID string       `json:"moysklad_id"`
	Name       string       `json:"name"`
	Code       string       `json:"code"`
	Address    string       `json:"address"`
	Kind       LocationKind `json:"kind"`
	Archived   bool         `json:"archived"`
	UpdatedAt  time.Time    `json:"updated_at"`
	SyncedAt   time.Time    `json:"synced_at"`
}
