package msdomain

// StockByStoreRow vem de report/stock/bystore
type StockByStoreRow struct {
	Meta         Meta         `json:"meta"`
	StockByStore []StoreStock `json:"stockByStore"`
}

type StoreStock struct {
	Meta      Meta    `json:"meta"`
	Name      string  `json:"name"`
	Stock     float64 `json:"stock"`
	Reserve   float64 `json:"reserve"`
	InTransit float64 `json:"inTransit"`
}

// StockAllRow vem de report/stock/all; price é o custo médio em copeques
type StockAllRow struct {
	Meta      Meta    `json:"meta"`
	Name      string  `json:"name"`
	Code      string  `json:"code"`
	Article   string  `json:"article"`
	Stock     float64 `json:"stock"`
	Price     float64 `json:"price"`
	StockDays float64 `json:"stockDays"`
}

type Assortment struct {
	Meta    Meta   `json:"meta"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	Article string `json:"article"`
}

type QuantitySum struct {
	Quantity float64 `json:"quantity"`
	Sum      float64 `json:"sum"`
}

// TurnoverRow vem de report/turnover/all
type TurnoverRow struct {
	Assortment    Assortment  `json:"assortment"`
	OnPeriodStart QuantitySum `json:"onPeriodStart"`
	OnPeriodEnd   QuantitySum `json:"onPeriodEnd"`
	Income        QuantitySum `json:"income"`
	Outcome       QuantitySum `json:"outcome"`
}

// ProfitRow vem de report/profit/byproduct
type ProfitRow struct {
	Assortment     Assortment `json:"assortment"`
	SellQuantity   float64    `json:"sellQuantity"`
	SellPrice      float64    `json:"sellPrice"`
	SellCost       float64    `json:"sellCost"`
	SellSum        float64    `json:"sellSum"`
	SellCostSum    float64    `json:"sellCostSum"`
	ReturnQuantity float64    `json:"returnQuantity"`
	ReturnSum      float64    `json:"returnSum"`
	Profit         float64    `json:"profit"`
	Margin         float64    `json:"margin"`
}

// MoneyRow vem de report/money/byaccount; sem conta bancária o saldo é de caixa
type MoneyRow struct {
	Organization Ref `json:"organization"`
	Account      *struct {
		Meta          Meta   `json:"meta"`
		AccountNumber string `json:"accountNumber"`
		Name          string `json:"name"`
	} `json:"account"`
	Balance float64 `json:"balance"`
}
