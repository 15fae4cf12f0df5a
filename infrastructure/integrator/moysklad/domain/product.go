package msdomain

// Price é um valor monetário em copeques
type Price struct {
	Value     float64 `json:"value"`
	PriceType *struct {
		Name string `json:"name"`
	} `json:"priceType,omitempty"`
}

type Barcode map[string]string

type Product struct {
	ID         string    `json:"id"`
	Meta       Meta      `json:"meta"`
	Name       string    `json:"name"`
	Code       string    `json:"code"`
	Article    string    `json:"article"`
	PathName   string    `json:"pathName"`
	Archived   bool      `json:"archived"`
	Updated    Timestamp `json:"updated"`
	SalePrices []Price   `json:"salePrices"`
	BuyPrice   *Price    `json:"buyPrice"`
	MinPrice   *Price    `json:"minPrice"`
	Weight     float64   `json:"weight"`
	Volume     float64   `json:"volume"`
	Barcodes   []Barcode `json:"barcodes"`
}

// FirstBarcode devolve o primeiro código de barras, de qualquer padrão
func (p Product) FirstBarcode() string {
	for _, barcode := range p.Barcodes {
		for _, value := range barcode {
			if value != "" {
				return value
			}
		}
	}
	return ""
}

type Bundle struct {
	ID         string    `json:"id"`
	Meta       Meta      `json:"meta"`
	Name       string    `json:"name"`
	Code       string    `json:"code"`
	Article    string    `json:"article"`
	PathName   string    `json:"pathName"`
	Archived   bool      `json:"archived"`
	Updated    Timestamp `json:"updated"`
	SalePrices []Price   `json:"salePrices"`
	Components *struct {
		Meta Meta `json:"meta"`
	} `json:"components"`
}

type Store struct {
	ID       string    `json:"id"`
	Meta     Meta      `json:"meta"`
	Name     string    `json:"name"`
	Code     string    `json:"code"`
	Address  string    `json:"address"`
	Archived bool      `json:"archived"`
	Updated  Timestamp `json:"updated"`
}

type Counterparty struct {
	ID          string    `json:"id"`
	Meta        Meta      `json:"meta"`
	Name        string    `json:"name"`
	INN         string    `json:"inn"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	CompanyType string    `json:"companyType"`
	Tags        []string  `json:"tags"`
	Archived    bool      `json:"archived"`
	Updated     Timestamp `json:"updated"`
}
