package msdomain

// Document cobre demand, supply, customerorder e loss
type Document struct {
	ID         string     `json:"id"`
	Meta       Meta       `json:"meta"`
	Name       string     `json:"name"`
	Moment     Timestamp  `json:"moment"`
	Updated    Timestamp  `json:"updated"`
	Sum        float64    `json:"sum"`
	Applicable bool       `json:"applicable"`
	Agent      *Ref       `json:"agent"`
	Store      *Ref       `json:"store"`
	Positions  *Positions `json:"positions"`
}

// Positions só traz as linhas quando a listagem usa expand=positions
type Positions struct {
	Meta Meta       `json:"meta"`
	Rows []Position `json:"rows"`
}

type Position struct {
	ID         string  `json:"id"`
	Quantity   float64 `json:"quantity"`
	Price      float64 `json:"price"`
	Discount   float64 `json:"discount"`
	Cost       float64 `json:"cost"`
	Assortment Ref     `json:"assortment"`
}

// Payment cobre paymentin, paymentout, cashin e cashout
type Payment struct {
	ID             string    `json:"id"`
	Meta           Meta      `json:"meta"`
	Name           string    `json:"name"`
	Moment         Timestamp `json:"moment"`
	Updated        Timestamp `json:"updated"`
	Sum            float64   `json:"sum"`
	Applicable     bool      `json:"applicable"`
	Agent          *Ref      `json:"agent"`
	PaymentPurpose string    `json:"paymentPurpose"`
}
