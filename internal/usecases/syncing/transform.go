package syncing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	msdomain "github.com/vfg2006/inventory-sync-api/infrastructure/integrator/moysklad/domain"
	"github.com/vfg2006/inventory-sync-api/internal/domain"
)

// Cada função converte uma linha do MoySklad para o esquema local.
// Campos opcionais ausentes recebem valor padrão; campos obrigatórios inválidos rejeitam a linha.

func rowID(id string, meta msdomain.Meta) string {
	if id != "" {
		return id
	}
	return meta.ID()
}

func parseTime(kind, field string, value msdomain.Timestamp, loc *time.Location, required bool) (time.Time, error) {
	t, err := value.Time(loc)
	if err != nil {
		return time.Time{}, invalidRow(kind, field+" com formato inválido: "+string(value))
	}
	if required && t.IsZero() {
		return time.Time{}, invalidRow(kind, "sem "+field)
	}
	return t, nil
}

func priceOf(price *msdomain.Price) decimal.Decimal {
	if price == nil {
		return decimal.Zero
	}
	return domain.MinorToMajor(price.Value)
}

// firstSalePrice usa o primeiro tipo de preço de venda da conta
func firstSalePrice(prices []msdomain.Price) decimal.Decimal {
	if len(prices) == 0 {
		return decimal.Zero
	}
	return domain.MinorToMajor(prices[0].Value)
}

func refForeignID(ref *msdomain.Ref) string {
	if ref == nil {
		return ""
	}
	return ref.Meta.ID()
}

func TransformProduct(row msdomain.Product, id string, syncedAt time.Time, loc *time.Location) (*domain.Product, error) {
	foreignID := rowID(row.ID, row.Meta)
	if foreignID == "" {
		return nil, invalidRow("produto", "sem id")
	}

	name := strings.TrimSpace(row.Name)
	if name == "" {
		return nil, invalidRow("produto", "sem nome: "+foreignID)
	}

	updatedAt, err := parseTime("produto", "updated", row.Updated, loc, false)
	if err != nil {
		return nil, err
	}

	return &domain.Product{
		ID:         id,
		MoySkladID: foreignID,
		Name:       name,
		Code:       strings.TrimSpace(row.Code),
		Article:    strings.TrimSpace(row.Article),
		Category:   strings.TrimSpace(row.PathName),
		Barcode:    row.FirstBarcode(),
		SalePrice:  firstSalePrice(row.SalePrices),
		BuyPrice:   priceOf(row.BuyPrice),
		MinPrice:   priceOf(row.MinPrice),
		Weight:     row.Weight,
		Volume:     row.Volume,
		Archived:   row.Archived,
		UpdatedAt:  updatedAt,
		SyncedAt:   syncedAt,
	}, nil
}

func TransformBundle(row msdomain.Bundle, id string, syncedAt time.Time, loc *time.Location) (*domain.Bundle, error) {
	foreignID := rowID(row.ID, row.Meta)
	if foreignID == "" {
		return nil, invalidRow("kit", "sem id")
	}

	name := strings.TrimSpace(row.Name)
	if name == "" {
		return nil, invalidRow("kit", "sem nome: "+foreignID)
	}

	updatedAt, err := parseTime("kit", "updated", row.Updated, loc, false)
	if err != nil {
		return nil, err
	}

	components := 0
	if row.Components != nil {
		components = row.Components.Meta.Size
	}

	return &domain.Bundle{
		ID:         id,
		MoySkladID: foreignID,
		Name:       name,
		Code:       strings.TrimSpace(row.Code),
		Article:    strings.TrimSpace(row.Article),
		Category:   strings.TrimSpace(row.PathName),
		SalePrice:  firstSalePrice(row.SalePrices),
		Components: components,
		Archived:   row.Archived,
		UpdatedAt:  updatedAt,
		SyncedAt:   syncedAt,
	}, nil
}

func TransformStore(row msdomain.Store, id string, rules []domain.LocationRule, syncedAt time.Time, loc *time.Location) (*domain.Store, error) {
	foreignID := rowID(row.ID, row.Meta)
	if foreignID == "" {
		return nil, invalidRow("depósito", "sem id")
	}

	name := strings.TrimSpace(row.Name)
	if name == "" {
		return nil, invalidRow("depósito", "sem nome: "+foreignID)
	}

	updatedAt, err := parseTime("depósito", "updated", row.Updated, loc, false)
	if err != nil {
		return nil, err
	}

	return &domain.Store{
		ID:         id,
		MoySkladID: foreignID,
		Name:       name,
		Code:       strings.TrimSpace(row.Code),
		Address:    strings.TrimSpace(row.Address),
		Kind:       domain.ClassifyLocation(name, rules),
		Archived:   row.Archived,
		UpdatedAt:  updatedAt,
		SyncedAt:   syncedAt,
	}, nil
}

func TransformCounterparty(row msdomain.Counterparty, id string, syncedAt time.Time, loc *time.Location) (*domain.Counterparty, error) {
	foreignID := rowID(row.ID, row.Meta)
	if foreignID == "" {
		return nil, invalidRow("contraparte", "sem id")
	}

	updatedAt, err := parseTime("contraparte", "updated", row.Updated, loc, false)
	if err != nil {
		return nil, err
	}

	tags := row.Tags
	if tags == nil {
		tags = []string{}
	}

	companyType := row.CompanyType
	if companyType == "" {
		companyType = "legal"
	}

	return &domain.Counterparty{
		ID:          id,
		MoySkladID:  foreignID,
		Name:        strings.TrimSpace(row.Name),
		INN:         strings.TrimSpace(row.INN),
		Phone:       strings.TrimSpace(row.Phone),
		Email:       strings.TrimSpace(row.Email),
		CompanyType: companyType,
		Tags:        tags,
		Archived:    row.Archived,
		UpdatedAt:   updatedAt,
		SyncedAt:    syncedAt,
	}, nil
}

// TransformDocument não resolve posições; agente e depósito chegam já mapeados
func TransformDocument(row msdomain.Document, kind domain.DocumentKind, id string, agentID, storeID *string, syncedAt time.Time, loc *time.Location) (*domain.Document, error) {
	foreignID := rowID(row.ID, row.Meta)
	if foreignID == "" {
		return nil, invalidRow(string(kind), "sem id")
	}

	moment, err := parseTime(string(kind), "moment", row.Moment, loc, true)
	if err != nil {
		return nil, err
	}

	updatedAt, err := parseTime(string(kind), "updated", row.Updated, loc, false)
	if err != nil {
		return nil, err
	}

	return &domain.Document{
		ID:         id,
		MoySkladID: foreignID,
		Kind:       kind,
		Name:       strings.TrimSpace(row.Name),
		Moment:     moment,
		Sum:        domain.MinorToMajor(row.Sum),
		AgentID:    agentID,
		StoreID:    storeID,
		Applicable: row.Applicable,
		UpdatedAt:  updatedAt,
		SyncedAt:   syncedAt,
	}, nil
}

// TransformPosition exige produto ou kit resolvido
func TransformPosition(row msdomain.Position, document *domain.Document, productID, bundleID *string, syncedAt time.Time) (*domain.DocumentPosition, error) {
	if row.ID == "" {
		return nil, invalidRow("posição", "sem id")
	}
	if productID == nil && bundleID == nil {
		return nil, invalidRow("posição", "sem produto ou kit mapeado: "+row.ID)
	}

	return &domain.DocumentPosition{
		ID:           row.ID,
		DocumentID:   document.ID,
		DocumentKind: document.Kind,
		ProductID:    productID,
		BundleID:     bundleID,
		Quantity:     row.Quantity,
		Price:        domain.MinorToMajor(row.Price),
		Discount:     decimal.NewFromFloat(row.Discount).Round(2),
		Cost:         domain.MinorToMajor(row.Cost),
		SyncedAt:     syncedAt,
	}, nil
}

func TransformPayment(row msdomain.Payment, direction domain.PaymentDirection, id string, agentID *string, syncedAt time.Time, loc *time.Location) (*domain.Payment, error) {
	foreignID := rowID(row.ID, row.Meta)
	if foreignID == "" {
		return nil, invalidRow("pagamento", "sem id")
	}

	moment, err := parseTime("pagamento", "moment", row.Moment, loc, true)
	if err != nil {
		return nil, err
	}

	updatedAt, err := parseTime("pagamento", "updated", row.Updated, loc, false)
	if err != nil {
		return nil, err
	}

	return &domain.Payment{
		ID:         id,
		MoySkladID: foreignID,
		Direction:  direction,
		Name:       strings.TrimSpace(row.Name),
		Moment:     moment,
		Sum:        domain.MinorToMajor(row.Sum),
		AgentID:    agentID,
		Purpose:    strings.TrimSpace(row.PaymentPurpose),
		Applicable: row.Applicable,
		UpdatedAt:  updatedAt,
		SyncedAt:   syncedAt,
	}, nil
}

func TransformTurnover(row msdomain.TurnoverRow, productID string, period domain.ReportPeriod, syncedAt time.Time) *domain.TurnoverRow {
	return &domain.TurnoverRow{
		ProductID:   productID,
		PeriodStart: period.Start,
		PeriodEnd:   period.End,
		OpeningQty:  row.OnPeriodStart.Quantity,
		OpeningSum:  domain.MinorToMajor(row.OnPeriodStart.Sum),
		IncomeQty:   row.Income.Quantity,
		IncomeSum:   domain.MinorToMajor(row.Income.Sum),
		OutcomeQty:  row.Outcome.Quantity,
		OutcomeSum:  domain.MinorToMajor(row.Outcome.Sum),
		ClosingQty:  row.OnPeriodEnd.Quantity,
		ClosingSum:  domain.MinorToMajor(row.OnPeriodEnd.Sum),
		SyncedAt:    syncedAt,
	}
}

func TransformProfit(row msdomain.ProfitRow, productID string, period domain.ReportPeriod, syncedAt time.Time) *domain.ProfitRow {
	return &domain.ProfitRow{
		ProductID:      productID,
		PeriodStart:    period.Start,
		PeriodEnd:      period.End,
		SellQuantity:   row.SellQuantity,
		SellSum:        domain.MinorToMajor(row.SellSum),
		SellCostSum:    domain.MinorToMajor(row.SellCostSum),
		ReturnQuantity: row.ReturnQuantity,
		ReturnSum:      domain.MinorToMajor(row.ReturnSum),
		Profit:         domain.MinorToMajor(row.Profit),
		Margin:         row.Margin,
		SyncedAt:       syncedAt,
	}
}

// cashAccountKey identifica o saldo de caixa, que não tem conta bancária
const cashAccountKey = "cash"

func TransformMoney(row msdomain.MoneyRow, snapshot, syncedAt time.Time) (*domain.MoneyBalance, error) {
	organizationID := row.Organization.Meta.ID()
	if organizationID == "" {
		return nil, invalidRow("saldo", "sem organização")
	}

	accountKey, accountName := cashAccountKey, ""
	if row.Account != nil {
		accountName = strings.TrimSpace(row.Account.Name)
		if number := strings.TrimSpace(row.Account.AccountNumber); number != "" {
			accountKey = number
		}
	}

	return &domain.MoneyBalance{
		OrganizationID:   organizationID,
		OrganizationName: strings.TrimSpace(row.Organization.Name),
		AccountKey:       accountKey,
		AccountName:      accountName,
		SnapshotDate:     snapshot,
		Balance:          domain.MinorToMajor(row.Balance),
		SyncedAt:         syncedAt,
	}, nil
}
