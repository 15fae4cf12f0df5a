package reconciling

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/inventory-sync-api/internal/domain"
	"github.com/vfg2006/inventory-sync-api/pkg/utils"
)

// maxDays limita coberturas e giros sem venda
const maxDays = 999

const (
	RecommendationLiquidate = "Sem vendas com estoque parado: considerar promoção ou liquidação"
	RecommendationReprice   = "Margem baixa: revisar preço de venda ou custo"
	RecommendationPromote   = "Estoque acima da cobertura desejada: considerar promoção"
	RecommendationReorder   = "Cobertura curta: programar reposição"
	RecommendationHealthy   = "Saudável"
)

// Thresholds são os limites das regras de recomendação
type Thresholds struct {
	LowMarginPercent float64
	OverstockDays    float64
	ReorderDays      float64
}

func revenueTier(revenue float64) float64 {
	switch {
	case revenue >= 1_000_000:
		return 100
	case revenue >= 100_000:
		return 70
	case revenue >= 10_000:
		return 40
	case revenue > 0:
		return 20
	}
	return 0
}

func clamp(value float64) float64 {
	return math.Max(0, math.Min(100, value))
}

// ComputeMetrics calcula as métricas de um produto para a janela.
// O CMV usa o custo da posição e, quando ele não existe, o custo atual do produto.
func ComputeMetrics(activity *domain.ProductActivity, windowDays int, thresholds Thresholds, computedAt time.Time) *domain.ProductMetrics {
	window := float64(windowDays)
	stock := math.Max(activity.CurrentStock, 0)
	units := activity.UnitsSold
	revenue := activity.Revenue.InexactFloat64()

	cogs := activity.COGS.Add(activity.CostPrice.Mul(decimal.NewFromFloat(activity.UncostedUnits)))
	marginAmount := activity.Revenue.Sub(cogs).Round(2)

	averageStock := stock + units/2

	turnoverRatio := 0.0
	if averageStock > 0 {
		turnoverRatio = units / averageStock
	}

	turnoverDays := 0.0
	switch {
	case turnoverRatio > 0:
		turnoverDays = math.Min(window/turnoverRatio, maxDays)
	case stock > 0:
		turnoverDays = maxDays
	}

	velocity := units / window
	dailyRevenue := revenue / window

	marginPercent := 0.0
	if revenue != 0 {
		marginPercent = marginAmount.InexactFloat64() / revenue * 100
	}

	stockToVelocity := 0.0
	switch {
	case stock > 0 && velocity > 0:
		stockToVelocity = stock / velocity
	case stock > 0:
		stockToVelocity = maxDays
	}

	coverScore := 0.0
	if stock > 0 {
		coverScore = (1 - math.Min(stockToVelocity, 180)/180) * 100
	}
	liquidity := 0.4*math.Min(velocity/5, 1)*100 +
		0.3*math.Min(dailyRevenue/10000, 1)*100 +
		0.3*coverScore

	priority := 0.3*(100-clamp(marginPercent*2)) +
		0.25*(100-clamp(turnoverRatio*25)) +
		0.25*(100-liquidity) +
		0.2*revenueTier(revenue)

	return &domain.ProductMetrics{
		ProductID:       activity.ProductID,
		WindowDays:      windowDays,
		UnitsSold:       utils.RoundWithTwoDecimalPlace(units),
		Revenue:         activity.Revenue.Round(2),
		CurrentStock:    utils.RoundWithTwoDecimalPlace(stock),
		AverageStock:    utils.RoundWithTwoDecimalPlace(averageStock),
		TurnoverRatio:   utils.RoundWithTwoDecimalPlace(turnoverRatio),
		TurnoverDays:    utils.RoundWithTwoDecimalPlace(turnoverDays),
		SalesVelocity:   utils.RoundWithTwoDecimalPlace(velocity),
		DailyRevenue:    utils.RoundWithTwoDecimalPlace(dailyRevenue),
		MarginAmount:    marginAmount,
		MarginPercent:   utils.RoundWithTwoDecimalPlace(marginPercent),
		StockToVelocity: utils.RoundWithTwoDecimalPlace(stockToVelocity),
		LiquidityScore:  utils.RoundWithTwoDecimalPlace(liquidity),
		PriorityScore:   utils.RoundWithTwoDecimalPlace(priority),
		Recommendation:  recommend(units, revenue, stock, marginPercent, stockToVelocity, thresholds),
		ComputedAt:      computedAt,
	}
}

func recommend(units, revenue, stock, marginPercent, stockToVelocity float64, thresholds Thresholds) string {
	var advice []string

	if units == 0 && stock > 0 {
		advice = append(advice, RecommendationLiquidate)
	}
	if revenue > 0 && marginPercent < thresholds.LowMarginPercent {
		advice = append(advice, RecommendationReprice)
	}
	if units > 0 && stockToVelocity > thresholds.OverstockDays {
		advice = append(advice, RecommendationPromote)
	}
	if units > 0 && stockToVelocity < thresholds.ReorderDays {
		advice = append(advice, RecommendationReorder)
	}

	if len(advice) == 0 {
		return RecommendationHealthy
	}
	return strings.Join(advice, "; ")
}
