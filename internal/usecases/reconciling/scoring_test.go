package reconciling

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/inventory-sync-api/internal/domain"
)

func TestComputeMetrics(t *testing.T) {
	thresholds := Thresholds{LowMarginPercent: 15, OverstockDays: 90, ReorderDays: 7}
	computedAt := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		activity *domain.ProductActivity
		validate func(t *testing.T, metrics *domain.ProductMetrics)
	}{
		{
			name: "produto com vendas e estoque saudável",
			activity: &domain.ProductActivity{
				ProductID:    "p-1",
				CurrentStock: 10,
				UnitsSold:    30,
				Revenue:      decimal.NewFromInt(60000),
				COGS:         decimal.NewFromInt(30000),
			},
			validate: func(t *testing.T, metrics *domain.ProductMetrics) {
				assert.Equal(t, "p-1", metrics.ProductID)
				assert.Equal(t, 30, metrics.WindowDays)
				assert.Equal(t, 25.0, metrics.AverageStock)
				assert.Equal(t, 1.2, metrics.TurnoverRatio)
				assert.Equal(t, 25.0, metrics.TurnoverDays)
				assert.Equal(t, 1.0, metrics.SalesVelocity)
				assert.Equal(t, 2000.0, metrics.DailyRevenue)
				assert.Equal(t, "30000", metrics.MarginAmount.String())
				assert.Equal(t, 50.0, metrics.MarginPercent)
				assert.Equal(t, 10.0, metrics.StockToVelocity)
				assert.Equal(t, 42.33, metrics.LiquidityScore)
				assert.Equal(t, 39.92, metrics.PriorityScore)
				assert.Equal(t, RecommendationHealthy, metrics.Recommendation)
				assert.Equal(t, computedAt, metrics.ComputedAt)
			},
		},
		{
			name: "estoque parado sem vendas",
			activity: &domain.ProductActivity{
				ProductID:    "p-2",
				CurrentStock: 5,
				CostPrice:    decimal.NewFromInt(100),
			},
			validate: func(t *testing.T, metrics *domain.ProductMetrics) {
				assert.Equal(t, 0.0, metrics.TurnoverRatio)
				assert.Equal(t, 999.0, metrics.TurnoverDays)
				assert.Equal(t, 999.0, metrics.StockToVelocity)
				assert.Equal(t, 0.0, metrics.MarginPercent)
				assert.Equal(t, 0.0, metrics.LiquidityScore)
				assert.Equal(t, 80.0, metrics.PriorityScore)
				assert.Equal(t, RecommendationLiquidate, metrics.Recommendation)
			},
		},
		{
			name: "usa o custo do produto para unidades sem custo e junta as recomendações",
			activity: &domain.ProductActivity{
				ProductID:     "p-3",
				UnitsSold:     10,
				Revenue:       decimal.NewFromInt(1000),
				CostPrice:     decimal.NewFromInt(90),
				UncostedUnits: 10,
			},
			validate: func(t *testing.T, metrics *domain.ProductMetrics) {
				assert.Equal(t, "100", metrics.MarginAmount.String())
				assert.Equal(t, 10.0, metrics.MarginPercent)
				assert.Equal(t, 2.0, metrics.TurnoverRatio)
				assert.Equal(t, 15.0, metrics.TurnoverDays)
				assert.Equal(t, 0.0, metrics.StockToVelocity)
				assert.Equal(t, RecommendationReprice+"; "+RecommendationReorder, metrics.Recommendation)
			},
		},
		{
			name: "cobertura acima do limite sugere promoção",
			activity: &domain.ProductActivity{
				ProductID:    "p-4",
				CurrentStock: 300,
				UnitsSold:    30,
				Revenue:      decimal.NewFromInt(3000),
				COGS:         decimal.NewFromInt(1000),
			},
			validate: func(t *testing.T, metrics *domain.ProductMetrics) {
				assert.Equal(t, 300.0, metrics.StockToVelocity)
				assert.Equal(t, RecommendationPromote, metrics.Recommendation)
			},
		},
		{
			name:     "produto sem movimento e sem estoque",
			activity: &domain.ProductActivity{ProductID: "p-5"},
			validate: func(t *testing.T, metrics *domain.ProductMetrics) {
				assert.Equal(t, 0.0, metrics.TurnoverDays)
				assert.Equal(t, 0.0, metrics.StockToVelocity)
				assert.Equal(t, 80.0, metrics.PriorityScore)
				assert.Equal(t, RecommendationHealthy, metrics.Recommendation)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, ComputeMetrics(tt.activity, 30, thresholds, computedAt))
		})
	}
}

func TestRevenueTier(t *testing.T) {
	assert.Equal(t, 100.0, revenueTier(1_000_000))
	assert.Equal(t, 70.0, revenueTier(100_000))
	assert.Equal(t, 40.0, revenueTier(10_000))
	assert.Equal(t, 20.0, revenueTier(0.01))
	assert.Equal(t, 0.0, revenueTier(0))
}

func TestUnitCost(t *testing.T) {
	cost, ok := UnitCost(450000, 3)
	assert.True(t, ok)
	assert.Equal(t, "1500.00", cost.StringFixed(2))

	_, ok = UnitCost(450000, 0)
	assert.False(t, ok)

	_, ok = UnitCost(0, 3)
	assert.False(t, ok)
}
