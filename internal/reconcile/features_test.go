package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/retail-etl/internal/model"
)

func metricsDataset(periods model.PeriodTable, products ...model.Product) *model.Dataset {
	return &model.Dataset{
		Retailer:  "Test",
		TimeGrain: model.GrainMonthly,
		Products:  products,
		Periods:   periods,
	}
}

func TestDetectFeatures_UnitsOnly(t *testing.T) {
	ds := metricsDataset(model.PeriodTable{
		"2025-01": {"A": &model.Metrics{Units: 5}},
		"2025-02": {"A": &model.Metrics{Units: 6}},
		"2025-03": {"A": &model.Metrics{Units: 7}},
	})

	features := DetectFeatures(ds, nil)
	assert.ElementsMatch(t, []string{
		FeatureExecutiveSummary, FeatureSalesOverview,
		FeatureProductPerformance, FeatureTopBottomMovers,
	}, features)
	assert.NotContains(t, features, FeatureYoYPerformance)
}

func TestDetectFeatures_YoYRequiresNonZeroYago(t *testing.T) {
	ds := metricsDataset(model.PeriodTable{
		"2025-01": {"A": &model.Metrics{Units: 5, UnitsYago: 4}},
	})
	assert.Contains(t, DetectFeatures(ds, nil), FeatureYoYPerformance)

	// yago fields present but zero must not enable the feature.
	ds = metricsDataset(model.PeriodTable{
		"2025-01": {"A": &model.Metrics{Units: 5}},
	})
	assert.NotContains(t, DetectFeatures(ds, nil), FeatureYoYPerformance)
}

func TestDetectFeatures_SinglePeriodNoMovers(t *testing.T) {
	ds := metricsDataset(model.PeriodTable{
		"2025-01": {"A": &model.Metrics{Dollars: 10}},
	})
	features := DetectFeatures(ds, nil)
	assert.Contains(t, features, FeatureSalesOverview)
	assert.NotContains(t, features, FeatureTopBottomMovers)
}

func TestDetectFeatures_EmptyDataset(t *testing.T) {
	ds := metricsDataset(model.PeriodTable{})
	assert.Empty(t, DetectFeatures(ds, nil))
}

func TestDetectFeatures_ProductAttributes(t *testing.T) {
	ds := metricsDataset(model.PeriodTable{},
		model.Product{UPC: "0000000000001", Category: "Supplements"},
		model.Product{UPC: "0000000000002", SetStatus: "Discontinued"},
		model.Product{UPC: "0000000000003", ACV: 0.5},
	)
	features := DetectFeatures(ds, nil)
	assert.Contains(t, features, FeatureCategoryAnalytics)
	assert.Contains(t, features, FeatureDiscontinuationRisk)
	assert.Contains(t, features, FeatureDistributionACV)
}

func TestDetectFeatures_StoreCountAloneEnablesACV(t *testing.T) {
	ds := metricsDataset(model.PeriodTable{},
		model.Product{UPC: "0000000000001", StoreCount: 12},
	)
	assert.Contains(t, DetectFeatures(ds, nil), FeatureDistributionACV)
}

func TestDetectFeatures_Supplemental(t *testing.T) {
	ds := metricsDataset(model.PeriodTable{})
	supp := map[string]*model.Supplemental{
		model.SupplementalInventory: {Retailer: "Test"},
		model.SupplementalLTOOS:     {Retailer: "Test"},
	}
	features := DetectFeatures(ds, supp)
	assert.Contains(t, features, FeatureInventoryHealth)
	assert.Contains(t, features, FeatureLTOOSRisk)
	assert.NotContains(t, features, FeatureForecastVsActual)
}
