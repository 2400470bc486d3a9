package reconcile

import "github.com/sells-group/retail-etl/internal/model"

// Dashboard feature tags.
const (
	FeatureExecutiveSummary    = "executive_summary"
	FeatureSalesOverview       = "sales_overview"
	FeatureProductPerformance  = "product_performance"
	FeatureTopBottomMovers     = "top_bottom_movers"
	FeatureYoYPerformance      = "yoy_performance"
	FeatureCategoryAnalytics   = "category_analytics"
	FeatureInventoryHealth     = "inventory_health"
	FeatureLTOOSRisk           = "ltoos_risk"
	FeatureForecastVsActual    = "forecast_vs_actual"
	FeatureEcommerceMetrics    = "ecommerce_metrics"
	FeatureDiscontinuationRisk = "discontinuation_risk"
	FeatureDistributionACV     = "distribution_acv"
)

// supplementalFeatures maps a supplemental record-set kind to the dashboard
// feature it unconditionally enables, in emission order.
var supplementalFeatures = []struct {
	kind    string
	feature string
}{
	{model.SupplementalInventory, FeatureInventoryHealth},
	{model.SupplementalLTOOS, FeatureLTOOSRisk},
	{model.SupplementalForecast, FeatureForecastVsActual},
	{model.SupplementalEcommerce, FeatureEcommerceMetrics},
}

// DetectFeatures infers which dashboard capabilities a finished canonical
// dataset supports. Pure function of the dataset and its supplemental kinds;
// every rule is an existential predicate, so the first qualifying record is
// sufficient.
func DetectFeatures(ds *model.Dataset, supplemental map[string]*model.Supplemental) []string {
	var features []string

	hasSales := false
	hasYago := false
	for _, bucket := range ds.Periods {
		for _, m := range bucket {
			if m.Dollars != 0 || m.Units != 0 {
				hasSales = true
			}
			if m.DollarsYago != 0 || m.UnitsYago != 0 {
				hasYago = true
			}
			if hasSales && hasYago {
				break
			}
		}
		if hasSales && hasYago {
			break
		}
	}

	if hasSales {
		features = append(features,
			FeatureExecutiveSummary, FeatureSalesOverview, FeatureProductPerformance)
	}
	if hasSales && len(ds.Periods) >= 2 {
		features = append(features, FeatureTopBottomMovers)
	}
	if hasYago {
		features = append(features, FeatureYoYPerformance)
	}

	for _, p := range ds.Products {
		if p.Category != "" {
			features = append(features, FeatureCategoryAnalytics)
			break
		}
	}

	for _, sf := range supplementalFeatures {
		if _, ok := supplemental[sf.kind]; ok {
			features = append(features, sf.feature)
		}
	}

	hasStatus := false
	hasACV := false
	for _, p := range ds.Products {
		if p.SetStatus != "" {
			hasStatus = true
		}
		if p.ACV > 0 || p.StoreCount > 0 {
			hasACV = true
		}
		if hasStatus && hasACV {
			break
		}
	}
	if hasStatus {
		features = append(features, FeatureDiscontinuationRisk)
	}
	if hasACV {
		features = append(features, FeatureDistributionACV)
	}

	return features
}
