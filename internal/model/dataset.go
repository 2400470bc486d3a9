package model

// TimeGrain is the base resolution of a retailer's period table.
type TimeGrain string

const (
	GrainMonthly TimeGrain = "monthly"
	GrainWeekly  TimeGrain = "weekly"
)

// Dataset is the canonical per-retailer output written to pos_data.json.
type Dataset struct {
	Retailer      string      `json:"retailer"`
	LastUpdated   string      `json:"last_updated"`
	TimeGrain     TimeGrain   `json:"time_grain"`
	Products      []Product   `json:"products"`
	Periods       PeriodTable `json:"periods"`
	WeeklyPeriods PeriodTable `json:"weekly_periods,omitempty"`
}

// Supplemental is a retailer-optional record set (inventory snapshot, LTOOS
// history, ...). The record schema is owned by the adapter that produced it;
// the pipeline only persists it alongside the canonical dataset.
type Supplemental struct {
	Retailer    string `json:"retailer"`
	LastUpdated string `json:"last_updated"`
	Records     []any  `json:"records"`
}

// Supplemental kinds double as output file basenames.
const (
	SupplementalInventory = "inventory"
	SupplementalLTOOS     = "ltoos_history"
	SupplementalForecast  = "forecast_data"
	SupplementalEcommerce = "ecommerce"
)
