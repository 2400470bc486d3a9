package model

// DateRange is the observed period span of a retailer's dataset.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ManifestEntry summarizes one retailer for the dashboard manifest.
type ManifestEntry struct {
	DisplayName  string    `json:"display_name"`
	DataFiles    []string  `json:"data_files"`
	DateRange    DateRange `json:"date_range"`
	Features     []string  `json:"features"`
	ProductCount int       `json:"product_count"`
	TimeGrain    TimeGrain `json:"time_grain"`
	HasWeekly    bool      `json:"has_weekly,omitempty"`
}

// Manifest aggregates entries across retailers. It is loaded at the start of
// a run and rewritten at the end; entries for retailers outside the run are
// carried over untouched.
type Manifest struct {
	GeneratedAt string                   `json:"generated_at"`
	Retailers   map[string]ManifestEntry `json:"retailers"`
}

// NewManifest returns an empty manifest ready for Record calls.
func NewManifest() *Manifest {
	return &Manifest{Retailers: make(map[string]ManifestEntry)}
}
