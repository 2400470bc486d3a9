package model

// Product is one catalog entry per normalized UPC within a retailer.
type Product struct {
	UPC         string `json:"upc"`
	ProductName string `json:"product_name"`
	Brand       string `json:"brand"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`

	// Retailer-optional attributes. ACV and StoreCount are present/absent
	// (zero means absent); SetStatus is a point-in-time assortment status.
	ACV        float64 `json:"acv,omitempty"`
	StoreCount int     `json:"store_count,omitempty"`
	SetStatus  string  `json:"set_status,omitempty"`
}
