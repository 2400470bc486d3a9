package reconcile

import "github.com/sells-group/retail-etl/internal/model"

// ProductRegistry deduplicates product metadata observed across many raw
// rows and files into one record per UPC. Enumeration order is first-seen
// insertion order so output snapshots are reproducible.
//
// Field policy on repeat observations:
//   - name/brand/category/subcategory: last non-empty wins; an empty value
//     in a later row never erases a captured one.
//   - ACV/store count: stored only when strictly positive (present/absent).
//   - set status: reflects the most recent source reporting a non-empty
//     value (point-in-time status, not a cumulative fact).
type ProductRegistry struct {
	byUPC map[string]*model.Product
	order []string
}

// NewProductRegistry returns an empty registry.
func NewProductRegistry() *ProductRegistry {
	return &ProductRegistry{byUPC: make(map[string]*model.Product)}
}

// Upsert records an observation of a product. The UPC must already be
// normalized and must not be the zero sentinel; callers filter before
// inserting.
func (r *ProductRegistry) Upsert(obs model.Product) {
	p, ok := r.byUPC[obs.UPC]
	if !ok {
		cp := obs
		r.byUPC[obs.UPC] = &cp
		r.order = append(r.order, obs.UPC)
		return
	}

	if obs.ProductName != "" {
		p.ProductName = obs.ProductName
	}
	if obs.Brand != "" {
		p.Brand = obs.Brand
	}
	if obs.Category != "" {
		p.Category = obs.Category
	}
	if obs.Subcategory != "" {
		p.Subcategory = obs.Subcategory
	}
	if obs.ACV > 0 {
		p.ACV = obs.ACV
	}
	if obs.StoreCount > 0 {
		p.StoreCount = obs.StoreCount
	}
	if obs.SetStatus != "" {
		p.SetStatus = obs.SetStatus
	}
}

// Has reports whether a UPC has been observed.
func (r *ProductRegistry) Has(upc string) bool {
	_, ok := r.byUPC[upc]
	return ok
}

// Get returns the current record for a UPC.
func (r *ProductRegistry) Get(upc string) (model.Product, bool) {
	p, ok := r.byUPC[upc]
	if !ok {
		return model.Product{}, false
	}
	return *p, true
}

// Products returns all records in insertion order.
func (r *ProductRegistry) Products() []model.Product {
	out := make([]model.Product, 0, len(r.order))
	for _, upc := range r.order {
		out = append(out, *r.byUPC[upc])
	}
	return out
}

// Len returns the number of distinct products.
func (r *ProductRegistry) Len() int {
	return len(r.order)
}
