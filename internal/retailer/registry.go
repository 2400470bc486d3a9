package retailer

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Registry holds the known adapters in registration order so runs and
// listings are deterministic.
type Registry struct {
	adapters map[string]Adapter
	order    []string
}

// NewRegistry returns a registry with every built-in retailer adapter
// registered.
func NewRegistry() *Registry {
	r := &Registry{adapters: make(map[string]Adapter)}
	r.Register(&NGVC{})
	r.Register(&Sprouts{})
	r.Register(&IHerb{})
	r.Register(&TVS{})
	r.Register(&FreshThyme{})
	r.Register(&Vitacost{})
	return r
}

// Register adds an adapter; a duplicate key replaces the previous adapter in
// place without changing its position.
func (r *Registry) Register(a Adapter) {
	if _, exists := r.adapters[a.Key()]; !exists {
		r.order = append(r.order, a.Key())
	}
	r.adapters[a.Key()] = a
}

// Get returns the adapter for a retailer key.
func (r *Registry) Get(key string) (Adapter, bool) {
	a, ok := r.adapters[strings.ToLower(strings.TrimSpace(key))]
	return a, ok
}

// Select resolves a list of retailer keys to adapters, preserving
// registration order. An empty list selects every adapter; an unknown key is
// an error.
func (r *Registry) Select(keys []string) ([]Adapter, error) {
	if len(keys) == 0 {
		return r.All(), nil
	}

	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		k = strings.ToLower(strings.TrimSpace(k))
		if _, ok := r.adapters[k]; !ok {
			return nil, eris.Errorf("retailer: unknown retailer %q (known: %s)", k, strings.Join(r.AllNames(), ", "))
		}
		want[k] = true
	}

	var out []Adapter
	for _, k := range r.order {
		if want[k] {
			out = append(out, r.adapters[k])
		}
	}
	return out, nil
}

// All returns every adapter in registration order.
func (r *Registry) All() []Adapter {
	out := make([]Adapter, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.adapters[k])
	}
	return out
}

// AllNames returns every adapter key in registration order.
func (r *Registry) AllNames() []string {
	return append([]string(nil), r.order...)
}
