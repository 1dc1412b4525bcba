package asterix

import "sync"

// Catalogue is the process-scoped registry of Categories, populated once
// at startup by the schema package and read concurrently thereafter by
// every DataBlock decode. Categories 1..255 hold real ASTERIX dialects;
// BDSCategoryID holds the Mode-S register catalogue consulted by BDS
// format nodes.
type Catalogue struct {
	mu         sync.RWMutex
	categories map[int]*Category
	frozen     bool
	tracer     *Tracer
}

// NewCatalogue returns an empty, writable catalogue.
func NewCatalogue() *Catalogue {
	return &Catalogue{
		categories: make(map[int]*Category),
		tracer:     _lg,
	}
}

// SetTracer overrides the catalogue's diagnostic sink; nil restores the
// package default.
func (c *Catalogue) SetTracer(t *Tracer) {
	if t == nil {
		t = _lg
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tracer = t
}

// Register installs cat under its own ID. Calling Register after Freeze
// panics: the schema loader owns the write phase, decode owns the read
// phase, and the two must never overlap.
func (c *Catalogue) Register(cat *Category) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen {
		panic("asterix: Catalogue.Register called after Freeze")
	}
	c.categories[cat.ID] = cat
}

// Freeze marks loading complete: any later Register panics, matching
// spec.md §4.H's "load-once, read-only thereafter". Lookups take the read
// lock both before and after Freeze.
func (c *Catalogue) Freeze() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frozen = true
}

// Lookup returns the Category registered under id. ok is false if the
// category is unknown; per spec.md §4.H the caller (DataBlock) must then
// mark itself format_ok=false and skip to the next block rather than
// treat this as fatal.
func (c *Catalogue) Lookup(id int) (*Category, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cat, ok := c.categories[id]
	return cat, ok
}

// BDS returns the sentinel BDS register catalogue, if loaded.
func (c *Catalogue) BDS() (*Category, bool) {
	return c.Lookup(BDSCategoryID)
}

// Each calls f once per registered category (including the BDS sentinel),
// in no particular order. Used only by filter configuration, which must
// visit every category to reset IncludedInFilter before re-marking the
// ones a filter_spec actually names.
func (c *Catalogue) Each(f func(*Category)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, cat := range c.categories {
		f(cat)
	}
}

func (c *Catalogue) tracerOrDefault() *Tracer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tracer == nil {
		return _lg
	}
	return c.tracer
}
