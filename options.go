package backingstore

// StoreOption configures a Store during creation.
// Use functional options to customize Store behavior.
//
// Example:
//
//	// Default configuration
//	bs := backingstore.New(updater)
//
//	// Bounded cache with low-quality scrolling renders
//	bs := backingstore.New(updater,
//	    backingstore.WithTileBudget(16),
//	    backingstore.WithQuality(backingstore.QualityLow))
type StoreOption func(*storeOptions)

// storeOptions holds optional configuration for Store creation.
type storeOptions struct {
	tileBudget int
	params     Params
}

// defaultStoreOptions returns the default store options.
func defaultStoreOptions() storeOptions {
	return storeOptions{
		tileBudget: 0, // unlimited
		params:     defaultParams(),
	}
}

// WithTileBudget bounds the number of valid tiles the store keeps.
// When an update pushes the count past the budget, tiles with no
// overlap with the current viewport are evicted farthest-first. Zero
// or negative means unlimited.
func WithTileBudget(n int) StoreOption {
	return func(o *storeOptions) {
		o.tileBudget = n
	}
}

// WithParams replaces the initial parameter table. Individual keys can
// still be changed later via [Store.SetParam].
func WithParams(p Params) StoreOption {
	return func(o *storeOptions) {
		o.params = p.clone()
	}
}

// WithQuality sets the quality for future renders, leaving the other
// parameters at their defaults.
func WithQuality(q Quality) StoreOption {
	return func(o *storeOptions) {
		o.params.Quality = q
	}
}
