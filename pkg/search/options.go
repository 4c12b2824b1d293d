package search

import "github.com/bastiangx/foodserve/pkg/catalog"

// Option configures a single Search call.
type Option func(*options)

type options struct {
	limit  int
	fuzzy  bool
	filter catalog.Filter
}

func newOptions(opts []Option) options {
	o := options{limit: DefaultMaxResults, fuzzy: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLimit caps the number of results. A negative n means no cap and 0
// yields no results.
func WithLimit(n int) Option {
	return func(o *options) {
		o.limit = n
	}
}

// WithoutFuzzy skips the fuzzy pass.
func WithoutFuzzy() Option {
	return func(o *options) {
		o.fuzzy = false
	}
}

// WithFuzzy toggles the fuzzy pass.
func WithFuzzy(enabled bool) Option {
	return func(o *options) {
		o.fuzzy = enabled
	}
}

// WithFilter keeps only matches whose catalog record satisfies f. Filtering
// happens after ranking and before the result cap.
func WithFilter(f catalog.Filter) Option {
	return func(o *options) {
		o.filter = f
	}
}
