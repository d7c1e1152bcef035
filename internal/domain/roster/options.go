// Package roster derives per-subject daily attendance from the event set.
package roster

import "golang.org/x/text/language"

// Option applies a configuration option to the Aggregator.
type Option func(*collatingAggregator)

// WithLocale sets the collation locale for output ordering.
func WithLocale(tag language.Tag) Option {
	return func(a *collatingAggregator) {
		a.locale = tag
	}
}
