// Package bloom provides a probabilistic membership pre-check for crawl
// addresses backed by a Bloom filter.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter answers "definitely not seen" for canonical addresses.
// A positive answer may be a false positive and must be confirmed by an
// exact set.
type Filter struct {
	f     *bloom.BloomFilter
	added uint
}

// NewFilter creates a filter sized for n expected addresses with the given
// false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add records address.
func (f *Filter) Add(address string) {
	f.f.AddString(address)
	f.added++
}

// Test returns true if address might have been added.
// False positives are possible; false negatives are not.
func (f *Filter) Test(address string) bool {
	return f.f.TestString(address)
}

// TestAndAdd records address and reports whether it might have been
// added before.
func (f *Filter) TestAndAdd(address string) bool {
	f.added++
	return f.f.TestAndAddString(address)
}

// EstimatedCount returns the approximate number of distinct addresses in
// the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}

// Adds returns how many times an address was added, repeats included.
func (f *Filter) Adds() uint {
	return f.added
}
