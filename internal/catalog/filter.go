package catalog

import "github.com/bits-and-blooms/bloom/v3"

// Filter is a bloom filter over known product ids. A definite miss lets
// the order validator reject an unknown id without a round trip to the
// store; a hit still requires the authoritative fetch, since bloom
// filters yield false positives.
type Filter struct {
	b *bloom.BloomFilter
}

const falsePositiveRate = 0.001

// NewFilter builds a filter containing the given product ids.
func NewFilter(ids []string) *Filter {
	n := uint(len(ids))
	if n == 0 {
		n = 1
	}

	b := bloom.NewWithEstimates(n, falsePositiveRate)
	for _, id := range ids {
		b.AddString(id)
	}
	return &Filter{b: b}
}

// MayContain reports whether the id might be in the catalog. False means
// the id is definitely unknown.
func (f *Filter) MayContain(id string) bool {
	return f.b.TestString(id)
}
