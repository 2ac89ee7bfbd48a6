// Package symbols resolves memory addresses to program symbols and
// instruction pointers to source locations. Resolution data comes from
// sidecar files generated from the traced binary.
package symbols

// Symbol describes a program object occupying a range of memory.
type Symbol interface {
	Name() string
	IsCode() bool
	IsData() bool
}

// Table resolves data addresses to symbols.
// Lookup returns nil when no symbol covers the address.
type Table interface {
	Lookup(addr uint64) Symbol
}

// LineTable resolves instruction pointers to source locations.
type LineTable interface {
	FileLine(ip uint64) (file string, line int, ok bool)
}

// Synthetic attribution buckets for addresses that do not resolve
// to a known symbol or source location.
const (
	BucketStack   = "stack/mmap"
	BucketHeap    = "heap"
	BucketUnknown = "unknown"
)

// DefaultStackThreshold is the lowest address treated as stack or
// mmapped memory on x86-64 Linux.
const DefaultStackThreshold uint64 = 0x7f0000000000

// AddressClassifier buckets unresolved addresses by an address-range
// heuristic. Addresses at or above the threshold are attributed to
// stack/mmap, everything below to the heap. This is an approximation;
// the threshold is overridable for other memory layouts.
type AddressClassifier struct {
	StackThreshold uint64
}

// NewAddressClassifier returns a classifier with the default threshold.
func NewAddressClassifier() AddressClassifier {
	return AddressClassifier{StackThreshold: DefaultStackThreshold}
}

// Classify returns the synthetic bucket name for an unresolved address.
func (c AddressClassifier) Classify(addr uint64) string {
	threshold := c.StackThreshold
	if threshold == 0 {
		threshold = DefaultStackThreshold
	}
	if addr > threshold {
		return BucketStack
	}
	return BucketHeap
}
