// Package trace parses page access trace (PAT) files. A PAT file has
// one line per page fault recorded by the operating system:
//
//	time nid tid perm ip addr <region | node bitmask>
//
// where perm is R, W or I. For R/W entries the last field is a region
// identifier; for I entries it is a bitmask of the nodes to which
// invalidation messages were sent. Entries are sorted by timestamp.
package trace

import (
	"math/bits"
	"strconv"

	"github.com/pat-analysis/internal/symbols"
	"github.com/pat-analysis/pkg/errors"
)

// Permission is the page access permission recorded for a fault.
type Permission byte

const (
	PermRead       Permission = 'R'
	PermWrite      Permission = 'W'
	PermInvalidate Permission = 'I'
)

// String returns the single-letter form used in trace files.
func (p Permission) String() string {
	return string(rune(p))
}

// PageMask aligns addresses down to a 4 KiB page boundary.
const PageMask uint64 = 0xfffffffffffff000

// PageOf returns the page containing an address.
func PageOf(addr uint64) uint64 {
	return addr & PageMask
}

// Entry is one parsed trace line.
type Entry struct {
	// Timestamp of the fault inside the application's execution.
	Timestamp float64
	// Node is the ID of the node on which the fault occurred.
	Node string
	// TID is the Linux task ID of the faulting task.
	TID int
	// Perm is the page access permission.
	Perm Permission
	// IP is the instruction address that caused the fault.
	IP uint64
	// Addr is the faulting memory address.
	Addr uint64
	// Region holds the raw last field: a region identifier for R/W
	// entries, a node bitmask for I entries.
	Region string
	// Symbol is the program object covering Addr, nil if the address
	// did not resolve through the configured symbol table.
	Symbol symbols.Symbol
}

// Page returns the page containing the faulting address.
func (e *Entry) Page() uint64 {
	return PageOf(e.Addr)
}

// RegionID parses the region field as an integer region identifier.
func (e *Entry) RegionID() (int, error) {
	id, err := strconv.Atoi(e.Region)
	if err != nil {
		return 0, errors.Wrap(errors.CodeParseError, "invalid region identifier "+e.Region, err)
	}
	return id, nil
}

// NodeID parses the node field as an integer node identifier.
func (e *Entry) NodeID() (int, error) {
	id, err := strconv.Atoi(e.Node)
	if err != nil {
		return 0, errors.Wrap(errors.CodeParseError, "invalid node identifier "+e.Node, err)
	}
	return id, nil
}

// Invalidations returns the number of invalidation messages sent for
// an I entry: the population count of the node bitmask.
func (e *Entry) Invalidations() (int64, error) {
	mask, err := strconv.ParseUint(e.Region, 10, 64)
	if err != nil {
		return 0, errors.Wrap(errors.CodeParseError, "invalid node bitmask "+e.Region, err)
	}
	return int64(bits.OnesCount64(mask)), nil
}
