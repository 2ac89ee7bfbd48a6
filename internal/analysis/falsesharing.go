package analysis

import (
	"context"
	"io"
	"sort"

	"github.com/pat-analysis/internal/trace"
	"github.com/pat-analysis/pkg/collections"
	"github.com/pat-analysis/pkg/model"
)

// FalseSharingDetector finds pages whose faults are attributable to
// distinct program objects colocated on the page rather than genuine
// sharing of one object. The tracking models an MSI invalidation
// protocol and is only meaningful for traces from a distributed
// execution using that discipline.
//
// Only entries that resolve to a known symbol are tracked; stack, heap
// and mmapped memory cannot be attributed to an object.
type FalseSharingDetector struct {
	// HomeNode is the node assumed to hold the first copy of every
	// page. It is pre-seeded as having seen and holding each page.
	HomeNode int
}

// pageTracker tracks the coherence history of one page.
type pageTracker struct {
	page        uint64
	faults      int64
	falseFaults int64

	// seen holds nodes that ever faulted on the page, hasCopy the
	// nodes currently believed to hold a readable copy.
	seen    *collections.NodeSet
	hasCopy *collections.NodeSet

	lastWriter string
	hasWriter  bool
	implicated map[string]struct{}
}

func newPageTracker(page uint64, homeNode int) *pageTracker {
	return &pageTracker{
		page:       page,
		seen:       collections.NewNodeSet(homeNode),
		hasCopy:    collections.NewNodeSet(homeNode),
		implicated: make(map[string]struct{}),
	}
}

// track books one fault against the page's coherence state.
func (p *pageTracker) track(symbol string, node int, perm trace.Permission) {
	p.faults++

	// The first fault from a new node is never false sharing; the data
	// has to be transported over at least once.
	if !p.seen.Contains(node) {
		p.seen.Add(node)
		return
	}

	if perm == trace.PermWrite {
		// Either an upgrade from R, or the node was invalidated by a
		// previous write. If the latter and the write was to another
		// object, this fault only exists because of colocation.
		if !p.hasCopy.Contains(node) && p.hasWriter && symbol != p.lastWriter {
			p.implicated[symbol] = struct{}{}
			p.implicated[p.lastWriter] = struct{}{}
			p.falseFaults++
		}
		// A write invalidates every other copy
		p.hasCopy.Clear()
		p.hasCopy.Add(node)
		p.lastWriter = symbol
		p.hasWriter = true
	} else {
		// A read fault can only come from a prior invalidation, since
		// reads never downgrade another node's access.
		if p.hasWriter && symbol != p.lastWriter {
			p.implicated[symbol] = struct{}{}
			p.implicated[p.lastWriter] = struct{}{}
			p.falseFaults++
		}
		p.hasCopy.Add(node)
	}
}

func (p *pageTracker) result() model.FalseSharingPage {
	syms := make([]string, 0, len(p.implicated))
	for s := range p.implicated {
		syms = append(syms, s)
	}
	sort.Strings(syms)
	return model.FalseSharingPage{
		Page:        p.page,
		Faults:      p.faults,
		FalseFaults: p.falseFaults,
		Symbols:     syms,
	}
}

// Run scans the trace and returns pages sorted descending by the
// number of faults attributed to false sharing.
func (d *FalseSharingDetector) Run(ctx context.Context, r io.Reader, cfg *trace.Config) (*model.FalseSharingData, error) {
	trackers := make(map[uint64]*pageTracker)
	var order []uint64

	sc := trace.NewScanner(ctx, r, cfg)
	for sc.Scan() {
		e := sc.Entry()
		if e.Symbol == nil {
			continue
		}
		node, err := e.NodeID()
		if err != nil {
			return nil, err
		}

		page := e.Page()
		tracker, ok := trackers[page]
		if !ok {
			tracker = newPageTracker(page, d.HomeNode)
			trackers[page] = tracker
			order = append(order, page)
		}
		tracker.track(e.Symbol.Name(), node, e.Perm)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	pages := make([]model.FalseSharingPage, 0, len(order))
	for _, page := range order {
		pages = append(pages, trackers[page].result())
	}
	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].FalseFaults > pages[j].FalseFaults
	})

	return &model.FalseSharingData{Pages: pages}, nil
}
