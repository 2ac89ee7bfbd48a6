// Package accessgraph builds graphs describing which threads touch
// which pages. Mappings are recorded during a trace pass and turned
// into nodes and edges by PostProcess.
package accessgraph

import (
	"fmt"
	"sort"
)

// Variant selects how recorded mappings are turned into a graph.
type Variant string

const (
	// VariantPlain produces a bipartite graph: one node per thread,
	// one node per page, edges weighted by access count.
	VariantPlain Variant = "plain"
	// VariantInterference produces a thread-to-thread graph where edge
	// weight is the access overlap on shared pages.
	VariantInterference Variant = "interference"
)

// Node is a vertex of a finalized graph.
type Node struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	Weight int64  `json:"weight"`
}

// Edge connects two nodes of a finalized graph.
type Edge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Weight int64  `json:"weight"`
}

// Graph accumulates thread-to-page mappings and exposes the finalized
// node and edge lists after PostProcess. Not safe for concurrent use.
type Graph struct {
	Source   string  `json:"source"`
	Directed bool    `json:"directed"`
	Variant  Variant `json:"variant"`
	Nodes    []*Node `json:"nodes"`
	Edges    []*Edge `json:"edges"`

	// accesses counts page touches per thread
	accesses map[int]map[uint64]int64
}

// New creates a plain co-access graph.
func New(source string, directed bool) *Graph {
	return NewVariant(VariantPlain, source, directed)
}

// NewInterference creates an interference graph.
func NewInterference(source string, directed bool) *Graph {
	return NewVariant(VariantInterference, source, directed)
}

// NewVariant creates a graph of the given variant.
func NewVariant(variant Variant, source string, directed bool) *Graph {
	return &Graph{
		Source:   source,
		Directed: directed,
		Variant:  variant,
		accesses: make(map[int]map[uint64]int64),
	}
}

// AddMapping records one access by a thread to a page.
func (g *Graph) AddMapping(tid int, page uint64) {
	pages, ok := g.accesses[tid]
	if !ok {
		pages = make(map[uint64]int64)
		g.accesses[tid] = pages
	}
	pages[page]++
}

// NumMappings returns the total number of recorded accesses.
func (g *Graph) NumMappings() int64 {
	var n int64
	for _, pages := range g.accesses {
		for _, count := range pages {
			n += count
		}
	}
	return n
}

// PostProcess builds the node and edge lists from the recorded
// mappings. Output order is deterministic: threads ascending by TID,
// pages ascending by address.
func (g *Graph) PostProcess() {
	switch g.Variant {
	case VariantInterference:
		g.buildInterference()
	default:
		g.buildPlain()
	}
}

func (g *Graph) sortedTIDs() []int {
	tids := make([]int, 0, len(g.accesses))
	for tid := range g.accesses {
		tids = append(tids, tid)
	}
	sort.Ints(tids)
	return tids
}

func threadID(tid int) string {
	return fmt.Sprintf("thread-%d", tid)
}

func pageID(page uint64) string {
	return fmt.Sprintf("page-0x%x", page)
}

func (g *Graph) buildPlain() {
	g.Nodes = g.Nodes[:0]
	g.Edges = g.Edges[:0]

	pageTotals := make(map[uint64]int64)
	for _, tid := range g.sortedTIDs() {
		pages := g.accesses[tid]
		var total int64
		for page, count := range pages {
			total += count
			pageTotals[page] += count
		}
		g.Nodes = append(g.Nodes, &Node{ID: threadID(tid), Kind: "thread", Weight: total})

		sorted := make([]uint64, 0, len(pages))
		for page := range pages {
			sorted = append(sorted, page)
		}
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		for _, page := range sorted {
			g.Edges = append(g.Edges, &Edge{
				From:   threadID(tid),
				To:     pageID(page),
				Weight: pages[page],
			})
		}
	}

	pages := make([]uint64, 0, len(pageTotals))
	for page := range pageTotals {
		pages = append(pages, page)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i] < pages[j] })
	for _, page := range pages {
		g.Nodes = append(g.Nodes, &Node{ID: pageID(page), Kind: "page", Weight: pageTotals[page]})
	}
}

// buildInterference weights each thread pair by the overlap of their
// page access counts: for every page both touched, the smaller of the
// two counts bounds how much they can interfere on it.
func (g *Graph) buildInterference() {
	g.Nodes = g.Nodes[:0]
	g.Edges = g.Edges[:0]

	tids := g.sortedTIDs()
	for _, tid := range tids {
		var total int64
		for _, count := range g.accesses[tid] {
			total += count
		}
		g.Nodes = append(g.Nodes, &Node{ID: threadID(tid), Kind: "thread", Weight: total})
	}

	for i := 0; i < len(tids); i++ {
		for j := i + 1; j < len(tids); j++ {
			var weight int64
			for page, countA := range g.accesses[tids[i]] {
				if countB, ok := g.accesses[tids[j]][page]; ok {
					if countA < countB {
						weight += countA
					} else {
						weight += countB
					}
				}
			}
			if weight > 0 {
				g.Edges = append(g.Edges, &Edge{
					From:   threadID(tids[i]),
					To:     threadID(tids[j]),
					Weight: weight,
				})
			}
		}
	}
}
