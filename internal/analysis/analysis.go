// Package analysis implements the trace analyses: access graph
// construction, fault trendlines, symbol and source location rankings,
// false sharing detection and per-location fault lookup. Each analysis
// performs one filtered pass over the trace.
package analysis

import (
	"sort"

	"github.com/pat-analysis/internal/trace"
	"github.com/pat-analysis/pkg/model"
)

// faultCounts breaks fault volume down by access type.
type faultCounts struct {
	reads         int64
	writes        int64
	invalidations int64
}

// add books one entry. R and W each count one fault; an I entry counts
// one invalidation message per set bit of its node bitmask.
func (c *faultCounts) add(e *trace.Entry) error {
	switch e.Perm {
	case trace.PermRead:
		c.reads++
	case trace.PermWrite:
		c.writes++
	default:
		n, err := e.Invalidations()
		if err != nil {
			return err
		}
		c.invalidations += n
	}
	return nil
}

func (c *faultCounts) total() int64 {
	return c.reads + c.writes + c.invalidations
}

func (c *faultCounts) row(name string) model.RankRow {
	return model.RankRow{
		Name:          name,
		Reads:         c.reads,
		Writes:        c.writes,
		Invalidations: c.invalidations,
		Total:         c.total(),
	}
}

// tally accumulates fault counts per named bucket, remembering
// encounter order so ranking ties resolve deterministically.
type tally struct {
	counts map[string]*faultCounts
	order  []string
}

func newTally(seed ...string) *tally {
	t := &tally{counts: make(map[string]*faultCounts)}
	for _, name := range seed {
		t.bucket(name)
	}
	return t
}

func (t *tally) bucket(name string) *faultCounts {
	if c, ok := t.counts[name]; ok {
		return c
	}
	c := &faultCounts{}
	t.counts[name] = c
	t.order = append(t.order, name)
	return c
}

// rows returns one RankRow per bucket, sorted descending by total.
// Equal totals keep encounter order.
func (t *tally) rows() []model.RankRow {
	rows := make([]model.RankRow, 0, len(t.order))
	for _, name := range t.order {
		rows = append(rows, t.counts[name].row(name))
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Total > rows[j].Total
	})
	return rows
}
