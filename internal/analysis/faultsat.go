package analysis

import (
	"context"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pat-analysis/internal/trace"
	"github.com/pat-analysis/pkg/errors"
	"github.com/pat-analysis/pkg/model"
)

// FaultLocator collects the data addresses faulted on by a single
// source location. Requires line number information in the config.
type FaultLocator struct {
	// Location is the target in "file:line" form.
	Location string
}

// parseLocation splits a "file:line" string.
func parseLocation(loc string) (string, int, error) {
	parts := strings.Split(strings.TrimSpace(loc), ":")
	if len(parts) != 2 {
		return "", 0, errors.Newf(errors.CodeConfigError,
			"invalid location %q, must be 'file:line'", loc)
	}
	line, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, errors.Wrap(errors.CodeConfigError,
			"invalid line number in location "+loc, err)
	}
	return parts[0], line, nil
}

// Run scans the trace and returns per-address fault counts for entries
// whose instruction pointer resolves to the target location, sorted
// descending by count.
func (l *FaultLocator) Run(ctx context.Context, r io.Reader, cfg *trace.Config) (*model.FaultsAtData, error) {
	if cfg == nil || cfg.Lines == nil {
		return nil, errors.New(errors.CodeConfigError, "no line number information for binary")
	}
	file, line, err := parseLocation(l.Location)
	if err != nil {
		return nil, err
	}

	counts := make(map[uint64]int64)
	var total int64

	sc := trace.NewScanner(ctx, r, cfg)
	for sc.Scan() {
		e := sc.Entry()
		f, n, ok := cfg.Lines.FileLine(e.IP)
		if !ok || f != file || n != line {
			continue
		}
		counts[e.Addr]++
		total++
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	addrs := make([]model.AddrCount, 0, len(counts))
	for addr, count := range counts {
		addrs = append(addrs, model.AddrCount{Addr: addr, Count: count})
	}
	sort.Slice(addrs, func(i, j int) bool {
		if addrs[i].Count != addrs[j].Count {
			return addrs[i].Count > addrs[j].Count
		}
		return addrs[i].Addr < addrs[j].Addr
	})

	return &model.FaultsAtData{
		Location:  file + ":" + strconv.Itoa(line),
		Total:     total,
		Addresses: addrs,
	}, nil
}
