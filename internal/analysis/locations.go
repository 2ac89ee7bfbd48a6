package analysis

import (
	"context"
	"io"
	"strconv"

	"github.com/pat-analysis/internal/symbols"
	"github.com/pat-analysis/internal/trace"
	"github.com/pat-analysis/pkg/errors"
	"github.com/pat-analysis/pkg/model"
)

// LocationRanker ranks source locations by the fault traffic their
// instructions cause. Requires line number information in the config.
type LocationRanker struct{}

// Run scans the trace and returns "file:line" rows sorted descending
// by total fault volume. Instruction pointers without line information
// fall into the synthetic unknown bucket.
func (r *LocationRanker) Run(ctx context.Context, reader io.Reader, cfg *trace.Config) (*model.LocationRankData, error) {
	if cfg == nil || cfg.Lines == nil {
		return nil, errors.New(errors.CodeConfigError, "no line number information for binary")
	}

	locs := newTally(symbols.BucketUnknown)

	sc := trace.NewScanner(ctx, reader, cfg)
	for sc.Scan() {
		e := sc.Entry()
		name := symbols.BucketUnknown
		if file, line, ok := cfg.Lines.FileLine(e.IP); ok {
			name = file + ":" + strconv.Itoa(line)
		}
		if err := locs.bucket(name).add(e); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return &model.LocationRankData{Rows: locs.rows()}, nil
}
