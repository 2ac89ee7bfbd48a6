package analysis

import (
	"context"
	"io"

	"github.com/pat-analysis/internal/trace"
	"github.com/pat-analysis/pkg/errors"
	"github.com/pat-analysis/pkg/model"
)

// DefaultNumChunks is the default number of time chunks for trendlines.
const DefaultNumChunks = 100

// lastBoundEpsilon inflates the final chunk bound so the last entry is
// not pushed out by floating point rounding.
const lastBoundEpsilon = 1.0001

// TrendlineComputer bins faults into fixed-width time chunks over the
// whole trace span, optionally per thread.
type TrendlineComputer struct {
	NumChunks int
	PerThread bool
}

// Run computes the trendline. The span is taken from the first and
// last lines of the raw file, independent of the configured window;
// chunks outside the window are pruned from the result afterwards.
func (t *TrendlineComputer) Run(ctx context.Context, rs io.ReadSeeker, cfg *trace.Config) (*model.TrendlineData, error) {
	if cfg == nil {
		cfg = trace.NewConfig()
	}
	numChunks := t.NumChunks
	if numChunks <= 0 {
		numChunks = DefaultNumChunks
	}

	start, end, err := trace.TimeSpan(rs)
	if err != nil {
		return nil, err
	}
	chunkSize := (end - start) / float64(numChunks)
	if chunkSize <= 0 {
		return nil, errors.Newf(errors.CodeConfigError,
			"chunk size is too small, use fewer than %d chunks", numChunks)
	}

	bounds := make([]float64, numChunks)
	for i := range bounds {
		bounds[i] = float64(i+1)*chunkSize + start
	}
	bounds[numChunks-1] *= lastBoundEpsilon

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(errors.CodeParseError, "failed to rewind trace", err)
	}

	chunks := make([]int64, numChunks)
	var perThread map[int][]int64
	if t.PerThread {
		perThread = make(map[int][]int64)
	}

	// cur only moves forward; entries are sorted by timestamp.
	cur := 0
	sc := trace.NewScanner(ctx, rs, cfg)
	for sc.Scan() {
		e := sc.Entry()
		for e.Timestamp > bounds[cur] {
			cur++
			if cur >= numChunks {
				return nil, errors.Newf(errors.CodeAnalysisError,
					"entry at line %d is past the last chunk bound, trace may not be time-sorted", sc.Line())
			}
		}
		if t.PerThread {
			row, ok := perThread[e.TID]
			if !ok {
				row = make([]int64, numChunks)
				perThread[e.TID] = row
			}
			row[cur]++
		} else {
			chunks[cur]++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	// Prune chunks fully outside the window; a chunk stays if any part
	// of it overlaps the window.
	startChunk := 0
	endChunk := numChunks - 1
	for i := numChunks - 1; i >= 0; i-- {
		if bounds[i] >= cfg.Start {
			startChunk = i
		} else {
			break
		}
	}
	for i := 0; i < numChunks; i++ {
		if bounds[i] <= cfg.End {
			endChunk = i
		} else {
			break
		}
	}
	endChunk++

	data := &model.TrendlineData{
		ChunkSize: chunkSize,
		Bounds:    bounds[startChunk:endChunk],
	}
	if t.PerThread {
		data.PerThread = make(map[int][]int64, len(perThread))
		for tid, row := range perThread {
			data.PerThread[tid] = row[startChunk:endChunk]
		}
	} else {
		data.Chunks = chunks[startChunk:endChunk]
	}
	return data, nil
}
