package analysis

import (
	"context"
	"io"

	"github.com/pat-analysis/internal/symbols"
	"github.com/pat-analysis/internal/trace"
	"github.com/pat-analysis/pkg/model"
)

// SymbolRanker ranks program symbols by the fault traffic they cause.
// Faults whose address does not resolve through the symbol table are
// attributed to the stack/mmap or heap bucket by address heuristic.
type SymbolRanker struct {
	Classifier symbols.AddressClassifier
}

// Run scans the trace and returns symbols sorted descending by total
// fault volume. The synthetic buckets are always present, even when
// empty.
func (r *SymbolRanker) Run(ctx context.Context, reader io.Reader, cfg *trace.Config) (*model.SymbolRankData, error) {
	accessed := newTally(symbols.BucketStack, symbols.BucketHeap)

	sc := trace.NewScanner(ctx, reader, cfg)
	for sc.Scan() {
		e := sc.Entry()
		name := ""
		if e.Symbol != nil {
			name = e.Symbol.Name()
		} else {
			name = r.Classifier.Classify(e.Addr)
		}
		if err := accessed.bucket(name).add(e); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return &model.SymbolRankData{Rows: accessed.rows()}, nil
}
