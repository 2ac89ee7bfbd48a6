package analysis

import (
	"context"
	"io"

	"github.com/pat-analysis/internal/accessgraph"
	"github.com/pat-analysis/internal/trace"
	"github.com/pat-analysis/pkg/model"
)

// GraphBuilder builds one access graph per region of the trace.
type GraphBuilder struct {
	// Variant selects plain or interference graphs.
	Variant accessgraph.Variant
	// Source labels the graphs, usually the trace file name.
	Source string
}

// Run scans the trace and returns a finalized graph per region seen.
func (b *GraphBuilder) Run(ctx context.Context, r io.Reader, cfg *trace.Config) (*model.GraphsData, error) {
	variant := b.Variant
	if variant == "" {
		variant = accessgraph.VariantPlain
	}

	graphs := make(map[int]*accessgraph.Graph)
	sc := trace.NewScanner(ctx, r, cfg)
	for sc.Scan() {
		e := sc.Entry()
		region, err := e.RegionID()
		if err != nil {
			return nil, err
		}
		g, ok := graphs[region]
		if !ok {
			g = accessgraph.NewVariant(variant, b.Source, true)
			graphs[region] = g
		}
		g.AddMapping(e.TID, e.Page())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	for _, g := range graphs {
		g.PostProcess()
	}

	return &model.GraphsData{
		Variant: model.GraphVariant(variant),
		Regions: graphs,
	}, nil
}
