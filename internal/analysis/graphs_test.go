package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pat-analysis/internal/accessgraph"
	"github.com/pat-analysis/internal/trace"
	"github.com/pat-analysis/pkg/model"
)

func TestGraphBuilderPerRegion(t *testing.T) {
	input := buildTrace(
		traceLine(0.1, "0", 100, "R", 0x10, 0x2000, "0"),
		traceLine(0.2, "0", 100, "W", 0x10, 0x2008, "0"),
		traceLine(0.3, "1", 101, "R", 0x10, 0x3000, "1"),
		traceLine(0.4, "1", 101, "R", 0x10, 0x2000, "0"),
	)

	b := &GraphBuilder{Source: "trace.pat"}
	data, err := b.Run(context.Background(), input, nil)
	require.NoError(t, err)

	assert.Equal(t, model.GraphVariant("plain"), data.Variant)
	require.Len(t, data.Regions, 2)

	g0 := data.Regions[0]
	require.NotNil(t, g0)
	assert.Equal(t, "trace.pat", g0.Source)
	assert.Equal(t, int64(3), g0.NumMappings())
	// Both threads plus one shared page
	require.Len(t, g0.Nodes, 3)
	assert.Equal(t, "thread-100", g0.Nodes[0].ID)
	assert.Equal(t, "thread-101", g0.Nodes[1].ID)
	assert.Equal(t, "page-0x2000", g0.Nodes[2].ID)

	g1 := data.Regions[1]
	require.NotNil(t, g1)
	assert.Equal(t, int64(1), g1.NumMappings())
}

func TestGraphBuilderInterference(t *testing.T) {
	input := buildTrace(
		traceLine(0.1, "0", 100, "R", 0x10, 0x2000, "0"),
		traceLine(0.2, "1", 101, "W", 0x10, 0x2008, "0"),
	)

	b := &GraphBuilder{Variant: accessgraph.VariantInterference, Source: "trace.pat"}
	data, err := b.Run(context.Background(), input, nil)
	require.NoError(t, err)

	assert.Equal(t, model.GraphVariant("interference"), data.Variant)
	g := data.Regions[0]
	require.NotNil(t, g)
	// Both faults hit the same page, so the threads interfere
	require.Len(t, g.Edges, 1)
	assert.Equal(t, "thread-100", g.Edges[0].From)
	assert.Equal(t, "thread-101", g.Edges[0].To)
	assert.Equal(t, int64(1), g.Edges[0].Weight)
}

func TestGraphBuilderFiltered(t *testing.T) {
	input := buildTrace(
		traceLine(0.1, "0", 100, "R", 0x10, 0x2000, "0"),
		traceLine(0.2, "1", 101, "W", 0x10, 0x3000, "1"),
	)

	cfg := trace.NewConfig()
	cfg.SetRegions("1")
	b := &GraphBuilder{}
	data, err := b.Run(context.Background(), input, cfg)
	require.NoError(t, err)

	require.Len(t, data.Regions, 1)
	assert.Contains(t, data.Regions, 1)
}

func TestGraphBuilderBadRegion(t *testing.T) {
	input := buildTrace(
		traceLine(0.1, "0", 100, "R", 0x10, 0x2000, "zz"),
	)

	b := &GraphBuilder{}
	_, err := b.Run(context.Background(), input, nil)
	assert.Error(t, err)
}
