package accessgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainGraph(t *testing.T) {
	g := New("trace.pat", true)
	g.AddMapping(1, 0x1000)
	g.AddMapping(1, 0x1000)
	g.AddMapping(1, 0x2000)
	g.AddMapping(2, 0x2000)

	assert.Equal(t, int64(4), g.NumMappings())

	g.PostProcess()

	// Two thread nodes, two page nodes, threads first
	require.Len(t, g.Nodes, 4)
	assert.Equal(t, "thread-1", g.Nodes[0].ID)
	assert.Equal(t, int64(3), g.Nodes[0].Weight)
	assert.Equal(t, "thread-2", g.Nodes[1].ID)
	assert.Equal(t, "page-0x1000", g.Nodes[2].ID)
	assert.Equal(t, int64(2), g.Nodes[2].Weight)
	assert.Equal(t, "page-0x2000", g.Nodes[3].ID)
	assert.Equal(t, int64(2), g.Nodes[3].Weight)

	require.Len(t, g.Edges, 3)
	assert.Equal(t, &Edge{From: "thread-1", To: "page-0x1000", Weight: 2}, g.Edges[0])
	assert.Equal(t, &Edge{From: "thread-1", To: "page-0x2000", Weight: 1}, g.Edges[1])
	assert.Equal(t, &Edge{From: "thread-2", To: "page-0x2000", Weight: 1}, g.Edges[2])
}

func TestInterferenceGraph(t *testing.T) {
	g := NewInterference("trace.pat", true)
	// Threads 1 and 2 share page 0x1000; thread 3 is disjoint
	g.AddMapping(1, 0x1000)
	g.AddMapping(1, 0x1000)
	g.AddMapping(1, 0x1000)
	g.AddMapping(2, 0x1000)
	g.AddMapping(2, 0x2000)
	g.AddMapping(3, 0x3000)

	g.PostProcess()

	require.Len(t, g.Nodes, 3)
	assert.Equal(t, "thread-1", g.Nodes[0].ID)
	assert.Equal(t, int64(3), g.Nodes[0].Weight)

	// Only the overlapping pair gets an edge, weighted min(3, 1)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, &Edge{From: "thread-1", To: "thread-2", Weight: 1}, g.Edges[0])
}

func TestPostProcessIdempotent(t *testing.T) {
	g := New("trace.pat", true)
	g.AddMapping(1, 0x1000)
	g.PostProcess()
	first := len(g.Nodes)
	g.PostProcess()
	assert.Equal(t, first, len(g.Nodes))
	assert.Len(t, g.Edges, 1)
}

func TestEmptyGraph(t *testing.T) {
	g := New("trace.pat", false)
	g.PostProcess()
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Edges)
	assert.Equal(t, int64(0), g.NumMappings())
}
