package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pat-analysis/internal/symbols"
	"github.com/pat-analysis/internal/trace"
)

func TestSymbolRankerHeapOnly(t *testing.T) {
	// Unresolved addresses below the stack threshold, reads only
	input := buildTrace(
		traceLine(0.1, "0", 100, "R", 0x10, 0x2000, "0"),
		traceLine(0.2, "0", 100, "R", 0x10, 0x3000, "0"),
		traceLine(0.3, "1", 101, "R", 0x10, 0x4000, "0"),
	)

	r := &SymbolRanker{}
	data, err := r.Run(context.Background(), input, nil)
	require.NoError(t, err)

	heap, ok := rowByName(data.Rows, symbols.BucketHeap)
	require.True(t, ok)
	assert.Equal(t, int64(3), heap.Reads)
	assert.Equal(t, int64(0), heap.Writes)
	assert.Equal(t, int64(0), heap.Invalidations)
	assert.Equal(t, int64(3), heap.Total)

	stack, ok := rowByName(data.Rows, symbols.BucketStack)
	require.True(t, ok)
	assert.Equal(t, int64(0), stack.Total)
}

func TestSymbolRankerAttribution(t *testing.T) {
	table := testTable{
		0x2000: {name: "counter"},
		0x2008: {name: "counter"},
	}
	input := buildTrace(
		traceLine(0.1, "0", 100, "R", 0x10, 0x2000, "0"),
		traceLine(0.2, "1", 101, "W", 0x10, 0x2008, "0"),
		// Invalidation with bitmask 11 = 0b1011, three messages
		traceLine(0.3, "0", 100, "I", 0x10, 0x2000, "11"),
		// Unresolved stack address
		traceLine(0.4, "0", 100, "W", 0x10, 0x7fffa0001000, "0"),
	)

	cfg := trace.NewConfig()
	cfg.Symbols = table
	r := &SymbolRanker{}
	data, err := r.Run(context.Background(), input, cfg)
	require.NoError(t, err)

	counter, ok := rowByName(data.Rows, "counter")
	require.True(t, ok)
	assert.Equal(t, int64(1), counter.Reads)
	assert.Equal(t, int64(1), counter.Writes)
	assert.Equal(t, int64(3), counter.Invalidations)
	assert.Equal(t, int64(5), counter.Total)

	stack, ok := rowByName(data.Rows, symbols.BucketStack)
	require.True(t, ok)
	assert.Equal(t, int64(1), stack.Writes)

	// Breakdown sums to the row total for every row
	for _, row := range data.Rows {
		assert.Equal(t, row.Total, row.Reads+row.Writes+row.Invalidations)
	}
}

func TestSymbolRankerSortedDescending(t *testing.T) {
	table := testTable{
		0x2000: {name: "hot"},
		0x3000: {name: "cold"},
	}
	input := buildTrace(
		traceLine(0.1, "0", 100, "R", 0x10, 0x3000, "0"),
		traceLine(0.2, "0", 100, "R", 0x10, 0x2000, "0"),
		traceLine(0.3, "0", 100, "W", 0x10, 0x2000, "0"),
		traceLine(0.4, "0", 100, "R", 0x10, 0x2000, "0"),
	)

	cfg := trace.NewConfig()
	cfg.Symbols = table
	r := &SymbolRanker{}
	data, err := r.Run(context.Background(), input, cfg)
	require.NoError(t, err)

	require.NotEmpty(t, data.Rows)
	assert.Equal(t, "hot", data.Rows[0].Name)
	for i := 1; i < len(data.Rows); i++ {
		assert.GreaterOrEqual(t, data.Rows[i-1].Total, data.Rows[i].Total)
	}
}

func TestSymbolRankerSyntheticBucketsAlwaysPresent(t *testing.T) {
	r := &SymbolRanker{}
	data, err := r.Run(context.Background(), buildTrace(), nil)
	require.NoError(t, err)
	require.Len(t, data.Rows, 2)

	_, ok := rowByName(data.Rows, symbols.BucketStack)
	assert.True(t, ok)
	_, ok = rowByName(data.Rows, symbols.BucketHeap)
	assert.True(t, ok)
}
