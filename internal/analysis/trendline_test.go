package analysis

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pat-analysis/internal/trace"
	"github.com/pat-analysis/pkg/errors"
)

func TestTrendlineTwoChunks(t *testing.T) {
	input := buildTrace(
		traceLine(1.0, "0", 100, "R", 0x10, 0x2000, "0"),
		traceLine(9.0, "1", 101, "W", 0x20, 0x3000, "0"),
	)

	tc := &TrendlineComputer{NumChunks: 2}
	data, err := tc.Run(context.Background(), input, nil)
	require.NoError(t, err)

	assert.Equal(t, 4.0, data.ChunkSize)
	assert.Equal(t, []int64{1, 1}, data.Chunks)
	require.Len(t, data.Bounds, 2)
	assert.Equal(t, 5.0, data.Bounds[0])
	// Last bound is inflated past the trace end
	assert.InDelta(t, 9.0*1.0001, data.Bounds[1], 1e-9)
}

func TestTrendlineChunkSumEqualsAcceptedEntries(t *testing.T) {
	input := buildTrace(
		traceLine(0.0, "0", 100, "R", 0x10, 0x2000, "0"),
		traceLine(1.0, "0", 100, "W", 0x10, 0x2000, "0"),
		traceLine(2.5, "1", 101, "R", 0x10, 0x3000, "0"),
		traceLine(7.0, "1", 101, "R", 0x10, 0x3000, "0"),
		traceLine(10.0, "0", 100, "W", 0x10, 0x2000, "0"),
	)

	tc := &TrendlineComputer{NumChunks: 4}
	data, err := tc.Run(context.Background(), input, nil)
	require.NoError(t, err)

	var sum int64
	for _, c := range data.Chunks {
		sum += c
	}
	assert.Equal(t, int64(5), sum)
}

func TestTrendlinePerThread(t *testing.T) {
	input := buildTrace(
		traceLine(0.0, "0", 100, "R", 0x10, 0x2000, "0"),
		traceLine(4.0, "0", 100, "W", 0x10, 0x2000, "0"),
		traceLine(9.0, "1", 101, "R", 0x10, 0x3000, "0"),
		traceLine(10.0, "1", 101, "R", 0x10, 0x3000, "0"),
	)

	tc := &TrendlineComputer{NumChunks: 2, PerThread: true}
	data, err := tc.Run(context.Background(), input, nil)
	require.NoError(t, err)

	assert.Nil(t, data.Chunks)
	require.Len(t, data.PerThread, 2)
	assert.Equal(t, []int64{2, 0}, data.PerThread[100])
	assert.Equal(t, []int64{0, 2}, data.PerThread[101])
}

func TestTrendlineWindowPruning(t *testing.T) {
	// Span 0-10, 5 chunks with bounds 2,4,6,8,10.001
	input := buildTrace(
		traceLine(0.0, "0", 100, "R", 0x10, 0x2000, "0"),
		traceLine(3.0, "0", 100, "R", 0x10, 0x2000, "0"),
		traceLine(5.0, "0", 100, "R", 0x10, 0x2000, "0"),
		traceLine(7.0, "0", 100, "R", 0x10, 0x2000, "0"),
		traceLine(10.0, "0", 100, "R", 0x10, 0x2000, "0"),
	)

	cfg := trace.NewConfig()
	cfg.Start = 3.0
	cfg.End = 7.5
	tc := &TrendlineComputer{NumChunks: 5}
	data, err := tc.Run(context.Background(), input, cfg)
	require.NoError(t, err)

	// Chunks whose upper bound lies inside the window survive pruning
	assert.Equal(t, []float64{4, 6}, data.Bounds)
	assert.Equal(t, []int64{1, 1}, data.Chunks)
}

func TestTrendlineZeroSpan(t *testing.T) {
	input := buildTrace(
		traceLine(1.0, "0", 100, "R", 0x10, 0x2000, "0"),
		traceLine(1.0, "0", 101, "W", 0x10, 0x2000, "0"),
	)

	tc := &TrendlineComputer{NumChunks: 10}
	_, err := tc.Run(context.Background(), input, nil)
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
}

func TestTrendlineEmptyTrace(t *testing.T) {
	tc := &TrendlineComputer{NumChunks: 2}
	_, err := tc.Run(context.Background(), strings.NewReader(""), nil)
	require.Error(t, err)
	assert.True(t, errors.IsEmptyTraceError(err))
}

func TestTrendlineUnsortedTrace(t *testing.T) {
	// Last line's timestamp is before the first line's, so the span is
	// inverted and the cursor runs past the final bound.
	input := buildTrace(
		traceLine(5.0, "0", 100, "R", 0x10, 0x2000, "0"),
		traceLine(9.0, "0", 100, "R", 0x10, 0x2000, "0"),
		traceLine(6.0, "0", 100, "R", 0x10, 0x2000, "0"),
	)

	tc := &TrendlineComputer{NumChunks: 2}
	_, err := tc.Run(context.Background(), input, nil)
	require.Error(t, err)
	assert.Equal(t, errors.CodeAnalysisError, errors.GetErrorCode(err))
}
