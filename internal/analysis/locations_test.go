package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pat-analysis/internal/symbols"
	"github.com/pat-analysis/internal/trace"
	"github.com/pat-analysis/pkg/errors"
)

var testLines = testLineTable{
	0x400100: {file: "main.c", line: 42},
	0x400104: {file: "main.c", line: 42},
	0x400200: {file: "util.c", line: 7},
}

func TestLocationRanker(t *testing.T) {
	input := buildTrace(
		traceLine(0.1, "0", 100, "R", 0x400100, 0x2000, "0"),
		traceLine(0.2, "0", 100, "W", 0x400104, 0x2008, "0"),
		traceLine(0.3, "1", 101, "R", 0x400200, 0x3000, "0"),
		// Unresolvable instruction pointer
		traceLine(0.4, "1", 101, "W", 0x999999, 0x3000, "0"),
	)

	cfg := trace.NewConfig()
	cfg.Lines = testLines
	r := &LocationRanker{}
	data, err := r.Run(context.Background(), input, cfg)
	require.NoError(t, err)

	main42, ok := rowByName(data.Rows, "main.c:42")
	require.True(t, ok)
	assert.Equal(t, int64(1), main42.Reads)
	assert.Equal(t, int64(1), main42.Writes)
	assert.Equal(t, int64(2), main42.Total)

	unknown, ok := rowByName(data.Rows, symbols.BucketUnknown)
	require.True(t, ok)
	assert.Equal(t, int64(1), unknown.Writes)

	assert.Equal(t, "main.c:42", data.Rows[0].Name)
	for i := 1; i < len(data.Rows); i++ {
		assert.GreaterOrEqual(t, data.Rows[i-1].Total, data.Rows[i].Total)
	}
}

func TestLocationRankerRequiresLineInfo(t *testing.T) {
	r := &LocationRanker{}
	_, err := r.Run(context.Background(), buildTrace(), trace.NewConfig())
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))

	_, err = r.Run(context.Background(), buildTrace(), nil)
	assert.Error(t, err)
}

func TestFaultLocator(t *testing.T) {
	input := buildTrace(
		traceLine(0.1, "0", 100, "R", 0x400100, 0x2000, "0"),
		traceLine(0.2, "0", 100, "W", 0x400104, 0x2000, "0"),
		traceLine(0.3, "0", 100, "R", 0x400100, 0x2008, "0"),
		traceLine(0.4, "1", 101, "R", 0x400200, 0x2000, "0"),
	)

	cfg := trace.NewConfig()
	cfg.Lines = testLines
	l := &FaultLocator{Location: "main.c:42"}
	data, err := l.Run(context.Background(), input, cfg)
	require.NoError(t, err)

	assert.Equal(t, "main.c:42", data.Location)
	assert.Equal(t, int64(3), data.Total)
	require.Len(t, data.Addresses, 2)
	assert.Equal(t, uint64(0x2000), data.Addresses[0].Addr)
	assert.Equal(t, int64(2), data.Addresses[0].Count)
	assert.Equal(t, uint64(0x2008), data.Addresses[1].Addr)
	assert.Equal(t, int64(1), data.Addresses[1].Count)
}

func TestFaultLocatorBadLocation(t *testing.T) {
	cfg := trace.NewConfig()
	cfg.Lines = testLines

	for _, loc := range []string{"main.c", "main.c:12:34", "main.c:xx", ""} {
		l := &FaultLocator{Location: loc}
		_, err := l.Run(context.Background(), buildTrace(), cfg)
		require.Error(t, err, "location %q", loc)
		assert.True(t, errors.IsConfigError(err))
	}
}

func TestFaultLocatorRequiresLineInfo(t *testing.T) {
	l := &FaultLocator{Location: "main.c:42"}
	_, err := l.Run(context.Background(), buildTrace(), trace.NewConfig())
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
}
