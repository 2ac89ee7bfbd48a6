package trace

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pat-analysis/pkg/errors"
)

func TestTimeSpan(t *testing.T) {
	rs := strings.NewReader(sampleTrace)
	start, end, err := TimeSpan(rs)
	require.NoError(t, err)
	assert.Equal(t, 0.1, start)
	assert.Equal(t, 0.5, end)
}

func TestTimeSpanNoTrailingNewline(t *testing.T) {
	rs := strings.NewReader(strings.TrimSuffix(sampleTrace, "\n"))
	start, end, err := TimeSpan(rs)
	require.NoError(t, err)
	assert.Equal(t, 0.1, start)
	assert.Equal(t, 0.5, end)
}

func TestTimeSpanSingleLine(t *testing.T) {
	rs := strings.NewReader("1.5 0 100 R 0x10 0x2000 0\n")
	start, end, err := TimeSpan(rs)
	require.NoError(t, err)
	assert.Equal(t, 1.5, start)
	assert.Equal(t, 1.5, end)
}

func TestTimeSpanEmpty(t *testing.T) {
	_, _, err := TimeSpan(strings.NewReader(""))
	require.Error(t, err)
	assert.True(t, errors.IsEmptyTraceError(err))
}
