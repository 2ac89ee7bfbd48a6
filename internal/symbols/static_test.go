package symbols

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTable = `
0x1000 0x100 T main
0x1100 0x80  t helper
0x4000 0x20  D counter
0x4020 0x40  B buffer
`

func TestLoadTableLookup(t *testing.T) {
	tbl, err := LoadTable(strings.NewReader(testTable))
	require.NoError(t, err)

	sym := tbl.Lookup(0x1000)
	require.NotNil(t, sym)
	assert.Equal(t, "main", sym.Name())
	assert.True(t, sym.IsCode())
	assert.False(t, sym.IsData())

	// Interior address
	sym = tbl.Lookup(0x10ff)
	require.NotNil(t, sym)
	assert.Equal(t, "main", sym.Name())

	// One past the end falls into the next symbol
	sym = tbl.Lookup(0x1100)
	require.NotNil(t, sym)
	assert.Equal(t, "helper", sym.Name())

	sym = tbl.Lookup(0x4030)
	require.NotNil(t, sym)
	assert.Equal(t, "buffer", sym.Name())
	assert.True(t, sym.IsData())
	assert.False(t, sym.IsCode())
}

func TestLoadTableLookupMisses(t *testing.T) {
	tbl, err := LoadTable(strings.NewReader(testTable))
	require.NoError(t, err)

	assert.Nil(t, tbl.Lookup(0x0))
	assert.Nil(t, tbl.Lookup(0xfff))
	// Gap between helper and counter
	assert.Nil(t, tbl.Lookup(0x2000))
	// Past the last symbol
	assert.Nil(t, tbl.Lookup(0x5000))
}

func TestLoadTableMalformed(t *testing.T) {
	_, err := LoadTable(strings.NewReader("0x1000 0x10 T\n"))
	assert.Error(t, err)

	_, err = LoadTable(strings.NewReader("zzzz 0x10 T main\n"))
	assert.Error(t, err)
}

func TestLoadLineTable(t *testing.T) {
	lines := `
0x1000 main.c 42
0x1004 main.c 43
0x2000 util.c 7
`
	tbl, err := LoadLineTable(strings.NewReader(lines))
	require.NoError(t, err)

	file, line, ok := tbl.FileLine(0x1004)
	require.True(t, ok)
	assert.Equal(t, "main.c", file)
	assert.Equal(t, 43, line)

	_, _, ok = tbl.FileLine(0x9999)
	assert.False(t, ok)
}

func TestLoadLineTableMalformed(t *testing.T) {
	_, err := LoadLineTable(strings.NewReader("0x1000 main.c notanumber\n"))
	assert.Error(t, err)
}

func TestAddressClassifier(t *testing.T) {
	c := NewAddressClassifier()

	assert.Equal(t, BucketHeap, c.Classify(0x1000))
	assert.Equal(t, BucketHeap, c.Classify(DefaultStackThreshold))
	assert.Equal(t, BucketStack, c.Classify(DefaultStackThreshold+1))
	assert.Equal(t, BucketStack, c.Classify(0x7ffffffff000))

	// Zero-value classifier falls back to the default threshold
	var zero AddressClassifier
	assert.Equal(t, BucketStack, zero.Classify(DefaultStackThreshold+1))
	assert.Equal(t, BucketHeap, zero.Classify(0x2000))
}
