package analysis

import (
	"fmt"
	"strings"

	"github.com/pat-analysis/internal/symbols"
	"github.com/pat-analysis/pkg/model"
)

// testSymbol and testTable implement the symbols interfaces for tests.
type testSymbol struct {
	name string
	code bool
}

func (s testSymbol) Name() string { return s.name }
func (s testSymbol) IsCode() bool { return s.code }
func (s testSymbol) IsData() bool { return !s.code }

type testTable map[uint64]testSymbol

func (t testTable) Lookup(addr uint64) symbols.Symbol {
	if s, ok := t[addr]; ok {
		return s
	}
	return nil
}

type testLineTable map[uint64]struct {
	file string
	line int
}

func (t testLineTable) FileLine(ip uint64) (string, int, bool) {
	fl, ok := t[ip]
	return fl.file, fl.line, ok
}

// traceLine formats one PAT line.
func traceLine(ts float64, node string, tid int, perm string, ip, addr uint64, region string) string {
	return fmt.Sprintf("%f %s %d %s 0x%x 0x%x %s\n", ts, node, tid, perm, ip, addr, region)
}

func buildTrace(lines ...string) *strings.Reader {
	return strings.NewReader(strings.Join(lines, ""))
}

func rowByName(rows []model.RankRow, name string) (model.RankRow, bool) {
	for _, r := range rows {
		if r.Name == name {
			return r, true
		}
	}
	return model.RankRow{}, false
}
