package symbols

import (
	"bufio"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pat-analysis/pkg/errors"
)

// staticSymbol is one entry of a StaticTable.
type staticSymbol struct {
	addr uint64
	size uint64
	kind byte
	name string
}

func (s *staticSymbol) Name() string { return s.name }

// IsCode reports whether the symbol lives in a text section.
func (s *staticSymbol) IsCode() bool {
	switch s.kind {
	case 'T', 't':
		return true
	}
	return false
}

// IsData reports whether the symbol lives in a data, bss or rodata section.
func (s *staticSymbol) IsData() bool {
	switch s.kind {
	case 'D', 'd', 'B', 'b', 'R', 'r':
		return true
	}
	return false
}

// StaticTable is a Table backed by an nm-style symbol listing.
type StaticTable struct {
	syms []*staticSymbol
}

// LoadTable reads a symbol table in `nm -S` format: one symbol per
// line with four whitespace-separated fields `address size kind name`,
// address and size in hex. Blank lines are skipped.
func LoadTable(r io.Reader) (*StaticTable, error) {
	t := &StaticTable{}
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 4 {
			return nil, errors.Newf(errors.CodeSymbolError,
				"malformed symbol at line %d: expected 4 fields, got %d", lineNum, len(fields))
		}

		addr, err := strconv.ParseUint(strings.TrimPrefix(fields[0], "0x"), 16, 64)
		if err != nil {
			return nil, errors.Wrap(errors.CodeSymbolError, "malformed symbol address at line "+strconv.Itoa(lineNum), err)
		}
		size, err := strconv.ParseUint(strings.TrimPrefix(fields[1], "0x"), 16, 64)
		if err != nil {
			return nil, errors.Wrap(errors.CodeSymbolError, "malformed symbol size at line "+strconv.Itoa(lineNum), err)
		}
		if len(fields[2]) != 1 {
			return nil, errors.Newf(errors.CodeSymbolError,
				"malformed symbol kind %q at line %d", fields[2], lineNum)
		}

		t.syms = append(t.syms, &staticSymbol{
			addr: addr,
			size: size,
			kind: fields[2][0],
			name: fields[3],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.CodeSymbolError, "failed to read symbol table", err)
	}

	sort.Slice(t.syms, func(i, j int) bool {
		return t.syms[i].addr < t.syms[j].addr
	})
	return t, nil
}

// LoadTableFile reads a symbol table from a file.
func LoadTableFile(path string) (*StaticTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.CodeSymbolError, "failed to open symbol table", err)
	}
	defer f.Close()
	return LoadTable(f)
}

// Lookup returns the symbol whose address range covers addr, or nil.
func (t *StaticTable) Lookup(addr uint64) Symbol {
	// First symbol starting above addr; the candidate is the one before it.
	i := sort.Search(len(t.syms), func(i int) bool {
		return t.syms[i].addr > addr
	})
	if i == 0 {
		return nil
	}
	s := t.syms[i-1]
	if addr >= s.addr && addr < s.addr+s.size {
		return s
	}
	return nil
}

// StaticLineTable is a LineTable backed by an address-to-line listing.
type StaticLineTable struct {
	lines map[uint64]fileLine
}

type fileLine struct {
	file string
	line int
}

// LoadLineTable reads a line table with one mapping per line, three
// whitespace-separated fields `address file line`, address in hex.
func LoadLineTable(r io.Reader) (*StaticLineTable, error) {
	t := &StaticLineTable{lines: make(map[uint64]fileLine)}
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 3 {
			return nil, errors.Newf(errors.CodeSymbolError,
				"malformed line mapping at line %d: expected 3 fields, got %d", lineNum, len(fields))
		}

		ip, err := strconv.ParseUint(strings.TrimPrefix(fields[0], "0x"), 16, 64)
		if err != nil {
			return nil, errors.Wrap(errors.CodeSymbolError, "malformed instruction address at line "+strconv.Itoa(lineNum), err)
		}
		num, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, errors.Wrap(errors.CodeSymbolError, "malformed line number at line "+strconv.Itoa(lineNum), err)
		}

		t.lines[ip] = fileLine{file: fields[1], line: num}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.CodeSymbolError, "failed to read line table", err)
	}
	return t, nil
}

// LoadLineTableFile reads a line table from a file.
func LoadLineTableFile(path string) (*StaticLineTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.CodeSymbolError, "failed to open line table", err)
	}
	defer f.Close()
	return LoadLineTable(f)
}

// FileLine returns the source location recorded for an instruction pointer.
func (t *StaticLineTable) FileLine(ip uint64) (string, int, bool) {
	fl, ok := t.lines[ip]
	if !ok {
		return "", 0, false
	}
	return fl.file, fl.line, true
}
