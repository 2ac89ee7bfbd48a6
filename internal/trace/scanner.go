package trace

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/pat-analysis/pkg/errors"
)

const (
	// fieldCount is the fixed number of fields per trace line.
	fieldCount = 7

	// maxLineSize bounds the scanner buffer for long lines.
	maxLineSize = 1024 * 1024
)

// Scanner reads a trace in a single pass, yielding the entries that
// survive the configured filters in file order. Usage follows
// bufio.Scanner:
//
//	sc := trace.NewScanner(ctx, r, cfg)
//	for sc.Scan() {
//	    e := sc.Entry()
//	    ...
//	}
//	if err := sc.Err(); err != nil {
//	    ...
//	}
//
// The Entry returned by Entry is reused across Scan calls; callers
// must copy any values they retain.
type Scanner struct {
	ctx     context.Context
	scanner *bufio.Scanner
	cfg     *Config
	entry   Entry
	lineNum int
	err     error
	done    bool
}

// NewScanner creates a Scanner over r. A nil cfg accepts every entry.
func NewScanner(ctx context.Context, r io.Reader, cfg *Config) *Scanner {
	if cfg == nil {
		cfg = NewConfig()
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	return &Scanner{
		ctx:     ctx,
		scanner: scanner,
		cfg:     cfg,
	}
}

// Scan advances to the next accepted entry. It returns false at end of
// input, on error, or once a timestamp past the window end is seen.
// Entries are assumed sorted by timestamp, so anything after the first
// out-of-window timestamp cannot be in the window either.
func (s *Scanner) Scan() bool {
	if s.done || s.err != nil {
		return false
	}

	for s.scanner.Scan() {
		select {
		case <-s.ctx.Done():
			s.err = s.ctx.Err()
			return false
		default:
		}

		s.lineNum++
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)

		// The window check comes first so scanning can stop at the
		// first timestamp past the window end without looking at the
		// rest of the line.
		timestamp, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			s.err = s.malformed("timestamp", fields[0], err)
			return false
		}
		if timestamp < s.cfg.Start {
			continue
		}
		if timestamp > s.cfg.End {
			s.done = true
			return false
		}

		if len(fields) != fieldCount {
			s.err = errors.Newf(errors.CodeParseError,
				"malformed trace entry at line %d: expected %d fields, got %d",
				s.lineNum, fieldCount, len(fields))
			return false
		}

		if s.cfg.Nodes != nil {
			if _, ok := s.cfg.Nodes[fields[1]]; !ok {
				continue
			}
		}

		if s.cfg.Regions != nil {
			if _, ok := s.cfg.Regions[fields[6]]; !ok {
				continue
			}
		}

		addr, err := parseHex(fields[5])
		if err != nil {
			s.err = s.malformed("address", fields[5], err)
			return false
		}
		if s.cfg.Pages != nil {
			if _, ok := s.cfg.Pages[PageOf(addr)]; !ok {
				continue
			}
		}

		s.entry.Symbol = nil
		if s.cfg.Symbols != nil {
			if sym := s.cfg.Symbols.Lookup(addr); sym != nil {
				if sym.IsCode() && s.cfg.NoCode {
					continue
				}
				if sym.IsData() && s.cfg.NoData {
					continue
				}
				s.entry.Symbol = sym
			}
		}

		tid, err := strconv.Atoi(fields[2])
		if err != nil {
			s.err = s.malformed("thread id", fields[2], err)
			return false
		}

		var perm Permission
		switch fields[3] {
		case "R":
			perm = PermRead
		case "W":
			perm = PermWrite
		case "I":
			perm = PermInvalidate
		default:
			s.err = s.malformed("permission", fields[3], nil)
			return false
		}

		ip, err := parseHex(fields[4])
		if err != nil {
			s.err = s.malformed("instruction pointer", fields[4], err)
			return false
		}

		s.entry.Timestamp = timestamp
		s.entry.Node = fields[1]
		s.entry.TID = tid
		s.entry.Perm = perm
		s.entry.IP = ip
		s.entry.Addr = addr
		s.entry.Region = fields[6]
		return true
	}

	if err := s.scanner.Err(); err != nil {
		s.err = errors.Wrap(errors.CodeParseError, "failed to read trace", err)
	}
	return false
}

// Entry returns the entry produced by the last successful Scan.
func (s *Scanner) Entry() *Entry {
	return &s.entry
}

// Err returns the first error encountered while scanning.
func (s *Scanner) Err() error {
	return s.err
}

// Line returns the number of the last line read.
func (s *Scanner) Line() int {
	return s.lineNum
}

func (s *Scanner) malformed(what, value string, err error) error {
	return errors.Wrap(errors.CodeParseError,
		"malformed trace entry at line "+strconv.Itoa(s.lineNum)+": bad "+what+" "+strconv.Quote(value), err)
}

func parseHex(s string) (uint64, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return strconv.ParseUint(s, 16, 64)
}
