package trace

import (
	"math"
	"strconv"
	"strings"

	"github.com/pat-analysis/internal/symbols"
	"github.com/pat-analysis/pkg/errors"
)

// Config filters trace entries during scanning. A nil filter set means
// "accept all". An entry is accepted only if it passes every configured
// filter.
type Config struct {
	// Start and End bound the time window. Entries before Start are
	// skipped; scanning stops at the first entry past End.
	Start float64
	End   float64

	// Symbols resolves faulting addresses. Optional.
	Symbols symbols.Table
	// Lines resolves instruction pointers to source locations.
	// Optional, but required by location-based analyses.
	Lines symbols.LineTable

	// NoCode drops entries whose address resolves to a code symbol.
	// NoData drops entries whose address resolves to a data symbol.
	NoCode bool
	NoData bool

	Nodes   map[string]struct{}
	Pages   map[uint64]struct{}
	Regions map[string]struct{}
}

// NewConfig returns a Config accepting every entry.
func NewConfig() *Config {
	return &Config{End: math.Inf(1)}
}

// SetNodes restricts scanning to a comma-separated list of node IDs.
func (c *Config) SetNodes(list string) {
	c.Nodes = splitSet(list)
}

// SetRegions restricts scanning to a comma-separated list of region IDs.
func (c *Config) SetRegions(list string) {
	c.Regions = splitSet(list)
}

// SetPages restricts scanning to a comma-separated list of page
// addresses, decimal or 0x-prefixed hex. Addresses are aligned down to
// their page.
func (c *Config) SetPages(list string) error {
	if list == "" {
		c.Pages = nil
		return nil
	}
	pages := make(map[uint64]struct{})
	for _, s := range strings.Split(list, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		addr, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return errors.Wrap(errors.CodeConfigError, "invalid page address "+s, err)
		}
		pages[PageOf(addr)] = struct{}{}
	}
	c.Pages = pages
	return nil
}

func splitSet(list string) map[string]struct{} {
	if list == "" {
		return nil
	}
	set := make(map[string]struct{})
	for _, s := range strings.Split(list, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			set[s] = struct{}{}
		}
	}
	return set
}
