package platform

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
)

// parseMeminfo extracts the Dirty and Writeback counters from
// /proc/meminfo content. The kernel reports them in kB.
func parseMeminfo(data []byte) (MemoryPressure, bool) {
	var p MemoryPressure
	var haveDirty, haveWriteback bool

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "Dirty:"):
			p.Dirty, haveDirty = parseKBLine(line)
		case strings.HasPrefix(line, "Writeback:"):
			p.Writeback, haveWriteback = parseKBLine(line)
		}
		if haveDirty && haveWriteback {
			break
		}
	}

	return p, haveDirty && haveWriteback
}

// parseKBLine parses a meminfo line of the form "Dirty:  1234 kB" and
// returns the value in bytes.
func parseKBLine(line string) (uint64, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, false
	}
	kb, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return kb * 1024, true
}
