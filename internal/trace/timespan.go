package trace

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pat-analysis/pkg/errors"
)

// TimeSpan reads the timestamps of the first and last lines of a trace
// without scanning the lines in between. The reader is left positioned
// at an arbitrary offset; callers wanting to scan afterwards must seek
// back to the start themselves.
func TimeSpan(rs io.ReadSeeker) (start, end float64, err error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return 0, 0, errors.Wrap(errors.CodeParseError, "failed to seek trace", err)
	}

	first, err := bufio.NewReader(rs).ReadString('\n')
	if err != nil && err != io.EOF {
		return 0, 0, errors.Wrap(errors.CodeParseError, "failed to read trace", err)
	}
	start, ok := firstField(first)
	if !ok {
		return 0, 0, errors.New(errors.CodeEmptyTrace, "trace has no entries")
	}

	last, err := lastLine(rs)
	if err != nil {
		return 0, 0, err
	}
	end, ok = firstField(last)
	if !ok {
		return 0, 0, errors.New(errors.CodeEmptyTrace, "trace has no entries")
	}

	return start, end, nil
}

// firstField parses the leading timestamp of a trace line.
func firstField(line string) (float64, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// lastLine walks backwards from the end of the file to the final
// newline-terminated line, skipping a trailing newline at EOF.
func lastLine(rs io.ReadSeeker) (string, error) {
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return "", errors.Wrap(errors.CodeParseError, "failed to seek trace", err)
	}
	if size == 0 {
		return "", errors.New(errors.CodeEmptyTrace, "trace has no entries")
	}

	buf := make([]byte, 1)
	pos := size - 2
	for ; pos >= 0; pos-- {
		if _, err := rs.Seek(pos, io.SeekStart); err != nil {
			return "", errors.Wrap(errors.CodeParseError, "failed to seek trace", err)
		}
		if _, err := io.ReadFull(rs, buf); err != nil {
			return "", errors.Wrap(errors.CodeParseError, "failed to read trace", err)
		}
		if buf[0] == '\n' {
			break
		}
	}

	if _, err := rs.Seek(pos+1, io.SeekStart); err != nil {
		return "", errors.Wrap(errors.CodeParseError, "failed to seek trace", err)
	}
	line, err := bufio.NewReader(rs).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", errors.Wrap(errors.CodeParseError, "failed to read trace", err)
	}
	return line, nil
}
