package propagation

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shashe9/teaminfinity/pkg/logger"
)

// TLE is one parsed three-line element set.
type TLE struct {
	Name    string
	NORADID int
	Epoch   time.Time
	Line1   string
	Line2   string
}

// ParseTLE reads 3-line NORAD element sets from r. Malformed entries are
// skipped with a warning; the parse only fails on a read error.
func ParseTLE(r io.Reader, log *logger.Logger) ([]TLE, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading element sets: %w", err)
	}

	var entries []TLE
	for i := 0; i+2 < len(lines); {
		name := strings.TrimSpace(lines[i])
		line1 := lines[i+1]
		line2 := lines[i+2]

		if !strings.HasPrefix(line1, "1 ") || !strings.HasPrefix(line2, "2 ") {
			// Resync on the next candidate name line.
			log.Warn("skipping malformed element set", logger.Int("line", i), logger.String("name", name))
			i++
			continue
		}

		noradStr := strings.TrimSpace(line1[2:7])
		noradID, err := strconv.Atoi(noradStr)
		if err != nil {
			log.Warn("skipping element set with invalid catalog number",
				logger.String("field", noradStr), logger.String("name", name))
			i += 3
			continue
		}

		if len(line1) < 32 {
			log.Warn("skipping element set with short line 1", logger.String("name", name))
			i += 3
			continue
		}
		epoch, err := parseEpoch(strings.TrimSpace(line1[18:32]))
		if err != nil {
			log.Warn("skipping element set with invalid epoch",
				logger.String("name", name), logger.Error(err))
			i += 3
			continue
		}

		entries = append(entries, TLE{
			Name:    name,
			NORADID: noradID,
			Epoch:   epoch,
			Line1:   line1,
			Line2:   line2,
		})
		i += 3
	}

	return entries, nil
}

// parseEpoch converts the YYDDD.DDDDDDDD epoch field to a time. Years 00-56
// map to the 2000s, 57-99 to the 1900s.
func parseEpoch(s string) (time.Time, error) {
	if len(s) < 5 {
		return time.Time{}, fmt.Errorf("epoch field too short: %q", s)
	}

	year, err := strconv.Atoi(s[:2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch year %q: %w", s[:2], err)
	}
	if year >= 57 {
		year += 1900
	} else {
		year += 2000
	}

	dayOfYear, err := strconv.ParseFloat(s[2:], 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch day %q: %w", s[2:], err)
	}

	// Day of year is 1-based.
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	return start.Add(time.Duration((dayOfYear - 1) * float64(24*time.Hour))), nil
}
