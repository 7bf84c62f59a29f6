package propagation

import (
	"strings"
	"testing"

	"github.com/shashe9/teaminfinity/pkg/logger"
)

const starlink1010 = `STARLINK-1010
1 44714U 19074B   25195.18782228 -.00000912  00000+0 -42376-4 0  9990
2 44714  53.0544 177.2958 0001195  66.4551 293.6564 15.06388484312979
`

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestParseTLE(t *testing.T) {
	entries, err := ParseTLE(strings.NewReader(starlink1010), testLogger(t))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}

	e := entries[0]
	if e.Name != "STARLINK-1010" {
		t.Errorf("name = %q", e.Name)
	}
	if e.NORADID != 44714 {
		t.Errorf("catalog number = %d, want 44714", e.NORADID)
	}
	// Epoch 25195.18782228 is day 195 of 2025.
	if e.Epoch.Year() != 2025 || e.Epoch.YearDay() != 195 {
		t.Errorf("epoch = %v, want day 195 of 2025", e.Epoch)
	}
}

func TestParseTLESkipsMalformed(t *testing.T) {
	input := `BROKEN-SAT
garbage line one
garbage line two
` + starlink1010
	entries, err := ParseTLE(strings.NewReader(input), testLogger(t))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "STARLINK-1010" {
		t.Fatalf("expected only the valid entry, got %v", entries)
	}
}

func TestParseTLEMultiple(t *testing.T) {
	second := strings.ReplaceAll(starlink1010, "STARLINK-1010", "STARLINK-1010 COPY")
	entries, err := ParseTLE(strings.NewReader(starlink1010+second), testLogger(t))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
}

func TestParseEpochCentury(t *testing.T) {
	old, err := parseEpoch("98001.00000000")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if old.Year() != 1998 {
		t.Errorf("year 98 mapped to %d, want 1998", old.Year())
	}

	recent, err := parseEpoch("05180.50000000")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if recent.Year() != 2005 || recent.YearDay() != 180 {
		t.Errorf("epoch = %v, want midday of day 180, 2005", recent)
	}
	if recent.Hour() != 12 {
		t.Errorf("fractional day lost: hour = %d, want 12", recent.Hour())
	}
}
