package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2025-07-15T18:30:00Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2025, 7, 15, 18, 30, 0, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("2025-07-15")
	if !ok {
		t.Fatalf("expected ok")
	}
	want := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if _, ok := ParseDate("15/07/2025"); ok {
		t.Fatalf("expected parse failure")
	}
}

func TestDateOf(t *testing.T) {
	ts := time.Date(2025, 7, 15, 23, 59, 59, 0, time.UTC)
	if got := DateOf(ts); got != time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected day %v", got)
	}
	if got := FormatDate(ts); got != "2025-07-15" {
		t.Fatalf("unexpected format %q", got)
	}
}
