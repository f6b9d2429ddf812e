package util

import (
	"strconv"
	"testing"
	"time"
)

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, 3, 7, 15, 30, 0, 0, time.UTC)
	if got := FormatDate(d); got != "2024-03-07" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatDates(t *testing.T) {
	ds := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	got := FormatDates(ds)
	if len(got) != 2 || got[0] != "2024-01-01" || got[1] != "2024-12-31" {
		t.Fatalf("got %v", got)
	}
}

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseTimeEmpty(t *testing.T) {
	if _, ok := ParseTime(""); ok {
		t.Fatalf("expected not ok for empty string")
	}
}
