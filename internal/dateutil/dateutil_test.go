package dateutil

import (
	"testing"
	"time"
)

func TestParseText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{name: "dotted", input: "01.01.2024", want: day(2024, 1, 1), ok: true},
		{name: "slashes day first", input: "05/02/2024", want: day(2024, 2, 5), ok: true},
		{name: "iso", input: "2024-03-31", want: day(2024, 3, 31), ok: true},
		{name: "with time", input: "07.06.2024 10:30", want: day(2024, 6, 7), ok: true},
		{name: "trimmed", input: "  01.01.2024 ", want: day(2024, 1, 1), ok: true},
		{name: "partner name", input: "ACME (AC)", ok: false},
		{name: "empty", input: "", ok: false},
		{name: "number", input: "12345", ok: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseText(tc.input)
			if ok != tc.ok {
				t.Fatalf("ParseText(%q) ok = %v, want %v", tc.input, ok, tc.ok)
			}
			if ok && !got.Equal(tc.want) {
				t.Fatalf("ParseText(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestFromSerial(t *testing.T) {
	t.Parallel()

	got, err := FromSerial(45292)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(day(2024, 1, 1)) {
		t.Fatalf("unexpected date: %v", got)
	}
	if _, err := FromSerial(0); err == nil {
		t.Fatalf("expected error for zero serial")
	}
}

func TestRangeLabel(t *testing.T) {
	t.Parallel()

	if got := RangeLabel(nil); got != "" {
		t.Fatalf("expected empty label, got %q", got)
	}
	if got := RangeLabel([]time.Time{day(2024, 1, 1), day(2024, 1, 1)}); got != "01.01.2024" {
		t.Fatalf("unexpected single label %q", got)
	}
	got := RangeLabel([]time.Time{day(2024, 1, 5), day(2024, 1, 1), day(2024, 1, 3)})
	if got != "01.01.2024 au 05.01.2024" {
		t.Fatalf("unexpected range label %q", got)
	}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
