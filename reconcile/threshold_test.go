package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDetectCrossingFiresOnDownwardEdgeOnly(t *testing.T) {
	threshold := dec("20")

	cases := []struct {
		name     string
		prev     string
		cur      string
		expected bool
	}{
		{"stays above", "80", "40", false},
		{"crosses down", "40", "10", true},
		{"lands exactly on threshold", "40", "20", true},
		{"already below stays below", "10", "5", false},
		{"starts on threshold", "20", "10", false},
		{"crosses up", "10", "40", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DetectCrossing(dec(tc.prev), dec(tc.cur), threshold)
			if got != tc.expected {
				t.Fatalf("DetectCrossing(%s, %s, 20) = %v, expected %v", tc.prev, tc.cur, got, tc.expected)
			}
		})
	}
}

// Scenario: availableQty=50, threshold 20%. First usage of 30 leaves 40%,
// no alert. Second usage of 15 leaves 10%, one alert. A third event while
// below must not fire again.
func TestCrossingFiresExactlyOncePerDownwardCrossing(t *testing.T) {
	threshold := dec("20")
	available := dec("50")

	prev, defined := RemainingPercent(available, decimal.Zero)
	if !defined || !prev.Equal(dec("100")) {
		t.Fatalf("seed percent = %s (defined=%v), expected 100", prev, defined)
	}

	used := dec("30")
	cur, _ := RemainingPercent(available, used)
	if !cur.Equal(dec("40")) {
		t.Fatalf("remaining after first event = %s, expected 40", cur)
	}
	if DetectCrossing(prev, cur, threshold) {
		t.Fatal("alert fired at 40% remaining, above threshold")
	}
	prev = cur

	used = used.Add(dec("15"))
	cur, _ = RemainingPercent(available, used)
	if !cur.Equal(dec("10")) {
		t.Fatalf("remaining after second event = %s, expected 10", cur)
	}
	if !DetectCrossing(prev, cur, threshold) {
		t.Fatal("alert did not fire on the downward crossing")
	}
	prev = cur

	used = used.Add(dec("2"))
	cur, _ = RemainingPercent(available, used)
	if DetectCrossing(prev, cur, threshold) {
		t.Fatal("alert fired again while already below threshold")
	}
}

func TestRemainingPercentUndefinedForZeroAvailable(t *testing.T) {
	_, defined := RemainingPercent(decimal.Zero, dec("5"))
	if defined {
		t.Fatal("remaining percent must be undefined when availableQty is 0")
	}
}

func TestRemainingPercentClampsOveruse(t *testing.T) {
	pct, defined := RemainingPercent(dec("50"), dec("60"))
	if !defined {
		t.Fatal("expected defined percent for positive availableQty")
	}
	if !pct.IsZero() {
		t.Fatalf("remaining percent = %s, expected clamp at 0", pct)
	}
}
