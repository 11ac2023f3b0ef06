package anomaly

import (
	"testing"
)

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestDetectIQRFlagsTripledSpend(t *testing.T) {
	history := map[string][]float64{"Dining": repeat(2000, 10)}
	got := Detect(history, map[string]float64{"Dining": 6000})
	if len(got) != 1 {
		t.Fatalf("got %d anomalies, want 1", len(got))
	}
	a := got[0]
	if a.Method != MethodIQR {
		t.Errorf("Method = %s, want IQR", a.Method)
	}
	if a.Severity != SeverityHigh && a.Severity != SeverityMedium {
		t.Errorf("Severity = %s", a.Severity)
	}
	if a.Baseline != 2000 || a.PercentChange != 200 {
		t.Errorf("Baseline = %v, PercentChange = %v", a.Baseline, a.PercentChange)
	}
}

func TestDetectIQRSeverity(t *testing.T) {
	// Q1 = 1000, Q3 = 1200, fence = 1500, high above 2250
	history := map[string][]float64{"Food": {1000, 1000, 1100, 1200, 1200}}
	cases := []struct {
		value   float64
		flagged bool
		want    Severity
	}{
		{1400, false, ""},
		{1600, true, SeverityMedium},
		{2300, true, SeverityHigh},
	}
	for _, tc := range cases {
		got := Detect(history, map[string]float64{"Food": tc.value})
		if !tc.flagged {
			if len(got) != 0 {
				t.Errorf("value %v flagged unexpectedly", tc.value)
			}
			continue
		}
		if len(got) != 1 || got[0].Severity != tc.want {
			t.Errorf("value %v: got %+v, want severity %s", tc.value, got, tc.want)
		}
		if got[0].Threshold != 1500 {
			t.Errorf("Threshold = %v, want 1500", got[0].Threshold)
		}
	}
}

func TestDetectIQRRequiresMedianMargin(t *testing.T) {
	// zero spread puts the fence on the median, so the 20% margin decides
	history := map[string][]float64{"Gym": repeat(1000, 6)}
	if got := Detect(history, map[string]float64{"Gym": 1150}); len(got) != 0 {
		t.Errorf("1150 vs median 1000 should not be flagged, got %+v", got)
	}
	if got := Detect(history, map[string]float64{"Gym": 1250}); len(got) != 1 {
		t.Errorf("1250 vs median 1000 should be flagged")
	}
}

func TestDetectFallback(t *testing.T) {
	history := map[string][]float64{
		"Shopping": {800, 1000, 1200},
		"Coffee":   {100, 120},
	}
	got := Detect(history, map[string]float64{
		"Shopping": 2000, // > 1500 and delta 1000
		"Coffee":   400,  // > 165 but delta under the floor
	})
	if len(got) != 1 || got[0].Category != "Shopping" {
		t.Fatalf("got %+v, want only Shopping", got)
	}
	if got[0].Method != MethodAverage || got[0].Severity != SeverityMedium {
		t.Errorf("fallback anomaly = %+v", got[0])
	}
}

func TestDetectSkipsMissingHistory(t *testing.T) {
	got := Detect(map[string][]float64{}, map[string]float64{"New": 100000})
	if len(got) != 0 {
		t.Errorf("category without history flagged: %+v", got)
	}
}

func TestDetectSortedByDeviation(t *testing.T) {
	history := map[string][]float64{
		"A": repeat(1000, 8),
		"B": repeat(1000, 8),
		"C": repeat(1000, 8),
	}
	got := Detect(history, map[string]float64{"A": 2000, "B": 9000, "C": 4000})
	if len(got) != 3 {
		t.Fatalf("got %d anomalies, want 3", len(got))
	}
	order := Categories(got)
	if order[0] != "B" || order[1] != "C" || order[2] != "A" {
		t.Errorf("order = %v, want [B C A]", order)
	}
}
