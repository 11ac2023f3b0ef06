package models

import (
	"encoding/json"
	"testing"
)

func TestAmountUnmarshal(t *testing.T) {
	var payload struct {
		Number  Amount `json:"number"`
		Text    Amount `json:"text"`
		Grouped Amount `json:"grouped"`
		Null    Amount `json:"null"`
		Junk    Amount `json:"junk"`
		Missing Amount `json:"missing"`
	}
	body := `{"number": 1500.5, "text": "250", "grouped": "1,200.75", "null": null, "junk": "n/a"}`
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if payload.Number.Float() != 1500.5 {
		t.Errorf("number = %v, want 1500.5", payload.Number.Float())
	}
	if payload.Text.Float() != 250 {
		t.Errorf("text = %v, want 250", payload.Text.Float())
	}
	if payload.Grouped.Float() != 1200.75 {
		t.Errorf("grouped = %v, want 1200.75", payload.Grouped.Float())
	}
	for name, a := range map[string]Amount{"null": payload.Null, "junk": payload.Junk, "missing": payload.Missing} {
		if a.Valid || a.Float() != 0 || a.Ptr() != nil {
			t.Errorf("%s should decode as absent zero, got %+v", name, a)
		}
	}
	if p := payload.Text.Ptr(); p == nil || *p != 250 {
		t.Errorf("text Ptr() = %v, want 250", p)
	}
}
