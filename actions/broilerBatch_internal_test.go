package actions

import (
	"testing"
	"time"

	"github.com/granjadata/avicola_backend/models"
)

func TestBatchAgeInDays(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		start    string
		expected int
	}{
		{"2026-03-15", 0},
		{"2026-03-14", 1},
		{"2026-02-15", 28},
		{"2026-04-01", 0},
		{"not-a-date", 0},
	}
	for _, tc := range cases {
		if got := batchAgeInDays(tc.start, now); got != tc.expected {
			t.Fatalf("batchAgeInDays(%q) expected %d, got %d", tc.start, tc.expected, got)
		}
	}
}

// The start date anchors at midnight in the caller's zone, so an early-morning
// request east of UTC still counts the full calendar days.
func TestBatchAgeInDays_EastOfUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	now := time.Date(2026, 3, 25, 1, 0, 0, 0, loc)
	if got := batchAgeInDays("2026-03-15", now); got != 10 {
		t.Fatalf("expected age 10, got %d", got)
	}
}

func TestBatchOverview_IncludesShedAndFarm(t *testing.T) {
	capacity := 12000
	location := "Ruta 5 km 12"
	batch := &models.BroilerBatch{ID: "b-1", ShedID: "s-1", StartDate: "2026-03-01", IncomingCount: 9000, State: models.BatchStateActive}
	shed := &models.Shed{ID: "s-1", FarmID: "f-1", Code: "G2", Capacity: &capacity}
	farm := &models.Farm{ID: "f-1", Name: "Norte", Location: &location}

	overview, err := batchOverview(batch, shed, farm, 14, nil, nil, nil)
	if err != nil {
		t.Fatalf("batchOverview failed: %v", err)
	}
	shedRow, ok := overview["shed"].(map[string]any)
	if !ok {
		t.Fatalf("overview has no shed row: %#v", overview)
	}
	if shedRow["code"] != "G2" || shedRow["type"] != "shed" {
		t.Fatalf("unexpected shed row: %#v", shedRow)
	}
	farmRow, ok := overview["farm"].(map[string]any)
	if !ok {
		t.Fatalf("overview has no farm row: %#v", overview)
	}
	if farmRow["name"] != "Norte" || farmRow["type"] != "farm" {
		t.Fatalf("unexpected farm row: %#v", farmRow)
	}
	if overview["age_in_days"] != 14 {
		t.Fatalf("expected age 14, got %v", overview["age_in_days"])
	}
	if overview["standard_curve"] != nil {
		t.Fatalf("expected nil standard curve, got %v", overview["standard_curve"])
	}
}
