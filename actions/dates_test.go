package actions_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/granjadata/avicola_backend/actions"
)

func TestNormalizeDate_CommonSpellings(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"2026-03-15", "2026-03-15"},
		{"15/03/2026", "2026-03-15"},
		{"15-03-2026", "2026-03-15"},
		{"5/3/2026", "2026-03-05"},
		{"15/03/26", "2026-03-15"},
		{"15/03/99", "1999-03-15"},
		{"15/03/70", "1970-03-15"},
		{"15/03/69", "2069-03-15"},
		{" 15/03/2026 ", "2026-03-15"},
	}
	for _, tc := range cases {
		if got := actions.NormalizeDate(tc.in); got != tc.expected {
			t.Fatalf("NormalizeDate(%q) expected %s, got %s", tc.in, tc.expected, got)
		}
	}
}

func TestNormalizeDate_RelativeWords(t *testing.T) {
	today := time.Now().Format("2006-01-02")
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	for _, word := range []string{"hoy", "today", "HOY"} {
		if got := actions.NormalizeDate(word); got != today {
			t.Fatalf("NormalizeDate(%q) expected %s, got %s", word, today, got)
		}
	}
	for _, word := range []string{"ayer", "yesterday"} {
		if got := actions.NormalizeDate(word); got != yesterday {
			t.Fatalf("NormalizeDate(%q) expected %s, got %s", word, yesterday, got)
		}
	}
}

func TestNormalizeDate_LeavesGarbageAlone(t *testing.T) {
	cases := []string{"", "soon", "32/01/2026", "15/13/2026", "31/02/2026", "2026-3-15"}
	for _, in := range cases {
		if got := actions.NormalizeDate(in); got != in {
			t.Fatalf("NormalizeDate(%q) expected passthrough, got %s", in, got)
		}
	}
}

func TestNormalizeDateArgs_OnlyTouchesDateKeys(t *testing.T) {
	raw := json.RawMessage(`{"start_date":"15/03/2026","incoming_count":5000,"shed_code":"15/03/2026"}`)
	out := actions.NormalizeDateArgs(raw)

	args := map[string]any{}
	if err := json.Unmarshal(out, &args); err != nil {
		t.Fatalf("normalized args are not valid JSON: %v", err)
	}
	if args["start_date"] != "2026-03-15" {
		t.Fatalf("start_date not normalized: %v", args["start_date"])
	}
	if args["shed_code"] != "15/03/2026" {
		t.Fatalf("shed_code must not be treated as a date: %v", args["shed_code"])
	}
	if args["incoming_count"] != float64(5000) {
		t.Fatalf("incoming_count changed: %v", args["incoming_count"])
	}
}

func TestNormalizeDateArgs_MalformedJSONPassesThrough(t *testing.T) {
	raw := json.RawMessage(`{"start_date":`)
	if out := actions.NormalizeDateArgs(raw); string(out) != string(raw) {
		t.Fatalf("malformed JSON should pass through, got %s", out)
	}
}
