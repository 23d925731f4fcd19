package actions_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/granjadata/avicola_backend/actions"
)

// Describe runs without a database: lookups are best-effort and fall back to
// raw identifiers.

func bulletValue(s actions.Summary, label string) string {
	for _, b := range s.Bullets {
		if b.Label == label {
			return b.Value
		}
	}
	return ""
}

func TestDescribe_CreateShedWithFarmName(t *testing.T) {
	summary := actions.Describe(context.Background(), actions.Action{
		Kind: "create_shed",
		Args: json.RawMessage(`{"farm_name":"Granja Norte","code":"G1","capacity":12000}`),
	})
	if summary.Title != "Create shed G1" {
		t.Fatalf("title = %q", summary.Title)
	}
	if summary.Warn != "" {
		t.Fatalf("unexpected warning %q", summary.Warn)
	}
	if got := bulletValue(summary, "Farm"); got != "Granja Norte" {
		t.Fatalf("farm bullet = %q", got)
	}
	if got := bulletValue(summary, "Capacity"); got != "12000" {
		t.Fatalf("capacity bullet = %q", got)
	}
	if summary.CtaLabel == "" {
		t.Fatal("missing CTA label")
	}
}

func TestDescribe_CreateShedWithoutFarmWarns(t *testing.T) {
	summary := actions.Describe(context.Background(), actions.Action{
		Kind: "create_shed",
		Args: json.RawMessage(`{"code":"G1"}`),
	})
	if summary.Warn == "" {
		t.Fatal("expected a warning when no farm reference is present")
	}
}

func TestDescribe_CreateBroilerBatchByFarmAndCode(t *testing.T) {
	summary := actions.Describe(context.Background(), actions.Action{
		Kind: "create_broiler_batch",
		Args: json.RawMessage(`{"farm_name":"Norte","shed_code":"G2","start_date":"2026-01-10","incoming_count":5000}`),
	})
	if got := bulletValue(summary, "Shed"); got != "Norte / G2" {
		t.Fatalf("shed bullet = %q", got)
	}
	if got := bulletValue(summary, "Incoming birds"); got != "5000" {
		t.Fatalf("incoming bullet = %q", got)
	}
	if got := bulletValue(summary, "State"); got != "" {
		t.Fatalf("state bullet should be absent, got %q", got)
	}
}

func TestDescribe_CreateBroilerBatchShowsStateWhenPresent(t *testing.T) {
	summary := actions.Describe(context.Background(), actions.Action{
		Kind: "create_broiler_batch",
		Args: json.RawMessage(`{"shed_id":"s-1","start_date":"2026-01-10","incoming_count":5000,"state":"finished"}`),
	})
	if got := bulletValue(summary, "State"); got != "finished" {
		t.Fatalf("state bullet = %q", got)
	}
}

func TestDescribe_GenericFallbackSortsKeys(t *testing.T) {
	summary := actions.Describe(context.Background(), actions.Action{
		Kind: "link_traceability",
		Args: json.RawMessage(`{"broiler_batch_id":"b-1","breeder_batch_id":"RP-2025-01"}`),
	})
	if summary.Title != "Link Traceability" {
		t.Fatalf("title = %q", summary.Title)
	}
	if len(summary.Bullets) != 2 {
		t.Fatalf("expected 2 bullets, got %d", len(summary.Bullets))
	}
	if summary.Bullets[0].Label != "Breeder Batch Id" || summary.Bullets[1].Label != "Broiler Batch Id" {
		t.Fatalf("bullets not in key order: %+v", summary.Bullets)
	}
}

func TestDescribe_EmptyArgsDoNotPanic(t *testing.T) {
	summary := actions.Describe(context.Background(), actions.Action{Kind: "list_farms"})
	if summary.Title == "" {
		t.Fatal("expected a title for an argument-less action")
	}
}
