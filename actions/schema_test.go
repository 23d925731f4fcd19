package actions_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/granjadata/avicola_backend/actions"
)

// Previews validate and register but never touch the store, so they are safe
// to exercise without a database.
func newTestRegistry() *actions.Registry {
	return actions.DefaultRegistry(actions.NewMemoryPendingStore(time.Minute))
}

func TestPreview_ValidActionReturnsTokenAndCanonicalArgs(t *testing.T) {
	r := newTestRegistry()

	preview, err := r.Preview(context.Background(), "create_farm",
		json.RawMessage(`{"name":"La Esperanza","type":"owned"}`))
	if err != nil {
		t.Fatalf("Preview error: %v", err)
	}
	if preview.ActionID == "" {
		t.Fatal("Preview returned an empty action id")
	}
	if preview.Preview.Kind != "create_farm" {
		t.Fatalf("preview kind = %q", preview.Preview.Kind)
	}
	if preview.Action.Kind != "create_farm" {
		t.Fatalf("action kind = %q", preview.Action.Kind)
	}
	values := map[string]any{}
	raw, _ := preview.Preview.Values.(json.RawMessage)
	if err := json.Unmarshal(raw, &values); err != nil {
		t.Fatalf("preview values are not JSON: %v", err)
	}
	if values["name"] != "La Esperanza" || values["type"] != "owned" {
		t.Fatalf("canonical values wrong: %v", values)
	}
}

func TestPreview_BatchCreationAcceptsOptionalClosingFields(t *testing.T) {
	r := newTestRegistry()

	preview, err := r.Preview(context.Background(), "create_broiler_batch",
		json.RawMessage(`{"shed_id":"0b9fba6e-55c9-4b52-9ae1-000000000000","start_date":"2026-01-10","incoming_count":9000,"state":"finished","slaughter_date":"2026-03-01","efficiency_index":312.5}`))
	if err != nil {
		t.Fatalf("Preview error: %v", err)
	}
	values := map[string]any{}
	raw, _ := preview.Preview.Values.(json.RawMessage)
	if err := json.Unmarshal(raw, &values); err != nil {
		t.Fatalf("preview values are not JSON: %v", err)
	}
	if values["state"] != "finished" || values["slaughter_date"] != "2026-03-01" {
		t.Fatalf("canonical values wrong: %v", values)
	}
}

func TestPreview_BreederBatchListAcceptsNameFilters(t *testing.T) {
	r := newTestRegistry()

	_, err := r.Preview(context.Background(), "list_breeder_batches",
		json.RawMessage(`{"farm_name":"Norte","genetic_line_name":"Cobb 500"}`))
	if err != nil {
		t.Fatalf("Preview error: %v", err)
	}
}

func TestPreview_UnknownKind(t *testing.T) {
	r := newTestRegistry()

	_, err := r.Preview(context.Background(), "launch_rocket", json.RawMessage(`{}`))
	var kindErr *actions.UnknownKindError
	if !errors.As(err, &kindErr) {
		t.Fatalf("expected UnknownKindError, got %v", err)
	}
}

func TestPreview_SchemaViolations(t *testing.T) {
	cases := []struct {
		name string
		kind string
		args string
		want string
	}{
		{"missing required name", "create_farm", `{}`, "name"},
		{"bad farm type", "create_farm", `{"name":"X","type":"rented"}`, "one of"},
		{"shed without farm reference", "create_shed", `{"code":"G1"}`, "farm_id or farm_name"},
		{"shed with bad state", "create_shed", `{"farm_name":"Norte","code":"G1","state":"open"}`, "one of"},
		{"batch without shed reference", "create_broiler_batch", `{"start_date":"2026-01-10","incoming_count":5000}`, "shed_id"},
		{"batch with only farm name", "create_broiler_batch", `{"farm_name":"Norte","start_date":"2026-01-10","incoming_count":5000}`, "shed_code"},
		{"batch with bad date", "create_broiler_batch", `{"shed_id":"0b9fba6e-55c9-4b52-9ae1-000000000000","start_date":"mañana","incoming_count":100}`, "YYYY-MM-DD"},
		{"batch with zero birds", "create_broiler_batch", `{"shed_id":"0b9fba6e-55c9-4b52-9ae1-000000000000","start_date":"2026-01-10","incoming_count":0}`, "incoming_count"},
		{"batch with bad state", "create_broiler_batch", `{"shed_id":"0b9fba6e-55c9-4b52-9ae1-000000000000","start_date":"2026-01-10","incoming_count":100,"state":"paused"}`, "one of"},
		{"update without fields", "update_farm", `{"id":"0b9fba6e-55c9-4b52-9ae1-000000000000"}`, "at least one field"},
		{"update with bad uuid", "update_farm", `{"id":"123","name":"X"}`, "uuid"},
		{"follow-up week out of range", "insert_weekly_follow_up", `{"broiler_batch_id":"0b9fba6e-55c9-4b52-9ae1-000000000000","week_number":25}`, "week_number"},
		{"negative mortality", "insert_weekly_follow_up", `{"broiler_batch_id":"0b9fba6e-55c9-4b52-9ae1-000000000000","week_number":3,"weekly_mortality":-1}`, "weekly_mortality"},
		{"curve without line reference", "get_standard_curve", `{"age_in_days":21}`, "genetic_line_id or genetic_line_name"},
		{"arguments not an object", "create_farm", `[1,2]`, "JSON object"},
	}

	r := newTestRegistry()
	for _, tc := range cases {
		_, err := r.Preview(context.Background(), tc.kind, json.RawMessage(tc.args))
		if err == nil {
			t.Fatalf("%s: expected a schema violation, got none", tc.name)
		}
		var schemaErr *actions.SchemaViolationError
		if !errors.As(err, &schemaErr) {
			t.Fatalf("%s: expected SchemaViolationError, got %T %v", tc.name, err, err)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: message %q does not mention %q", tc.name, err.Error(), tc.want)
		}
	}
}

func TestExecute_UnknownKindMapsToBadRequest(t *testing.T) {
	r := newTestRegistry()

	result := r.Execute(context.Background(), actions.Action{Kind: "launch_rocket"})
	if result.OK {
		t.Fatal("unknown kind must not succeed")
	}
	if result.Status != 400 {
		t.Fatalf("expected status 400, got %d", result.Status)
	}
}

func TestExecute_InvalidArgsNeverReachTheStore(t *testing.T) {
	// No database is connected in this test binary: if validation let the
	// arguments through, the handler would panic on a nil connection.
	r := newTestRegistry()

	result := r.Execute(context.Background(), actions.Action{
		Kind: "create_shed",
		Args: json.RawMessage(`{"code":""}`),
	})
	if result.OK {
		t.Fatal("invalid arguments must not succeed")
	}
	if result.Status != 400 {
		t.Fatalf("expected status 400, got %d", result.Status)
	}
}

func TestExecuteToken_UnknownToken(t *testing.T) {
	r := newTestRegistry()

	_, err := r.ExecuteToken(context.Background(), "bogus")
	if !errors.Is(err, actions.ErrActionNotFound) {
		t.Fatalf("expected ErrActionNotFound, got %v", err)
	}
}

func TestToolSpecs_CoverEveryKind(t *testing.T) {
	r := newTestRegistry()

	kinds := r.Kinds()
	specs := r.ToolSpecs()
	if len(specs) != len(kinds) {
		t.Fatalf("%d specs for %d kinds", len(specs), len(kinds))
	}
	for i, spec := range specs {
		if spec.Name != kinds[i] {
			t.Fatalf("spec %d name %q does not match kind %q", i, spec.Name, kinds[i])
		}
		if spec.Description == "" {
			t.Fatalf("kind %q has no description", spec.Name)
		}
		if spec.Parameters["type"] != "object" {
			t.Fatalf("kind %q parameters are not an object schema", spec.Name)
		}
	}

	for _, required := range []string{
		"create_farm", "update_farm", "list_farms", "delete_farm",
		"create_shed", "update_shed", "list_sheds", "list_sheds_by_farm", "delete_shed",
		"create_genetic_line", "list_genetic_lines",
		"create_breeder_batch", "list_breeder_batches",
		"create_broiler_batch", "update_broiler_batch", "finalize_broiler_batch",
		"list_broiler_batches", "delete_broiler_batch", "broiler_batch_overview",
		"link_traceability", "unlink_traceability", "list_traceability",
		"insert_weekly_follow_up", "update_weekly_follow_up",
		"delete_weekly_follow_up", "list_weekly_follow_ups",
		"get_standard_curve",
	} {
		if _, ok := r.Get(required); !ok {
			t.Fatalf("kind %q is not registered", required)
		}
	}
}
