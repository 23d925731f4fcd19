package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/granjadata/avicola_backend/models"
)

// Bullet is one label/value pair in a human-readable action summary.
type Bullet struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Summary is the confirmation card shown before an action is executed.
type Summary struct {
	Title    string   `json:"title"`
	Bullets  []Bullet `json:"bullets"`
	CtaLabel string   `json:"ctaLabel"`
	Warn     string   `json:"warn,omitempty"`
}

const confirmLabel = "Confirm"

// Describe renders a pending action for human review. It never writes and
// never fails: lookups are best-effort and unknown kinds fall back to a
// generic key dump.
func Describe(ctx context.Context, action Action) Summary {
	args := map[string]any{}
	if len(action.Args) > 0 {
		_ = json.Unmarshal(action.Args, &args)
	}
	switch action.Kind {
	case "create_farm":
		return describeCreateFarm(args)
	case "create_shed":
		return describeCreateShed(ctx, args)
	case "create_broiler_batch":
		return describeCreateBroilerBatch(args)
	case "insert_weekly_follow_up":
		return describeInsertWeeklyFollowUp(args)
	default:
		return describeGeneric(action.Kind, args)
	}
}

func describeCreateFarm(args map[string]any) Summary {
	bullets := []Bullet{{Label: "Name", Value: argString(args, "name")}}
	if v := argString(args, "location"); v != "—" {
		bullets = append(bullets, Bullet{Label: "Location", Value: v})
	}
	if v := argString(args, "type"); v != "—" {
		bullets = append(bullets, Bullet{Label: "Type", Value: v})
	}
	return Summary{
		Title:    fmt.Sprintf("Create farm %s", argString(args, "name")),
		Bullets:  bullets,
		CtaLabel: confirmLabel,
	}
}

func describeCreateShed(ctx context.Context, args map[string]any) Summary {
	summary := Summary{
		Title:    fmt.Sprintf("Create shed %s", argString(args, "code")),
		CtaLabel: confirmLabel,
	}
	farm := "—"
	if id, ok := args["farm_id"].(string); ok && id != "" {
		farm = id
		if name, found := models.GetFarmName(ctx, id); found {
			farm = fmt.Sprintf("%s (%s)", name, id)
		}
	} else if name, ok := args["farm_name"].(string); ok && name != "" {
		farm = name
	} else {
		summary.Warn = "Select the farm for this shed."
	}
	summary.Bullets = []Bullet{
		{Label: "Farm", Value: farm},
		{Label: "Code", Value: argString(args, "code")},
	}
	if v := argString(args, "capacity"); v != "—" {
		summary.Bullets = append(summary.Bullets, Bullet{Label: "Capacity", Value: v})
	}
	if v := argString(args, "state"); v != "—" {
		summary.Bullets = append(summary.Bullets, Bullet{Label: "State", Value: v})
	}
	return summary
}

func describeCreateBroilerBatch(args map[string]any) Summary {
	shed := argString(args, "shed_id")
	if shed == "—" {
		farmName := argString(args, "farm_name")
		shedCode := argString(args, "shed_code")
		if farmName != "—" || shedCode != "—" {
			shed = fmt.Sprintf("%s / %s", farmName, shedCode)
		}
	}
	summary := Summary{
		Title: "Start broiler batch",
		Bullets: []Bullet{
			{Label: "Shed", Value: shed},
			{Label: "Start date", Value: argString(args, "start_date")},
			{Label: "Incoming birds", Value: argString(args, "incoming_count")},
		},
		CtaLabel: confirmLabel,
	}
	if v := argString(args, "state"); v != "—" {
		summary.Bullets = append(summary.Bullets, Bullet{Label: "State", Value: v})
	}
	return summary
}

func describeInsertWeeklyFollowUp(args map[string]any) Summary {
	bullets := []Bullet{
		{Label: "Batch", Value: argString(args, "broiler_batch_id")},
		{Label: "Week", Value: argString(args, "week_number")},
	}
	if v := argString(args, "avg_weight_g"); v != "—" {
		bullets = append(bullets, Bullet{Label: "Avg weight (g)", Value: v})
	}
	if v := argString(args, "weekly_mortality"); v != "—" {
		bullets = append(bullets, Bullet{Label: "Mortality", Value: v})
	}
	if v := argString(args, "weekly_feed_kg"); v != "—" {
		bullets = append(bullets, Bullet{Label: "Feed (kg)", Value: v})
	}
	return Summary{
		Title:    fmt.Sprintf("Record week %s follow-up", argString(args, "week_number")),
		Bullets:  bullets,
		CtaLabel: confirmLabel,
	}
}

// describeGeneric dumps every argument in key order so no kind ever renders
// an empty card.
func describeGeneric(kind string, args map[string]any) Summary {
	keys := make([]string, 0, len(args))
	for key := range args {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	bullets := make([]Bullet, 0, len(keys))
	for _, key := range keys {
		bullets = append(bullets, Bullet{Label: labelize(key), Value: formatArg(args[key])})
	}
	return Summary{
		Title:    labelize(kind),
		Bullets:  bullets,
		CtaLabel: confirmLabel,
	}
}

func argString(args map[string]any, key string) string {
	v, ok := args[key]
	if !ok || v == nil {
		return "—"
	}
	return formatArg(v)
}

func formatArg(v any) string {
	switch t := v.(type) {
	case string:
		if t == "" {
			return "—"
		}
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return "—"
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}

func labelize(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
