package actions

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/granjadata/avicola_backend/models"
)

type InsertWeeklyFollowUpArgs struct {
	BroilerBatchID  string   `json:"broiler_batch_id" validate:"required,uuid"`
	WeekNumber      *int     `json:"week_number" validate:"required,gte=0,lte=20"`
	AvgWeightG      *float64 `json:"avg_weight_g,omitempty" validate:"omitempty,gt=0"`
	WeeklyMortality *int     `json:"weekly_mortality,omitempty" validate:"omitempty,gte=0"`
	WeeklyFeedKg    *float64 `json:"weekly_feed_kg,omitempty" validate:"omitempty,gt=0"`
}

type UpdateWeeklyFollowUpArgs struct {
	ID              string   `json:"id" validate:"required,uuid"`
	WeekNumber      *int     `json:"week_number,omitempty" validate:"omitempty,gte=0,lte=20"`
	AvgWeightG      *float64 `json:"avg_weight_g,omitempty" validate:"omitempty,gt=0"`
	WeeklyMortality *int     `json:"weekly_mortality,omitempty" validate:"omitempty,gte=0"`
	WeeklyFeedKg    *float64 `json:"weekly_feed_kg,omitempty" validate:"omitempty,gt=0"`
}

func (a *UpdateWeeklyFollowUpArgs) crossCheck() error {
	if a.WeekNumber == nil && a.AvgWeightG == nil && a.WeeklyMortality == nil && a.WeeklyFeedKg == nil {
		return errors.New("provide at least one field to update")
	}
	return nil
}

type DeleteWeeklyFollowUpArgs struct {
	ID string `json:"id" validate:"required,uuid"`
}

type ListWeeklyFollowUpsArgs struct {
	BroilerBatchID string `json:"broiler_batch_id" validate:"required,uuid"`
}

func decimalPtr(v *float64) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d := decimal.NewFromFloat(*v)
	return &d
}

func registerFollowUpHandlers(r *Registry) {
	r.Register(&handler[InsertWeeklyFollowUpArgs]{
		kind:        "insert_weekly_follow_up",
		description: "Record the weekly follow-up of a broiler batch: average weight, mortality and feed.",
		parameters: objectSchema(map[string]any{
			"broiler_batch_id": strProp("Broiler batch id (uuid)"),
			"week_number":      intProp("Week of life being recorded, 0 to 20"),
			"avg_weight_g":     numProp("Average bird weight in grams"),
			"weekly_mortality": intProp("Birds lost during the week"),
			"weekly_feed_kg":   numProp("Feed consumed during the week in kilograms"),
		}, "broiler_batch_id", "week_number"),
		run: func(ctx context.Context, args *InsertWeeklyFollowUpArgs) (any, error) {
			row, err := models.InsertWeeklyFollowUp(ctx, &models.WeeklyFollowUp{
				BroilerBatchID:  args.BroilerBatchID,
				WeekNumber:      *args.WeekNumber,
				AvgWeightG:      decimalPtr(args.AvgWeightG),
				WeeklyMortality: args.WeeklyMortality,
				WeeklyFeedKg:    decimalPtr(args.WeeklyFeedKg),
			})
			if err != nil {
				return nil, err
			}
			return tagType(row, "weekly_follow_up")
		},
	})

	r.Register(&handler[UpdateWeeklyFollowUpArgs]{
		kind:        "update_weekly_follow_up",
		description: "Correct an existing weekly follow-up record by id.",
		parameters: objectSchema(map[string]any{
			"id":               strProp("Follow-up record id (uuid)"),
			"week_number":      intProp("Corrected week of life, 0 to 20"),
			"avg_weight_g":     numProp("Corrected average weight in grams"),
			"weekly_mortality": intProp("Corrected weekly mortality"),
			"weekly_feed_kg":   numProp("Corrected weekly feed in kilograms"),
		}, "id"),
		run: func(ctx context.Context, args *UpdateWeeklyFollowUpArgs) (any, error) {
			patch := map[string]interface{}{}
			if args.WeekNumber != nil {
				patch["week_number"] = *args.WeekNumber
			}
			if args.AvgWeightG != nil {
				patch["avg_weight_g"] = decimal.NewFromFloat(*args.AvgWeightG)
			}
			if args.WeeklyMortality != nil {
				patch["weekly_mortality"] = *args.WeeklyMortality
			}
			if args.WeeklyFeedKg != nil {
				patch["weekly_feed_kg"] = decimal.NewFromFloat(*args.WeeklyFeedKg)
			}
			updated, err := models.UpdateWeeklyFollowUp(ctx, args.ID, patch)
			if err != nil {
				return nil, err
			}
			return tagType(updated, "weekly_follow_up")
		},
	})

	r.Register(&handler[DeleteWeeklyFollowUpArgs]{
		kind:        "delete_weekly_follow_up",
		description: "Delete a weekly follow-up record by id.",
		parameters: objectSchema(map[string]any{
			"id": strProp("Follow-up record id (uuid)"),
		}, "id"),
		run: func(ctx context.Context, args *DeleteWeeklyFollowUpArgs) (any, error) {
			deleted, err := models.DeleteWeeklyFollowUp(ctx, args.ID)
			if err != nil {
				return nil, err
			}
			row, err := tagType(deleted, "weekly_follow_up")
			if err != nil {
				return nil, err
			}
			row["deleted"] = true
			return row, nil
		},
	})

	r.Register(&handler[ListWeeklyFollowUpsArgs]{
		kind:        "list_weekly_follow_ups",
		description: "List the weekly follow-ups of a broiler batch in week order.",
		parameters: objectSchema(map[string]any{
			"broiler_batch_id": strProp("Broiler batch id (uuid)"),
		}, "broiler_batch_id"),
		run: func(ctx context.Context, args *ListWeeklyFollowUpsArgs) (any, error) {
			rows, err := models.ListFollowUpsByBatch(ctx, args.BroilerBatchID)
			if err != nil {
				return nil, err
			}
			return tagTypeSlice(rows, "weekly_follow_up")
		},
	})
}
