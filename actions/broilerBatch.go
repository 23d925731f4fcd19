package actions

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/granjadata/avicola_backend/models"
)

type CreateBroilerBatchArgs struct {
	ShedID          *string  `json:"shed_id,omitempty" validate:"omitempty,uuid"`
	FarmName        *string  `json:"farm_name,omitempty" validate:"omitempty,min=1"`
	ShedCode        *string  `json:"shed_code,omitempty" validate:"omitempty,min=1"`
	StartDate       string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	IncomingCount   int      `json:"incoming_count" validate:"required,gt=0"`
	State           *string  `json:"state,omitempty" validate:"omitempty,oneof=active finished"`
	SlaughterDate   *string  `json:"slaughter_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EfficiencyIndex *float64 `json:"efficiency_index,omitempty" validate:"omitempty,gt=0"`
}

func (a *CreateBroilerBatchArgs) crossCheck() error {
	if a.ShedID == nil && (a.FarmName == nil || a.ShedCode == nil) {
		return errors.New("provide shed_id, or farm_name together with shed_code")
	}
	return nil
}

type UpdateBroilerBatchArgs struct {
	ID              string   `json:"id" validate:"required,uuid"`
	StartDate       *string  `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	IncomingCount   *int     `json:"incoming_count,omitempty" validate:"omitempty,gt=0"`
	State           *string  `json:"state,omitempty" validate:"omitempty,oneof=active finished"`
	SlaughterDate   *string  `json:"slaughter_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EfficiencyIndex *float64 `json:"efficiency_index,omitempty" validate:"omitempty,gt=0"`
}

func (a *UpdateBroilerBatchArgs) crossCheck() error {
	if a.StartDate == nil && a.IncomingCount == nil && a.State == nil &&
		a.SlaughterDate == nil && a.EfficiencyIndex == nil {
		return errors.New("provide at least one field to update")
	}
	return nil
}

type FinalizeBroilerBatchArgs struct {
	ID            string `json:"id" validate:"required,uuid"`
	SlaughterDate string `json:"slaughter_date" validate:"required,datetime=2006-01-02"`
}

type ListBroilerBatchesArgs struct {
	ShedID   *string `json:"shed_id,omitempty" validate:"omitempty,uuid"`
	State    *string `json:"state,omitempty" validate:"omitempty,oneof=active finished"`
	FarmID   *string `json:"farm_id,omitempty" validate:"omitempty,uuid"`
	FarmName *string `json:"farm_name,omitempty" validate:"omitempty,min=1"`
}

type DeleteBroilerBatchArgs struct {
	ID string `json:"id" validate:"required,uuid"`
}

type BroilerBatchOverviewArgs struct {
	ID string `json:"id" validate:"required,uuid"`
}

// resolveShedRef canonicalizes a shed reference: a direct id wins, otherwise
// the farm name resolves first and the shed code is matched inside that farm.
func resolveShedRef(ctx context.Context, shedId *string, farmName *string, shedCode *string) (string, error) {
	if shedId != nil {
		return *shedId, nil
	}
	farmId, err := models.ResolveFarmIDByName(ctx, *farmName)
	if err != nil {
		return "", err
	}
	return models.ResolveShedID(ctx, farmId, *shedCode)
}

// batchAgeInDays counts whole calendar days between the start date and now,
// anchored at midnight in now's location, clamped at zero for batches that
// start in the future.
func batchAgeInDays(startDate string, now time.Time) int {
	start, err := time.ParseInLocation("2006-01-02", startDate, now.Location())
	if err != nil {
		return 0
	}
	days := int(now.Sub(start).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func registerBroilerBatchHandlers(r *Registry) {
	r.Register(&handler[CreateBroilerBatchArgs]{
		kind:        "create_broiler_batch",
		description: "Start a broiler batch in a shed, referenced by shed id or by farm name plus shed code.",
		parameters: objectSchema(map[string]any{
			"shed_id":          strProp("Id of the shed"),
			"farm_name":        strProp("Name of the farm, used together with shed_code when the shed id is unknown"),
			"shed_code":        strProp("Code of the shed inside the farm"),
			"start_date":       dateProp("Start date of the batch, YYYY-MM-DD"),
			"incoming_count":   intProp("Number of birds placed"),
			"state":            enumProp("Initial batch state, defaults to active", "active", "finished"),
			"slaughter_date":   dateProp("Slaughter date, YYYY-MM-DD, for batches registered after the fact"),
			"efficiency_index": numProp("Production efficiency index, if already known"),
		}, "start_date", "incoming_count"),
		run: func(ctx context.Context, args *CreateBroilerBatchArgs) (any, error) {
			shedId, err := resolveShedRef(ctx, args.ShedID, args.FarmName, args.ShedCode)
			if err != nil {
				return nil, err
			}
			batch := &models.BroilerBatch{
				ShedID:          shedId,
				StartDate:       args.StartDate,
				IncomingCount:   args.IncomingCount,
				SlaughterDate:   args.SlaughterDate,
				EfficiencyIndex: decimalPtr(args.EfficiencyIndex),
			}
			if args.State != nil {
				batch.State = models.BatchState(*args.State)
			}
			created, err := models.CreateBroilerBatch(ctx, batch)
			if err != nil {
				return nil, err
			}
			return tagType(created, "broiler_batch")
		},
	})

	r.Register(&handler[UpdateBroilerBatchArgs]{
		kind:        "update_broiler_batch",
		description: "Update a broiler batch by id. A finished batch cannot go back to active.",
		parameters: objectSchema(map[string]any{
			"id":               strProp("Broiler batch id (uuid)"),
			"start_date":       dateProp("New start date, YYYY-MM-DD"),
			"incoming_count":   intProp("Corrected number of birds placed"),
			"state":            enumProp("Batch state", "active", "finished"),
			"slaughter_date":   dateProp("Slaughter date, YYYY-MM-DD"),
			"efficiency_index": numProp("Production efficiency index"),
		}, "id"),
		run: func(ctx context.Context, args *UpdateBroilerBatchArgs) (any, error) {
			patch := map[string]interface{}{}
			if args.StartDate != nil {
				patch["start_date"] = *args.StartDate
			}
			if args.IncomingCount != nil {
				patch["incoming_count"] = *args.IncomingCount
			}
			if args.State != nil {
				patch["state"] = *args.State
			}
			if args.SlaughterDate != nil {
				patch["slaughter_date"] = *args.SlaughterDate
			}
			if args.EfficiencyIndex != nil {
				patch["efficiency_index"] = decimal.NewFromFloat(*args.EfficiencyIndex)
			}
			updated, err := models.UpdateBroilerBatch(ctx, args.ID, patch)
			if err != nil {
				return nil, err
			}
			return tagType(updated, "broiler_batch")
		},
	})

	r.Register(&handler[FinalizeBroilerBatchArgs]{
		kind:        "finalize_broiler_batch",
		description: "Close an active broiler batch, recording its slaughter date and marking it finished.",
		parameters: objectSchema(map[string]any{
			"id":             strProp("Broiler batch id (uuid)"),
			"slaughter_date": dateProp("Slaughter date, YYYY-MM-DD"),
		}, "id", "slaughter_date"),
		run: func(ctx context.Context, args *FinalizeBroilerBatchArgs) (any, error) {
			finished, err := models.FinalizeBroilerBatch(ctx, args.ID, args.SlaughterDate)
			if err != nil {
				return nil, err
			}
			return tagType(finished, "broiler_batch")
		},
	})

	r.Register(&handler[ListBroilerBatchesArgs]{
		kind:        "list_broiler_batches",
		description: "List broiler batches newest first, optionally filtered by shed, state or farm.",
		parameters: objectSchema(map[string]any{
			"shed_id":   strProp("Only batches in this shed"),
			"state":     enumProp("Only batches in this state", "active", "finished"),
			"farm_id":   strProp("Only batches in sheds of this farm"),
			"farm_name": strProp("Farm name, used when the farm id is unknown"),
		}),
		run: func(ctx context.Context, args *ListBroilerBatchesArgs) (any, error) {
			shedId, state, farmId := "", "", ""
			if args.ShedID != nil {
				shedId = *args.ShedID
			}
			if args.State != nil {
				state = *args.State
			}
			if args.FarmID != nil {
				farmId = *args.FarmID
			} else if args.FarmName != nil {
				resolved, err := models.ResolveFarmIDByName(ctx, *args.FarmName)
				if err != nil {
					return nil, err
				}
				farmId = resolved
			}
			batches, err := models.ListBroilerBatches(ctx, shedId, state, farmId)
			if err != nil {
				return nil, err
			}
			return tagTypeSlice(batches, "broiler_batch")
		},
	})

	r.Register(&handler[DeleteBroilerBatchArgs]{
		kind:        "delete_broiler_batch",
		description: "Delete a broiler batch by id.",
		parameters: objectSchema(map[string]any{
			"id": strProp("Broiler batch id (uuid)"),
		}, "id"),
		run: func(ctx context.Context, args *DeleteBroilerBatchArgs) (any, error) {
			deleted, err := models.DeleteBroilerBatch(ctx, args.ID)
			if err != nil {
				return nil, err
			}
			row, err := tagType(deleted, "broiler_batch")
			if err != nil {
				return nil, err
			}
			row["deleted"] = true
			return row, nil
		},
	})

	r.Register(&handler[BroilerBatchOverviewArgs]{
		kind:        "broiler_batch_overview",
		description: "Full picture of one broiler batch: its data, shed and farm, age, weekly follow-ups, traceability links and the expected standard curve point for its current age.",
		parameters: objectSchema(map[string]any{
			"id": strProp("Broiler batch id (uuid)"),
		}, "id"),
		run: func(ctx context.Context, args *BroilerBatchOverviewArgs) (any, error) {
			batch, err := models.GetBroilerBatch(ctx, args.ID)
			if err != nil {
				return nil, err
			}
			shed, err := models.GetShed(ctx, batch.ShedID)
			if err != nil {
				return nil, err
			}
			farm, err := models.GetFarm(ctx, shed.FarmID)
			if err != nil {
				return nil, err
			}
			followUps, err := models.ListFollowUpsByBatch(ctx, args.ID)
			if err != nil {
				return nil, err
			}
			links, err := models.ListTraceabilityByBatch(ctx, args.ID)
			if err != nil {
				return nil, err
			}
			age := batchAgeInDays(batch.StartDate, time.Now())

			// The expected curve comes from the genetic line of the first
			// linked breeder batch; unlinked batches have no expectation.
			var curvePoint *models.StandardCurvePoint
			for _, link := range links {
				if link.BreederBatch == nil {
					continue
				}
				curvePoint, err = models.GetStandardCurvePoint(ctx, link.BreederBatch.GeneticLineID, age)
				if err != nil {
					return nil, err
				}
				break
			}

			return batchOverview(batch, shed, farm, age, followUps, links, curvePoint)
		},
	})
}

// batchOverview assembles the composite envelope: the batch, the shed it runs
// in, that shed's farm, the derived age, the weekly follow-ups, the
// traceability links and the expected curve point (nil when no breeder batch
// is linked).
func batchOverview(batch *models.BroilerBatch, shed *models.Shed, farm *models.Farm, age int,
	followUps []models.WeeklyFollowUp, links []models.BroilerTraceabilityLink,
	curvePoint *models.StandardCurvePoint) (map[string]any, error) {
	batchRow, err := tagType(batch, "broiler_batch")
	if err != nil {
		return nil, err
	}
	shedRow, err := tagType(shed, "shed")
	if err != nil {
		return nil, err
	}
	farmRow, err := tagType(farm, "farm")
	if err != nil {
		return nil, err
	}
	followUpRows, err := tagTypeSlice(followUps, "weekly_follow_up")
	if err != nil {
		return nil, err
	}
	linkRows, err := tagTypeSlice(links, "traceability_link")
	if err != nil {
		return nil, err
	}
	overview := map[string]any{
		"type":           "broiler_batch_overview",
		"batch":          batchRow,
		"shed":           shedRow,
		"farm":           farmRow,
		"age_in_days":    age,
		"follow_ups":     followUpRows,
		"traceability":   linkRows,
		"standard_curve": nil,
	}
	if curvePoint != nil {
		pointRow, err := tagType(curvePoint, "standard_curve_point")
		if err != nil {
			return nil, err
		}
		overview["standard_curve"] = pointRow
	}
	return overview, nil
}
