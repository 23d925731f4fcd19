package actions

import (
	"context"
	"errors"

	"github.com/granjadata/avicola_backend/models"
)

type CreateBreederBatchArgs struct {
	ID              string  `json:"id" validate:"required,min=1,max=64"`
	FarmID          *string `json:"farm_id,omitempty" validate:"omitempty,uuid"`
	FarmName        *string `json:"farm_name,omitempty" validate:"omitempty,min=1"`
	GeneticLineID   *string `json:"genetic_line_id,omitempty" validate:"omitempty,uuid"`
	GeneticLineName *string `json:"genetic_line_name,omitempty" validate:"omitempty,min=1"`
	BirthDate       string  `json:"birth_date" validate:"required,datetime=2006-01-02"`
	InitialCount    int     `json:"initial_count" validate:"required,gt=0"`
}

func (a *CreateBreederBatchArgs) crossCheck() error {
	if a.FarmID == nil && a.FarmName == nil {
		return errors.New("provide farm_id or farm_name")
	}
	if a.GeneticLineID == nil && a.GeneticLineName == nil {
		return errors.New("provide genetic_line_id or genetic_line_name")
	}
	return nil
}

type ListBreederBatchesArgs struct {
	Query           *string `json:"query,omitempty"`
	FarmID          *string `json:"farm_id,omitempty" validate:"omitempty,uuid"`
	FarmName        *string `json:"farm_name,omitempty" validate:"omitempty,min=1"`
	GeneticLineID   *string `json:"genetic_line_id,omitempty" validate:"omitempty,uuid"`
	GeneticLineName *string `json:"genetic_line_name,omitempty" validate:"omitempty,min=1"`
}

func registerBreederBatchHandlers(r *Registry) {
	r.Register(&handler[CreateBreederBatchArgs]{
		kind:        "create_breeder_batch",
		description: "Register a breeder batch with its own code as id, tied to a farm and a genetic line.",
		parameters: objectSchema(map[string]any{
			"id":                strProp("Breeder batch code, supplied by the caller"),
			"farm_id":           strProp("Id of the farm"),
			"farm_name":         strProp("Name of the farm, used when the id is unknown"),
			"genetic_line_id":   strProp("Id of the genetic line"),
			"genetic_line_name": strProp("Name of the genetic line, used when the id is unknown"),
			"birth_date":        dateProp("Birth date of the batch, YYYY-MM-DD"),
			"initial_count":     intProp("Number of birds at the start"),
		}, "id", "birth_date", "initial_count"),
		run: func(ctx context.Context, args *CreateBreederBatchArgs) (any, error) {
			farmId, err := resolveFarmRef(ctx, args.FarmID, args.FarmName)
			if err != nil {
				return nil, err
			}
			lineId := ""
			if args.GeneticLineID != nil {
				lineId = *args.GeneticLineID
			} else {
				lineId, err = models.ResolveGeneticLineIDByName(ctx, *args.GeneticLineName)
				if err != nil {
					return nil, err
				}
			}
			created, err := models.CreateBreederBatch(ctx, &models.BreederBatch{
				ID:            args.ID,
				FarmID:        farmId,
				GeneticLineID: lineId,
				BirthDate:     args.BirthDate,
				InitialCount:  args.InitialCount,
			})
			if err != nil {
				return nil, err
			}
			return tagType(created, "breeder_batch")
		},
	})

	r.Register(&handler[ListBreederBatchesArgs]{
		kind:        "list_breeder_batches",
		description: "List breeder batches ordered by id, optionally filtered by code, farm or genetic line.",
		parameters: objectSchema(map[string]any{
			"query":             strProp("Partial batch code to filter by"),
			"farm_id":           strProp("Only batches of this farm"),
			"farm_name":         strProp("Farm name, used when the farm id is unknown"),
			"genetic_line_id":   strProp("Only batches of this genetic line"),
			"genetic_line_name": strProp("Genetic line name, used when the id is unknown"),
		}),
		run: func(ctx context.Context, args *ListBreederBatchesArgs) (any, error) {
			q, farmId, lineId := "", "", ""
			if args.Query != nil {
				q = *args.Query
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
			if args.GeneticLineID != nil {
				lineId = *args.GeneticLineID
			} else if args.GeneticLineName != nil {
				resolved, err := models.ResolveGeneticLineIDByName(ctx, *args.GeneticLineName)
				if err != nil {
					return nil, err
				}
				lineId = resolved
			}
			batches, err := models.ListBreederBatches(ctx, q, farmId, lineId)
			if err != nil {
				return nil, err
			}
			return tagTypeSlice(batches, "breeder_batch")
		},
	})
}
