package actions

import (
	"context"
	"errors"

	"github.com/granjadata/avicola_backend/models"
)

type GetStandardCurveArgs struct {
	GeneticLineID   *string `json:"genetic_line_id,omitempty" validate:"omitempty,uuid"`
	GeneticLineName *string `json:"genetic_line_name,omitempty" validate:"omitempty,min=1"`
	AgeInDays       int     `json:"age_in_days" validate:"gte=0,lte=150"`
}

func (a *GetStandardCurveArgs) crossCheck() error {
	if a.GeneticLineID == nil && a.GeneticLineName == nil {
		return errors.New("provide genetic_line_id or genetic_line_name")
	}
	return nil
}

func registerStandardCurveHandlers(r *Registry) {
	r.Register(&handler[GetStandardCurveArgs]{
		kind:        "get_standard_curve",
		description: "Look up the expected weight and mortality of a genetic line at a given age in days.",
		parameters: objectSchema(map[string]any{
			"genetic_line_id":   strProp("Id of the genetic line"),
			"genetic_line_name": strProp("Name of the genetic line, used when the id is unknown"),
			"age_in_days":       intProp("Age of the birds in days"),
		}, "age_in_days"),
		run: func(ctx context.Context, args *GetStandardCurveArgs) (any, error) {
			lineId := ""
			if args.GeneticLineID != nil {
				lineId = *args.GeneticLineID
			} else {
				resolved, err := models.ResolveGeneticLineIDByName(ctx, *args.GeneticLineName)
				if err != nil {
					return nil, err
				}
				lineId = resolved
			}
			point, err := models.GetStandardCurvePoint(ctx, lineId, args.AgeInDays)
			if err != nil {
				return nil, err
			}
			if point == nil {
				return map[string]any{
					"type":            "standard_curve_point",
					"genetic_line_id": lineId,
					"age_in_days":     args.AgeInDays,
					"found":           false,
				}, nil
			}
			row, err := tagType(point, "standard_curve_point")
			if err != nil {
				return nil, err
			}
			row["found"] = true
			return row, nil
		},
	})
}
