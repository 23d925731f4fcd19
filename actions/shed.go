package actions

import (
	"context"
	"errors"

	"github.com/granjadata/avicola_backend/models"
)

type CreateShedArgs struct {
	FarmID   *string `json:"farm_id,omitempty" validate:"omitempty,uuid"`
	FarmName *string `json:"farm_name,omitempty" validate:"omitempty,min=1"`
	Code     string  `json:"code" validate:"required,min=1"`
	Capacity *int    `json:"capacity,omitempty" validate:"omitempty,gt=0"`
	State    *string `json:"state,omitempty" validate:"omitempty,oneof=empty rearing cleaning maintenance"`
}

func (a *CreateShedArgs) crossCheck() error {
	if a.FarmID == nil && a.FarmName == nil {
		return errors.New("provide farm_id or farm_name")
	}
	return nil
}

type UpdateShedArgs struct {
	ID       string  `json:"id" validate:"required,uuid"`
	Code     *string `json:"code,omitempty" validate:"omitempty,min=1"`
	Capacity *int    `json:"capacity,omitempty" validate:"omitempty,gt=0"`
	State    *string `json:"state,omitempty" validate:"omitempty,oneof=empty rearing cleaning maintenance"`
}

func (a *UpdateShedArgs) crossCheck() error {
	if a.Code == nil && a.Capacity == nil && a.State == nil {
		return errors.New("provide at least one field to update")
	}
	return nil
}

type ListShedsArgs struct {
	Query *string `json:"query,omitempty"`
}

type ListShedsByFarmArgs struct {
	FarmID   *string `json:"farm_id,omitempty" validate:"omitempty,uuid"`
	FarmName *string `json:"farm_name,omitempty" validate:"omitempty,min=1"`
}

func (a *ListShedsByFarmArgs) crossCheck() error {
	if a.FarmID == nil && a.FarmName == nil {
		return errors.New("provide farm_id or farm_name")
	}
	return nil
}

type DeleteShedArgs struct {
	ID string `json:"id" validate:"required,uuid"`
}

// resolveFarmRef canonicalizes a farm reference to an id, resolving the name
// through the store only when no id was given.
func resolveFarmRef(ctx context.Context, id *string, name *string) (string, error) {
	if id != nil {
		return *id, nil
	}
	return models.ResolveFarmIDByName(ctx, *name)
}

func registerShedHandlers(r *Registry) {
	r.Register(&handler[CreateShedArgs]{
		kind:        "create_shed",
		description: "Create a shed inside a farm, referenced by farm id or farm name.",
		parameters: objectSchema(map[string]any{
			"farm_id":   strProp("Id of the farm the shed belongs to"),
			"farm_name": strProp("Name of the farm, used when the id is unknown"),
			"code":      strProp("Shed code, unique within the farm"),
			"capacity":  intProp("Bird capacity of the shed"),
			"state":     enumProp("Current state of the shed", "empty", "rearing", "cleaning", "maintenance"),
		}, "code"),
		run: func(ctx context.Context, args *CreateShedArgs) (any, error) {
			farmId, err := resolveFarmRef(ctx, args.FarmID, args.FarmName)
			if err != nil {
				return nil, err
			}
			shed := &models.Shed{FarmID: farmId, Code: args.Code, Capacity: args.Capacity}
			if args.State != nil {
				s := models.ShedState(*args.State)
				shed.State = &s
			}
			created, err := models.CreateShed(ctx, shed)
			if err != nil {
				return nil, err
			}
			return tagType(created, "shed")
		},
	})

	r.Register(&handler[UpdateShedArgs]{
		kind:        "update_shed",
		description: "Update a shed's code, capacity or state by id.",
		parameters: objectSchema(map[string]any{
			"id":       strProp("Shed id (uuid)"),
			"code":     strProp("New shed code"),
			"capacity": intProp("New capacity"),
			"state":    enumProp("New shed state", "empty", "rearing", "cleaning", "maintenance"),
		}, "id"),
		run: func(ctx context.Context, args *UpdateShedArgs) (any, error) {
			patch := map[string]interface{}{}
			if args.Code != nil {
				patch["code"] = *args.Code
			}
			if args.Capacity != nil {
				patch["capacity"] = *args.Capacity
			}
			if args.State != nil {
				patch["state"] = *args.State
			}
			updated, err := models.UpdateShed(ctx, args.ID, patch)
			if err != nil {
				return nil, err
			}
			return tagType(updated, "shed")
		},
	})

	r.Register(&handler[ListShedsArgs]{
		kind:        "list_sheds",
		description: "List all sheds ordered by code, optionally filtered by a partial code match.",
		parameters: objectSchema(map[string]any{
			"query": strProp("Partial shed code to filter by"),
		}),
		run: func(ctx context.Context, args *ListShedsArgs) (any, error) {
			q := ""
			if args.Query != nil {
				q = *args.Query
			}
			sheds, err := models.ListSheds(ctx, q, "")
			if err != nil {
				return nil, err
			}
			return tagTypeSlice(sheds, "shed")
		},
	})

	r.Register(&handler[ListShedsByFarmArgs]{
		kind:        "list_sheds_by_farm",
		description: "List the sheds of one farm, referenced by farm id or farm name.",
		parameters: objectSchema(map[string]any{
			"farm_id":   strProp("Id of the farm"),
			"farm_name": strProp("Name of the farm, used when the id is unknown"),
		}),
		run: func(ctx context.Context, args *ListShedsByFarmArgs) (any, error) {
			farmId, err := resolveFarmRef(ctx, args.FarmID, args.FarmName)
			if err != nil {
				return nil, err
			}
			sheds, err := models.ListSheds(ctx, "", farmId)
			if err != nil {
				return nil, err
			}
			return tagTypeSlice(sheds, "shed")
		},
	})

	r.Register(&handler[DeleteShedArgs]{
		kind:        "delete_shed",
		description: "Delete a shed by id.",
		parameters: objectSchema(map[string]any{
			"id": strProp("Shed id (uuid)"),
		}, "id"),
		run: func(ctx context.Context, args *DeleteShedArgs) (any, error) {
			deleted, err := models.DeleteShed(ctx, args.ID)
			if err != nil {
				return nil, err
			}
			row, err := tagType(deleted, "shed")
			if err != nil {
				return nil, err
			}
			row["deleted"] = true
			return row, nil
		},
	})
}
