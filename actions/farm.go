package actions

import (
	"context"
	"errors"

	"github.com/granjadata/avicola_backend/models"
)

type CreateFarmArgs struct {
	Name     string  `json:"name" validate:"required,min=1"`
	Location *string `json:"location,omitempty" validate:"omitempty,min=1"`
	Type     *string `json:"type,omitempty" validate:"omitempty,oneof=owned leased integrated"`
}

type UpdateFarmArgs struct {
	ID       string  `json:"id" validate:"required,uuid"`
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Location *string `json:"location,omitempty"`
	Type     *string `json:"type,omitempty" validate:"omitempty,oneof=owned leased integrated"`
}

func (a *UpdateFarmArgs) crossCheck() error {
	if a.Name == nil && a.Location == nil && a.Type == nil {
		return errors.New("provide at least one field to update")
	}
	return nil
}

type ListFarmsArgs struct {
	Query *string `json:"query,omitempty"`
}

type DeleteFarmArgs struct {
	ID string `json:"id" validate:"required,uuid"`
}

func registerFarmHandlers(r *Registry) {
	r.Register(&handler[CreateFarmArgs]{
		kind:        "create_farm",
		description: "Register a new farm with its name and optionally location and ownership type.",
		parameters: objectSchema(map[string]any{
			"name":     strProp("Farm name, unique across the system"),
			"location": strProp("Free-form location of the farm"),
			"type":     enumProp("Ownership type of the farm", "owned", "leased", "integrated"),
		}, "name"),
		run: func(ctx context.Context, args *CreateFarmArgs) (any, error) {
			farm := &models.Farm{Name: args.Name, Location: args.Location}
			if args.Type != nil {
				t := models.FarmType(*args.Type)
				farm.Type = &t
			}
			created, err := models.CreateFarm(ctx, farm)
			if err != nil {
				return nil, err
			}
			return tagType(created, "farm")
		},
	})

	r.Register(&handler[UpdateFarmArgs]{
		kind:        "update_farm",
		description: "Update the name, location or type of an existing farm by id.",
		parameters: objectSchema(map[string]any{
			"id":       strProp("Farm id (uuid)"),
			"name":     strProp("New farm name"),
			"location": strProp("New location"),
			"type":     enumProp("New ownership type", "owned", "leased", "integrated"),
		}, "id"),
		run: func(ctx context.Context, args *UpdateFarmArgs) (any, error) {
			patch := map[string]interface{}{}
			if args.Name != nil {
				patch["name"] = *args.Name
			}
			if args.Location != nil {
				patch["location"] = *args.Location
			}
			if args.Type != nil {
				patch["type"] = *args.Type
			}
			updated, err := models.UpdateFarm(ctx, args.ID, patch)
			if err != nil {
				return nil, err
			}
			return tagType(updated, "farm")
		},
	})

	r.Register(&handler[ListFarmsArgs]{
		kind:        "list_farms",
		description: "List farms ordered by name, optionally filtered by a partial name match.",
		parameters: objectSchema(map[string]any{
			"query": strProp("Partial farm name to filter by"),
		}),
		run: func(ctx context.Context, args *ListFarmsArgs) (any, error) {
			q := ""
			if args.Query != nil {
				q = *args.Query
			}
			farms, err := models.ListFarms(ctx, q)
			if err != nil {
				return nil, err
			}
			return tagTypeSlice(farms, "farm")
		},
	})

	r.Register(&handler[DeleteFarmArgs]{
		kind:        "delete_farm",
		description: "Delete a farm by id.",
		parameters: objectSchema(map[string]any{
			"id": strProp("Farm id (uuid)"),
		}, "id"),
		run: func(ctx context.Context, args *DeleteFarmArgs) (any, error) {
			deleted, err := models.DeleteFarm(ctx, args.ID)
			if err != nil {
				return nil, err
			}
			row, err := tagType(deleted, "farm")
			if err != nil {
				return nil, err
			}
			row["deleted"] = true
			return row, nil
		},
	})
}
