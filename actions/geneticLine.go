package actions

import (
	"context"

	"github.com/granjadata/avicola_backend/models"
)

type CreateGeneticLineArgs struct {
	Name string `json:"name" validate:"required,min=1"`
}

type ListGeneticLinesArgs struct {
	Query *string `json:"query,omitempty"`
}

func registerGeneticLineHandlers(r *Registry) {
	r.Register(&handler[CreateGeneticLineArgs]{
		kind:        "create_genetic_line",
		description: "Register a genetic line (breed) by name.",
		parameters: objectSchema(map[string]any{
			"name": strProp("Genetic line name, e.g. Ross 308 or Cobb 500"),
		}, "name"),
		run: func(ctx context.Context, args *CreateGeneticLineArgs) (any, error) {
			created, err := models.CreateGeneticLine(ctx, &models.GeneticLine{Name: args.Name})
			if err != nil {
				return nil, err
			}
			return tagType(created, "genetic_line")
		},
	})

	r.Register(&handler[ListGeneticLinesArgs]{
		kind:        "list_genetic_lines",
		description: "List genetic lines ordered by name, optionally filtered by a partial name match.",
		parameters: objectSchema(map[string]any{
			"query": strProp("Partial genetic line name to filter by"),
		}),
		run: func(ctx context.Context, args *ListGeneticLinesArgs) (any, error) {
			q := ""
			if args.Query != nil {
				q = *args.Query
			}
			lines, err := models.ListGeneticLines(ctx, q)
			if err != nil {
				return nil, err
			}
			return tagTypeSlice(lines, "genetic_line")
		},
	})
}
