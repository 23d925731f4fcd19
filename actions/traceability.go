package actions

import (
	"context"

	"github.com/granjadata/avicola_backend/models"
)

type LinkTraceabilityArgs struct {
	BroilerBatchID string `json:"broiler_batch_id" validate:"required,uuid"`
	BreederBatchID string `json:"breeder_batch_id" validate:"required,min=1,max=64"`
}

type UnlinkTraceabilityArgs struct {
	BroilerBatchID string `json:"broiler_batch_id" validate:"required,uuid"`
	BreederBatchID string `json:"breeder_batch_id" validate:"required,min=1,max=64"`
}

type ListTraceabilityArgs struct {
	BroilerBatchID string `json:"broiler_batch_id" validate:"required,uuid"`
}

func registerTraceabilityHandlers(r *Registry) {
	r.Register(&handler[LinkTraceabilityArgs]{
		kind:        "link_traceability",
		description: "Link a broiler batch to the breeder batch it descends from.",
		parameters: objectSchema(map[string]any{
			"broiler_batch_id": strProp("Broiler batch id (uuid)"),
			"breeder_batch_id": strProp("Breeder batch code"),
		}, "broiler_batch_id", "breeder_batch_id"),
		run: func(ctx context.Context, args *LinkTraceabilityArgs) (any, error) {
			link, err := models.LinkTraceability(ctx, &models.BroilerTraceabilityLink{
				BroilerBatchID: args.BroilerBatchID,
				BreederBatchID: args.BreederBatchID,
			})
			if err != nil {
				return nil, err
			}
			return tagType(link, "traceability_link")
		},
	})

	r.Register(&handler[UnlinkTraceabilityArgs]{
		kind:        "unlink_traceability",
		description: "Remove the traceability link between a broiler batch and a breeder batch.",
		parameters: objectSchema(map[string]any{
			"broiler_batch_id": strProp("Broiler batch id (uuid)"),
			"breeder_batch_id": strProp("Breeder batch code"),
		}, "broiler_batch_id", "breeder_batch_id"),
		run: func(ctx context.Context, args *UnlinkTraceabilityArgs) (any, error) {
			removed, err := models.UnlinkTraceability(ctx, args.BroilerBatchID, args.BreederBatchID)
			if err != nil {
				return nil, err
			}
			row, err := tagType(removed, "traceability_link")
			if err != nil {
				return nil, err
			}
			row["deleted"] = true
			return row, nil
		},
	})

	r.Register(&handler[ListTraceabilityArgs]{
		kind:        "list_traceability",
		description: "List the breeder batches a broiler batch is linked to, with their genetic lines.",
		parameters: objectSchema(map[string]any{
			"broiler_batch_id": strProp("Broiler batch id (uuid)"),
		}, "broiler_batch_id"),
		run: func(ctx context.Context, args *ListTraceabilityArgs) (any, error) {
			links, err := models.ListTraceabilityByBatch(ctx, args.BroilerBatchID)
			if err != nil {
				return nil, err
			}
			return tagTypeSlice(links, "traceability_link")
		},
	})
}
