package contentstore

import (
	"context"
	"log/slog"
)

// Mutation is one intended write: either a whole-document create-or-replace
// or a field patch on an existing id. Both are idempotent, replaying a
// mutation produces the same stored state.
type Mutation struct {
	CreateOrReplace map[string]any `json:"createOrReplace,omitempty"`
	Patch           *Patch         `json:"patch,omitempty"`
}

type Patch struct {
	Id  string         `json:"id"`
	Set map[string]any `json:"set"`
}

func NewCreateOrReplace(doc any) (Mutation, error) {
	encoded, err := toDocument(doc)
	if err != nil {
		return Mutation{}, err
	}
	return Mutation{CreateOrReplace: encoded}, nil
}

func NewPatch(id string, set map[string]any) Mutation {
	return Mutation{Patch: &Patch{Id: id, Set: set}}
}

// BatchSize is how many mutations are submitted per request.
const BatchSize = 50

// ApplyBatches partitions mutations into fixed-size batches and submits each
// batch independently. A failed batch is logged and skipped, the remaining
// batches are still attempted. Returns the number of mutations confirmed
// applied, which may be less than len(mutations).
func (c *Client) ApplyBatches(ctx context.Context, mutations []Mutation) int {
	applied := 0
	for start := 0; start < len(mutations); start += BatchSize {
		end := start + BatchSize
		if end > len(mutations) {
			end = len(mutations)
		}
		batch := mutations[start:end]

		err := c.mutate(ctx, batch)
		if err != nil {
			slog.WarnContext(
				ctx, "mutation batch failed, continuing",
				"batch_start", start,
				"batch_size", len(batch),
				"err", err,
			)
			continue
		}
		applied += len(batch)
		slog.InfoContext(ctx, "applied mutation batch", "applied", applied, "total", len(mutations))
	}
	return applied
}
