// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rowsource supplies the input rows for a batch run. The pipeline
// treats the row source as an external collaborator: a source that cannot
// be queried at all is a whole-batch precondition failure, the only error
// reported at batch rather than row level.
package rowsource

import (
	"context"

	"github.com/Idriss-Abidi/ExpertAI/pkg/types"
)

// Source yields the raw rows of one batch in a stable order.
type Source interface {
	Rows(ctx context.Context) ([]types.RawRecord, error)
}
