package sheets

import (
	"context"

	"budgetly/internal/core"
)

// LedgerWriter appends one audit row per expense event and returns a
// reference to where it landed.
type LedgerWriter interface {
	Append(ctx context.Context, entry core.LedgerEntry) (rowRef string, err error)
}
