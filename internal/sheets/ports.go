package sheets

import (
	"context"

	"ledger/internal/services"
)

// Ports for outbound adapters.
type (
	// ExportWriter publishes the export table of one month, replacing
	// whatever was published for that month before.
	ExportWriter interface {
		WriteMonth(ctx context.Context, exp services.Export) (ref string, err error)
	}
)
