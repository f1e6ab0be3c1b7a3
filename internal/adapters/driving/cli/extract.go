package cli

import (
	"context"

	"github.com/custodia-labs/admitscan-cli/internal/core/domain"
	"github.com/custodia-labs/admitscan-cli/internal/core/ports/driven"
)

// collectUnits drains an extractor's streams, returning the units and
// the number of per-source failures. Failures are already logged by
// the extractor.
func collectUnits(ctx context.Context, extractor driven.Extractor) ([]domain.DocumentUnit, int) {
	unitCh, errCh := extractor.Extract(ctx)

	failures := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range errCh {
			failures++
		}
	}()

	var units []domain.DocumentUnit
	for unit := range unitCh {
		units = append(units, unit)
	}
	<-done

	return units, failures
}
