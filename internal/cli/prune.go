package cli

import (
	"context"
	"fmt"
	"time"

	"studybee/internal/aggregate"
	"studybee/internal/civil"
)

// Execute removes sessions and stat buckets older than the retention
// window. The run command prunes automatically; this is for agents that
// were offline long enough for history to pile up.
func (cmd *PruneCommand) Execute(_ []string) error {
	env, err := setup(cmd.globals)
	if err != nil {
		return err
	}
	defer env.store.Close()

	cutoff := civil.CutoffDate(time.Now(), aggregate.RetentionDays)
	removed, err := env.store.PruneBefore(context.Background(), cutoff)
	if err != nil {
		return err
	}

	fmt.Printf("removed %d row(s) older than %s\n", removed, cutoff)
	return nil
}
