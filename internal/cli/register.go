package cli

import (
	"context"
	"fmt"
	"strings"

	"studybee/internal/aggregate"
	"studybee/internal/syncclient"
)

// Execute registers the nickname on the server and stores the returned
// identity locally so that future syncs carry it.
func (cmd *RegisterCommand) Execute(_ []string) error {
	nickname := strings.TrimSpace(cmd.Nickname)
	if nickname == "" {
		return fmt.Errorf("--nickname is required")
	}

	env, err := setup(cmd.globals)
	if err != nil {
		return err
	}
	defer env.store.Close()

	ctx := context.Background()
	existing, err := env.store.RegisteredUser(ctx)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("already registered as %q (user %s)", existing.Nickname, existing.UserID)
	}

	client := syncclient.New(env.conf.ServerURL, aggregate.New(env.store), env.store, env.log)
	user, err := client.Register(ctx, nickname)
	if err != nil {
		return err
	}

	fmt.Printf("registered as %q (user %s)\n", user.Nickname, user.UserID)
	return nil
}
