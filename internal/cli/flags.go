package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:"tracker.yaml"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
}

// RunCommand runs the tracking agent: it consumes browser events on
// stdin, aggregates locally, and syncs to the server.
type RunCommand struct {
	globals *GlobalFlags
}

// RegisterCommand registers this agent's identity on the server.
type RegisterCommand struct {
	Nickname string `long:"nickname" description:"Display name to register (required)"`

	globals *GlobalFlags
}

// StatusCommand prints today's totals and the registered identity.
type StatusCommand struct {
	globals *GlobalFlags
}

// PruneCommand applies retention pruning to the local store.
type PruneCommand struct {
	globals *GlobalFlags
}
