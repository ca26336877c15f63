package main

import (
	"fmt"
	"os"

	"studybee/internal/cli"
)

func main() {
	if err := cli.Run(nil); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
