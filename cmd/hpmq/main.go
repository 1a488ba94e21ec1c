package main

import (
	"github.com/netfuse/hpmq/pkg/cli"
	"github.com/netfuse/hpmq/pkg/util/console"
)

func main() {
	cmd, err := cli.NewRootCommand()
	if err != nil {
		console.Fatalf("%s", err)
	}

	if err = cmd.Execute(); err != nil {
		console.Fatalf("%s", err)
	}
}
