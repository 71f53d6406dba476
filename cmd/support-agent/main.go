// Command support-agent runs the customer support center worker.
package main

import (
	"fmt"
	"os"

	"github.com/voxmesh/voxmesh/agents/support"
	"github.com/voxmesh/voxmesh/worker"
)

func main() {
	if err := worker.Run(worker.Options{
		AgentName:  "support-agent",
		Entrypoint: support.Entrypoint,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
