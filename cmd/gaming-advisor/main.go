// Command gaming-advisor runs the NexusGuide gaming advisor worker.
package main

import (
	"fmt"
	"os"

	"github.com/voxmesh/voxmesh/agents/advisor"
	"github.com/voxmesh/voxmesh/worker"
)

func main() {
	if err := worker.Run(worker.Options{
		AgentName:  "gaming-advisor",
		Entrypoint: advisor.Entrypoint,
		Prewarm:    advisor.Prewarm,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
