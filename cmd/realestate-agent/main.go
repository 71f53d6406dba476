// Command realestate-agent runs the virtual real estate agency worker.
package main

import (
	"fmt"
	"os"

	"github.com/voxmesh/voxmesh/agents/realestate"
	"github.com/voxmesh/voxmesh/worker"
)

func main() {
	if err := worker.Run(worker.Options{
		AgentName:  "realestate-agent",
		Entrypoint: realestate.Entrypoint,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
