package main

import (
	"os"

	fleetscopecmder "github.com/fleetscope/fleetscope/cmd/fleetscope"
)

func main() {
	cmd := fleetscopecmder.NewFleetscopeCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
