// main is the entry point for the slippistats CLI.
package main

import (
	"os"

	"github.com/huangsam/slippistats/cmd"
	"github.com/huangsam/slippistats/internal/contract"
	"github.com/huangsam/slippistats/internal/iocache"
)

func main() {
	cmd.SetStoreManager(iocache.Manager)

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Cannot stop profiling", stopErr)
	}
	iocache.CloseStores()

	if err != nil {
		contract.LogWarn("Command failed", err)
		os.Exit(1)
	}
}
