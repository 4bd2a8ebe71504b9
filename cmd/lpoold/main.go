package main

import (
	"os"

	"github.com/paw-chain/lpool/cmd/lpoold/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
