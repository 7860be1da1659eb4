package main

import (
	"os"

	"github.com/msto63/propkit/cmd/propctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
