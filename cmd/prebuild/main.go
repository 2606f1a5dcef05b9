package main

import (
	"os"

	"github.com/mwbennett/prebuild/cmd/prebuild/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
