package main

import (
	"os"

	"github.com/rustyeddy/magnate/cmd/magnate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
