package main

import (
	"os"

	"github.com/vzahanych/darksky-forecast/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
