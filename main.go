package main

import (
	"os"

	"github.com/ByLCY/vitae/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
