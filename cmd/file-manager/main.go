package main

import (
	"os"

	"file-manager-plugin/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
