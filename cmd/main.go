package main

import (
	"os"

	"kyoto-kentei/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
