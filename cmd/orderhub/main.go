package main

import (
	"os"

	"github.com/oakworks/orderhub/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
