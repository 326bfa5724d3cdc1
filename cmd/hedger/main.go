package main

import (
	"os"

	"github.com/rustyeddy/hedger/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
