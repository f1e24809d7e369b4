package main

import (
	"os"

	"cinegraph/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
