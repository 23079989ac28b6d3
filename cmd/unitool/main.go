// Package main is the entry point for the unitool CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/unitool/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
