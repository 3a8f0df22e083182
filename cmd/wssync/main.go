// Package main provides the entry point for the wssync CLI.
package main

import (
	"fmt"
	"os"

	"github.com/wssync/wssync/cmd/wssync/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
