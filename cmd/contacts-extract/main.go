// Package main is the entry point for the contacts-extract CLI.
package main

import (
	"os"

	"github.com/robertrahardja/mac-contacts-extract/cmd/contacts-extract/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
