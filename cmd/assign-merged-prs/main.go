// Package main is the entry point for the assign-merged-prs CLI.
package main

import (
	"os"

	_ "golang.org/x/crypto/x509roots/fallback"

	"github.com/similigh/assign-merged-prs/cmd/assign-merged-prs/commands"
)

func main() {
	os.Exit(commands.Execute())
}
