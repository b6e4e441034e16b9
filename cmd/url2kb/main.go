// Package main provides the entry point for the url2kb CLI.
package main

import (
	"os"

	"github.com/kbtools/url2kb/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
